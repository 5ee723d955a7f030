package password

import (
	"bytes"
	"errors"
	"io"

	"github.com/dropDatabas3/pwfilter/internal/security/wordlist"
)

// Matcher describes one of the two list checks.
type Matcher struct {
	// Kind is "dictionary" or "blacklist"; it is the only thing the audit
	// trail learns about a match.
	Kind string

	// Fold lower-cases entries (ASCII only). The candidate handed to Scan
	// must be folded the same way.
	Fold bool

	PathKey     string
	DisabledKey string
	Phase       Phase
	Match       Reason
}

var (
	// DictionaryMatcher rejects candidates containing a forbidden word,
	// ignoring ASCII case.
	DictionaryMatcher = Matcher{
		Kind:        "dictionary",
		Fold:        true,
		PathKey:     KeyWordsDictionaryFile,
		DisabledKey: KeyWordsDictionaryDisabled,
		Phase:       PhaseDictionary,
		Match:       ReasonDictionaryMatch,
	}

	// BlacklistMatcher rejects candidates containing a forbidden password,
	// case-sensitively.
	BlacklistMatcher = Matcher{
		Kind:        "blacklist",
		Fold:        false,
		PathKey:     KeyPasswordsListFile,
		DisabledKey: KeyPasswordsListDisabled,
		Phase:       PhaseBlacklist,
		Match:       ReasonBlacklistMatch,
	}
)

// LineSource is what Scan reads entries from; *wordlist.List implements it.
type LineSource interface {
	Next() (string, error)
}

// Scan reports whether any entry of src occurs inside candidate. It stops at
// the first match and at the first malformed entry, returning
// wordlist.ErrMalformedEntry for the latter. scanned counts non-blank entries
// compared, the matching one included.
func (m Matcher) Scan(src LineSource, candidate []byte) (matched bool, scanned int, err error) {
	for {
		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			return false, scanned, nil
		}
		if err != nil {
			return false, scanned, err
		}
		entry, ok, err := wordlist.Normalize(raw, m.Fold)
		if err != nil {
			return false, scanned, err
		}
		if !ok {
			continue
		}
		scanned++
		if bytes.Contains(candidate, []byte(entry)) {
			return true, scanned, nil
		}
	}
}
