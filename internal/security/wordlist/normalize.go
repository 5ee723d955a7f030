package wordlist

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Normalize turns a raw line into a comparison token. It strips one trailing
// "\r\n" or "\n", or the lone "\r" of a last line cut before its '\n'.
// It reports ok=false for lines left empty, and rejects entries wider than
// MaxEntryWidth with ErrMalformedEntry. With fold set the entry is passed
// through FoldASCII.
func Normalize(raw string, fold bool) (entry string, ok bool, err error) {
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		raw = raw[:len(raw)-2]
	case strings.HasSuffix(raw, "\n"):
		raw = raw[:len(raw)-1]
	case strings.HasSuffix(raw, "\r"):
		raw = raw[:len(raw)-1]
	}
	if raw == "" {
		return "", false, nil
	}
	if n := utf8.RuneCountInString(raw); n > MaxEntryWidth {
		return "", false, fmt.Errorf("%w: %d characters, limit %d", ErrMalformedEntry, n, MaxEntryWidth)
	}
	if fold {
		raw = FoldASCII(raw)
	}
	return raw, true, nil
}

// FoldASCII lower-cases A-Z only. Every other character, non-ASCII letters
// included, is returned unchanged.
func FoldASCII(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	FoldASCIIBytes(b[i:])
	return string(b)
}

// FoldASCIIBytes is FoldASCII in place. UTF-8 continuation and lead bytes are
// all >= 0x80, so multi-byte characters are never touched.
func FoldASCIIBytes(b []byte) {
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}
