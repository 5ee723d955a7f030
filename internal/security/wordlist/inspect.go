package wordlist

import (
	"encoding/hex"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// Report summarises one list for administrators. It never carries entries.
type Report struct {
	Path        string
	Size        int64
	Lines       int
	Entries     int
	Blank       int
	Longest     int
	Fingerprint string // BLAKE2b-256 of the file, set only when the whole file was read
	Err         error
}

// OK reports whether the list would be accepted by the filter.
func (r Report) OK() bool { return r.Err == nil }

// Inspect opens path exactly as the filter does and walks every line,
// stopping at the first malformed one.
func Inspect(path string, opts Options) Report {
	rep := Report{Path: path}
	if fi, err := os.Stat(path); err == nil {
		rep.Size = fi.Size()
	}

	h, _ := blake2b.New256(nil)
	opts.Tee = h
	l, err := Open(path, opts)
	if err != nil {
		rep.Err = err
		return rep
	}
	defer l.Close()

	for {
		raw, err := l.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rep.Err = err
			rep.Lines = l.Line()
			return rep
		}
		entry, ok, err := Normalize(raw, false)
		if err != nil {
			rep.Err = err
			rep.Lines = l.Line()
			return rep
		}
		if !ok {
			rep.Blank++
			continue
		}
		rep.Entries++
		if n := utf8.RuneCountInString(entry); n > rep.Longest {
			rep.Longest = n
		}
	}
	rep.Lines = l.Line()
	rep.Fingerprint = hex.EncodeToString(h.Sum(nil))
	return rep
}
