// Package wordlist opens and streams the forbidden-word dictionary and the
// forbidden-password list consumed by the password filter.
//
// A list is a UTF-16LE text file that starts with the FF FE marker, holds one
// entry per line and is never larger than DefaultMaxBytes unless the caller
// raises the ceiling. Lists are opened read-only with write sharing denied and
// are streamed line by line; the whole file is never held in memory.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultMaxBytes is the size ceiling applied when Options.MaxBytes is zero.
	DefaultMaxBytes int64 = 1 << 20

	// MaxEntryWidth is the maximum number of characters in one entry,
	// terminator excluded.
	MaxEntryWidth = 64
)

var (
	// ErrUnavailable reports a list that cannot be used: missing, locked by a
	// writer, too big, or without the encoding marker.
	ErrUnavailable = errors.New("wordlist: resource unavailable")

	// ErrMalformedEntry reports a line wider than MaxEntryWidth.
	ErrMalformedEntry = errors.New("wordlist: malformed entry")
)

var byteOrderMark = [2]byte{0xFF, 0xFE}

// Options tunes Open.
type Options struct {
	// MaxBytes is the size ceiling of the whole file, marker included.
	MaxBytes int64

	// Tee, when set, receives every raw byte read from the file, marker
	// included. Inspect uses it to fingerprint a list while scanning it.
	Tee io.Writer
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// List is a single-pass stream of raw lines.
type List struct {
	path   string
	f      *os.File
	r      *bufio.Reader
	line   int
	closed bool
}

// Open validates the list at path and returns a stream positioned after the
// encoding marker. Every failure wraps ErrUnavailable.
func Open(path string, opts Options) (*List, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnavailable)
	}
	path = filepath.Clean(path)
	limit := opts.maxBytes()

	f, err := openShared(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}
	l := &List{path: path, f: f}

	fi, err := f.Stat()
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", ErrUnavailable, path, err)
	}
	if !fi.Mode().IsRegular() {
		l.Close()
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrUnavailable, path)
	}
	if fi.Size() > limit {
		l.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrUnavailable, path, fi.Size(), limit)
	}

	var bom [2]byte
	if _, err := io.ReadFull(f, bom[:]); err != nil {
		l.Close()
		return nil, fmt.Errorf("%w: %s has no encoding marker", ErrUnavailable, path)
	}
	if bom != byteOrderMark {
		l.Close()
		return nil, fmt.Errorf("%w: %s is not UTF-16LE (marker %02X %02X)", ErrUnavailable, path, bom[0], bom[1])
	}

	// The stat above is the ceiling check; the limit only stops a file that
	// grows while it is being read.
	var body io.Reader = io.LimitReader(f, limit-int64(len(bom)))
	if opts.Tee != nil {
		_, _ = opts.Tee.Write(bom[:])
		body = io.TeeReader(body, opts.Tee)
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	l.r = bufio.NewReader(transform.NewReader(body, dec))
	return l, nil
}

// Path returns the cleaned path the list was opened from.
func (l *List) Path() string { return l.path }

// Line returns the number of lines returned so far.
func (l *List) Line() int { return l.line }

// Next returns the next raw line, terminator included when present, or
// io.EOF once the list is exhausted. A line that runs past MaxEntryWidth
// characters plus a CRLF terminator without a '\n' is reported as
// ErrMalformedEntry without reading the rest of it.
func (l *List) Next() (string, error) {
	if l.closed {
		return "", fmt.Errorf("%w: %s already closed", ErrUnavailable, l.path)
	}
	var b strings.Builder
	n := 0
	for {
		r, _, err := l.r.ReadRune()
		if err == io.EOF {
			if n == 0 {
				return "", io.EOF
			}
			l.line++
			return b.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %w", ErrUnavailable, l.path, err)
		}
		b.WriteRune(r)
		n++
		if r == '\n' {
			l.line++
			return b.String(), nil
		}
		// One extra rune of slack for the '\r' of a CRLF terminator.
		if n > MaxEntryWidth+1 {
			return "", fmt.Errorf("%w: %s line %d is longer than %d characters", ErrMalformedEntry, l.path, l.line+1, MaxEntryWidth)
		}
	}
}

// Close releases the handle and the share lock. It is safe to call twice.
func (l *List) Close() error {
	if l == nil || l.closed {
		return nil
	}
	l.closed = true
	return l.f.Close()
}
