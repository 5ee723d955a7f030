package wordlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Encode converts UTF-8 text, one entry per line, into the on-disk list
// format: FF FE marker, UTF-16LE, CRLF terminators. Blank lines are dropped.
// It returns the encoded bytes and the number of entries written, and fails
// when an entry is too wide or the result would exceed maxBytes.
func Encode(r io.Reader, maxBytes int64) ([]byte, int, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

	var out bytes.Buffer
	out.Write(byteOrderMark[:])

	sc := bufio.NewScanner(r)
	entries, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			return nil, 0, fmt.Errorf("line %d: invalid UTF-8", lineNo)
		}
		if n := utf8.RuneCountInString(line); n > MaxEntryWidth {
			return nil, 0, fmt.Errorf("%w: line %d has %d characters, limit %d", ErrMalformedEntry, lineNo, n, MaxEntryWidth)
		}
		b, err := enc.Bytes([]byte(line + "\r\n"))
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out.Write(b)
		if int64(out.Len()) > maxBytes {
			return nil, 0, fmt.Errorf("encoded list exceeds %d bytes at line %d", maxBytes, lineNo)
		}
		entries++
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return out.Bytes(), entries, nil
}
