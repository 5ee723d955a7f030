package password

import (
	"errors"
	"fmt"
	"runtime"
)

// MaxPasswordBytes bounds the scratch copies made of a candidate.
const MaxPasswordBytes = 1024

// ErrAllocation reports a scratch buffer that could not be obtained.
var ErrAllocation = errors.New("password: allocation failure")

// Allocator hands out scratch buffers for secret material. Tests inject one
// that keeps every buffer so it can check they were zeroed.
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

type limitAllocator struct{ limit int }

// LimitAllocator refuses requests larger than limit bytes.
func LimitAllocator(limit int) Allocator { return limitAllocator{limit: limit} }

func (a limitAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 || n > a.limit {
		return nil, fmt.Errorf("%w: %d bytes requested, limit %d", ErrAllocation, n, a.limit)
	}
	return make([]byte, n), nil
}

// Secret owns one scratch copy of a password. Destroy zeroes it; callers
// defer Destroy right after NewSecret succeeds.
type Secret struct {
	b []byte
}

// NewSecret copies src into a buffer obtained from a.
func NewSecret(a Allocator, src []byte) (*Secret, error) {
	b, err := a.Alloc(len(src))
	if err != nil {
		if !errors.Is(err, ErrAllocation) {
			err = fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return nil, err
	}
	if len(b) < len(src) {
		Wipe(b)
		return nil, fmt.Errorf("%w: short buffer (%d < %d)", ErrAllocation, len(b), len(src))
	}
	b = b[:len(src)]
	copy(b, src)
	return &Secret{b: b}, nil
}

// Bytes exposes the buffer. It must not be retained past Destroy.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Destroy zeroes the whole backing array. Nil-safe and idempotent.
func (s *Secret) Destroy() {
	if s == nil || s.b == nil {
		return
	}
	Wipe(s.b[:cap(s.b)])
	s.b = nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
