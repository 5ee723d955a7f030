package password

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecret(t *testing.T) {
	src := []byte("hunter2")
	s, err := NewSecret(LimitAllocator(16), src)
	require.NoError(t, err)
	require.Equal(t, src, s.Bytes())

	b := s.Bytes()
	s.Destroy()
	require.Equal(t, make([]byte, len(src)), b)
	require.Nil(t, s.Bytes())
	s.Destroy()

	var nilSecret *Secret
	nilSecret.Destroy()
	require.Nil(t, nilSecret.Bytes())
}

func TestSecret_AllocatorErrors(t *testing.T) {
	_, err := NewSecret(LimitAllocator(4), []byte("hunter2"))
	require.ErrorIs(t, err, ErrAllocation)

	_, err = NewSecret(allocFunc(func(int) ([]byte, error) { return nil, errors.New("boom") }), []byte("x"))
	require.ErrorIs(t, err, ErrAllocation)

	short := []byte{9, 9}
	_, err = NewSecret(allocFunc(func(int) ([]byte, error) { return short, nil }), []byte("hunter2"))
	require.ErrorIs(t, err, ErrAllocation)
	require.Equal(t, []byte{0, 0}, short)
}

func TestSecret_WipesWholeBackingArray(t *testing.T) {
	backing := make([]byte, 8)
	for i := range backing {
		backing[i] = 0xAA
	}
	s, err := NewSecret(allocFunc(func(int) ([]byte, error) { return backing, nil }), []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "abc", string(s.Bytes()))
	s.Destroy()
	require.Equal(t, make([]byte, 8), backing)
}

func TestReason(t *testing.T) {
	require.Equal(t, "dictionary_match", ReasonDictionaryMatch.String())
	require.Equal(t, "configuration_unreadable", ReasonConfigUnreadable.String())
	require.Equal(t, "unknown", Reason(99).String())
	require.True(t, ReasonBlacklistMatch.PolicyDecision())
	require.False(t, ReasonBlacklistMatch.FailClosed())
	require.True(t, ReasonAllocationFailure.FailClosed())
	require.False(t, ReasonForcedChange.FailClosed())
	require.False(t, ReasonNone.PolicyDecision())
}

type allocFunc func(int) ([]byte, error)

func (f allocFunc) Alloc(n int) ([]byte, error) { return f(n) }
