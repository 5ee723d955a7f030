// Package settings exposes the read-only key/value lookup the password filter
// reads its policy from. Every backend is queried fresh on each call and
// nothing is cached, so an administrator's change is visible to the very
// next validation.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnreadable reports a boolean setting that is absent, cannot be fetched,
// or does not parse. It is never the same thing as false.
var ErrUnreadable = errors.New("settings: value unreadable")

// Provider is the lookup the engine depends on.
type Provider interface {
	// GetString returns the value stored under scope/key, or ok=false when it
	// is absent or cannot be read.
	GetString(ctx context.Context, scope, key string) (value string, ok bool)

	// GetBool returns the boolean stored under scope/key. Any failure wraps
	// ErrUnreadable.
	GetBool(ctx context.Context, scope, key string) (bool, error)
}

// lookupFunc is the raw read every backend implements.
type lookupFunc func(ctx context.Context, scope, key string) (value string, found bool, err error)

func (f lookupFunc) GetString(ctx context.Context, scope, key string) (string, bool) {
	v, found, err := f(ctx, scope, key)
	if err != nil || !found {
		return "", false
	}
	return v, true
}

func (f lookupFunc) GetBool(ctx context.Context, scope, key string) (bool, error) {
	v, found, err := f(ctx, scope, key)
	if err != nil {
		return false, fmt.Errorf("%w: %s/%s: %w", ErrUnreadable, scope, key, err)
	}
	if !found {
		return false, fmt.Errorf("%w: %s/%s is not set", ErrUnreadable, scope, key)
	}
	b, err := ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s/%s: %w", scope, key, err)
	}
	return b, nil
}

// ParseBool accepts what strconv.ParseBool accepts ("1", "0", "true",
// "FALSE", ...) after trimming spaces. DWORD-style 0/1 values land here too.
func ParseBool(raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrUnreadable, raw)
	}
	return b, nil
}
