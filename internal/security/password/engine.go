// Package password decides whether a candidate password may be committed.
//
// The Engine reads its policy from a settings.Provider on every call, scans
// the forbidden-word dictionary and the forbidden-password list, and returns
// a Verdict. It never logs and never emits audit records; callers do that
// with the Verdict. Every scratch copy of the candidate, and the caller's
// buffer itself, is zeroed before Validate returns.
package password

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/pwfilter/internal/security/wordlist"
	"github.com/dropDatabas3/pwfilter/internal/settings"
)

// DefaultScope is the settings namespace the four keys live under.
const DefaultScope = "pwfilter"

// Settings keys.
const (
	KeyWordsDictionaryFile     = "words_dictionary_file"
	KeyPasswordsListFile       = "passwords_list_file"
	KeyWordsDictionaryDisabled = "words_dictionary_filter_disabled"
	KeyPasswordsListDisabled   = "passwords_list_filter_disabled"
)

// Request is one credential change. The engine owns Password for the
// duration of Validate and zeroes it before returning.
type Request struct {
	AccountName string
	FullName    string
	Password    []byte

	// SetOperation is true for an administrator-forced set, which is
	// accepted without checks.
	SetOperation bool
}

// Options configures NewEngine; the zero value is usable.
type Options struct {
	// Scope defaults to DefaultScope.
	Scope string

	// Allocator defaults to LimitAllocator(MaxPasswordBytes).
	Allocator Allocator

	// List tunes how word lists are opened (size ceiling).
	List wordlist.Options
}

// Engine holds no per-call state and is safe for concurrent use.
type Engine struct {
	settings settings.Provider
	scope    string
	alloc    Allocator
	list     wordlist.Options
}

// NewEngine returns an Engine reading its settings from p on every call.
func NewEngine(p settings.Provider, opts Options) *Engine {
	e := &Engine{settings: p, scope: opts.Scope, alloc: opts.Allocator, list: opts.List}
	if e.scope == "" {
		e.scope = DefaultScope
	}
	if e.alloc == nil {
		e.alloc = LimitAllocator(MaxPasswordBytes)
	}
	// Inspect uses Tee; a shared writer would be raced across calls.
	e.list.Tee = nil
	return e
}

// Scope returns the settings namespace in use.
func (e *Engine) Scope() string { return e.scope }

// Validate runs the pipeline: forced check, scratch copies, toggles,
// dictionary, blacklist. The first failing step decides the verdict; every
// failure other than a list match denies with a fail-closed reason.
func (e *Engine) Validate(ctx context.Context, req Request) Verdict {
	var asIs, folded *Secret
	defer func() {
		asIs.Destroy()
		folded.Destroy()
		Wipe(req.Password)
	}()

	if req.SetOperation {
		return allow(ReasonForcedChange, PhaseForcedCheck)
	}

	var err error
	if asIs, err = NewSecret(e.alloc, req.Password); err != nil {
		return deny(ReasonAllocationFailure, PhaseAllocate, err)
	}
	if folded, err = NewSecret(e.alloc, req.Password); err != nil {
		return deny(ReasonAllocationFailure, PhaseAllocate, err)
	}
	wordlist.FoldASCIIBytes(folded.Bytes())

	dictOff, err := e.settings.GetBool(ctx, e.scope, DictionaryMatcher.DisabledKey)
	if err != nil {
		return e.configUnreadable(DictionaryMatcher.DisabledKey, err)
	}
	listOff, err := e.settings.GetBool(ctx, e.scope, BlacklistMatcher.DisabledKey)
	if err != nil {
		return e.configUnreadable(BlacklistMatcher.DisabledKey, err)
	}

	var stats ScanStats
	if !dictOff {
		v, n := e.runPhase(ctx, DictionaryMatcher, folded.Bytes())
		stats.Dictionary = n
		if !v.Compliant {
			v.Scanned = stats
			return v
		}
	}
	if !listOff {
		v, n := e.runPhase(ctx, BlacklistMatcher, asIs.Bytes())
		stats.Blacklist = n
		if !v.Compliant {
			v.Scanned = stats
			return v
		}
	}

	v := allow(ReasonNone, PhaseVerdict)
	v.Scanned = stats
	return v
}

func (e *Engine) configUnreadable(key string, err error) Verdict {
	v := deny(ReasonConfigUnreadable, PhaseConfigRead, err)
	v.Scope, v.Key = e.scope, key
	return v
}

// runPhase opens the list behind m and scans it. It returns a compliant
// Verdict when the list was exhausted without a match.
func (e *Engine) runPhase(ctx context.Context, m Matcher, candidate []byte) (Verdict, int) {
	path, ok := e.settings.GetString(ctx, e.scope, m.PathKey)
	if !ok || path == "" {
		v := deny(ReasonResourceUnavailable, m.Phase,
			fmt.Errorf("%w: %s list path %s/%s not configured", wordlist.ErrUnavailable, m.Kind, e.scope, m.PathKey))
		v.Scope, v.Key = e.scope, m.PathKey
		return v, 0
	}

	l, err := wordlist.Open(path, e.list)
	if err != nil {
		v := deny(ReasonResourceUnavailable, m.Phase, err)
		v.Scope, v.Key, v.Path = e.scope, m.PathKey, path
		return v, 0
	}
	defer l.Close()

	matched, n, err := m.Scan(l, candidate)
	switch {
	case errors.Is(err, wordlist.ErrMalformedEntry):
		v := deny(ReasonMalformedEntry, m.Phase, err)
		v.Path = l.Path()
		return v, n
	case err != nil:
		v := deny(ReasonResourceUnavailable, m.Phase, err)
		v.Scope, v.Key, v.Path = e.scope, m.PathKey, l.Path()
		return v, n
	case matched:
		return deny(m.Match, m.Phase, nil), n
	}
	return Verdict{Compliant: true}, n
}
