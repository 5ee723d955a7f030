package settings

import (
	"context"
	"os"
	"strings"
)

// EnvStore maps scope/key to the environment variable PREFIX + SCOPE_KEY,
// upper-cased, with every character outside [A-Z0-9] replaced by '_'.
// pwfilter/words_dictionary_file becomes PWFILTER_WORDS_DICTIONARY_FILE.
type EnvStore struct {
	Prefix string

	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// VarName returns the environment variable consulted for scope/key.
func (s EnvStore) VarName(scope, key string) string {
	name := strings.ToUpper(s.Prefix + scope + "_" + key)
	return strings.Map(func(r rune) rune {
		if ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
}

func (s EnvStore) lookup(_ context.Context, scope, key string) (string, bool, error) {
	get := s.Lookup
	if get == nil {
		get = os.LookupEnv
	}
	v, ok := get(s.VarName(scope, key))
	return v, ok, nil
}

func (s EnvStore) GetString(ctx context.Context, scope, key string) (string, bool) {
	return lookupFunc(s.lookup).GetString(ctx, scope, key)
}

func (s EnvStore) GetBool(ctx context.Context, scope, key string) (bool, error) {
	return lookupFunc(s.lookup).GetBool(ctx, scope, key)
}
