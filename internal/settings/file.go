package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore reads a YAML document shaped as
//
//	pwfilter:
//	  words_dictionary_file: /etc/pwfilter/words.txt
//	  words_dictionary_filter_disabled: "0"
//
// The file is parsed again on every lookup.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) lookup(_ context.Context, scope, key string) (string, bool, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, err
	}
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return "", false, fmt.Errorf("parse %s: %w", s.path, err)
	}
	v, ok := doc[scope][key]
	return v, ok, nil
}

func (s *FileStore) GetString(ctx context.Context, scope, key string) (string, bool) {
	return lookupFunc(s.lookup).GetString(ctx, scope, key)
}

func (s *FileStore) GetBool(ctx context.Context, scope, key string) (bool, error) {
	return lookupFunc(s.lookup).GetBool(ctx, scope, key)
}
