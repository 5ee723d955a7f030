package settings

import (
	"context"
	"sync"
)

// Map is an in-memory Provider. It is safe for concurrent use and can be
// changed between calls, which makes it the natural fake in tests.
type Map struct {
	mu sync.RWMutex
	m  map[string]map[string]string
}

// NewMap builds a Map from scope -> key -> value. The input is copied.
func NewMap(init map[string]map[string]string) *Map {
	m := &Map{m: map[string]map[string]string{}}
	for scope, kv := range init {
		for k, v := range kv {
			m.Set(scope, k, v)
		}
	}
	return m
}

func (m *Map) Set(scope, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.m[scope] == nil {
		m.m[scope] = map[string]string{}
	}
	m.m[scope][key] = value
}

func (m *Map) Delete(scope, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m[scope], key)
}

func (m *Map) lookup(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[scope][key]
	return v, ok, nil
}

func (m *Map) GetString(ctx context.Context, scope, key string) (string, bool) {
	return lookupFunc(m.lookup).GetString(ctx, scope, key)
}

func (m *Map) GetBool(ctx context.Context, scope, key string) (bool, error) {
	return lookupFunc(m.lookup).GetBool(ctx, scope, key)
}
