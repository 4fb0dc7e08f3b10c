package docstore

import (
	"context"
	"sync"
)

// NewMemory returns a process-local store. It backs tests and the
// STORE_DRIVER=memory development mode; nothing survives a restart.
func NewMemory() Store {
	return &tree{b: &memoryBackend{data: map[string]map[string]any{}}}
}

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func (m *memoryBackend) collection(_ context.Context, coll string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.data[coll]))
	for k, v := range m.data[coll] {
		c, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

func (m *memoryBackend) document(_ context.Context, coll, key string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return normalize(m.data[coll][key])
}

func (m *memoryBackend) mutate(_ context.Context, coll, key string, fn func(cur any) any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, err := normalize(m.data[coll][key])
	if err != nil {
		return err
	}
	next := prune(fn(cur))
	if next == nil {
		delete(m.data[coll], key)
		if len(m.data[coll]) == 0 {
			delete(m.data, coll)
		}
		return nil
	}
	if m.data[coll] == nil {
		m.data[coll] = map[string]any{}
	}
	m.data[coll][key] = next
	return nil
}

func (m *memoryBackend) dropCollection(_ context.Context, coll string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, coll)
	return nil
}
