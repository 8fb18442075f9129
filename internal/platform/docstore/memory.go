package docstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and single-binary setups.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func docKey(table, scope string) string {
	return scope + "/" + table
}

// Read returns the stored document or nil when absent.
func (m *Memory) Read(_ context.Context, table, scope string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[docKey(table, scope)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Write overwrites the document.
func (m *Memory) Write(_ context.Context, table string, payload []byte, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := make([]byte, len(payload))
	copy(doc, payload)
	m.docs[docKey(table, scope)] = doc
	return nil
}
