package artifact

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store implementation for testing.
// It stores artifacts in memory without any filesystem dependency.
// Thread-safe for concurrent reads and writes.
type Memory struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

// NewMemory creates a new in-memory artifact store.
func NewMemory() *Memory {
	return &Memory{
		artifacts: make(map[string][]byte),
	}
}

// Put writes an artifact atomically.
func (m *Memory) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	m.artifacts[name] = copied

	return nil
}

// Open reads the full content of an artifact.
func (m *Memory) Open(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.artifacts[name]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)

	return copied, nil
}

// List returns all artifact names with the given prefix.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.artifacts {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes an artifact.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.artifacts, name)

	return nil
}
