package blob

import (
	"context"
	"io"
	"sync"
)

// Memory is an in-process Storage for tests and single-node development.
type Memory struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory store. URLs are prefixed with
// baseURL so handler tests see the same shape a real backend produces.
func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

func (m *Memory) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key = sanitizeKey(key)

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()

	return m.baseURL + "/" + key, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	key = sanitizeKey(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

// Get returns a stored object, for assertions in tests.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[sanitizeKey(key)]
	return data, ok
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
