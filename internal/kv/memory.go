package kv

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is what Memory returns from Set while FailWrites is on.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Memory is an in-process Store, used in tests and when no data dir is set.
type Memory struct {
	mu         sync.Mutex
	data       map[string]string
	failWrites bool
	writes     int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get reads a key.
func (m *Memory) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set writes a key unless FailWrites is on.
func (m *Memory) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrQuotaExceeded
	}
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Remove deletes a key.
func (m *Memory) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FailWrites makes subsequent Set calls fail with ErrQuotaExceeded.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Writes returns how many Set calls succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
