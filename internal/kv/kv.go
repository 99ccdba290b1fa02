// Package kv is the synchronous key/value persistence the funnel writes its
// device-scoped state to (queued leads, counter state).
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Fixed namespaces. Each has exactly one writer.
const (
	KeyPreorders   = "multicrypto_preorders"
	KeyPeopleCount = "multicrypto_people_count"
	KeyLastUpdate  = "multicrypto_last_update"
)

// Store is a string key/value store. Get reports ok=false for missing keys;
// an empty store is a valid first-run state.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// GetJSON decodes the value under key into dest. Missing keys leave dest untouched.
func GetJSON(ctx context.Context, s Store, key string, dest interface{}) (bool, error) {
	val, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Memory is an in-process Store, used in tests and when no durable backend is wanted.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
