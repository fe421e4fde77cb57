// Package kvstore defines the key-value persistence contract used for
// behavior logs, preferences and priority lists.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store is a minimal key-value store
type Store interface {
	// Get returns the value and true, or nil and false when the key is absent
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Lister is implemented by stores that can enumerate their keys
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// BehaviorPrefix starts every behavior log key
const BehaviorPrefix = "behavior:"

// Key builders for the values kept per user
func BehaviorKey(userID string) string    { return BehaviorPrefix + userID }
func PreferencesKey(userID string) string { return "prefs:" + userID }
func PrioritiesKey(userID string) string  { return "priorities:" + userID }

// GetJSON decodes the value stored under key into dst.
// Returns false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kvstore: get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return true, nil
}

// BehaviorUsers lists the users with a stored behavior log, sorted.
// Stores that cannot enumerate keys report no users.
func BehaviorUsers(ctx context.Context, s Store) ([]string, error) {
	l, ok := s.(Lister)
	if !ok {
		return nil, nil
	}
	keys, err := l.Keys(ctx, BehaviorPrefix)
	if err != nil {
		return nil, fmt.Errorf("kvstore: list %s*: %w", BehaviorPrefix, err)
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, strings.TrimPrefix(k, BehaviorPrefix))
	}
	sort.Strings(users)
	return users, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("kvstore: set %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements Store
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Store
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Keys implements Lister
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
