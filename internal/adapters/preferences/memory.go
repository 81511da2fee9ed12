// Package preferences implements the preference store: small per-user
// values such as the nav drawer lock flag. MemoryStore keeps values for the
// life of the process; RedisStore persists them in Redis.
package preferences

import (
	"context"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/ports"
)

var _ ports.PreferenceStore = (*MemoryStore)(nil)

// MemoryStore is an in-process preference store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements ports.PreferenceStore.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements ports.PreferenceStore.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
