package memory

import (
	"context"
	"sync"
)

// Storage is an in-memory identifier store. Identifiers kept here do not
// survive a restart, matching a browser session without local storage.
type Storage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewStorage() *Storage {
	return &Storage{items: map[string]string{}}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[key], nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}
