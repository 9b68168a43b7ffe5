// Package memory provides an in-memory config.Store implementation.
// Intended for tests and single-process embeddings. Configuration is not
// persisted across restarts.
package memory

import (
	"context"
	"sync"

	"columnstore/internal/config"
)

// Store is an in-memory config.Store implementation.
type Store struct {
	mu  sync.RWMutex
	cfg *config.EngineConfig
}

var _ config.Store = (*Store)(nil)

// NewStore creates a new in-memory config.Store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the stored configuration, or nil if Save has never been
// called.
func (s *Store) Load(ctx context.Context) (*config.EngineConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, nil
	}
	cp := *s.cfg
	return &cp, nil
}

// Save persists cfg, replacing any previously saved configuration.
func (s *Store) Save(ctx context.Context, cfg *config.EngineConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cfg
	s.cfg = &cp
	return nil
}
