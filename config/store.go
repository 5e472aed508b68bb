package config

import (
	"sync"
	"sync/atomic"
)

// Store holds the live configuration. Readers take a private copy with
// Snapshot; writers build a complete new Config, validate it and swap it in,
// so a reader never sees a half-applied change.
type Store struct {
	cur atomic.Pointer[Config]
	mu  sync.Mutex // serialises writers
}

// NewStore validates cfg and wraps a copy of it.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Store{}
	s.cur.Store(&cfg)
	return s, nil
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Config {
	return *s.cur.Load()
}

// Update applies fn to a copy of the current configuration and publishes it
// when valid. On error the current configuration is left untouched.
func (s *Store) Update(fn func(*Config)) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cur.Load()
	fn(&next)
	if err := next.Validate(); err != nil {
		return *s.cur.Load(), err
	}
	s.cur.Store(&next)
	return next, nil
}

// Replace publishes cfg when valid.
func (s *Store) Replace(cfg Config) error {
	_, err := s.Update(func(c *Config) { *c = cfg })
	return err
}
