// Package tickettest provides an in-memory expiring key-value store for
// tests. Expiry is driven by an internal clock advanced explicitly, so
// window-lapse behaviour is testable without sleeping.
package tickettest

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    string
	deadline time.Time
}

type Store struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]entry

	// Err, when set, fails every operation with it.
	Err error
}

func NewStore() *Store {
	return &Store{
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		entries: map[string]entry{},
	}
}

// Advance moves the store's clock forward, expiring entries whose TTL has
// lapsed.
func (s *Store) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = s.now.Add(d)
}

func (s *Store) SetEx(ctx context.Context, key string, value string, ttl time.Duration) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, deadline: s.now.Add(ttl)}
	return nil
}

func (s *Store) GetDel(ctx context.Context, key string) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	delete(s.entries, key)

	if !ok || !e.deadline.After(s.now) {
		return "", false, nil
	}

	return e.value, true, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *Store) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	if s.Err != nil {
		return 0, false, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]

	if !ok || !e.deadline.After(s.now) {
		return 0, false, nil
	}

	return e.deadline.Sub(s.now), true, nil
}
