package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/quiz-signup/internal/domain"
)

// PendingStore keeps pending signups in process memory. Records never expire on
// their own; expiry is evaluated by the caller.
type PendingStore struct {
	mu      sync.Mutex
	records map[string]domain.PendingSignup
}

func NewPendingStore() *PendingStore {
	return &PendingStore{records: make(map[string]domain.PendingSignup)}
}

func (s *PendingStore) Get(_ context.Context, key string) (*domain.PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("pending signup not found: %w", domain.ErrNotFound)
	}
	return clonePending(p), nil
}

func (s *PendingStore) Put(_ context.Context, p *domain.PendingSignup, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(p.Key, expectedVersion); err != nil {
		return err
	}
	p.Version = expectedVersion + 1
	s.records[p.Key] = *clonePending(*p)
	return nil
}

func (s *PendingStore) Update(_ context.Context, key string, expectedVersion int64, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expectedVersion == 0 {
		return fmt.Errorf("update requires an existing record: %w", domain.ErrConflict)
	}
	if err := s.checkVersion(key, expectedVersion); err != nil {
		return err
	}
	p := clonePending(s.records[key])
	if err := p.Apply(updates); err != nil {
		return err
	}
	p.Version = expectedVersion + 1
	s.records[key] = *p
	return nil
}

func (s *PendingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *PendingStore) checkVersion(key string, expected int64) error {
	cur, ok := s.records[key]
	switch {
	case !ok && expected == 0:
		return nil
	case ok && cur.Version == expected:
		return nil
	default:
		return fmt.Errorf("pending signup %s changed concurrently: %w", key, domain.ErrConflict)
	}
}

func clonePending(p domain.PendingSignup) *domain.PendingSignup {
	if p.LockedUntil != nil {
		t := *p.LockedUntil
		p.LockedUntil = &t
	}
	return &p
}
