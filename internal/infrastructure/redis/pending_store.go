package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quiz-signup/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PendingStore keeps pending signups as JSON values under "pending_signup:<key>".
// Writes run inside WATCH/MULTI so a concurrent change aborts the transaction.
// The key expires at the record's ExpiresAt.
type PendingStore struct {
	client *redis.Client
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func NewPendingStore(client *redis.Client) *PendingStore {
	return &PendingStore{client: client}
}

func (s *PendingStore) Get(ctx context.Context, key string) (*domain.PendingSignup, error) {
	return s.load(ctx, s.client, s.key(key))
}

func (s *PendingStore) Put(ctx context.Context, p *domain.PendingSignup, expectedVersion int64) error {
	next := *p
	next.Version = expectedVersion + 1
	rkey := s.key(p.Key)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.load(ctx, tx, rkey)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if expectedVersion != 0 {
				return s.conflict(p.Key)
			}
		case err != nil:
			return err
		case current.Version != expectedVersion:
			return s.conflict(p.Key)
		}
		return s.write(ctx, tx, rkey, &next)
	}, rkey)
	if err != nil {
		return s.mapTxErr(err, p.Key)
	}
	p.Version = next.Version
	return nil
}

func (s *PendingStore) Update(ctx context.Context, key string, expectedVersion int64, updates map[string]interface{}) error {
	rkey := s.key(key)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.load(ctx, tx, rkey)
		if errors.Is(err, domain.ErrNotFound) {
			return s.conflict(key)
		}
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return s.conflict(key)
		}
		if err := current.Apply(updates); err != nil {
			return err
		}
		current.Version++
		return s.write(ctx, tx, rkey, current)
	}, rkey)
	return s.mapTxErr(err, key)
}

func (s *PendingStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *PendingStore) load(ctx context.Context, c getter, rkey string) (*domain.PendingSignup, error) {
	raw, err := c.Get(ctx, rkey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pending signup not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var p domain.PendingSignup
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode pending signup %s: %w", rkey, err)
	}
	return &p, nil
}

func (s *PendingStore) write(ctx context.Context, tx *redis.Tx, rkey string, p *domain.PendingSignup) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending signup: %w", err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rkey, payload, 0)
		if p.ExpiresAt > 0 {
			pipe.ExpireAt(ctx, rkey, time.Unix(p.ExpiresAt, 0))
		}
		return nil
	})
	return err
}

func (s *PendingStore) mapTxErr(err error, key string) error {
	if errors.Is(err, redis.TxFailedErr) {
		return s.conflict(key)
	}
	return err
}

func (s *PendingStore) conflict(key string) error {
	return fmt.Errorf("pending signup %s changed concurrently: %w", key, domain.ErrConflict)
}

func (s *PendingStore) key(key string) string {
	return "pending_signup:" + key
}
