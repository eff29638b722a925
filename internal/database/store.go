package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventPublisher receives every journaled event after it has been stored.
type EventPublisher interface {
	Publish(eventData []byte)
}

type Store struct {
	pool      *pgxpool.Pool
	publisher EventPublisher
	*Queries
}

func NewStore(pool *pgxpool.Pool, publisher EventPublisher) *Store {
	return &Store{
		pool:      pool,
		publisher: publisher,
		Queries:   New(pool),
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// LogEvent journals the event and forwards it to the publisher, if any.
func (s *Store) LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) (*Event, error) {
	event, err := s.Queries.LogEvent(ctx, userID, eventType, payload)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		eventBytes, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event: %w", err)
		}
		s.publisher.Publish(eventBytes)
	}

	return event, nil
}
