package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fdogov/ordersync/internal/entity"
	"github.com/fdogov/ordersync/internal/store"
)

// EventStore implements the store.EventStore interface for PostgreSQL
type EventStore struct {
	db *DB
}

// NewEventStore creates a new instance of EventStore
func NewEventStore(db *DB) *EventStore {
	return &EventStore{
		db: db,
	}
}

// Create records an applied event for idempotency
func (s *EventStore) Create(ctx context.Context, event *entity.ProcessedEvent) error {
	query := `
		INSERT INTO events (id, order_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.Primary(ctx).ExecContext(
		ctx,
		query,
		event.ID,
		event.OrderID,
		event.CreatedAt,
	)

	if err != nil {
		if err = store.HandlePGError(err); errors.Is(err, entity.ErrDuplicateKey) {
			// Повторная запись того же события — уже применено
			return entity.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create event record: %w", err)
	}

	return nil
}

// GetByEventID gets an applied-event record by event identifier
func (s *EventStore) GetByEventID(ctx context.Context, eventID string) (*entity.ProcessedEvent, error) {
	query := `
		SELECT *
		FROM events
		WHERE id = $1
		LIMIT 1
	`

	var event entity.ProcessedEvent
	err := s.db.Replica().GetContext(ctx, &event, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return &event, nil
}
