package postgres

import (
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fdogov/ordersync/internal/config"
	"github.com/fdogov/ordersync/internal/store"
)

// Store implements all data stores
type Store struct {
	db             *DB
	orderStore     store.OrderStore
	eventStore     store.EventStore
	watermarkStore store.WatermarkStore
	dbTransactor   store.DBTransactor
}

// NewStore creates a new instance of Store
func NewStore(cfg config.Database) (*Store, error) {
	db, err := NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return &Store{
		db:             db,
		orderStore:     NewOrderStore(db),
		eventStore:     NewEventStore(db),
		watermarkStore: NewWatermarkStore(db),
		dbTransactor:   NewTransactor(db),
	}, nil
}

// OrderStore returns the OrderStore implementation
func (s *Store) OrderStore() store.OrderStore {
	return s.orderStore
}

// EventStore returns the EventStore implementation
func (s *Store) EventStore() store.EventStore {
	return s.eventStore
}

// WatermarkStore returns the WatermarkStore implementation
func (s *Store) WatermarkStore() store.WatermarkStore {
	return s.watermarkStore
}

// DBTransactor returns the DBTransactor implementation
func (s *Store) DBTransactor() store.DBTransactor {
	return s.dbTransactor
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
