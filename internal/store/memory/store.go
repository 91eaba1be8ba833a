// Package memory provides an in-memory implementation of the store
// interfaces with the same compare-and-swap semantics as the PostgreSQL
// implementation. It backs tests and embedded hosts that run without a
// database.
package memory

import (
	"context"
	"sync"

	"github.com/fdogov/ordersync/internal/entity"
)

// Store реализует store.OrderStore, store.EventStore и store.WatermarkStore в памяти
type Store struct {
	mu         sync.RWMutex
	orders     map[string]entity.Order
	events     map[string]entity.ProcessedEvent
	watermarks map[string]int64
}

// NewStore создает новый экземпляр Store
func NewStore() *Store {
	return &Store{
		orders:     map[string]entity.Order{},
		events:     map[string]entity.ProcessedEvent{},
		watermarks: map[string]int64{},
	}
}

// GetByID получает заказ по ID
func (s *Store) GetByID(_ context.Context, orderID string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, entity.ErrNotFound
	}

	cp := order
	return &cp, nil
}

// UpsertConditional атомарно создаёт или обновляет заказ с проверкой версии.
// Семантика идентична постгресовой реализации: версией служит last_event_seq.
func (s *Store) UpsertConditional(_ context.Context, order *entity.Order, expectedSeq int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.orders[order.OrderID]

	if expectedSeq == 0 {
		if exists {
			return entity.ErrConcurrentUpdate
		}
		s.orders[order.OrderID] = *order
		return nil
	}

	if !exists || current.LastEventSeq != expectedSeq {
		return entity.ErrConcurrentUpdate
	}

	next := *order
	// Неизменяемые атрибуты и монотонность loaded_at держит путь записи
	next.Date = current.Date
	next.CustomerRegion = current.CustomerRegion
	if next.LoadedAt.Before(current.LoadedAt) {
		next.LoadedAt = current.LoadedAt
	}
	s.orders[order.OrderID] = next

	return nil
}

// Create записывает факт применения события
func (s *Store) Create(_ context.Context, event *entity.ProcessedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return entity.ErrDuplicateKey
	}
	s.events[event.ID] = *event

	return nil
}

// GetByEventID получает запись о событии по его идентификатору
func (s *Store) GetByEventID(_ context.Context, eventID string) (*entity.ProcessedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, entity.ErrNotFound
	}

	cp := event
	return &cp, nil
}

// Exec выполняет функцию как одну "транзакцию". Операции хранилища в памяти
// атомарны сами по себе, поэтому достаточно сквозного вызова.
func (s *Store) Exec(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Get возвращает текущую позицию фида (0, если фид ещё не читался)
func (s *Store) Get(_ context.Context, feedID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.watermarks[feedID], nil
}

// Set продвигает позицию фида. Отметка никогда не движется назад.
func (s *Store) Set(_ context.Context, feedID string, position int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position > s.watermarks[feedID] {
		s.watermarks[feedID] = position
	}

	return nil
}
