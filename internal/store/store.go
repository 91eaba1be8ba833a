package store

import (
	"context"

	"github.com/fdogov/ordersync/internal/entity"
)

//go:generate moq -out gen/store_mocks.go -pkg gen . OrderStore:OrderStoreMock EventStore:EventStoreMock WatermarkStore:WatermarkStoreMock DBTransactor:DBTransactorMock

// OrderStore определяет интерфейс для работы с хранилищем заказов
type OrderStore interface {
	// GetByID получает заказ по ID
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)

	// UpsertConditional атомарно создаёт или обновляет заказ.
	// expectedSeq — last_event_seq, прочитанный перед решением (0, если строки не было).
	// Если версия строки с тех пор изменилась, возвращает entity.ErrConcurrentUpdate
	// и не пишет ничего.
	UpsertConditional(ctx context.Context, order *entity.Order, expectedSeq int64) error
}

// EventStore определяет интерфейс для журнала применённых событий (идемпотентность)
type EventStore interface {
	// Create записывает факт применения события
	Create(ctx context.Context, event *entity.ProcessedEvent) error

	// GetByEventID получает запись о событии по его идентификатору
	GetByEventID(ctx context.Context, eventID string) (*entity.ProcessedEvent, error)
}

// WatermarkStore определяет интерфейс для долговременной отметки прогресса фида
type WatermarkStore interface {
	// Get возвращает текущую позицию фида (0, если фид ещё не читался)
	Get(ctx context.Context, feedID string) (int64, error)

	// Set продвигает позицию фида. Позиция никогда не движется назад.
	Set(ctx context.Context, feedID string, position int64) error
}

// DBTransactor определяет интерфейс для работы с транзакциями
type DBTransactor interface {
	// Exec выполняет функцию в транзакции
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}
