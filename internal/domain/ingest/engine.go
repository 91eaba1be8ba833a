package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/entity"
	"github.com/fdogov/ordersync/internal/logger"
	"github.com/fdogov/ordersync/internal/store"
)

// maxUpsertRetries ограничивает повторы цикла читать-решить-писать при
// конкурентном сдвиге версии строки другим процессом.
const maxUpsertRetries = 3

// Engine применяет нормализованные события к хранилищу идемпотентно.
// Обработка сериализуется по order_id; события разных заказов идут параллельно.
type Engine struct {
	orderStore store.OrderStore
	eventStore store.EventStore
	transactor store.DBTransactor
	resolver   *Resolver
	clock      Clock
	locks      *keyedLocks
}

// NewEngine creates a new Engine instance
func NewEngine(
	orderStore store.OrderStore,
	eventStore store.EventStore,
	transactor store.DBTransactor,
	resolver *Resolver,
	clock Clock,
) *Engine {
	return &Engine{
		orderStore: orderStore,
		eventStore: eventStore,
		transactor: transactor,
		resolver:   resolver,
		clock:      clock,
		locks:      newKeyedLocks(),
	}
}

// Apply обрабатывает одно событие: дедупликация, разрешение конфликта,
// условная запись. Возвращает итог (applied / ignored / rejected) либо
// ошибку хранилища, которую планировщик может повторить.
func (e *Engine) Apply(ctx context.Context, event *entity.OrderEvent) (entity.Result, error) {
	release := e.locks.Acquire(event.OrderID)
	defer release()

	ctx = logger.ContextWithEventID(ctx, event.EventID)

	// Проверка токена идемпотентности до разрешения конфликта:
	// уже применённое событие не переигрывается при повторной доставке
	processed, err := e.isEventAlreadyProcessed(ctx, event.EventID)
	if err != nil {
		return entity.Result{}, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if processed {
		return entity.Result{Outcome: entity.OutcomeIgnored, Reason: "duplicate event_id"}, nil
	}

	for attempt := 0; ; attempt++ {
		result, err := e.tryApply(ctx, event)
		if errors.Is(err, entity.ErrConcurrentUpdate) && attempt < maxUpsertRetries {
			logger.Debug(ctx, "Row version advanced during apply, retrying",
				zap.String("order_id", event.OrderID),
				zap.Int("attempt", attempt+1))
			continue
		}
		return result, err
	}
}

// tryApply выполняет один цикл читать-решить-писать
func (e *Engine) tryApply(ctx context.Context, event *entity.OrderEvent) (entity.Result, error) {
	current, err := e.orderStore.GetByID(ctx, event.OrderID)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return entity.Result{}, fmt.Errorf("failed to read current order state: %w", err)
		}
		current = nil
	}

	decision := e.resolver.Resolve(current, event)

	switch decision.Action {
	case entity.ActionIgnore:
		logger.Info(ctx, "Event ignored",
			zap.String("order_id", event.OrderID),
			zap.Int64("event_seq", event.Seq))
		return entity.Result{Outcome: entity.OutcomeIgnored, Reason: "stale or duplicate"}, nil

	case entity.ActionConflict:
		logger.Warn(ctx, "Event conflicts with stored state",
			zap.String("order_id", event.OrderID),
			zap.Int64("event_seq", event.Seq),
			zap.String("reason", decision.Reason))
		return entity.Result{Outcome: entity.OutcomeRejected, Reason: decision.Reason}, nil
	}

	// Новое состояние и токен идемпотентности коммитятся атомарно
	err = e.transactor.Exec(ctx, func(ctx context.Context) error {
		if err := e.writeOrder(ctx, current, event); err != nil {
			return err
		}
		return e.recordEventProcessing(ctx, event)
	})
	if err != nil {
		if errors.Is(err, entity.ErrConcurrentUpdate) {
			return entity.Result{}, entity.ErrConcurrentUpdate
		}
		return entity.Result{}, err
	}

	logger.Info(ctx, "Event applied",
		zap.String("order_id", event.OrderID),
		zap.Int64("event_seq", event.Seq),
		zap.String("status", event.Status.String()))

	return entity.Result{Outcome: entity.OutcomeApplied}, nil
}

// writeOrder пишет новое состояние строки с проверкой версии.
// loaded_at назначается движком и не убывает даже при сдвиге часов назад.
func (e *Engine) writeOrder(ctx context.Context, current *entity.Order, event *entity.OrderEvent) error {
	loadedAt := e.clock.Now()

	var expectedSeq int64
	if current != nil {
		expectedSeq = current.LastEventSeq
		if loadedAt.Before(current.LoadedAt) {
			loadedAt = current.LoadedAt
		}
	}

	order := &entity.Order{
		OrderID:        event.OrderID,
		Status:         event.Status,
		Date:           event.Date,
		Amount:         event.Amount,
		CustomerRegion: event.CustomerRegion,
		LoadedAt:       loadedAt,
		LastEventSeq:   event.Seq,
	}

	if err := e.orderStore.UpsertConditional(ctx, order, expectedSeq); err != nil {
		if errors.Is(err, entity.ErrConcurrentUpdate) {
			return entity.ErrConcurrentUpdate
		}
		return fmt.Errorf("failed to upsert order: %w", err)
	}

	return nil
}

// isEventAlreadyProcessed checks if the event has already been applied
func (e *Engine) isEventAlreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := e.eventStore.GetByEventID(ctx, eventID)
	if err == nil {
		logger.Info(ctx, "Event already processed", zap.String("event_id", eventID))
		return true, nil
	}

	if errors.Is(err, entity.ErrNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("error checking event status: %w", err)
}

// recordEventProcessing records the applied event to ensure idempotency
func (e *Engine) recordEventProcessing(ctx context.Context, event *entity.OrderEvent) error {
	record := entity.NewProcessedEvent(event.EventID, event.OrderID, e.clock.Now())
	if err := e.eventStore.Create(ctx, record); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			// Гонка повторной доставки: факт применения уже записан
			return nil
		}
		return fmt.Errorf("failed to create event record: %w", err)
	}
	return nil
}
