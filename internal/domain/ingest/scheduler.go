package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fdogov/ordersync/internal/entity"
	"github.com/fdogov/ordersync/internal/logger"
	"github.com/fdogov/ordersync/internal/metrics"
	"github.com/fdogov/ordersync/internal/store"
)

// SchedulerConfig задаёт параметры цикла сверки
type SchedulerConfig struct {
	FeedID         string
	Workers        int
	BatchSize      int
	MaxAttempts    uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// PollRetryDelay — пауза перед повторным опросом после ошибки фида
	PollRetryDelay time.Duration
}

// Scheduler гонит события из фида через движок: порция за порцией,
// с повторами на временных сбоях хранилища и продвижением отметки
// прогресса только мимо событий с подтверждённым итогом.
type Scheduler struct {
	feed           Feed
	normalizer     *Normalizer
	engine         *Engine
	watermarkStore store.WatermarkStore
	deadLetter     DeadLetterSink
	conflicts      ConflictSink
	cfg            SchedulerConfig
}

// NewScheduler creates a new Scheduler instance
func NewScheduler(
	feed Feed,
	normalizer *Normalizer,
	engine *Engine,
	watermarkStore store.WatermarkStore,
	deadLetter DeadLetterSink,
	conflicts ConflictSink,
	cfg SchedulerConfig,
) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.PollRetryDelay <= 0 {
		cfg.PollRetryDelay = time.Second
	}
	return &Scheduler{
		feed:           feed,
		normalizer:     normalizer,
		engine:         engine,
		watermarkStore: watermarkStore,
		deadLetter:     deadLetter,
		conflicts:      conflicts,
		cfg:            cfg,
	}
}

// Run крутит цикл сверки до отмены контекста.
// Отмена кооперативная: начатая порция дорабатывается, новая не берётся.
func (s *Scheduler) Run(ctx context.Context) error {
	watermark, err := s.watermarkStore.Get(ctx, s.cfg.FeedID)
	if err != nil {
		return fmt.Errorf("failed to read watermark on startup: %w", err)
	}

	logger.Info(ctx, "Reconciliation loop started",
		zap.String("feed_id", s.cfg.FeedID),
		zap.Int64("watermark", watermark),
		zap.Int("workers", s.cfg.Workers),
		zap.Int("batch_size", s.cfg.BatchSize))

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Reconciliation loop stopped", zap.Int64("watermark", watermark))
			return nil
		default:
		}

		batch, err := s.feed.NextBatch(ctx, s.cfg.BatchSize)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logger.Error(ctx, "Failed to read batch from feed", zap.Error(err))
			// Пауза перед повторным опросом, чтобы не крутиться на сломанном фиде
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.PollRetryDelay):
			}
			continue
		}
		if len(batch) == 0 {
			continue
		}

		if err := s.processBatch(ctx, batch); err != nil {
			// Неподтверждённая порция не двигает отметку: после рестарта
			// фид переигрывается с последней подтверждённой позиции
			if ctx.Err() != nil {
				logger.Info(ctx, "Batch interrupted by shutdown, watermark not advanced",
					zap.Int64("watermark", watermark))
				return nil
			}
			return fmt.Errorf("batch outcomes not confirmed: %w", err)
		}

		// Все итоги порции подтверждены — отметку можно двигать
		watermark = batch[len(batch)-1].Position
		if err := s.watermarkStore.Set(ctx, s.cfg.FeedID, watermark); err != nil {
			return fmt.Errorf("failed to advance watermark: %w", err)
		}
		if err := s.feed.Ack(ctx, watermark); err != nil {
			logger.Error(ctx, "Failed to ack feed", zap.Int64("watermark", watermark), zap.Error(err))
		}
	}
}

// orderGroup — события одного заказа в порядке фида
type orderGroup struct {
	orderID string
	events  []normalizedEvent
}

type normalizedEvent struct {
	raw   RawEvent
	event *entity.OrderEvent
}

// processBatch нормализует порцию и прогоняет её через движок.
// Группы разных заказов обрабатываются параллельно, внутри группы — строго
// в порядке фида. Ошибка означает, что итог хотя бы одного события не
// подтверждён и отметку двигать нельзя.
func (s *Scheduler) processBatch(ctx context.Context, batch []RawEvent) error {
	groups, err := s.normalizeAndGroup(ctx, batch)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, group := range groups {
		group := group
		g.Go(func() error {
			for _, ne := range group.events {
				if err := s.processEvent(gctx, ne); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// normalizeAndGroup валидирует события порции в порядке фида и группирует
// их по order_id. Невалидные уходят в dead-letter сразу; неподтверждённый
// отвод останавливает порцию.
func (s *Scheduler) normalizeAndGroup(ctx context.Context, batch []RawEvent) ([]*orderGroup, error) {
	var (
		groups  []*orderGroup
		byOrder = map[string]*orderGroup{}
	)

	for _, raw := range batch {
		event, err := s.normalizer.Normalize(raw.Value)
		if err != nil {
			metrics.EventsDeadLetterTotal.Inc()
			logger.Warn(ctx, "Event failed validation, sending to dead-letter",
				zap.Int64("position", raw.Position),
				zap.Error(err))
			if derr := s.divert(ctx, raw.Value, err.Error()); derr != nil {
				return nil, derr
			}
			continue
		}

		group, ok := byOrder[event.OrderID]
		if !ok {
			group = &orderGroup{orderID: event.OrderID}
			byOrder[event.OrderID] = group
			groups = append(groups, group)
		}
		group.events = append(group.events, normalizedEvent{raw: raw, event: event})
	}

	return groups, nil
}

// processEvent применяет одно событие с повторами на временных сбоях.
// Исчерпание попыток отводит событие в dead-letter, не блокируя фид.
// Ошибка возвращается, только когда итог события не подтверждён: отмена
// во время обработки или недоставленный отвод.
func (s *Scheduler) processEvent(ctx context.Context, ne normalizedEvent) error {
	ctx = logger.ContextWithTraceID(ctx, ne.event.EventID)

	start := time.Now()
	result, err := s.applyWithRetry(ctx, ne.event)
	metrics.ApplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// Отмена не делает событие отравленным: порция прерывается без
		// отвода, после рестарта событие придёт из фида снова
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		metrics.EventsDeadLetterTotal.Inc()
		logger.Error(ctx, "Event diverted after retry exhaustion",
			zap.String("order_id", ne.event.OrderID),
			zap.String("event_id", ne.event.EventID),
			zap.Error(err))
		return s.divert(ctx, ne.raw.Value, "retry exhausted: "+err.Error())
	}

	switch result.Outcome {
	case entity.OutcomeApplied:
		metrics.EventsAppliedTotal.Inc()
	case entity.OutcomeIgnored:
		metrics.EventsIgnoredTotal.Inc()
	case entity.OutcomeRejected:
		metrics.EventsConflictTotal.Inc()
		logger.Warn(ctx, "Event sent to conflict sink",
			zap.String("order_id", ne.event.OrderID),
			zap.String("event_id", ne.event.EventID),
			zap.String("reason", result.Reason))
		if err := s.sendConflict(ctx, ne, result.Reason); err != nil {
			return err
		}
	}

	return nil
}

// applyWithRetry повторяет Apply с экспоненциальной задержкой, но только
// для временных ошибок хранилища; остальные ошибки терминальны.
func (s *Scheduler) applyWithRetry(ctx context.Context, event *entity.OrderEvent) (entity.Result, error) {
	var result entity.Result

	operation := func() error {
		var err error
		result, err = s.engine.Apply(ctx, event)
		if err == nil {
			return nil
		}
		if errors.Is(err, entity.ErrRetryExecution) || errors.Is(err, entity.ErrConcurrentUpdate) {
			metrics.StorageRetriesTotal.Inc()
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(s.newBackOff(), uint64(s.cfg.MaxAttempts)), ctx))
	if err != nil {
		return entity.Result{}, err
	}

	return result, nil
}

// divert отправляет событие в dead-letter с повторами. Ошибка означает,
// что отвод не подтверждён и событие нельзя считать обработанным.
func (s *Scheduler) divert(ctx context.Context, raw []byte, reason string) error {
	operation := func() error {
		if err := s.deadLetter.Send(ctx, raw, reason); err != nil {
			logger.Error(ctx, "Failed to send event to dead-letter sink", zap.Error(err))
			return err
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(s.newBackOff(), uint64(s.cfg.MaxAttempts)), ctx))
	if err != nil {
		return fmt.Errorf("failed to confirm dead-letter outcome: %w", err)
	}

	return nil
}

// sendConflict отправляет конфликтное событие с повторами, как divert
func (s *Scheduler) sendConflict(ctx context.Context, ne normalizedEvent, reason string) error {
	operation := func() error {
		if err := s.conflicts.Send(ctx, ne.raw.Value, ne.event.OrderID, ne.event.EventID, reason); err != nil {
			logger.Error(ctx, "Failed to send event to conflict sink", zap.Error(err))
			return err
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(s.newBackOff(), uint64(s.cfg.MaxAttempts)), ctx))
	if err != nil {
		return fmt.Errorf("failed to confirm conflict outcome: %w", err)
	}

	return nil
}

func (s *Scheduler) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	if s.cfg.InitialBackoff > 0 {
		bo.InitialInterval = s.cfg.InitialBackoff
	}
	if s.cfg.MaxBackoff > 0 {
		bo.MaxInterval = s.cfg.MaxBackoff
	}
	return bo
}
