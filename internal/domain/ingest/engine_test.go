package ingest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdogov/ordersync/internal/entity"
	"github.com/fdogov/ordersync/internal/store/gen"
	"github.com/fdogov/ordersync/internal/store/memory"
)

// TestData содержит все данные и состояния для каждого теста
type TestData struct {
	ctx context.Context
	t   *testing.T

	// Компонент, который тестируем
	engine *Engine

	// Моки зависимостей
	orderStore *gen.OrderStoreMock
	eventStore *gen.EventStoreMock
	transactor *gen.DBTransactorMock
	clock      *manualClock

	// Результат
	result entity.Result
	err    error
}

// TestCase определяет тестовый сценарий в формате GWT
type TestCase struct {
	name  string
	given func(td *TestData)
	when  func(td *TestData)
	then  func(td *TestData)
}

// createTestData создает тестовые данные для каждого теста
func createTestData(t *testing.T) *TestData {
	orderStore := &gen.OrderStoreMock{}
	eventStore := &gen.EventStoreMock{
		GetByEventIDFunc: func(ctx context.Context, eventID string) (*entity.ProcessedEvent, error) {
			return nil, entity.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, event *entity.ProcessedEvent) error {
			return nil
		},
	}
	transactor := &gen.DBTransactorMock{
		ExecFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
	clock := newManualClock(testDate.Add(time.Hour))

	return &TestData{
		ctx:        context.Background(),
		t:          t,
		engine:     NewEngine(orderStore, eventStore, transactor, NewResolver(), clock),
		orderStore: orderStore,
		eventStore: eventStore,
		transactor: transactor,
		clock:      clock,
	}
}

func TestEngine_Apply(t *testing.T) {
	testCases := []TestCase{
		{
			name: "First event creates the order",
			given: func(td *TestData) {
				// Given: хранилище пустое
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					return nil, entity.ErrNotFound
				}
				td.orderStore.UpsertConditionalFunc = func(ctx context.Context, order *entity.Order, expectedSeq int64) error {
					return nil
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e1", 1, entity.OrderStatusPending))
			},
			then: func(td *TestData) {
				require.NoError(td.t, td.err)
				assert.Equal(td.t, entity.OutcomeApplied, td.result.Outcome)

				calls := td.orderStore.UpsertConditionalCalls()
				require.Len(td.t, calls, 1)
				assert.Equal(td.t, int64(0), calls[0].ExpectedSeq)
				assert.Equal(td.t, entity.OrderStatusPending, calls[0].Order.Status)
				assert.Equal(td.t, int64(1), calls[0].Order.LastEventSeq)

				// Факт применения записан для идемпотентности, и обе записи
				// прошли внутри одной транзакции
				require.Len(td.t, td.eventStore.CreateCalls(), 1)
				assert.Equal(td.t, "e1", td.eventStore.CreateCalls()[0].Event.ID)
				assert.Len(td.t, td.transactor.ExecCalls(), 1)
			},
		},
		{
			name: "Transaction failure rolls the apply back to the caller",
			given: func(td *TestData) {
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					return nil, entity.ErrNotFound
				}
				td.transactor.ExecFunc = func(ctx context.Context, fn func(ctx context.Context) error) error {
					return fmt.Errorf("%w: commit failed", entity.ErrRetryExecution)
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e1", 1, entity.OrderStatusPending))
			},
			then: func(td *TestData) {
				require.Error(td.t, td.err)
				assert.True(td.t, errors.Is(td.err, entity.ErrRetryExecution))
			},
		},
		{
			name: "Duplicate event_id is ignored without touching the row",
			given: func(td *TestData) {
				td.eventStore.GetByEventIDFunc = func(ctx context.Context, eventID string) (*entity.ProcessedEvent, error) {
					return entity.NewProcessedEvent(eventID, "O1", testDate), nil
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e1", 1, entity.OrderStatusPending))
			},
			then: func(td *TestData) {
				require.NoError(td.t, td.err)
				assert.Equal(td.t, entity.OutcomeIgnored, td.result.Outcome)
				assert.Empty(td.t, td.orderStore.GetByIDCalls())
				assert.Empty(td.t, td.orderStore.UpsertConditionalCalls())
			},
		},
		{
			name: "Illegal transition is rejected without a write",
			given: func(td *TestData) {
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					return makeOrder("O1", entity.OrderStatusPending, 1), nil
				}
			},
			when: func(td *TestData) {
				// pending -> shipped пропускает confirmed
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e2", 2, entity.OrderStatusShipped))
			},
			then: func(td *TestData) {
				require.NoError(td.t, td.err)
				assert.Equal(td.t, entity.OutcomeRejected, td.result.Outcome)
				assert.Equal(td.t, entity.ReasonIllegalTransition, td.result.Reason)
				assert.Empty(td.t, td.orderStore.UpsertConditionalCalls())
				assert.Empty(td.t, td.eventStore.CreateCalls())
				assert.Empty(td.t, td.transactor.ExecCalls())
			},
		},
		{
			name: "Stale event is ignored",
			given: func(td *TestData) {
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					return makeOrder("O1", entity.OrderStatusConfirmed, 5), nil
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e2", 2, entity.OrderStatusConfirmed))
			},
			then: func(td *TestData) {
				require.NoError(td.t, td.err)
				assert.Equal(td.t, entity.OutcomeIgnored, td.result.Outcome)
				assert.Empty(td.t, td.orderStore.UpsertConditionalCalls())
			},
		},
		{
			name: "Version race retries the read-resolve-write cycle",
			given: func(td *TestData) {
				reads := 0
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					reads++
					if reads == 1 {
						return makeOrder("O1", entity.OrderStatusPending, 1), nil
					}
					// Второй читатель видит уже продвинутую версию
					return makeOrder("O1", entity.OrderStatusConfirmed, 2), nil
				}
				upserts := 0
				td.orderStore.UpsertConditionalFunc = func(ctx context.Context, order *entity.Order, expectedSeq int64) error {
					upserts++
					if upserts == 1 {
						return entity.ErrConcurrentUpdate
					}
					return nil
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e3", 3, entity.OrderStatusShipped))
			},
			then: func(td *TestData) {
				require.NoError(td.t, td.err)
				assert.Equal(td.t, entity.OutcomeApplied, td.result.Outcome)

				calls := td.orderStore.UpsertConditionalCalls()
				require.Len(td.t, calls, 2)
				assert.Equal(td.t, int64(1), calls[0].ExpectedSeq)
				assert.Equal(td.t, int64(2), calls[1].ExpectedSeq)
			},
		},
		{
			name: "Transient storage error is returned to the caller",
			given: func(td *TestData) {
				td.orderStore.GetByIDFunc = func(ctx context.Context, orderID string) (*entity.Order, error) {
					return nil, fmt.Errorf("%w: connection timeout", entity.ErrRetryExecution)
				}
			},
			when: func(td *TestData) {
				td.result, td.err = td.engine.Apply(td.ctx, makeEvent("O1", "e1", 1, entity.OrderStatusPending))
			},
			then: func(td *TestData) {
				require.Error(td.t, td.err)
				assert.True(td.t, errors.Is(td.err, entity.ErrRetryExecution))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			td := createTestData(t)
			tc.given(td)
			tc.when(td)
			tc.then(td)
		})
	}
}

func TestEngine_Apply_LoadedAtMonotonic(t *testing.T) {
	// Часы движутся назад между событиями; loaded_at не должен убывать
	ctx := context.Background()
	store := memory.NewStore()
	clock := newManualClock(testDate.Add(2 * time.Hour))
	engine := NewEngine(store, store, store, NewResolver(), clock)

	_, err := engine.Apply(ctx, makeEvent("O1", "e1", 1, entity.OrderStatusPending))
	require.NoError(t, err)

	first, err := store.GetByID(ctx, "O1")
	require.NoError(t, err)

	// Сдвигаем часы на час назад
	clock.SetTo(testDate.Add(time.Hour))

	result, err := engine.Apply(ctx, makeEvent("O1", "e2", 2, entity.OrderStatusConfirmed))
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeApplied, result.Outcome)

	second, err := store.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.False(t, second.LoadedAt.Before(first.LoadedAt),
		"loaded_at must be non-decreasing: %v -> %v", first.LoadedAt, second.LoadedAt)
}

func TestEngine_Apply_Convergence(t *testing.T) {
	// Доставка as-least-once: произвольный порядок с повторными доставками
	// сходится к состоянию применения той же последовательности по порядку
	// ключа упорядочивания. Отклонённые события не дедуплицируются, поэтому
	// повторные доставки закрывают пропуски в цепочке переходов.
	events := []*entity.OrderEvent{
		makeEvent("O1", "e1", 1, entity.OrderStatusPending),
		makeEvent("O1", "e2", 2, entity.OrderStatusConfirmed),
		makeEvent("O1", "e3", 3, entity.OrderStatusShipped),
		makeEvent("O1", "e4", 4, entity.OrderStatusDelivered),
	}

	run := func(delivery []*entity.OrderEvent) *entity.Order {
		ctx := context.Background()
		store := memory.NewStore()
		engine := NewEngine(store, store, store, NewResolver(), SystemClock{})
		// Каждое событие доставляется не менее одного раза за проход,
		// проходов достаточно, чтобы применить всю цепочку
		for pass := 0; pass < len(events); pass++ {
			for _, e := range delivery {
				_, err := engine.Apply(ctx, e)
				require.NoError(t, err)
			}
		}
		order, err := store.GetByID(ctx, "O1")
		require.NoError(t, err)
		return order
	}

	reference := run(events)
	require.Equal(t, entity.OrderStatusDelivered, reference.Status)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		delivery := make([]*entity.OrderEvent, len(events))
		copy(delivery, events)
		rnd.Shuffle(len(delivery), func(a, b int) {
			delivery[a], delivery[b] = delivery[b], delivery[a]
		})

		final := run(delivery)
		assert.Equal(t, reference.Status, final.Status, "delivery order %d", i)
		assert.Equal(t, reference.LastEventSeq, final.LastEventSeq, "delivery order %d", i)
		assert.True(t, reference.Amount.Equal(final.Amount))
	}
}

func TestEngine_Apply_ConcurrentWriters(t *testing.T) {
	// 100 конкурентных писателей по 10 заказам: итог каждого заказа равен
	// результату последовательного применения его событий по порядку
	const (
		orderCount  = 10
		writerCount = 100
	)

	ctx := context.Background()
	store := memory.NewStore()
	engine := NewEngine(store, store, store, NewResolver(), SystemClock{})

	// Валидная последовательность переходов на каждый заказ
	sequences := make(map[string][]*entity.OrderEvent, orderCount)
	for i := 0; i < orderCount; i++ {
		orderID := fmt.Sprintf("O%d", i)
		statuses := []entity.OrderStatus{
			entity.OrderStatusPending,
			entity.OrderStatusConfirmed,
			entity.OrderStatusShipped,
			entity.OrderStatusDelivered,
		}
		if i%3 == 0 {
			statuses = []entity.OrderStatus{
				entity.OrderStatusPending,
				entity.OrderStatusConfirmed,
				entity.OrderStatusCancelled,
			}
		}
		for seq, status := range statuses {
			event := makeEvent(orderID, fmt.Sprintf("%s-e%d", orderID, seq+1), int64(seq+1), status)
			sequences[orderID] = append(sequences[orderID], event)
		}
	}

	// Каждый писатель проходит заказы в случайном порядке, но события
	// одного заказа доставляет по порядку ключа упорядочивания. Писатели
	// перемежаются произвольно.
	orderIDs := make([]string, 0, len(sequences))
	for orderID := range sequences {
		orderIDs = append(orderIDs, orderID)
	}

	var wg sync.WaitGroup
	for w := 0; w < writerCount; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))

			ids := make([]string, len(orderIDs))
			copy(ids, orderIDs)
			rnd.Shuffle(len(ids), func(a, b int) { ids[a], ids[b] = ids[b], ids[a] })

			for _, orderID := range ids {
				for _, e := range sequences[orderID] {
					_, err := engine.Apply(ctx, e)
					assert.NoError(t, err)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	for orderID, events := range sequences {
		final, err := store.GetByID(ctx, orderID)
		require.NoError(t, err, "order %s", orderID)

		last := events[len(events)-1]
		assert.Equal(t, last.Status, final.Status, "order %s", orderID)
		assert.Equal(t, last.Seq, final.LastEventSeq, "order %s", orderID)
		assert.True(t, last.Amount.Equal(final.Amount), "order %s", orderID)
	}
}
