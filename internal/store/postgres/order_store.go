package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fdogov/ordersync/internal/entity"
	"github.com/fdogov/ordersync/internal/store"
)

// OrderStore реализует интерфейс store.OrderStore для PostgreSQL
type OrderStore struct {
	db *DB
}

// NewOrderStore создает новый экземпляр OrderStore
func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

// GetByID получает заказ по ID
func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	const query = `SELECT * FROM orders WHERE order_id = $1;`

	var order entity.Order
	err := sqlx.GetContext(ctx, s.db.Replica(), &order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}

	return &order, nil
}

// conditionalOrder расширяет строку заказа ожидаемой версией для условной записи
type conditionalOrder struct {
	*entity.Order
	ExpectedSeq int64 `db:"expected_seq"`
}

// UpsertConditional атомарно создаёт или обновляет заказ с проверкой версии.
// Версией строки служит last_event_seq: запись проходит, только если версия
// не изменилась с момента чтения. loaded_at не убывает даже при сдвиге часов.
func (s *OrderStore) UpsertConditional(ctx context.Context, order *entity.Order, expectedSeq int64) error {
	const insertQuery = `
		INSERT INTO orders (
			order_id, status, date, amount, customer_region, loaded_at, last_event_seq
		) VALUES (
			:order_id, :status, :date, :amount, :customer_region, :loaded_at, :last_event_seq
		)
		ON CONFLICT (order_id) DO NOTHING;
	`

	const updateQuery = `
		UPDATE orders SET
			status = :status,
			amount = :amount,
			loaded_at = GREATEST(loaded_at, :loaded_at),
			last_event_seq = :last_event_seq
		WHERE order_id = :order_id AND last_event_seq = :expected_seq;
	`

	var (
		res sql.Result
		err error
	)

	if expectedSeq == 0 {
		res, err = sqlx.NamedExecContext(ctx, s.db.Primary(ctx), insertQuery, order)
	} else {
		res, err = sqlx.NamedExecContext(ctx, s.db.Primary(ctx), updateQuery,
			&conditionalOrder{Order: order, ExpectedSeq: expectedSeq})
	}
	if err != nil {
		if err = store.HandlePGError(err); err != nil {
			return fmt.Errorf("failed to upsert order: %w", err)
		}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Строка появилась или её версия сдвинулась между чтением и записью
		return entity.ErrConcurrentUpdate
	}

	return nil
}
