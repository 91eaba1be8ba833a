package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WatermarkStore реализует интерфейс store.WatermarkStore для PostgreSQL
type WatermarkStore struct {
	db *DB
}

// NewWatermarkStore создает новый экземпляр WatermarkStore
func NewWatermarkStore(db *DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

// Get возвращает текущую позицию фида (0, если фид ещё не читался)
func (s *WatermarkStore) Get(ctx context.Context, feedID string) (int64, error) {
	const query = `SELECT position FROM watermarks WHERE feed_id = $1;`

	var position int64
	err := s.db.Replica().GetContext(ctx, &position, query, feedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get watermark: %w", err)
	}

	return position, nil
}

// Set продвигает позицию фида. Отметка никогда не движется назад.
func (s *WatermarkStore) Set(ctx context.Context, feedID string, position int64) error {
	const query = `
		INSERT INTO watermarks (feed_id, position, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (feed_id) DO UPDATE SET
			position = EXCLUDED.position,
			updated_at = NOW()
		WHERE watermarks.position < EXCLUDED.position;
	`

	_, err := s.db.Primary(ctx).ExecContext(ctx, query, feedID, position)
	if err != nil {
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	return nil
}
