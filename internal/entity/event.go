package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent represents a normalized incoming order event.
// Seq is the source-assigned ordering key; EventID is the deduplication key.
type OrderEvent struct {
	EventID        string
	Seq            int64
	OrderID        string
	Status         OrderStatus
	Date           time.Time
	Amount         decimal.Decimal
	CustomerRegion string
}

// ProcessedEvent represents a durably recorded applied event for idempotency
type ProcessedEvent struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	CreatedAt time.Time `db:"created_at"`
}

// NewProcessedEvent creates a new ProcessedEvent instance
func NewProcessedEvent(eventID, orderID string, createdAt time.Time) *ProcessedEvent {
	return &ProcessedEvent{
		ID:        eventID,
		OrderID:   orderID,
		CreatedAt: createdAt,
	}
}
