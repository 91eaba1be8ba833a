package ingest

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fdogov/ordersync/internal/entity"
)

func marshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// manualClock — управляемые часы для детерминированных проверок loaded_at
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *manualClock) SetTo(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func makeEvent(orderID, eventID string, seq int64, status entity.OrderStatus) *entity.OrderEvent {
	return &entity.OrderEvent{
		EventID:        eventID,
		Seq:            seq,
		OrderID:        orderID,
		Status:         status,
		Date:           testDate,
		Amount:         decimal.RequireFromString("100.00"),
		CustomerRegion: "EU",
	}
}

func makeOrder(orderID string, status entity.OrderStatus, lastSeq int64) *entity.Order {
	return &entity.Order{
		OrderID:        orderID,
		Status:         status,
		Date:           testDate,
		Amount:         decimal.RequireFromString("100.00"),
		CustomerRegion: "EU",
		LoadedAt:       testDate,
		LastEventSeq:   lastSeq,
	}
}
