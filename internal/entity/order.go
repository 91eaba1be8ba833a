package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет текущее сохранённое состояние заказа
type Order struct {
	OrderID        string          `db:"order_id"`
	Status         OrderStatus     `db:"status"`
	Date           time.Time       `db:"date"`
	Amount         decimal.Decimal `db:"amount"`
	CustomerRegion string          `db:"customer_region"`
	LoadedAt       time.Time       `db:"loaded_at"`
	// LastEventSeq хранит ключ упорядочивания последнего применённого события.
	// Событие с меньшим или равным ключом считается устаревшим.
	LastEventSeq int64 `db:"last_event_seq"`
}

type OrderStatus string

const (
	OrderStatusUnspecified OrderStatus = "UNSPECIFIED"
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusConfirmed   OrderStatus = "confirmed"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

// statusTransitions задаёт допустимые рёбра жизненного цикла заказа.
// Переход, которого нет в таблице, отклоняется, а не применяется молча.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseOrderStatus преобразует строку из входящего события во внутренний статус
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return OrderStatusUnspecified, false
	}
}

// CanTransition сообщает, допустим ли переход from -> to по таблице переходов
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}
