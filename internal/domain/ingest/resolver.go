package ingest

import (
	"github.com/fdogov/ordersync/internal/entity"
)

// Resolver decides whether an incoming event should be applied to the
// currently stored order state. Pure function of the two snapshots.
type Resolver struct{}

// NewResolver creates a new Resolver instance
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve сравнивает текущее состояние заказа с входящим событием.
//
// Порядок проверок фиксирован:
//  1. строки нет — Apply (первое событие создаёт заказ);
//  2. расхождение неизменяемых полей (date, customer_region) — Conflict,
//     независимо от упорядочивания;
//  3. событие не новее последнего применённого — Ignore (дубль или опоздавшая доставка);
//  4. тот же статус — Ignore (повтор без эффекта);
//  5. переход вне таблицы — Conflict;
//  6. иначе — Apply.
func (r *Resolver) Resolve(current *entity.Order, incoming *entity.OrderEvent) entity.Decision {
	if current == nil {
		return entity.DecisionApply
	}

	if !incoming.Date.Equal(current.Date) || incoming.CustomerRegion != current.CustomerRegion {
		return entity.DecisionConflict(entity.ReasonImmutableFieldMismatch)
	}

	if incoming.Seq <= current.LastEventSeq {
		return entity.DecisionIgnore
	}

	if incoming.Status == current.Status {
		return entity.DecisionIgnore
	}

	if !entity.CanTransition(current.Status, incoming.Status) {
		return entity.DecisionConflict(entity.ReasonIllegalTransition)
	}

	return entity.DecisionApply
}
