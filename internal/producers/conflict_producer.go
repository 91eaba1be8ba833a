package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/logger"
)

// conflictEnvelope — конверт для событий, нарушивших бизнес-инварианты.
// Такие события разбираются вручную и никогда не переигрываются автоматически.
type conflictEnvelope struct {
	OrderID    string          `json:"order_id"`
	EventID    string          `json:"event_id"`
	Reason     string          `json:"reason"`
	Payload    json.RawMessage `json:"payload"`
	DivertedAt time.Time       `json:"diverted_at"`
}

// ConflictProducer отправляет конфликтные события в отдельный топик
type ConflictProducer struct {
	kafkaProducer KafkaProducer
	topic         string
}

// NewConflictProducer создает новый экземпляр ConflictProducer
func NewConflictProducer(kafkaProducer KafkaProducer, topic string) *ConflictProducer {
	return &ConflictProducer{
		kafkaProducer: kafkaProducer,
		topic:         topic,
	}
}

// Send отправляет конфликтное событие с причиной
func (p *ConflictProducer) Send(ctx context.Context, raw []byte, orderID, eventID, reason string) error {
	envelope := conflictEnvelope{
		OrderID:    orderID,
		EventID:    eventID,
		Reason:     reason,
		Payload:    wrapPayload(raw),
		DivertedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict envelope: %w", err)
	}

	logger.Warn(ctx, "Sending event to conflict topic",
		zap.String("topic", p.topic),
		zap.String("order_id", orderID),
		zap.String("event_id", eventID),
		zap.String("reason", reason))

	// Ключ — order_id, чтобы конфликты одного заказа попадали в одну партицию
	if err := p.kafkaProducer.Produce(ctx, p.topic, orderID, value); err != nil {
		return fmt.Errorf("failed to produce conflict event: %w", err)
	}

	return nil
}
