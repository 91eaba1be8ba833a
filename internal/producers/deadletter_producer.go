package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/logger"
)

// KafkaProducer интерфейс для отправки сообщений в Kafka
type KafkaProducer interface {
	// Produce отправляет сообщение в указанный топик
	Produce(ctx context.Context, topic string, key string, value []byte) error
}

// deadLetterEnvelope — конверт для невалидных и отравленных событий
type deadLetterEnvelope struct {
	Reason     string          `json:"reason"`
	Payload    json.RawMessage `json:"payload"`
	DivertedAt time.Time       `json:"diverted_at"`
}

// DeadLetterProducer отправляет отбракованные события в dead-letter топик
type DeadLetterProducer struct {
	kafkaProducer KafkaProducer
	topic         string
}

// NewDeadLetterProducer создает новый экземпляр DeadLetterProducer
func NewDeadLetterProducer(kafkaProducer KafkaProducer, topic string) *DeadLetterProducer {
	return &DeadLetterProducer{
		kafkaProducer: kafkaProducer,
		topic:         topic,
	}
}

// Send отправляет сырое событие с причиной отбраковки
func (p *DeadLetterProducer) Send(ctx context.Context, raw []byte, reason string) error {
	envelope := deadLetterEnvelope{
		Reason:     reason,
		Payload:    wrapPayload(raw),
		DivertedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal dead-letter envelope: %w", err)
	}

	logger.Warn(ctx, "Sending event to dead-letter topic",
		zap.String("topic", p.topic),
		zap.String("reason", reason))

	if err := p.kafkaProducer.Produce(ctx, p.topic, "", value); err != nil {
		return fmt.Errorf("failed to produce dead-letter event: %w", err)
	}

	return nil
}

// wrapPayload сохраняет исходные байты как JSON; не-JSON заворачивается строкой
func wrapPayload(raw []byte) json.RawMessage {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
