package ingest

import "context"

// RawEvent — сырое событие из фида вместе с его позицией для отметки прогресса
type RawEvent struct {
	Value    []byte
	Position int64
}

// Feed is the upstream source of raw order events.
type Feed interface {
	// NextBatch возвращает очередную порцию событий, не более max.
	// Блокируется до появления хотя бы одного события или отмены контекста.
	NextBatch(ctx context.Context, max int) ([]RawEvent, error)

	// Ack подтверждает фиду обработку всех событий до watermark включительно
	Ack(ctx context.Context, watermark int64) error
}

// DeadLetterSink принимает структурно невалидные и отравленные события
type DeadLetterSink interface {
	Send(ctx context.Context, raw []byte, reason string) error
}

// ConflictSink принимает валидные события, нарушившие бизнес-инварианты
type ConflictSink interface {
	Send(ctx context.Context, raw []byte, orderID, eventID, reason string) error
}
