package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/domain/ingest"
)

// Feed читает сырые события заказов из Kafka и отдаёт их порциями.
// Позицией события служит его смещение; топик фида однопартиционный по
// контракту с поставщиком, поэтому смещение годится как сквозная отметка.
// Контракт проверяется при старте.
type Feed struct {
	consumer      sarama.Consumer
	partConsumers []sarama.PartitionConsumer
	groupID       string
	topic         string
	brokers       []string
	messageCh     chan ingest.RawEvent
	shutdownCh    chan struct{}
	wg            sync.WaitGroup
	logger        *zap.Logger
}

// NewFeed создает новый экземпляр Feed
func NewFeed(brokers []string, groupID, topic string) *Feed {
	return &Feed{
		groupID:       groupID,
		topic:         topic,
		brokers:       brokers,
		messageCh:     make(chan ingest.RawEvent, 100), // Буфер для сообщений
		shutdownCh:    make(chan struct{}),
		partConsumers: make([]sarama.PartitionConsumer, 0),
		logger:        zap.NewNop(), // Заменяется при Start
	}
}

// SetLogger устанавливает логгер для Feed
func (f *Feed) SetLogger(logger *zap.Logger) {
	f.logger = logger.With(zap.String("topic", f.topic))
}

// Start начинает чтение с позиции, следующей за watermark.
// При нулевой отметке чтение идёт с начала топика.
func (f *Feed) Start(ctx context.Context, watermark int64) error {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.ClientID = f.groupID

	consumer, err := sarama.NewConsumer(f.brokers, config)
	if err != nil {
		return fmt.Errorf("failed to create Kafka consumer: %w", err)
	}
	f.consumer = consumer

	partitions, err := consumer.Partitions(f.topic)
	if err != nil {
		return fmt.Errorf("failed to get partitions for topic %s: %w", f.topic, err)
	}
	if err := ensureSinglePartition(f.topic, partitions); err != nil {
		return err
	}

	startOffset := sarama.OffsetOldest
	if watermark > 0 {
		startOffset = watermark + 1
	}

	for _, partition := range partitions {
		partConsumer, err := consumer.ConsumePartition(f.topic, partition, startOffset)
		if err != nil {
			return fmt.Errorf("failed to create partition consumer: %w", err)
		}
		f.partConsumers = append(f.partConsumers, partConsumer)

		f.wg.Add(1)
		go func(pc sarama.PartitionConsumer) {
			defer f.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-f.shutdownCh:
					return
				case err := <-pc.Errors():
					f.logger.Error("Error reading from Kafka", zap.Error(err))
				case m := <-pc.Messages():
					select {
					case f.messageCh <- ingest.RawEvent{Value: m.Value, Position: m.Offset}:
					case <-f.shutdownCh:
						return
					}
				}
			}
		}(partConsumer)
	}

	f.logger.Info("Kafka feed started",
		zap.Int("partitions", len(partitions)),
		zap.Int64("watermark", watermark))

	return nil
}

// ensureSinglePartition проверяет контракт однопартиционного топика фида.
// Несколько партиций дают перемешанный немонотонный поток позиций, и
// смещение перестаёт годиться как сквозная отметка прогресса.
func ensureSinglePartition(topic string, partitions []int32) error {
	if len(partitions) != 1 {
		return fmt.Errorf("topic %s has %d partitions, feed requires exactly one for a monotonic position stream",
			topic, len(partitions))
	}
	return nil
}

// NextBatch блокируется до первого события, затем добирает из буфера до max
func (f *Feed) NextBatch(ctx context.Context, max int) ([]ingest.RawEvent, error) {
	if max <= 0 {
		max = 1
	}

	var batch []ingest.RawEvent

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.shutdownCh:
		return nil, nil
	case event := <-f.messageCh:
		batch = append(batch, event)
	}

	for len(batch) < max {
		select {
		case event := <-f.messageCh:
			batch = append(batch, event)
		default:
			return batch, nil
		}
	}

	return batch, nil
}

// Ack подтверждает прогресс. Долговременная отметка живёт в хранилище,
// поэтому здесь достаточно журнальной записи.
func (f *Feed) Ack(_ context.Context, watermark int64) error {
	f.logger.Debug("Feed acked", zap.Int64("watermark", watermark))
	return nil
}

// Close закрывает фид
func (f *Feed) Close() error {
	close(f.shutdownCh)

	for _, partConsumer := range f.partConsumers {
		if err := partConsumer.Close(); err != nil {
			f.logger.Warn("Error closing partition consumer", zap.Error(err))
		}
	}

	if f.consumer != nil {
		if err := f.consumer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka consumer: %w", err)
		}
	}

	f.wg.Wait()
	return nil
}
