package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/aidar/member-service/internal/domain"
)

// KafkaEventPublisher реализует repository.EventPublisher поверх Kafka.
// Writer работает в асинхронном режиме: Publish возвращается сразу после
// локальной буферизации, результат доставки приходит в completion callback
// и только логируется
type KafkaEventPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaEventPublisher создает новый KafkaEventPublisher
func NewKafkaEventPublisher(addr, topic string, logger *slog.Logger) *KafkaEventPublisher {
	p := &KafkaEventPublisher{logger: logger}

	p.writer = &kafka.Writer{
		Addr:     kafka.TCP(addr),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				p.logger.Error("Error publishing to Kafka", "error", err)
				return
			}
			p.logger.Info("Published to Kafka")
		},
	}

	return p
}

// Publish сериализует событие и отдает его в буфер writer'а
func (p *KafkaEventPublisher) Publish(ctx context.Context, transactionID string, member *domain.Member, message string) {
	event := domain.MemberEvent{
		ID:      transactionID,
		Message: message,
		User:    *member,
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Error publishing to Kafka",
			"transactionId", transactionID,
			"error", err,
		)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		// В асинхронном режиме сюда попадают только ошибки буферизации,
		// ошибки доставки приходят в completion callback
		p.logger.Error("Error publishing to Kafka",
			"transactionId", transactionID,
			"error", err,
		)
	}
}

// Close сбрасывает буфер и закрывает writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
