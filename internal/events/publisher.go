package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published on the payment topic.
const (
	PaymentStatusChanged = "payment.status_changed"
)

// PaymentStatusChangedEvent is emitted after every applied webhook
// transition, whatever the resulting status.
type PaymentStatusChangedEvent struct {
	BookingID        int64     `json:"booking_id"`
	InvoiceID        string    `json:"invoice_id"`
	Status           string    `json:"status"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	BookingConfirmed bool      `json:"booking_confirmed"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Publisher emits payment events for downstream consumers. Publishing is
// best-effort: the webhook outcome never depends on the broker.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, event PaymentStatusChangedEvent) error
}

// KafkaPublisher writes cloud-events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
		},
		logger: logger,
	}
}

// PublishStatusChanged publishes a PaymentStatusChangedEvent keyed by
// invoice id so replays for one invoice stay ordered.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, event PaymentStatusChangedEvent) error {
	ce, err := NewCloudEvent("service-payment", PaymentStatusChanged, event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(ce)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.InvoiceID),
		Value: value,
	}); err != nil {
		return err
	}

	p.logger.Info("published payment event",
		zap.String("type", ce.Type),
		zap.String("invoice_id", event.InvoiceID),
		zap.String("status", event.Status),
	)
	return nil
}

// Close closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

// PublishStatusChanged discards the event.
func (NoopPublisher) PublishStatusChanged(ctx context.Context, event PaymentStatusChangedEvent) error {
	return nil
}
