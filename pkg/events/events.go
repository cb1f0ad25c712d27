package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"college-erp/config"
)

// Event types published on the domain topic.
const (
	UserRegistered = "user.registered"
	FeePaymentPaid = "fee.payment_paid"
	ResultApproved = "result.approved"
)

// Event is the JSON envelope written to Kafka; the key is CollegeID so one
// tenant's events stay ordered on a partition.
type Event struct {
	Type       string      `json:"type"`
	CollegeID  string      `json:"college_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher emits domain events. Failures never roll back the business write.
type Publisher interface {
	Publish(ctx context.Context, eventType, collegeID string, payload interface{}) error
	Close() error
}

// New returns a Kafka producer, or a no-op when no brokers are configured.
func New(cfg *config.KafkaConfig, logger *zap.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka disabled, domain events are dropped")
		return Nop{}
	}
	return NewProducer(cfg.Brokers, cfg.Topic, logger)
}

// ── kafka ──

// Producer writes events synchronously with acks from all replicas.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           10 * time.Second,
		},
		logger: logger,
	}
}

func (p *Producer) Publish(ctx context.Context, eventType, collegeID string, payload interface{}) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(Event{
		Type:       eventType,
		CollegeID:  collegeID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(collegeID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	}); err != nil {
		p.logger.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ── no-op ──

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, interface{}) error { return nil }
func (Nop) Close() error                                             { return nil }
