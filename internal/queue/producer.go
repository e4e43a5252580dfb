// internal/queue/producer.go
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/sirupsen/logrus"

	"github.com/scholartrack/backend/internal/config"
)

// Producer publishes application status events to Kafka. A nil Producer
// (broker not configured) drops events silently so the portal can run
// without a broker in development.
type Producer struct {
	writer *kafka.Writer
}

type StatusEvent struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	Message       string    `json:"message,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewProducer(cfg config.KafkaConfig) *Producer {
	if cfg.Broker == "" {
		logrus.Info("Kafka broker not configured, status events disabled")
		return nil
	}

	transport := &kafka.Transport{}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	return &Producer{writer: writer}
}

func (p *Producer) PublishStatusEvent(event StatusEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ApplicationID),
		Value: payload,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to publish status event")
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
