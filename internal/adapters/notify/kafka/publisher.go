package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartmilk/internal/domain/herd"

	kafkago "github.com/segmentio/kafka-go"
)

const DefaultTopic = "smartmilk.alerts"

var ErrNoBrokers = errors.New("kafka: at least one broker is required")

// messageWriter es el subconjunto de *kafka.Writer que usamos (fake en tests).
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Publisher publica alertas en Kafka, una por mensaje, con key = cow id.
// Implementa herd.Publisher.
type Publisher struct {
	w     messageWriter
	topic string
}

func NewPublisher(cfg Config) (*Publisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultTopic
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Publisher{
		w: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{}, // misma vaca => misma partición
			WriteTimeout:           timeout,
			RequiredAcks:           kafkago.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}, nil
}

// alertEvent es el payload publicado.
type alertEvent struct {
	OwnerUserID string            `json:"owner_user_id"`
	CowID       string            `json:"cow_id"`
	Message     herd.AlertMessage `json:"message"`
	Severity    herd.Severity     `json:"severity"`
	Timestamp   time.Time         `json:"timestamp"`
}

func (p *Publisher) PublishAlerts(ctx context.Context, ownerUserID string, alerts []herd.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(alerts))
	for _, a := range alerts {
		data, err := json.Marshal(alertEvent{
			OwnerUserID: ownerUserID,
			CowID:       a.CowID,
			Message:     a.Message,
			Severity:    a.Severity,
			Timestamp:   a.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("kafka: marshal alert: %w", err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(a.CowID),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "severity", Value: []byte(a.Severity)},
				{Key: "owner_user_id", Value: []byte(ownerUserID)},
			},
			Time: a.Timestamp,
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: write %d alerts to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
