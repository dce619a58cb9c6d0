package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to a Kafka topic, keyed by order
type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher configures a synchronous writer that waits for all in-sync replicas
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Publish validates and writes the events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs, err := encode(events)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	return nil
}

// Close flushes and releases the writer
func (p *KafkaPublisher) Close() error { return p.w.Close() }

func encode(events []Event) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s event: %w", e.Type, err)
		}
		b, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key()),
			Value: b,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(e.Type)},
			},
		})
	}
	return msgs, nil
}
