package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// FlightEvent announces a flight mutation. Consumers use it to drop cached
// query results; the payload carries enough to log what changed.
type FlightEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	FlightID    string    `json:"flight_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventFlightCreated = "flight_created"
	EventFlightUpdated = "flight_updated"
	EventFlightDeleted = "flight_deleted"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
