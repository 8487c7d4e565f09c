// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"basket-backend/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const EventOrderPlaced = "order_placed"

const (
	maxRetries   = 3
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 2 * time.Second
)

// Message is the envelope written to the topic.
type Message struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type Publisher interface {
	OrderPlaced(ctx context.Context, order models.Order) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by tenant so one user's orders stay on
// one partition.
type KafkaPublisher struct {
	writer  messageWriter
	backoff func(attempt int) time.Duration
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return newKafkaPublisher(newKafkaWriter(broker, topic))
}

// newKafkaWriter flushes each event right away; the default one second
// batch window would hold every checkout.
func newKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
	}
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		backoff: func(attempt int) time.Duration {
			return time.Second * time.Duration(attempt+1)
		},
	}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order models.Order) error {
	payload, err := json.Marshal(Message{EventType: EventOrderPlaced, Data: order})
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	return p.write(ctx, order.UserDBName, payload)
}

func (p *KafkaPublisher) write(ctx context.Context, key string, payload []byte) (err error) {
	msg := kafka.Message{Key: []byte(key), Value: payload}

	for i := 0; i < maxRetries; i++ {
		if err = p.writer.WriteMessages(ctx, msg); err == nil {
			return nil
		}
		log.Ctx(ctx).Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("write kafka message")

		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "write kafka message")
		case <-time.After(p.backoff(i)):
		}
	}
	return errors.Wrapf(err, "write kafka message after %d attempts", maxRetries)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(ctx context.Context, order models.Order) error {
	log.Ctx(ctx).Debug().Str("tenant", order.UserDBName).Msg("event publishing disabled")
	return nil
}

func (NopPublisher) Close() error { return nil }
