// Package kafka publishes offer lifecycle events for the dispatch backend.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/offer"

	kafkago "github.com/segmentio/kafka-go"
)

// writeBatchTimeout caps how long WriteMessages waits to fill a batch. The
// writer default of one second would stall every publish.
const writeBatchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OfferOutcomePublisher writes started and terminal offer events to the
// outcome topic, keyed by driver so one driver's events stay ordered.
// Countdown ticks are not published.
type OfferOutcomePublisher struct {
	writer messageWriter
}

func NewOfferOutcomePublisher(brokers []string, topic string) *OfferOutcomePublisher {
	return newOfferOutcomePublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           writeBatchTimeout,
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func newOfferOutcomePublisher(writer messageWriter) *OfferOutcomePublisher {
	return &OfferOutcomePublisher{writer: writer}
}

func (p *OfferOutcomePublisher) Publish(ctx context.Context, event offer.Event) error {
	if event.Type == offer.EventTicked {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode offer event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.DriverID.String()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish offer %s event: %w", event.Type, err)
	}
	return nil
}

func (p *OfferOutcomePublisher) Close() error {
	return p.writer.Close()
}
