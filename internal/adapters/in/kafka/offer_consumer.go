// Package kafka feeds offers published by the dispatch backend into the
// driver offer sessions.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	kafkago "github.com/segmentio/kafka-go"
)

// OfferMessage is the JSON body of a message on the offer topic.
type OfferMessage struct {
	DriverID       kernel.UUID `json:"driver_id"`
	SubjectID      kernel.UUID `json:"subject_id"`
	Kind           offer.Kind  `json:"kind"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty"`
	PresentedAt    *time.Time  `json:"presented_at,omitempty"`
}

func (m OfferMessage) presentation() negotiation.Presentation {
	p := negotiation.Presentation{
		DriverID:       m.DriverID,
		SubjectID:      m.SubjectID,
		Kind:           m.Kind,
		TimeoutSeconds: m.TimeoutSeconds,
	}
	if m.PresentedAt != nil {
		p.PresentedAt = *m.PresentedAt
	}
	return p
}

type OfferQueue interface {
	Enqueue(ctx context.Context, p negotiation.Presentation) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OfferConsumer reads offer messages and enqueues them for presentation.
type OfferConsumer struct {
	reader messageReader
	queue  OfferQueue
	logger *slog.Logger
}

func NewOfferConsumer(
	brokers []string,
	groupID string,
	topic string,
	queue OfferQueue,
	logger *slog.Logger,
) *OfferConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newOfferConsumer(reader, queue, logger)
}

func newOfferConsumer(reader messageReader, queue OfferQueue, logger *slog.Logger) *OfferConsumer {
	return &OfferConsumer{
		reader: reader,
		queue:  queue,
		logger: logger.With("component", "offer_consumer"),
	}
}

// Start consumes offers until ctx is cancelled. A cancelled context is not
// reported as an error.
func (c *OfferConsumer) Start(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Offer consumer started")
	defer c.logger.InfoContext(ctx, "Offer consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.WarnContext(ctx, "Failed to commit offer message",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
		}
	}
}

func (c *OfferConsumer) Close() error {
	return c.reader.Close()
}

func (c *OfferConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var body OfferMessage
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		c.logger.ErrorContext(ctx, "Failed to parse offer message",
			"error", err,
			"raw", string(msg.Value))
		return nil
	}

	if body.Kind != offer.KindBatch && body.Kind != offer.KindSingle {
		c.logger.WarnContext(ctx, "Ignoring offer of unknown kind",
			"kind", string(body.Kind),
			"subject_id", body.SubjectID.String())
		return nil
	}

	if err := body.DriverID.Validate(); err != nil {
		c.logger.WarnContext(ctx, "Ignoring offer without driver",
			"subject_id", body.SubjectID.String())
		return nil
	}

	c.logger.DebugContext(ctx, "Offer received",
		"driver_id", body.DriverID.String(),
		"subject_id", body.SubjectID.String(),
		"kind", string(body.Kind))

	return c.queue.Enqueue(ctx, body.presentation())
}
