package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerStub struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func newEvent(t *testing.T, eventType offer.EventType, remaining int) offer.Event {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), offer.KindBatch, kernel.NewUUID(),
		time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), 15)
	require.NoError(t, err)
	return offer.NewEvent(eventType, o, remaining, o.PresentedAt().Add(time.Second))
}

func TestOfferOutcomePublisher_Publish(t *testing.T) {
	t.Run("terminal event is written keyed by driver", func(t *testing.T) {
		// Given
		writer := &writerStub{}
		publisher := newOfferOutcomePublisher(writer)
		event := newEvent(t, offer.EventAccepted, 9)

		// When
		err := publisher.Publish(context.Background(), event)

		// Then
		require.NoError(t, err)
		require.Len(t, writer.messages, 1)
		msg := writer.messages[0]
		assert.Equal(t, event.DriverID.String(), string(msg.Key))
		assert.Equal(t, "accepted", string(msg.Headers[0].Value))

		var decoded offer.Event
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, event.OfferID, decoded.OfferID)
		assert.Equal(t, offer.EventAccepted, decoded.Type)
		assert.Equal(t, 9, decoded.RemainingSeconds)
	})

	t.Run("started event is written", func(t *testing.T) {
		writer := &writerStub{}
		publisher := newOfferOutcomePublisher(writer)

		require.NoError(t, publisher.Publish(context.Background(), newEvent(t, offer.EventStarted, 15)))
		assert.Len(t, writer.messages, 1)
	})

	t.Run("ticks are not written", func(t *testing.T) {
		writer := &writerStub{}
		publisher := newOfferOutcomePublisher(writer)

		require.NoError(t, publisher.Publish(context.Background(), newEvent(t, offer.EventTicked, 14)))
		assert.Empty(t, writer.messages)
	})

	t.Run("writer failure is returned", func(t *testing.T) {
		writeErr := errors.New("broker unavailable")
		publisher := newOfferOutcomePublisher(&writerStub{err: writeErr})

		err := publisher.Publish(context.Background(), newEvent(t, offer.EventExpired, 0))

		assert.ErrorIs(t, err, writeErr)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestOfferOutcomePublisher_Close(t *testing.T) {
	writer := &writerStub{}
	require.NoError(t, newOfferOutcomePublisher(writer).Close())
	assert.True(t, writer.closed)
}

func TestNewOfferOutcomePublisher_WriterSettings(t *testing.T) {
	p := NewOfferOutcomePublisher([]string{"localhost:9092"}, "driver.offer-outcomes")
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "driver.offer-outcomes", w.Topic)
	assert.Equal(t, writeBatchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	assert.IsType(t, &kafkago.Hash{}, w.Balancer)
}
