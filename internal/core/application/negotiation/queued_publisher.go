package negotiation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
)

var (
	ErrPublishQueueFull = errors.New("offer event queue is full")
	ErrPublisherClosed  = errors.New("offer event publisher is closed")
)

// QueuedPublisher hands events to a slow publisher from its own goroutine,
// so countdown ticks and driver answers never wait on a broker round trip.
// Events reach the wrapped publisher in the order they were queued. When the
// queue is full the event is refused with ErrPublishQueueFull.
type QueuedPublisher struct {
	next   ports.OfferEventPublisher
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan offer.Event
	done   chan struct{}
}

func NewQueuedPublisher(next ports.OfferEventPublisher, size int, logger *slog.Logger) *QueuedPublisher {
	if size <= 0 {
		size = defaultInboundBuffer
	}
	p := &QueuedPublisher{
		next:   next,
		logger: logger.With("component", "queued_publisher"),
		queue:  make(chan offer.Event, size),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *QueuedPublisher) Publish(_ context.Context, event offer.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

// Close stops accepting events and returns once the queued ones were handed
// to the wrapped publisher.
func (p *QueuedPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *QueuedPublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish queued offer event",
				"event", string(event.Type),
				"offer_id", event.OfferID.String(),
				"driver_id", event.DriverID.String(),
				"error", err)
		}
		cancel()
	}
}
