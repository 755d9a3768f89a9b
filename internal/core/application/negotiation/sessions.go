package negotiation

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const defaultInboundBuffer = 64

// Sessions keeps one Negotiator per driver. Offers arrive either directly
// through Present or through the inbound queue drained by Run.
type Sessions struct {
	mu          sync.RWMutex
	negotiators map[kernel.UUID]*Negotiator

	inbound   chan Presentation
	backend   Backend
	publisher ports.OfferEventPublisher
	timeouts  Timeouts
	logger    *slog.Logger
}

func NewSessions(
	backend Backend,
	publisher ports.OfferEventPublisher,
	timeouts Timeouts,
	logger *slog.Logger,
) *Sessions {
	return &Sessions{
		negotiators: make(map[kernel.UUID]*Negotiator),
		inbound:     make(chan Presentation, defaultInboundBuffer),
		backend:     backend,
		publisher:   publisher,
		timeouts:    timeouts,
		logger:      logger,
	}
}

// Enqueue hands p to Run. It blocks while the queue is full.
func (s *Sessions) Enqueue(ctx context.Context, p Presentation) error {
	select {
	case s.inbound <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run presents queued offers until ctx is done.
func (s *Sessions) Run(ctx context.Context) error {
	logger := s.logger.With("component", "offer_sessions")
	logger.InfoContext(ctx, "Offer sessions started")

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Offer sessions stopped")
			return ctx.Err()
		case p := <-s.inbound:
			if _, err := s.Present(p); err != nil {
				logger.WarnContext(ctx, "Dropped offer presentation",
					"driver_id", p.DriverID.String(),
					"subject_id", p.SubjectID.String(),
					"error", err)
			}
		}
	}
}

// Present shows p to its driver right away.
func (s *Sessions) Present(p Presentation) (Snapshot, error) {
	if err := p.DriverID.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s.negotiatorFor(p.DriverID).Present(p)
}

// Get returns the driver's negotiator if an offer was ever presented to them.
func (s *Sessions) Get(driverID kernel.UUID) (*Negotiator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.negotiators[driverID]
	return n, ok
}

// TickAll advances every driver's countdown by one second and returns how
// many live offers were ticked.
func (s *Sessions) TickAll() int {
	s.mu.RLock()
	negotiators := make([]*Negotiator, 0, len(s.negotiators))
	for _, n := range s.negotiators {
		negotiators = append(negotiators, n)
	}
	s.mu.RUnlock()

	ticked := 0
	for _, n := range negotiators {
		if n.Tick() {
			ticked++
		}
	}
	return ticked
}

func (s *Sessions) negotiatorFor(driverID kernel.UUID) *Negotiator {
	if n, ok := s.Get(driverID); ok {
		return n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.negotiators[driverID]; ok {
		return n
	}
	n := NewNegotiator(driverID, s.backend, s.publisher, s.timeouts, s.logger)
	s.negotiators[driverID] = n
	return n
}
