package negotiation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
)

const publishTimeout = 5 * time.Second

// Backend carries out a driver's answer. Skips and expiries never reach it.
type Backend interface {
	Accept(ctx context.Context, kind offer.Kind, subjectID, driverID kernel.UUID) error
	Decline(ctx context.Context, kind offer.Kind, subjectID, driverID kernel.UUID, reason string) error
}

// Timeouts are the countdown lengths used when a presentation does not set one.
type Timeouts struct {
	BatchSeconds  int
	SingleSeconds int
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		BatchSeconds:  offer.DefaultBatchTimeoutSeconds,
		SingleSeconds: offer.DefaultSingleTimeoutSeconds,
	}
}

func (t Timeouts) For(kind offer.Kind) int {
	switch {
	case kind == offer.KindBatch && t.BatchSeconds > 0:
		return t.BatchSeconds
	case kind == offer.KindSingle && t.SingleSeconds > 0:
		return t.SingleSeconds
	default:
		return offer.DefaultTimeoutSeconds(kind)
	}
}

// Presentation is an inbound request to show an offer to a driver.
type Presentation struct {
	DriverID       kernel.UUID
	SubjectID      kernel.UUID
	Kind           offer.Kind
	TimeoutSeconds int
	PresentedAt    time.Time
}

// Negotiator owns the offer countdown of one driver.
type Negotiator struct {
	driverID  kernel.UUID
	timer     *Timer
	backend   Backend
	publisher ports.OfferEventPublisher
	timeouts  Timeouts
	logger    *slog.Logger
}

func NewNegotiator(
	driverID kernel.UUID,
	backend Backend,
	publisher ports.OfferEventPublisher,
	timeouts Timeouts,
	logger *slog.Logger,
) *Negotiator {
	n := &Negotiator{
		driverID:  driverID,
		backend:   backend,
		publisher: publisher,
		timeouts:  timeouts,
		logger:    logger.With("component", "negotiator", "driver_id", driverID.String()),
	}
	n.timer = NewTimer(n.publish)
	return n
}

// Present starts the countdown for p, replacing any live offer.
func (n *Negotiator) Present(p Presentation) (Snapshot, error) {
	if !p.DriverID.IsEqual(n.driverID) {
		return Snapshot{}, fmt.Errorf("presentation for driver %s sent to negotiator of %s", p.DriverID, n.driverID)
	}

	timeout := p.TimeoutSeconds
	if timeout == 0 {
		timeout = n.timeouts.For(p.Kind)
	}
	presentedAt := p.PresentedAt
	if presentedAt.IsZero() {
		presentedAt = time.Now().UTC()
	}

	o, err := offer.NewOffer(p.SubjectID, p.Kind, n.driverID, presentedAt, timeout)
	if err != nil {
		return Snapshot{}, err
	}
	if err := n.timer.Start(o); err != nil {
		return Snapshot{}, err
	}

	snap, _ := n.timer.Snapshot()
	return snap, nil
}

// Accept stops the countdown and asks the backend to assign the subject.
// The local outcome stands even when the backend refuses; its error is
// returned so the driver sees why.
func (n *Negotiator) Accept(ctx context.Context) (Snapshot, error) {
	snap, err := n.timer.Accept()
	if err != nil {
		return Snapshot{}, err
	}

	if err := n.backend.Accept(ctx, snap.Kind, snap.SubjectID, n.driverID); err != nil {
		n.logger.WarnContext(ctx, "Backend refused accepted offer",
			"offer_id", snap.OfferID.String(), "subject_id", snap.SubjectID.String(), "error", err)
		return snap, err
	}
	return snap, nil
}

// Decline stops the countdown and records the decline with the backend.
func (n *Negotiator) Decline(ctx context.Context, reason string) (Snapshot, error) {
	snap, err := n.timer.Decline()
	if err != nil {
		return Snapshot{}, err
	}

	if err := n.backend.Decline(ctx, snap.Kind, snap.SubjectID, n.driverID, reason); err != nil {
		n.logger.WarnContext(ctx, "Backend refused declined offer",
			"offer_id", snap.OfferID.String(), "subject_id", snap.SubjectID.String(), "error", err)
		return snap, err
	}
	return snap, nil
}

// Skip passes on the offer without telling the backend.
func (n *Negotiator) Skip() (Snapshot, error) {
	return n.timer.Skip()
}

// Cancel dismisses the offer without telling the backend.
func (n *Negotiator) Cancel() (Snapshot, error) {
	return n.timer.Cancel()
}

func (n *Negotiator) Tick() bool {
	return n.timer.Tick()
}

func (n *Negotiator) Current() (Snapshot, bool) {
	return n.timer.Snapshot()
}

func (n *Negotiator) publish(ev offer.Event) {
	if n.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, ev); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish offer event",
			"event", string(ev.Type), "offer_id", ev.OfferID.String(), "error", err)
	}
}
