// Package negotiation runs the countdown of the offers presented to a driver
// and turns the driver's answer into backend commands.
package negotiation

import (
	"errors"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
)

var (
	// ErrNoLiveOffer is returned when an action needs a pending offer and there is none.
	ErrNoLiveOffer = errors.New("no live offer")
	// ErrOfferAlreadyStarted is returned when the live offer is started again.
	ErrOfferAlreadyStarted = errors.New("offer already started")
)

// Listener receives every event of a Timer. It is called without the timer
// lock held, so it may call back into the timer.
type Listener func(offer.Event)

// Snapshot is the countdown state of the latest offer.
type Snapshot struct {
	OfferID          kernel.UUID
	SubjectID        kernel.UUID
	Kind             offer.Kind
	DriverID         kernel.UUID
	State            offer.State
	PresentedAt      time.Time
	RemainingSeconds int
	TotalSeconds     int
	Progress         float64
}

// Timer counts down one offer at a time.
//
// The countdown advances only through Tick, normally once per second. When
// a tick brings the remaining time to zero, the ticked event is delivered
// first and the offer expires afterwards unless it was resolved in the
// meantime. An explicit action taken at remaining=0 therefore wins over
// expiry.
//
// Listeners run after the lock is released, so two goroutines may deliver
// their events out of order. Every event carries a Sequence assigned under
// the lock; it is the authoritative order.
type Timer struct {
	mu        sync.Mutex
	current   *offer.Offer
	remaining int
	sequence  uint64
	listener  Listener
	now       func() time.Time
}

func NewTimer(listener Listener) *Timer {
	if listener == nil {
		listener = func(offer.Event) {}
	}
	return &Timer{
		listener: listener,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp events.
func (t *Timer) WithClock(now func() time.Time) *Timer {
	t.now = now
	return t
}

// Start presents o. A different live offer is cancelled first; it ends
// Cancelled, never Expired or Skipped. Starting the live offer again returns
// ErrOfferAlreadyStarted and changes nothing.
func (t *Timer) Start(o *offer.Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.IsPending() {
		return offer.ErrOfferIsNotPending
	}

	t.mu.Lock()
	if t.current == o {
		t.mu.Unlock()
		return ErrOfferAlreadyStarted
	}
	events := make([]offer.Event, 0, 2)
	if t.isLive() {
		if err := t.current.Cancel(); err != nil {
			t.mu.Unlock()
			return err
		}
		events = append(events, t.event(offer.EventCancelled))
	}
	t.current = o
	t.remaining = o.TimeoutSeconds()
	events = append(events, t.event(offer.EventStarted))
	t.mu.Unlock()

	t.emit(events...)
	return nil
}

// Tick advances the countdown by one second. It reports whether a live
// offer was ticked.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if !t.isLive() {
		t.mu.Unlock()
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	ticked := t.event(offer.EventTicked)
	ticking := t.current
	reachedZero := t.remaining == 0
	t.mu.Unlock()

	t.emit(ticked)

	if reachedZero {
		t.expire(ticking)
	}
	return true
}

func (t *Timer) Accept() (Snapshot, error) { return t.resolve(offer.EventAccepted, (*offer.Offer).Accept) }

func (t *Timer) Decline() (Snapshot, error) { return t.resolve(offer.EventDeclined, (*offer.Offer).Decline) }

func (t *Timer) Skip() (Snapshot, error) { return t.resolve(offer.EventSkipped, (*offer.Offer).Skip) }

func (t *Timer) Cancel() (Snapshot, error) { return t.resolve(offer.EventCancelled, (*offer.Offer).Cancel) }

// Snapshot returns the state of the latest offer, live or not. The second
// result is false when no offer was ever started.
func (t *Timer) Snapshot() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return Snapshot{}, false
	}
	return t.snapshot(), true
}

// expire ends o unless it was resolved or replaced after its last tick.
func (t *Timer) expire(o *offer.Offer) {
	t.mu.Lock()
	if t.current != o || !o.IsPending() {
		t.mu.Unlock()
		return
	}
	if err := o.Expire(); err != nil {
		t.mu.Unlock()
		return
	}
	expired := t.event(offer.EventExpired)
	t.mu.Unlock()

	t.emit(expired)
}

func (t *Timer) resolve(eventType offer.EventType, transition func(*offer.Offer) error) (Snapshot, error) {
	t.mu.Lock()
	if !t.isLive() {
		t.mu.Unlock()
		return Snapshot{}, ErrNoLiveOffer
	}
	if err := transition(t.current); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}
	ev := t.event(eventType)
	snap := t.snapshot()
	t.mu.Unlock()

	t.emit(ev)
	return snap, nil
}

func (t *Timer) isLive() bool {
	return t.current != nil && t.current.IsPending()
}

func (t *Timer) event(eventType offer.EventType) offer.Event {
	t.sequence++
	ev := offer.NewEvent(eventType, t.current, t.remaining, t.now().UTC())
	ev.Sequence = t.sequence
	return ev
}

func (t *Timer) snapshot() Snapshot {
	o := t.current
	return Snapshot{
		OfferID:          o.ID(),
		SubjectID:        o.SubjectID(),
		Kind:             o.Kind(),
		DriverID:         o.DriverID(),
		State:            o.State(),
		PresentedAt:      o.PresentedAt(),
		RemainingSeconds: t.remaining,
		TotalSeconds:     o.TimeoutSeconds(),
		Progress:         offer.Progress(t.remaining, o.TimeoutSeconds()),
	}
}

func (t *Timer) emit(events ...offer.Event) {
	for _, ev := range events {
		t.listener(ev)
	}
}
