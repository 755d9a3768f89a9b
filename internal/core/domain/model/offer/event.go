package offer

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventType names what happened to an offer.
type EventType string

const (
	EventStarted   EventType = "started"
	EventTicked    EventType = "ticked"
	EventAccepted  EventType = "accepted"
	EventDeclined  EventType = "declined"
	EventSkipped   EventType = "skipped"
	EventExpired   EventType = "expired"
	EventCancelled EventType = "cancelled"
)

// Event is emitted to the driver UI and the outcome topic on every countdown
// step and on every terminal transition.
//
// Sequence increases by one per event of the same driver in the order the
// transitions happened. Delivery order may differ when a tick races with an
// answer, so consumers drop any event whose Sequence is not above the last
// one they applied.
type Event struct {
	Type             EventType   `json:"type"`
	OfferID          kernel.UUID `json:"offer_id"`
	SubjectID        kernel.UUID `json:"subject_id"`
	Kind             Kind        `json:"kind"`
	DriverID         kernel.UUID `json:"driver_id"`
	State            State       `json:"state"`
	RemainingSeconds int         `json:"remaining_seconds"`
	TotalSeconds     int         `json:"total_seconds"`
	Progress         float64     `json:"progress"`
	OccurredAt       time.Time   `json:"occurred_at"`
	Sequence         uint64      `json:"sequence"`
}

// NewEvent snapshots o together with the countdown position.
func NewEvent(eventType EventType, o *Offer, remaining int, at time.Time) Event {
	return Event{
		Type:             eventType,
		OfferID:          o.ID(),
		SubjectID:        o.SubjectID(),
		Kind:             o.Kind(),
		DriverID:         o.DriverID(),
		State:            o.State(),
		RemainingSeconds: remaining,
		TotalSeconds:     o.TimeoutSeconds(),
		Progress:         Progress(remaining, o.TimeoutSeconds()),
		OccurredAt:       at,
	}
}

// IsTerminal is true for events that end an offer.
func (e Event) IsTerminal() bool {
	return e.Type != EventStarted && e.Type != EventTicked
}

// Progress is remaining/total clamped to [0, 1]. A non-positive total yields 0.
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(remaining) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
