package offer

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// DefaultBatchTimeoutSeconds is the countdown for batch offers.
	DefaultBatchTimeoutSeconds = 15
	// DefaultSingleTimeoutSeconds is the countdown for single-order offers.
	DefaultSingleTimeoutSeconds = 30

	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 600
)

// ErrOfferIsNotConstructed is returned when an Offer was not created through NewOffer.
var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer constructor")

// Offer is a time-bounded proposal of one order or batch to one driver.
// A recurring subject is always presented as a brand-new Offer with its own id.
type Offer struct {
	id             kernel.UUID
	subjectID      kernel.UUID
	kind           Kind
	driverID       kernel.UUID
	presentedAt    time.Time
	timeoutSeconds int
	state          State

	isConstructed bool
}

// NewOffer creates a pending offer.
//
// Parameters:
//   - subjectID: the order id (KindSingle) or batch id (KindBatch)
//   - kind: KindSingle or KindBatch
//   - driverID: the driver the offer is presented to
//   - presentedAt: when the notification arrived
//   - timeoutSeconds: countdown length, within [MinTimeoutSeconds, MaxTimeoutSeconds]
func NewOffer(
	subjectID kernel.UUID,
	kind Kind,
	driverID kernel.UUID,
	presentedAt time.Time,
	timeoutSeconds int,
) (*Offer, error) {
	o := &Offer{
		id:            kernel.NewUUID(),
		presentedAt:   presentedAt,
		state:         Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setSubjectID(subjectID),
		o.setKind(kind),
		o.setDriverID(driverID),
		o.setTimeout(timeoutSeconds),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// DefaultTimeoutSeconds returns the countdown used when the caller does not supply one.
func DefaultTimeoutSeconds(kind Kind) int {
	if kind == KindBatch {
		return DefaultBatchTimeoutSeconds
	}
	return DefaultSingleTimeoutSeconds
}

func (o *Offer) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOfferIsNotConstructed
	}
	return nil
}

func (o *Offer) ID() kernel.UUID        { return o.id }
func (o *Offer) SubjectID() kernel.UUID { return o.subjectID }
func (o *Offer) Kind() Kind             { return o.kind }
func (o *Offer) DriverID() kernel.UUID  { return o.driverID }
func (o *Offer) PresentedAt() time.Time { return o.presentedAt }
func (o *Offer) TimeoutSeconds() int    { return o.timeoutSeconds }
func (o *Offer) State() State           { return o.state }

func (o *Offer) IsPending() bool {
	return o.state == Pending
}

func (o *Offer) Accept() error  { return o.moveTo(Accepted) }
func (o *Offer) Decline() error { return o.moveTo(Declined) }
func (o *Offer) Skip() error    { return o.moveTo(Skipped) }
func (o *Offer) Expire() error  { return o.moveTo(Expired) }
func (o *Offer) Cancel() error  { return o.moveTo(Cancelled) }

func (o *Offer) moveTo(target State) error {
	next, err := o.state.transition(target)
	if err != nil {
		return err
	}
	o.state = next
	return nil
}

func (o *Offer) setSubjectID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("subject_id", err)
	}
	o.subjectID = id
	return nil
}

func (o *Offer) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Offer) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}
	o.driverID = id
	return nil
}

func (o *Offer) setTimeout(seconds int) error {
	if seconds < MinTimeoutSeconds || seconds > MaxTimeoutSeconds {
		return errs.NewValueIsOutOfRangeError("timeout_seconds", seconds, MinTimeoutSeconds, MaxTimeoutSeconds)
	}
	o.timeoutSeconds = seconds
	return nil
}
