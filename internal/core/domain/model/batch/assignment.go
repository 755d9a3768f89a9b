package batch

import (
	"errors"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrAssignedToAnotherDriver is returned when a driver acts on work held by someone else.
	ErrAssignedToAnotherDriver = errors.New("already assigned to another driver")

	// ErrTerminalStatus is returned for any change requested after Completed or Cancelled.
	ErrTerminalStatus = errors.New("status is terminal")
)

// DeclineOutcome tells the caller what a decline actually did.
type DeclineOutcome string

const (
	// DeclineRecorded means the work was unassigned and the driver was added to its declined list.
	DeclineRecorded DeclineOutcome = "declined"
	// DeclineUnassigned means the driver released work previously assigned to them.
	DeclineUnassigned DeclineOutcome = "unassigned"
)

// assignment is the driver ownership state shared by batches and single orders.
type assignment struct {
	driverID   *kernel.UUID
	declinedBy []kernel.UUID
}

func newAssignment(driverID *kernel.UUID, declinedBy []kernel.UUID) (assignment, error) {
	a := assignment{declinedBy: slices.Clone(declinedBy)}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return assignment{}, err
		}
		id := *driverID
		a.driverID = &id
	}
	for _, id := range declinedBy {
		if err := id.Validate(); err != nil {
			return assignment{}, err
		}
	}
	return a, nil
}

func (a *assignment) driver() *kernel.UUID {
	if a.driverID == nil {
		return nil
	}
	id := *a.driverID
	return &id
}

func (a *assignment) isAssignedTo(driverID kernel.UUID) bool {
	return a.driverID != nil && a.driverID.IsEqual(driverID)
}

func (a *assignment) hasDeclined(driverID kernel.UUID) bool {
	return slices.ContainsFunc(a.declinedBy, driverID.IsEqual)
}

// accept assigns the work to driverID. Accepting own work again is a no-op.
func (a *assignment) accept(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if a.driverID != nil && !a.driverID.IsEqual(driverID) {
		return ErrAssignedToAnotherDriver
	}
	a.driverID = &driverID
	return nil
}

// decline follows the backend rules: unassigned work records the driver as
// having declined, own work is released back to the pool, and work owned by
// another driver cannot be declined.
func (a *assignment) decline(driverID kernel.UUID) (DeclineOutcome, error) {
	if err := driverID.Validate(); err != nil {
		return "", err
	}
	switch {
	case a.driverID == nil:
		if !a.hasDeclined(driverID) {
			a.declinedBy = append(a.declinedBy, driverID)
		}
		return DeclineRecorded, nil
	case a.driverID.IsEqual(driverID):
		a.driverID = nil
		return DeclineUnassigned, nil
	default:
		return "", ErrAssignedToAnotherDriver
	}
}
