package offer

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// ErrOfferIsNotPending is returned for any transition out of a terminal state.
var ErrOfferIsNotPending = errors.New("offer is not pending")

// State is the life cycle of a presented offer.
//
//	          ┌──> Accepted
//	          ├──> Declined
//	Pending ──┼──> Skipped
//	          ├──> Expired   (countdown reached zero)
//	          └──> Cancelled (superseded or dismissed)
//
// Every state other than Pending is terminal.
type State int

const (
	// Unknown is the zero value and never valid.
	Unknown State = iota
	Pending
	Accepted
	Declined
	Skipped
	Expired
	Cancelled
)

func getStateStrings() map[State]string {
	return map[State]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Accepted:  "accepted",
		Declined:  "declined",
		Skipped:   "skipped",
		Expired:   "expired",
		Cancelled: "cancelled",
	}
}

func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s State) Validate() error {
	if _, ok := getStateStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

func (s State) IsTerminal() bool {
	return s != Pending
}

// transition moves a pending offer to target.
func (s State) transition(target State) (State, error) {
	if s != Pending {
		return s, fmt.Errorf("%w: cannot move from %s to %s", ErrOfferIsNotPending, s, target)
	}
	return target, nil
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	value := strings.ToLower(string(text))
	for state, name := range getStateStrings() {
		if name == value && state != Unknown {
			*s = state
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid state", value))
}

// Kind distinguishes single-order offers from batch offers.
type Kind string

const (
	KindSingle Kind = "single"
	KindBatch  Kind = "batch"
)

func (k Kind) Validate() error {
	if k != KindSingle && k != KindBatch {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not single or batch", string(k)))
	}
	return nil
}
