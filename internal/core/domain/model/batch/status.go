package batch

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the canonical lifecycle state of a batch or a single delivery.
//
// Lifecycle (not strictly linear):
//
//	Draft ──> Submitted ──> ReadyForPickup ──> DriverAssigned ──> Collected
//	                                                                 │
//	             ┌───────────────────────────────────────────────────┤
//	             ▼                                                   │
//	      AtWarehouse <──> WarehouseProcessing ──> FinalDelivery <───┘
//	                                                    │
//	                                                    ▼
//	                                                Completed
//
// Cancelled is reachable from every non-terminal state. Completed and Cancelled
// are terminal.
//
// Transitions are owned by the backend. The engine only maps whatever the
// backend reports (MapBackendStatus) and refuses to issue further requests once
// a terminal state is reached.
type Status int

const (
	// Draft is the zero value and the fail-safe mapping for unknown backend values.
	Draft Status = iota
	Submitted
	ReadyForPickup
	DriverAssigned
	Collected
	AtWarehouse
	WarehouseProcessing
	FinalDelivery
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Draft:               "DRAFT",
		Submitted:           "SUBMITTED",
		ReadyForPickup:      "READY_FOR_PICKUP",
		DriverAssigned:      "DRIVER_ASSIGNED",
		Collected:           "COLLECTED",
		AtWarehouse:         "AT_WAREHOUSE",
		WarehouseProcessing: "WAREHOUSE_PROCESSING",
		FinalDelivery:       "FINAL_DELIVERY",
		Completed:           "COMPLETED",
		Cancelled:           "CANCELLED",
	}
}

// getBackendStatuses is the wire contract with the backend. Keys must stay
// exactly as the backend emits them, legacy values included.
func getBackendStatuses() map[string]Status {
	return map[string]Status{
		"draft":                   Draft,
		"batch_created":           Draft,
		"created":                 Draft,
		"submitted":               Submitted,
		"pending":                 Submitted,
		"ready_for_pickup":        ReadyForPickup,
		"ready":                   ReadyForPickup,
		"driver_assigned":         DriverAssigned,
		"assigned":                DriverAssigned,
		"accepted":                DriverAssigned,
		"collected":               Collected,
		"picked_up":               Collected,
		"at_warehouse":            AtWarehouse,
		"arrived_at_warehouse":    AtWarehouse,
		"arrived_at_wh_1":         AtWarehouse,
		"step1_complete":          AtWarehouse,
		"warehouse_processing":    WarehouseProcessing,
		"processing_at_warehouse": WarehouseProcessing,
		"sorting":                 WarehouseProcessing,
		"final_delivery":          FinalDelivery,
		"out_for_delivery":        FinalDelivery,
		"in_transit":              FinalDelivery,
		"step2_in_progress":       FinalDelivery,
		"completed":               Completed,
		"delivered":               Completed,
		"step2_complete":          Completed,
		"cancelled":               Cancelled,
		"canceled":                Cancelled,
	}
}

// MapBackendStatus translates a backend status string into exactly one canonical
// Status. Matching ignores case and surrounding whitespace. Unrecognized values
// map to Draft; the function never fails.
//
// Example:
//
//	batch.MapBackendStatus("arrived_at_wh_1") // AtWarehouse
//	batch.MapBackendStatus("something_new")   // Draft
func MapBackendStatus(raw string) Status {
	if s, ok := getBackendStatuses()[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return Draft
}

// ParseStatus parses a canonical status name (either "COLLECTED" or "collected").
// Unlike MapBackendStatus it rejects anything outside the canonical vocabulary;
// it is meant for validating inbound requests.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if name == normalized {
			return status, nil
		}
	}
	return Draft, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a canonical status", s),
	)
}

// Validate reports whether s is one of the declared statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical upper-snake name, e.g. "READY_FOR_PICKUP".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// WireValue is the value sent to the backend's update-batch-status endpoint.
func (s Status) WireValue() string {
	return strings.ToLower(s.String())
}

// DeliveryWireValue is the value sent to the backend's update-delivery-status
// endpoint, which still speaks the older per-delivery vocabulary.
func (s Status) DeliveryWireValue() string {
	switch s {
	case DriverAssigned:
		return "accepted"
	case Collected:
		return "picked_up"
	case FinalDelivery:
		return "in_transit"
	case Completed:
		return "delivered"
	case Cancelled:
		return "cancelled"
	case Draft, Submitted, ReadyForPickup, AtWarehouse, WarehouseProcessing:
		return s.WireValue()
	}
	return s.WireValue()
}

// IsTerminal is true for Completed and Cancelled.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanBeCancelled is true for every non-terminal status.
func (s Status) CanBeCancelled() bool {
	return !s.IsTerminal()
}

// Intent names a driver action that requests a status change from the backend.
type Intent string

const (
	IntentStartPickup              Intent = "start_pickup"
	IntentArriveAtWarehouse        Intent = "arrive_at_warehouse"
	IntentStartWarehouseProcessing Intent = "start_warehouse_processing"
	IntentStartFinalDelivery       Intent = "start_final_delivery"
	IntentComplete                 Intent = "complete"
	IntentCancel                   Intent = "cancel"
)

func getIntentTargets() map[Intent]Status {
	return map[Intent]Status{
		IntentStartPickup:              Collected,
		IntentArriveAtWarehouse:        AtWarehouse,
		IntentStartWarehouseProcessing: WarehouseProcessing,
		IntentStartFinalDelivery:       FinalDelivery,
		IntentComplete:                 Completed,
		IntentCancel:                   Cancelled,
	}
}

// Target returns the status an intent moves toward.
func (i Intent) Target() (Status, error) {
	if s, ok := getIntentTargets()[i]; ok {
		return s, nil
	}
	return Draft, errs.NewValueIsInvalidErrorWithCause("intent", fmt.Errorf("%q is not a known intent", string(i)))
}

// ParseRequest resolves what a client asked for: an Intent name first,
// otherwise a canonical status name.
func ParseRequest(s string) (Status, error) {
	if target, err := Intent(strings.ToLower(strings.TrimSpace(s))).Target(); err == nil {
		return target, nil
	}
	return ParseStatus(s)
}
