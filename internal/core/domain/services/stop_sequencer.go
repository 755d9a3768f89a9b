package services

import (
	"cmp"
	"math"
	"slices"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
)

// LatitudeTieToleranceDeg is the latitude difference under which two stops are
// considered on the same row and ordered by longitude instead.
const LatitudeTieToleranceDeg = 0.001

// StopSequencer orders delivery stops for navigation.
//
// The ordering is a coarse geographic sweep (south to north, then west to
// east within a latitude band), not a route optimisation. Stops without
// coordinates sort as if they were at (0,0) and are never dropped.
//
// Example usage:
//
//	sequencer := services.NewStopSequencer()
//	ordered := sequencer.Sequence(batch.StopsFromOrders(b.Orders()), b.SmartRoutingEnabled())
type StopSequencer struct{}

// NewStopSequencer creates a new StopSequencer instance.
func NewStopSequencer() StopSequencer {
	return StopSequencer{}
}

// Sequence returns the stops in navigation order.
//
// Parameters:
//   - stops: the stops to order (not modified)
//   - smartRoutingEnabled: when false the input is returned unchanged
//
// Returns:
//   - the input itself when smart routing is off or there are fewer than two stops
//   - otherwise a new slice, sorted stably, with Sequence renumbered from 1
func (StopSequencer) Sequence(stops []batch.DeliveryStop, smartRoutingEnabled bool) []batch.DeliveryStop {
	if !smartRoutingEnabled || len(stops) < 2 {
		return stops
	}

	ordered := slices.Clone(stops)
	slices.SortStableFunc(ordered, compareStops)

	for i := range ordered {
		ordered[i].Sequence = i + 1
	}

	return ordered
}

func compareStops(a, b batch.DeliveryStop) int {
	ca := kernel.OrOrigin(a.Coordinates)
	cb := kernel.OrOrigin(b.Coordinates)

	if math.Abs(ca.Latitude()-cb.Latitude()) > LatitudeTieToleranceDeg {
		return cmp.Compare(ca.Latitude(), cb.Latitude())
	}
	return cmp.Compare(ca.Longitude(), cb.Longitude())
}
