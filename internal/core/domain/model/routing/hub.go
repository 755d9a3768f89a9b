package routing

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

// Hub is a regional hub of the franchise network.
type Hub struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Region      string             `json:"region"`
	Coordinates *kernel.Coordinate `json:"coordinates,omitempty"`
}

// DestinationHub pairs an order with the hub that will deliver it.
type DestinationHub struct {
	OrderID kernel.UUID `json:"order_id"`
	Hub     Hub         `json:"hub"`
}

// HubLocator resolves hubs for franchise-network routing.
type HubLocator interface {
	// CollectionHub returns the hub that collects a batch from its pickup point.
	CollectionHub(pickup kernel.Coordinate) (Hub, error)
	// DestinationHub returns the hub responsible for a delivery coordinate.
	DestinationHub(delivery kernel.Coordinate) (Hub, error)
}

// QuadrantHubLocator splits the service area into four quadrants around a
// centre point and assigns one hub per quadrant.
//
// It stands in for a hub lookup service; the quadrant boundaries carry no
// business meaning and may change.
type QuadrantHubLocator struct {
	center kernel.Coordinate
}

// NewQuadrantHubLocator creates a locator whose quadrants meet at center.
func NewQuadrantHubLocator(center kernel.Coordinate) QuadrantHubLocator {
	return QuadrantHubLocator{center: center}
}

// CollectionHub returns the hub of the quadrant the pickup falls in.
func (l QuadrantHubLocator) CollectionHub(pickup kernel.Coordinate) (Hub, error) {
	return l.hubFor(pickup), nil
}

// DestinationHub returns the hub of the quadrant the delivery falls in.
func (l QuadrantHubLocator) DestinationHub(delivery kernel.Coordinate) (Hub, error) {
	return l.hubFor(delivery), nil
}

func (l QuadrantHubLocator) hubFor(c kernel.Coordinate) Hub {
	ns := "south"
	if c.Latitude() >= l.center.Latitude() {
		ns = "north"
	}
	ew := "west"
	if c.Longitude() >= l.center.Longitude() {
		ew = "east"
	}

	region := ns + "-" + ew
	return Hub{
		ID:     "hub-" + string(ns[0]) + string(ew[0]),
		Name:   fmt.Sprintf("%s %s hub", capitalize(ns), capitalize(ew)),
		Region: region,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
