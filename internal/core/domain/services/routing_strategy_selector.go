package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
)

// ErrNoOutcome is returned when a payload is requested for an empty classification.
var ErrNoOutcome = errors.New("classification has no routing outcome")

// warehouseKeywords mark a delivery address as a consolidation point.
var warehouseKeywords = []string{"warehouse", "distribution", "hub", "depot", "facility"}

// RoutingStrategySelector decides how an accepted batch is routed and builds
// the navigation payload for the chosen strategy.
//
// Decision order:
//  1. consolidation disabled: direct delivery (phase 1)
//  2. any order on the franchise network:
//     - mean pickup distance <= 50 km: franchise local delivery
//     - long range, tenant warehouse: local pickup then network delivery
//     - long range, no tenant warehouse: full hub-network collection
//  3. every order shares one warehouse-like address: warehouse consolidation
//  4. otherwise: final delivery (phase 2)
//
// Example usage:
//
//	selector := services.NewRoutingStrategySelector(hubs, logger)
//	payload := selector.Route(ctx, b, settings)
//	if payload.Fallback {
//	    // classification failed and the payload degraded to direct delivery
//	}
type RoutingStrategySelector struct {
	hubs      routing.HubLocator
	sequencer StopSequencer
	logger    *slog.Logger
	now       func() time.Time
}

// NewRoutingStrategySelector creates a selector that resolves franchise hubs through hubs.
func NewRoutingStrategySelector(hubs routing.HubLocator, logger *slog.Logger) *RoutingStrategySelector {
	return &RoutingStrategySelector{
		hubs:      hubs,
		sequencer: NewStopSequencer(),
		logger:    logger.With("component", "routing_strategy_selector"),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for GeneratedAt.
func (s *RoutingStrategySelector) WithClock(now func() time.Time) *RoutingStrategySelector {
	s.now = now
	return s
}

// Classify picks the routing outcome for b under settings.
//
// Missing coordinates never fail classification: the pickup falls back to a
// zero mean distance and orders without coordinates are left out of the mean
// and of hub assignment. Errors come only from an invalid batch or the hub
// locator.
func (s *RoutingStrategySelector) Classify(b *batch.Batch, settings routing.Settings) (routing.Classification, error) {
	if err := b.Validate(); err != nil {
		return routing.Classification{}, err
	}

	c := routing.Classification{TenantHasWarehouse: settings.TenantHasWarehouse}

	if !settings.ConsolidateToWarehouse {
		c.Outcome = routing.Direct{}
		return c, nil
	}

	orders := b.Orders()
	c.UsesFranchiseNetwork = usesFranchiseNetwork(orders)

	if c.UsesFranchiseNetwork {
		c.AverageDistanceKm = averageDistanceKm(b.Pickup().Coordinates, orders)
		c.IsLongRange = c.AverageDistanceKm > routing.LongRangeThresholdKm

		outcome, err := s.franchiseOutcome(b, c, settings)
		if err != nil {
			return routing.Classification{}, err
		}
		c.Outcome = outcome
		return c, nil
	}

	if warehouse, ok := sharedWarehouse(orders); ok {
		c.IsWarehouseBatch = true
		c.Outcome = routing.WarehouseConsolidation{Warehouse: warehouse}
		return c, nil
	}

	c.Outcome = routing.Direct{FinalLeg: true}
	return c, nil
}

// BuildNavigationPayload renders the payload for an existing classification.
func (s *RoutingStrategySelector) BuildNavigationPayload(
	b *batch.Batch,
	c routing.Classification,
) (routing.NavigationPayload, error) {
	if err := b.Validate(); err != nil {
		return routing.NavigationPayload{}, err
	}
	if c.Outcome == nil {
		return routing.NavigationPayload{}, ErrNoOutcome
	}

	builder := &payloadBuilder{
		batch:     b,
		sequencer: s.sequencer,
		payload:   s.basePayload(b, c.Outcome),
	}
	builder.payload.IsWarehouseBatch = c.IsWarehouseBatch
	builder.payload.UsesFranchiseNetwork = c.UsesFranchiseNetwork
	c.Outcome.Accept(builder)

	return builder.payload, nil
}

// Route classifies b and builds its payload. It never fails: any error or
// panic is logged and the result degrades to direct delivery with stops in
// backend order and Fallback set.
func (s *RoutingStrategySelector) Route(
	ctx context.Context,
	b *batch.Batch,
	settings routing.Settings,
) (payload routing.NavigationPayload) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Routing panicked, falling back to direct delivery",
				"batch_id", batchIDOf(b), "panic", fmt.Sprint(r))
			payload = s.fallbackPayload(b)
		}
	}()

	c, err := s.Classify(b, settings)
	if err == nil {
		payload, err = s.BuildNavigationPayload(b, c)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Routing failed, falling back to direct delivery",
			"batch_id", batchIDOf(b), "error", err)
		return s.fallbackPayload(b)
	}

	s.logger.DebugContext(ctx, "Batch routed",
		"batch_id", b.ID().String(),
		"batch_type", payload.BatchType,
		"phase", payload.Phase,
		"average_distance_km", c.AverageDistanceKm)
	return payload
}

func (s *RoutingStrategySelector) franchiseOutcome(
	b *batch.Batch,
	c routing.Classification,
	settings routing.Settings,
) (routing.Outcome, error) {
	if !c.IsLongRange {
		return routing.FranchiseLocalDelivery{}, nil
	}

	destinations, err := s.destinationHubs(b.Orders())
	if err != nil {
		return nil, err
	}

	if settings.TenantHasWarehouse {
		warehouse := routing.WarehouseLocation{}
		if settings.TenantWarehouse != nil {
			warehouse = *settings.TenantWarehouse
		}
		return routing.FranchiseLocalPickup{Warehouse: warehouse, DestinationHubs: destinations}, nil
	}

	assigned, err := s.hubs.CollectionHub(kernel.OrOrigin(b.Pickup().Coordinates))
	if err != nil {
		return nil, fmt.Errorf("collection hub: %w", err)
	}
	return routing.FranchiseFullHub{AssignedHub: assigned, DestinationHubs: destinations}, nil
}

func (s *RoutingStrategySelector) destinationHubs(orders []*batch.Order) ([]routing.DestinationHub, error) {
	hubs := make([]routing.DestinationHub, 0, len(orders))
	for _, o := range orders {
		coords := o.DeliveryCoordinates()
		if coords == nil {
			continue
		}
		hub, err := s.hubs.DestinationHub(*coords)
		if err != nil {
			return nil, fmt.Errorf("destination hub for order %s: %w", o.ID(), err)
		}
		hubs = append(hubs, routing.DestinationHub{OrderID: o.ID(), Hub: hub})
	}
	return hubs, nil
}

func (s *RoutingStrategySelector) basePayload(b *batch.Batch, outcome routing.Outcome) routing.NavigationPayload {
	pickup := b.Pickup()
	return routing.NavigationPayload{
		BatchID:     b.ID(),
		BatchNumber: b.BatchNumber(),
		BatchType:   outcome.BatchType(),
		Phase:       outcome.Phase(),
		TotalPhases: outcome.TotalPhases(),
		StartPoint: routing.Waypoint{
			Address:      pickup.Address,
			Coordinates:  pickup.Coordinates,
			ContactName:  pickup.ContactName,
			ContactPhone: pickup.ContactPhone,
			Instructions: pickup.Instructions,
		},
		TotalOrders:         b.TotalOrders(),
		TotalItems:          b.TotalItems(),
		SmartRoutingEnabled: b.SmartRoutingEnabled(),
		GeneratedAt:         s.now(),
	}
}

func (s *RoutingStrategySelector) fallbackPayload(b *batch.Batch) routing.NavigationPayload {
	if b.Validate() != nil {
		return routing.NavigationPayload{
			BatchType:   routing.BatchTypeDirectDelivery,
			Phase:       1,
			TotalPhases: 1,
			Instruction: instructionDirect,
			Fallback:    true,
			GeneratedAt: s.now(),
		}
	}

	payload := s.basePayload(b, routing.Direct{})
	payload.Instruction = instructionDirect
	payload.DeliveryPoints = batch.StopsFromOrders(b.Orders())
	payload.Fallback = true
	return payload
}

const (
	instructionDirect         = "Collect all orders at the pickup location and deliver each one to its customer."
	instructionFinalDelivery  = "Deliver each order from the warehouse to its customer."
	instructionConsolidate    = "Collect all orders and drop them at the warehouse."
	instructionLocalPickup    = "Collect all orders and drop them at the tenant warehouse for network delivery."
	instructionHubCollection  = "Hand all orders over at the assigned hub for network collection."
	instructionLocalFranchise = "Deliver each order directly to its customer."
)

// payloadBuilder fills the strategy-specific part of a payload.
type payloadBuilder struct {
	batch     *batch.Batch
	sequencer StopSequencer
	payload   routing.NavigationPayload
}

func (p *payloadBuilder) stops() []batch.DeliveryStop {
	return batch.StopsFromOrders(p.batch.Orders())
}

func (p *payloadBuilder) VisitDirect(o routing.Direct) {
	p.payload.Instruction = instructionDirect
	if o.FinalLeg {
		p.payload.Instruction = instructionFinalDelivery
	}
	p.payload.DeliveryPoints = p.sequencer.Sequence(p.stops(), p.batch.SmartRoutingEnabled())
}

func (p *payloadBuilder) VisitWarehouseConsolidation(o routing.WarehouseConsolidation) {
	p.payload.Instruction = instructionConsolidate
	p.payload.Destination = &routing.Waypoint{
		Address:     o.Warehouse.Address,
		Coordinates: o.Warehouse.Coordinates,
	}
	p.payload.DeliveryPoints = p.stops()
}

func (p *payloadBuilder) VisitFranchiseLocalPickup(o routing.FranchiseLocalPickup) {
	p.payload.Instruction = instructionLocalPickup
	p.payload.Destination = &routing.Waypoint{
		Address:     o.Warehouse.Address,
		Coordinates: o.Warehouse.Coordinates,
	}
	p.payload.DeliveryPoints = p.stops()
	p.payload.DestinationHubs = o.DestinationHubs
}

func (p *payloadBuilder) VisitFranchiseFullHub(o routing.FranchiseFullHub) {
	hub := o.AssignedHub
	p.payload.Instruction = instructionHubCollection
	p.payload.RequiresHubCollection = true
	p.payload.AssignedHub = &hub
	p.payload.Destination = &routing.Waypoint{
		Address:     hub.Name,
		Coordinates: hub.Coordinates,
	}
	p.payload.DeliveryPoints = p.stops()
	p.payload.DestinationHubs = o.DestinationHubs
}

func (p *payloadBuilder) VisitFranchiseLocalDelivery(routing.FranchiseLocalDelivery) {
	p.payload.Instruction = instructionLocalFranchise
	p.payload.DeliveryPoints = p.sequencer.Sequence(p.stops(), p.batch.SmartRoutingEnabled())
}

func usesFranchiseNetwork(orders []*batch.Order) bool {
	for _, o := range orders {
		if o.UsesFranchiseNetwork() {
			return true
		}
	}
	return false
}

// averageDistanceKm is the mean pickup-to-delivery distance over orders that
// have coordinates. It is 0 without a pickup coordinate or without any
// located order.
func averageDistanceKm(pickup *kernel.Coordinate, orders []*batch.Order) float64 {
	if pickup == nil {
		return 0
	}

	var sum float64
	var n int
	for _, o := range orders {
		coords := o.DeliveryCoordinates()
		if coords == nil {
			continue
		}
		sum += kernel.DistanceKm(*pickup, *coords)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// sharedWarehouse reports the common delivery address when every order goes
// to the same place and that place reads like a warehouse.
func sharedWarehouse(orders []*batch.Order) (routing.WarehouseLocation, bool) {
	if len(orders) == 0 {
		return routing.WarehouseLocation{}, false
	}

	first := normalizeAddress(orders[0].DeliveryAddress())
	if first == "" {
		return routing.WarehouseLocation{}, false
	}
	for _, o := range orders[1:] {
		if normalizeAddress(o.DeliveryAddress()) != first {
			return routing.WarehouseLocation{}, false
		}
	}

	for _, keyword := range warehouseKeywords {
		if strings.Contains(first, keyword) {
			return routing.WarehouseLocation{
				Address:     orders[0].DeliveryAddress(),
				Coordinates: orders[0].DeliveryCoordinates(),
			}, true
		}
	}
	return routing.WarehouseLocation{}, false
}

func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func batchIDOf(b *batch.Batch) string {
	if b.Validate() != nil {
		return ""
	}
	return b.ID().String()
}
