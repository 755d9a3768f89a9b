package services_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dubaiPickup   = kernel.MustNewCoordinate(25.2048, 55.2708)
	abuDhabi      = kernel.MustNewCoordinate(24.4539, 54.3773)
	hubGridCenter = kernel.MustNewCoordinate(25.0, 55.0)
	generatedAt   = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

type failingHubLocator struct{}

func (failingHubLocator) CollectionHub(kernel.Coordinate) (routing.Hub, error) {
	return routing.Hub{}, errors.New("hub service unavailable")
}

func (failingHubLocator) DestinationHub(kernel.Coordinate) (routing.Hub, error) {
	return routing.Hub{}, errors.New("hub service unavailable")
}

type panickingHubLocator struct{}

func (panickingHubLocator) CollectionHub(kernel.Coordinate) (routing.Hub, error) {
	panic("hub table corrupted")
}

func (panickingHubLocator) DestinationHub(kernel.Coordinate) (routing.Hub, error) {
	panic("hub table corrupted")
}

func newSelector(hubs routing.HubLocator) *services.RoutingStrategySelector {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewRoutingStrategySelector(hubs, logger).WithClock(func() time.Time { return generatedAt })
}

type orderOption func(p *batch.OrderParams)

func deliverTo(address string, lat, lng float64) orderOption {
	return func(p *batch.OrderParams) {
		c := kernel.MustNewCoordinate(lat, lng)
		p.DeliveryAddress = address
		p.DeliveryCoordinates = &c
	}
}

func viaFranchise() orderOption {
	return func(p *batch.OrderParams) { p.UseFranchiseNetwork = true }
}

func withoutCoordinates() orderOption {
	return func(p *batch.OrderParams) { p.DeliveryCoordinates = nil }
}

func newOrder(t *testing.T, opts ...orderOption) *batch.Order {
	t.Helper()

	p := batch.OrderParams{
		ID:              kernel.NewUUID(),
		OrderNumber:     "ORD-2001",
		CustomerName:    "Omar",
		CustomerPhone:   "+971500000002",
		DeliveryAddress: "Apartment 904, Marina Gate 1, Dubai",
		Items: []batch.Item{
			{Name: "Karak tea", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		},
		Total:         decimal.RequireFromString("10.00"),
		PaymentMethod: batch.PaymentCard,
		RawStatus:     "pending",
	}
	for _, opt := range opts {
		opt(&p)
	}

	o, err := batch.NewOrder(p)
	require.NoError(t, err)
	return o
}

func newBatch(t *testing.T, smartRouting bool, orders ...*batch.Order) *batch.Batch {
	t.Helper()

	pickup := dubaiPickup
	b, err := batch.NewBatch(batch.Params{
		ID:          kernel.NewUUID(),
		BatchNumber: "B-2026-0107",
		RawStatus:   "ready_for_pickup",
		Pickup: batch.PickupLocation{
			Address:     "Kitchen 4, Al Quoz Industrial 3, Dubai",
			Coordinates: &pickup,
			ContactName: "Kitchen desk",
		},
		SmartRoutingEnabled: smartRouting,
		Orders:              orders,
	})
	require.NoError(t, err)
	return b
}

func consolidating() routing.Settings {
	return routing.Settings{ConsolidateToWarehouse: true}
}

func TestRoutingStrategySelector_Classify(t *testing.T) {
	selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))

	t.Run("consolidation disabled routes directly", func(t *testing.T) {
		// Warehouse-like shared address must not matter once consolidation is off.
		b := newBatch(t, true,
			newOrder(t, deliverTo("Central Warehouse, Jebel Ali", 25.01, 55.10)),
			newOrder(t, deliverTo("Central Warehouse, Jebel Ali", 25.01, 55.10)),
		)

		c, err := selector.Classify(b, routing.Settings{ConsolidateToWarehouse: false})

		require.NoError(t, err)
		assert.Equal(t, routing.Direct{}, c.Outcome)
		assert.Equal(t, routing.BatchTypeDirectDelivery, c.Outcome.BatchType())
		assert.Equal(t, 1, c.Outcome.Phase())
		assert.False(t, c.IsWarehouseBatch)
	})

	t.Run("franchise batch within range delivers locally", func(t *testing.T) {
		b := newBatch(t, true,
			newOrder(t, viaFranchise(), deliverTo("Villa 3, Al Barsha", 25.11, 55.20)),
			newOrder(t, deliverTo("Office 12, DIFC", 25.21, 55.28)),
		)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		assert.Equal(t, routing.FranchiseLocalDelivery{}, c.Outcome)
		assert.True(t, c.UsesFranchiseNetwork)
		assert.False(t, c.IsLongRange)
		assert.Less(t, c.AverageDistanceKm, routing.LongRangeThresholdKm)
	})

	t.Run("franchise batch without pickup coordinates is never long range", func(t *testing.T) {
		b, err := batch.NewBatch(batch.Params{
			ID:          kernel.NewUUID(),
			BatchNumber: "B-2026-0108",
			RawStatus:   "ready_for_pickup",
			Pickup:      batch.PickupLocation{Address: "Kitchen 4, Al Quoz Industrial 3, Dubai"},
			Orders: []*batch.Order{
				newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude())),
			},
		})
		require.NoError(t, err)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		assert.Equal(t, routing.FranchiseLocalDelivery{}, c.Outcome)
		assert.True(t, c.UsesFranchiseNetwork)
		assert.False(t, c.IsLongRange)
		assert.Zero(t, c.AverageDistanceKm)
	})

	t.Run("long range franchise with tenant warehouse picks up locally", func(t *testing.T) {
		warehouseCoords := kernel.MustNewCoordinate(25.05, 55.15)
		settings := consolidating()
		settings.TenantHasWarehouse = true
		settings.TenantWarehouse = &routing.WarehouseLocation{
			Address:     "Unit 7, Dubai Investments Park",
			Coordinates: &warehouseCoords,
		}
		located := newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude()))
		b := newBatch(t, false, located, newOrder(t, viaFranchise(), withoutCoordinates()))

		c, err := selector.Classify(b, settings)

		require.NoError(t, err)
		require.IsType(t, routing.FranchiseLocalPickup{}, c.Outcome)
		outcome := c.Outcome.(routing.FranchiseLocalPickup)
		assert.Equal(t, *settings.TenantWarehouse, outcome.Warehouse)
		require.Len(t, outcome.DestinationHubs, 1)
		assert.Equal(t, located.ID(), outcome.DestinationHubs[0].OrderID)
		assert.Equal(t, "hub-sw", outcome.DestinationHubs[0].Hub.ID)
		assert.True(t, c.IsLongRange)
		assert.InDelta(t, 122.9, c.AverageDistanceKm, 0.1)
		assert.False(t, c.IsWarehouseBatch)
	})

	t.Run("long range franchise without tenant warehouse uses the hub network", func(t *testing.T) {
		b := newBatch(t, false,
			newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude())),
		)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		require.IsType(t, routing.FranchiseFullHub{}, c.Outcome)
		outcome := c.Outcome.(routing.FranchiseFullHub)
		assert.Equal(t, "hub-ne", outcome.AssignedHub.ID)
		require.Len(t, outcome.DestinationHubs, 1)
		assert.Equal(t, "hub-sw", outcome.DestinationHubs[0].Hub.ID)
	})

	t.Run("shared warehouse address consolidates", func(t *testing.T) {
		b := newBatch(t, true,
			newOrder(t, deliverTo("Jebel Ali DISTRIBUTION Centre", 25.01, 55.10)),
			newOrder(t, deliverTo("  jebel ali distribution   centre ", 25.01, 55.10)),
		)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		require.IsType(t, routing.WarehouseConsolidation{}, c.Outcome)
		assert.Equal(t, "Jebel Ali DISTRIBUTION Centre", c.Outcome.(routing.WarehouseConsolidation).Warehouse.Address)
		assert.True(t, c.IsWarehouseBatch)
		assert.Equal(t, 2, c.Outcome.TotalPhases())
	})

	t.Run("shared address without a warehouse keyword is a final delivery", func(t *testing.T) {
		b := newBatch(t, true,
			newOrder(t, deliverTo("Office 12, DIFC", 25.21, 55.28)),
			newOrder(t, deliverTo("Office 12, DIFC", 25.21, 55.28)),
		)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		assert.Equal(t, routing.Direct{FinalLeg: true}, c.Outcome)
		assert.False(t, c.IsWarehouseBatch)
	})

	t.Run("mixed addresses are a final delivery", func(t *testing.T) {
		b := newBatch(t, true,
			newOrder(t, deliverTo("Central Warehouse, Jebel Ali", 25.01, 55.10)),
			newOrder(t, deliverTo("Office 12, DIFC", 25.21, 55.28)),
		)

		c, err := selector.Classify(b, consolidating())

		require.NoError(t, err)
		assert.Equal(t, routing.BatchTypeFinalDelivery, c.Outcome.BatchType())
		assert.Equal(t, 2, c.Outcome.Phase())
	})

	t.Run("hub errors are returned", func(t *testing.T) {
		failing := newSelector(failingHubLocator{})
		b := newBatch(t, false,
			newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude())),
		)

		_, err := failing.Classify(b, consolidating())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "hub service unavailable")
	})

	t.Run("unconstructed batch is rejected", func(t *testing.T) {
		_, err := selector.Classify(&batch.Batch{}, consolidating())

		require.ErrorIs(t, err, batch.ErrBatchIsNotConstructed)
	})
}

func TestRoutingStrategySelector_BuildNavigationPayload(t *testing.T) {
	selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))

	t.Run("warehouse consolidation points at the warehouse", func(t *testing.T) {
		b := newBatch(t, true,
			newOrder(t, deliverTo("Central Warehouse, Jebel Ali", 25.01, 55.10)),
			newOrder(t, deliverTo("Central Warehouse, Jebel Ali", 25.01, 55.10)),
		)
		c, err := selector.Classify(b, consolidating())
		require.NoError(t, err)

		payload, err := selector.BuildNavigationPayload(b, c)

		require.NoError(t, err)
		assert.Equal(t, routing.BatchTypeWarehouseConsolidation, payload.BatchType)
		assert.Equal(t, 1, payload.Phase)
		assert.Equal(t, 2, payload.TotalPhases)
		require.NotNil(t, payload.Destination)
		assert.Equal(t, "Central Warehouse, Jebel Ali", payload.Destination.Address)
		assert.True(t, payload.IsWarehouseBatch)
		assert.Len(t, payload.DeliveryPoints, 2)
	})

	t.Run("full hub network requires hub collection", func(t *testing.T) {
		b := newBatch(t, false,
			newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude())),
		)
		c, err := selector.Classify(b, consolidating())
		require.NoError(t, err)

		payload, err := selector.BuildNavigationPayload(b, c)

		require.NoError(t, err)
		assert.Equal(t, routing.BatchTypeFullHubNetwork, payload.BatchType)
		assert.True(t, payload.RequiresHubCollection)
		assert.True(t, payload.UsesFranchiseNetwork)
		require.NotNil(t, payload.AssignedHub)
		assert.Equal(t, "hub-ne", payload.AssignedHub.ID)
		require.NotNil(t, payload.Destination)
		assert.Equal(t, payload.AssignedHub.Name, payload.Destination.Address)
		assert.Len(t, payload.DestinationHubs, 1)
	})

	t.Run("empty classification is rejected", func(t *testing.T) {
		b := newBatch(t, true, newOrder(t))

		_, err := selector.BuildNavigationPayload(b, routing.Classification{})

		require.ErrorIs(t, err, services.ErrNoOutcome)
	})
}

func TestRoutingStrategySelector_Route(t *testing.T) {
	t.Run("nearby orders become a sequenced final delivery", func(t *testing.T) {
		selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))
		north := newOrder(t, deliverTo("Villa 8, Al Wasl", 25.2150, 55.2600))
		south := newOrder(t, deliverTo("Tower B, Business Bay", 25.1950, 55.2750))
		middle := newOrder(t, deliverTo("Shop 2, Karama", 25.2050, 55.2900))
		b := newBatch(t, true, north, south, middle)

		payload := selector.Route(t.Context(), b, consolidating())

		assert.False(t, payload.Fallback)
		assert.Equal(t, routing.BatchTypeFinalDelivery, payload.BatchType)
		assert.Equal(t, 2, payload.Phase)
		assert.Equal(t, 2, payload.TotalPhases)
		assert.Equal(t, b.ID(), payload.BatchID)
		assert.Equal(t, "Kitchen 4, Al Quoz Industrial 3, Dubai", payload.StartPoint.Address)
		assert.Equal(t, 3, payload.TotalOrders)
		assert.Equal(t, 6, payload.TotalItems)
		assert.Equal(t, generatedAt, payload.GeneratedAt)
		assert.Equal(t, []kernel.UUID{south.ID(), middle.ID(), north.ID()}, orderIDs(payload.DeliveryPoints))
		for i, stop := range payload.DeliveryPoints {
			assert.Equal(t, i+1, stop.Sequence)
		}
	})

	t.Run("without smart routing stops keep backend order", func(t *testing.T) {
		selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))
		north := newOrder(t, deliverTo("Villa 8, Al Wasl", 25.2150, 55.2600))
		south := newOrder(t, deliverTo("Tower B, Business Bay", 25.1950, 55.2750))
		b := newBatch(t, false, north, south)

		payload := selector.Route(t.Context(), b, routing.Settings{})

		assert.Equal(t, routing.BatchTypeDirectDelivery, payload.BatchType)
		assert.Equal(t, []kernel.UUID{north.ID(), south.ID()}, orderIDs(payload.DeliveryPoints))
	})

	t.Run("is deterministic", func(t *testing.T) {
		selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))
		b := newBatch(t, true,
			newOrder(t, deliverTo("A", 25.2001, 55.30)),
			newOrder(t, deliverTo("B", 25.2003, 55.10)),
			newOrder(t, deliverTo("C", 25.1000, 55.20)),
		)

		first := selector.Route(t.Context(), b, consolidating())
		for range 5 {
			assert.Equal(t, first, selector.Route(t.Context(), b, consolidating()))
		}
	})

	t.Run("hub failure falls back to direct delivery", func(t *testing.T) {
		selector := newSelector(failingHubLocator{})
		first := newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude()))
		second := newOrder(t, viaFranchise(), deliverTo("Khalifa City, Abu Dhabi", 24.4200, 54.5800))
		b := newBatch(t, true, first, second)

		payload := selector.Route(t.Context(), b, consolidating())

		assert.True(t, payload.Fallback)
		assert.Equal(t, routing.BatchTypeDirectDelivery, payload.BatchType)
		assert.Equal(t, 1, payload.Phase)
		assert.Equal(t, 1, payload.TotalPhases)
		assert.Equal(t, []kernel.UUID{first.ID(), second.ID()}, orderIDs(payload.DeliveryPoints))
	})

	t.Run("panic falls back to direct delivery", func(t *testing.T) {
		selector := newSelector(panickingHubLocator{})
		b := newBatch(t, true,
			newOrder(t, viaFranchise(), deliverTo("Corniche Rd, Abu Dhabi", abuDhabi.Latitude(), abuDhabi.Longitude())),
		)

		var payload routing.NavigationPayload
		require.NotPanics(t, func() {
			payload = selector.Route(t.Context(), b, consolidating())
		})

		assert.True(t, payload.Fallback)
		assert.Equal(t, routing.BatchTypeDirectDelivery, payload.BatchType)
		assert.Len(t, payload.DeliveryPoints, 1)
	})

	t.Run("nil batch yields an empty fallback", func(t *testing.T) {
		selector := newSelector(routing.NewQuadrantHubLocator(hubGridCenter))

		payload := selector.Route(t.Context(), nil, consolidating())

		assert.True(t, payload.Fallback)
		assert.Equal(t, routing.BatchTypeDirectDelivery, payload.BatchType)
		assert.Empty(t, payload.DeliveryPoints)
	})
}
