package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error {
	args := m.Called(ctx, id, expectedRaw, raw)
	return args.Error(0)
}

func (m *MockBatchRepository) AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error {
	args := m.Called(ctx, id, driverID, reason)
	return args.Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *batch.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error {
	args := m.Called(ctx, id, expectedRaw, raw)
	return args.Error(0)
}

func (m *MockOrderRepository) AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error {
	args := m.Called(ctx, id, driverID, reason)
	return args.Error(0)
}

type MockNavigationRepository struct{ mock.Mock }

func (m *MockNavigationRepository) Save(ctx context.Context, payload routing.NavigationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockNavigationRepository) Get(ctx context.Context, batchID kernel.UUID) (routing.NavigationPayload, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(routing.NavigationPayload), args.Error(1)
}

// MockUoW serves every repository so one type covers all unit of work shapes.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	args := m.Called()
	return args.Get(0).(ports.BatchRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) NavigationPayloadRepository() ports.NavigationPayloadRepository {
	args := m.Called()
	return args.Get(0).(ports.NavigationPayloadRepository)
}

type MockBatchUoWFactory struct{ mock.Mock }

func (m *MockBatchUoWFactory) Create() commands.BatchUoW {
	args := m.Called()
	return args.Get(0).(commands.BatchUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNavigationUoWFactory struct{ mock.Mock }

func (m *MockNavigationUoWFactory) Create() commands.NavigationUoW {
	args := m.Called()
	return args.Get(0).(commands.NavigationUoW)
}

type MockRouter struct{ mock.Mock }

func (m *MockRouter) Route(ctx context.Context, b *batch.Batch, settings routing.Settings) routing.NavigationPayload {
	args := m.Called(ctx, b, settings)
	return args.Get(0).(routing.NavigationPayload)
}

type MockSettingsProvider struct{ mock.Mock }

func (m *MockSettingsProvider) RoutingSettings(ctx context.Context) (routing.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(routing.Settings), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrder(t *testing.T, rawStatus string, driverID *kernel.UUID) *batch.Order {
	t.Helper()

	coords := kernel.MustNewCoordinate(25.1972, 55.2744)
	o, err := batch.NewOrder(batch.OrderParams{
		ID:                  kernel.NewUUID(),
		OrderNumber:         "ORD-3001",
		CustomerName:        "Aisha",
		CustomerPhone:       "+971500000003",
		DeliveryAddress:     "Tower 2, Downtown Dubai",
		DeliveryCoordinates: &coords,
		Items:               []batch.Item{{Name: "Cake", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")}},
		Total:               decimal.RequireFromString("80.00"),
		PaymentMethod:       batch.PaymentPrepaid,
		RawStatus:           rawStatus,
		DriverID:            driverID,
	})
	require.NoError(t, err)
	return o
}

func newTestBatch(t *testing.T, rawStatus string, driverID *kernel.UUID) *batch.Batch {
	t.Helper()

	pickup := kernel.MustNewCoordinate(25.2048, 55.2708)
	b, err := batch.NewBatch(batch.Params{
		ID:          kernel.NewUUID(),
		BatchNumber: "B-2026-0042",
		RawStatus:   rawStatus,
		DriverID:    driverID,
		Pickup:      batch.PickupLocation{Address: "Al Quoz 3, Dubai", Coordinates: &pickup},
		Orders:      []*batch.Order{newTestOrder(t, "pending", nil)},
	})
	require.NoError(t, err)
	return b
}
