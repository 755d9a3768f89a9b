package queries_test

import (
	"context"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// postgresSuite starts one PostgreSQL container per suite and migrates the gateway schema.
type postgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
}

func (s *postgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(postgres_adapter.Migrate(db))
}

func (s *postgresSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *postgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE batches, orders CASCADE").Error)
}

type orderOption func(*batch.OrderParams)

func withStatus(raw string) orderOption {
	return func(p *batch.OrderParams) { p.RawStatus = raw }
}

func withDriver(id kernel.UUID) orderOption {
	return func(p *batch.OrderParams) { p.DriverID = &id }
}

func withoutCoordinates() orderOption {
	return func(p *batch.OrderParams) {
		p.DeliveryCoordinates = nil
		p.PickupCoordinates = nil
	}
}

func withPickupOnly() orderOption {
	return func(p *batch.OrderParams) {
		c := kernel.MustNewCoordinate(25.1357, 55.2266)
		p.DeliveryCoordinates = nil
		p.PickupCoordinates = &c
	}
}

func newOrder(number string, quantity int, opts ...orderOption) *batch.Order {
	delivery := kernel.MustNewCoordinate(25.2048, 55.2708)
	p := batch.OrderParams{
		ID:                  kernel.NewUUID(),
		OrderNumber:         number,
		CustomerName:        "Customer " + number,
		CustomerPhone:       "+97150" + number,
		DeliveryAddress:     "Address " + number,
		DeliveryCoordinates: &delivery,
		PickupAddress:       "Al Quoz 3, Dubai",
		Items:               []batch.Item{{Name: "Box", Quantity: quantity, UnitPrice: decimal.NewFromInt(4)}},
		Total:               decimal.NewFromInt(int64(4 * quantity)),
		PaymentMethod:       batch.PaymentCash,
		Flags:               batch.PaymentFlags{CashOnDelivery: true},
		CODAmount:           decimal.NewFromInt(int64(4 * quantity)),
		RawStatus:           "assigned",
	}
	for _, opt := range opts {
		opt(&p)
	}
	o, err := batch.NewOrder(p)
	if err != nil {
		panic(err)
	}
	return o
}
