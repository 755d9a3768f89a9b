package queries_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/postgres/batchrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GetBatchQueryHandlerTestSuite struct {
	postgresSuite
	handler queries.GetBatchQueryHandler
	repo    *batchrepo.GormBatchRepository
}

func (suite *GetBatchQueryHandlerTestSuite) SetupSuite() {
	suite.postgresSuite.SetupSuite()
	suite.handler = queries.NewGetBatchQueryHandler(suite.db)
	suite.repo = batchrepo.NewGormBatchRepository(suite.db, &mockAggregateTracker{})
}

func (suite *GetBatchQueryHandlerTestSuite) TestHandle_ReturnsBatchWithOrdersInSequence() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	pickup := kernel.MustNewCoordinate(25.1357, 55.2266)
	b, err := batch.NewBatch(batch.Params{
		ID:          kernel.NewUUID(),
		BatchNumber: "B-2024-0042",
		Name:        "Morning run",
		RawStatus:   "picked_up",
		DriverID:    &driverID,
		Pickup: batch.PickupLocation{
			Address:      "Al Quoz 3, Dubai",
			Coordinates:  &pickup,
			Instructions: "Gate 2",
		},
		ScheduledPickup:     &batch.ScheduledPickup{Date: "2024-05-01", Time: "09:30"},
		SmartRoutingEnabled: true,
		Notes:               "Fragile",
		Orders: []*batch.Order{
			newOrder("102", 2),
			newOrder("101", 3, withoutCoordinates()),
		},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, b))

	query, err := queries.NewGetBatchQuery(b.ID())
	suite.Require().NoError(err)

	// When
	result, err := suite.handler.Handle(ctx, query)

	// Then
	suite.Require().NoError(err)
	suite.Equal(b.ID(), result.ID)
	suite.Equal("B-2024-0042", result.BatchNumber)
	suite.Equal(batch.Collected, result.Status)
	suite.Equal("picked_up", result.RawStatus)
	suite.Require().NotNil(result.DriverID)
	suite.Equal(driverID, *result.DriverID)
	suite.Equal("Gate 2", result.Pickup.Instructions)
	suite.Require().NotNil(result.Pickup.Coordinates)
	suite.True(pickup.IsEqual(*result.Pickup.Coordinates))
	suite.Equal(&batch.ScheduledPickup{Date: "2024-05-01", Time: "09:30"}, result.ScheduledPickup)
	suite.True(result.SmartRoutingEnabled)
	suite.Equal("Fragile", result.Notes)
	suite.Equal(5, result.TotalItems)

	suite.Require().Len(result.Orders, 2)
	suite.Equal("102", result.Orders[0].OrderNumber)
	suite.Equal(2, result.Orders[0].ItemCount)
	suite.True(result.Orders[0].Total.Equal(decimal.NewFromInt(8)))
	suite.True(result.Orders[0].CashOnDelivery)
	suite.Equal(batch.DriverAssigned, result.Orders[0].Status)
	suite.NotNil(result.Orders[0].DeliveryCoordinates)
	suite.Equal("101", result.Orders[1].OrderNumber)
	suite.Nil(result.Orders[1].DeliveryCoordinates)
}

func (suite *GetBatchQueryHandlerTestSuite) TestHandle_BatchWithoutOrders() {
	ctx := context.Background()
	b, err := batch.NewBatch(batch.Params{
		ID:          kernel.NewUUID(),
		BatchNumber: "B-EMPTY",
		RawStatus:   "something_new",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, b))

	query, err := queries.NewGetBatchQuery(b.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Empty(result.Orders)
	suite.Nil(result.ScheduledPickup)
	suite.Nil(result.Pickup.Coordinates)
	suite.Equal(batch.Draft, result.Status)
}

func (suite *GetBatchQueryHandlerTestSuite) TestHandle_UnknownBatch() {
	query, err := queries.NewGetBatchQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetBatchQueryHandlerTestSuite) TestHandle_NotConstructedQuery() {
	_, err := suite.handler.Handle(context.Background(), queries.GetBatchQuery{})

	suite.ErrorIs(err, queries.ErrGetBatchQueryIsNotConstructed)
}

func TestGetBatchQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetBatchQueryHandlerTestSuite))
}
