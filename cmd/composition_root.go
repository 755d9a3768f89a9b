package cmd

import (
	"errors"
	"log/slog"
	"strings"

	httpin "dispatch/internal/adapters/in/http"
	kafkain "dispatch/internal/adapters/in/kafka"
	"dispatch/internal/adapters/in/ws"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/settingsrepo"
	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	settings   *settingsrepo.GormSettingsProvider
	router     *services.RoutingStrategySelector
	hub        *ws.Hub
	outcomes   *kafkaout.OfferOutcomePublisher
	outbox     *negotiation.QueuedPublisher
	sessions   *negotiation.Sessions
	logger     *slog.Logger
}

// outcomeQueueSize bounds the offer events waiting for the Kafka writer.
const outcomeQueueSize = 1024

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	center, err := kernel.NewCoordinate(configs.HubGridCenterLat, configs.HubGridCenterLng)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		settings:   settingsrepo.NewGormSettingsProvider(gormDB),
		router:     services.NewRoutingStrategySelector(routing.NewQuadrantHubLocator(center), logger),
		hub:        ws.NewHub(logger),
		logger:     logger,
	}

	publishers := negotiation.FanOut{c.hub}
	if configs.KafkaEnabled() {
		c.outcomes = kafkaout.NewOfferOutcomePublisher(c.brokers(), configs.KafkaOfferOutcomeTopic)
		c.outbox = negotiation.NewQueuedPublisher(c.outcomes, outcomeQueueSize, logger)
		publishers = append(publishers, c.outbox)
	}

	timeouts := negotiation.DefaultTimeouts()
	if configs.BatchOfferTimeoutSeconds > 0 {
		timeouts.BatchSeconds = configs.BatchOfferTimeoutSeconds
	}
	if configs.OrderOfferTimeoutSeconds > 0 {
		timeouts.SingleSeconds = configs.OrderOfferTimeoutSeconds
	}

	c.sessions = negotiation.NewSessions(c.CreateCommandBackend(), publishers, timeouts, logger)
	return c, nil
}

func (c *CompositionRoot) Sessions() *negotiation.Sessions {
	return c.sessions
}

func (c *CompositionRoot) CreateAcceptBatchCommandHandler() commands.AcceptBatchCommandHandler {
	return commands.NewAcceptBatchCommandHandler(c.batchUoWs(), c.navigationUoWs(), c.router, c.settings, c.logger)
}

func (c *CompositionRoot) CreateDeclineBatchCommandHandler() commands.DeclineBatchCommandHandler {
	return commands.NewDeclineBatchCommandHandler(c.batchUoWs())
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.orderUoWs())
}

func (c *CompositionRoot) CreateDeclineDeliveryCommandHandler() commands.DeclineDeliveryCommandHandler {
	return commands.NewDeclineDeliveryCommandHandler(c.orderUoWs())
}

func (c *CompositionRoot) CreateRequestBatchStatusCommandHandler() commands.RequestBatchStatusCommandHandler {
	return commands.NewRequestBatchStatusCommandHandler(c.batchUoWs())
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.orderUoWs())
}

func (c *CompositionRoot) CreateGetBatchQueryHandler() queries.GetBatchQueryHandler {
	return queries.NewGetBatchQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNavigationPayloadQueryHandler() queries.GetNavigationPayloadQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewGetNavigationPayloadQueryHandler(
		uow.NavigationPayloadRepository(),
		uow.BatchRepository(),
		c.router,
		c.settings,
		c.logger,
	)
}

func (c *CompositionRoot) CreateCommandBackend() *negotiation.CommandBackend {
	return negotiation.NewCommandBackend(
		c.CreateAcceptBatchCommandHandler(),
		c.CreateDeclineBatchCommandHandler(),
		c.CreateAcceptDeliveryCommandHandler(),
		c.CreateDeclineDeliveryCommandHandler(),
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateGetBatchQueryHandler(),
		c.CreateGetNavigationPayloadQueryHandler(),
		c.CreateGetActiveDeliveriesQueryHandler(),
		c.CreateRequestBatchStatusCommandHandler(),
		c.CreateUpdateDeliveryStatusCommandHandler(),
		c.sessions,
		ws.NewHandler(c.hub, c.logger),
		c.logger,
	)
}

// CreateOfferConsumer returns nil when Kafka is not configured.
func (c *CompositionRoot) CreateOfferConsumer() *kafkain.OfferConsumer {
	if !c.configs.KafkaEnabled() {
		return nil
	}
	return kafkain.NewOfferConsumer(
		c.brokers(),
		c.configs.KafkaConsumerGroup,
		c.configs.KafkaOfferTopic,
		c.sessions,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.sessions, c.logger)
}

// Close releases the outbound Kafka writer.
func (c *CompositionRoot) Close() error {
	var err error
	if c.outbox != nil {
		err = errors.Join(err, c.outbox.Close())
	}
	if c.outcomes != nil {
		err = errors.Join(err, c.outcomes.Close())
	}
	return err
}

func (c *CompositionRoot) brokers() []string {
	parts := strings.Split(c.configs.KafkaHost, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func (c *CompositionRoot) batchUoWs() commands.BatchUoWFactory {
	return FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWs() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) navigationUoWs() commands.NavigationUoWFactory {
	return FuncNavigationUoWFactory(func() commands.NavigationUoW {
		return c.uowFactory.Create()
	})
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncNavigationUoWFactory func() commands.NavigationUoW

func (f FuncNavigationUoWFactory) Create() commands.NavigationUoW {
	return f()
}
