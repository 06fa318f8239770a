// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/stores"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/email"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/messaging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/commerce"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/users"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/visits"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/tracking"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Observability
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker

	// Infrastructure
	DB                *database.DB
	SegmentStore      *stores.VisitorSegmentStore
	FunnelBroadcaster *messaging.FunnelBroadcaster
	EmailService      email.Service

	// Application services (stateless singletons)
	ScoringService         *services.ScoringService
	AnalyticsService       *services.AnalyticsService
	LeadCaptureService     *services.LeadCaptureService
	LeadMetricsService     *services.LeadMetricsService
	PersonalizationService *services.PersonalizationService
	SessionService         *services.SessionService
	AuthService            *services.AuthService
	CommerceService        *services.CommerceService
	DashboardService       *services.DashboardService
}

// NewContainer creates and wires all singleton services. The email
// service is optional; without RESEND_API_KEY the notification and
// two-factor mail paths are disabled and everything else still runs.
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, err
	}

	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBDataSource, logger)
	if err != nil {
		return nil, err
	}

	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return nil, err
	}
	if err := tableCreator.SeedInitialContent(db.DB); err != nil {
		return nil, err
	}

	// Repositories
	leadRepo := leads.NewSQLLeadRepository(db, logger)
	userRepo := users.NewSQLUserRepository(db, logger)
	productRepo := commerce.NewSQLProductRepository(db, logger)
	orderRepo := commerce.NewSQLOrderRepository(db, logger)
	visitRepo := visits.NewSQLVisitRepository(db, logger)

	// In-memory state and side channels
	segmentStore := stores.NewVisitorSegmentStore(logger)
	broadcaster := messaging.NewFunnelBroadcaster(segmentStore, logger)
	emitter := tracking.NewHTTPEmitter(logger)

	emailService, emailErr := email.NewService()
	if emailErr != nil {
		logger.System().Warn("Email service disabled", "reason", emailErr.Error())
		emailService = nil
	}

	// Services
	scoringService := services.NewScoringService(logger, perfTracker)
	analyticsService := services.NewAnalyticsService(emitter, logger, perfTracker)

	var notifier services.LeadNotifier
	var sender services.TwoFactorSender
	if emailService != nil {
		notifier = emailService
		sender = emailService
	}

	leadCaptureService := services.NewLeadCaptureService(scoringService, analyticsService, leadRepo, broadcaster, notifier, logger, perfTracker)
	leadMetricsService := services.NewLeadMetricsService(leadRepo, logger, perfTracker)
	personalizationService := services.NewPersonalizationService(services.DefaultVariantCatalog(), logger)
	sessionService := services.NewSessionService(segmentStore, visitRepo, logger)
	authService := services.NewAuthService(userRepo, sender, logger)
	commerceService := services.NewCommerceService(productRepo, orderRepo, logger, perfTracker)
	dashboardService := services.NewDashboardService(leadMetricsService, commerceService, analyticsService, segmentStore, logger, perfTracker)

	return &Container{
		Logger:      logger,
		PerfTracker: perfTracker,

		DB:                db,
		SegmentStore:      segmentStore,
		FunnelBroadcaster: broadcaster,
		EmailService:      emailService,

		ScoringService:         scoringService,
		AnalyticsService:       analyticsService,
		LeadCaptureService:     leadCaptureService,
		LeadMetricsService:     leadMetricsService,
		PersonalizationService: personalizationService,
		SessionService:         sessionService,
		AuthService:            authService,
		CommerceService:        commerceService,
		DashboardService:       dashboardService,
	}, nil
}

// Close releases infrastructure held by the container.
func (c *Container) Close() error {
	if c.Logger != nil {
		c.Logger.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
