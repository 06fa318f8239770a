package services

import (
	"time"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/stores"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// DashboardSummary is the admin dashboard payload: lead funnel metrics
// plus order revenue and live segment activity.
type DashboardSummary struct {
	LeadMetrics    *AggregatedLeadMetrics `json:"leadMetrics"`
	OrderCount     int                    `json:"orderCount"`
	RevenueCents   int64                  `json:"revenueCents"`
	EventCounts    map[string]int64       `json:"eventCounts"`
	ActiveSegments int                    `json:"activeSegments"`
	GeneratedAt    time.Time              `json:"generatedAt"`
}

// DashboardService assembles the admin dashboard from the lead
// aggregator, order history, the analytics counters, and the live
// segment store.
type DashboardService struct {
	leadMetrics *LeadMetricsService
	commerce    *CommerceService
	analytics   *AnalyticsService
	segments    *stores.VisitorSegmentStore
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(leadMetrics *LeadMetricsService, commerce *CommerceService, analytics *AnalyticsService, segments *stores.VisitorSegmentStore, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardService {
	return &DashboardService{
		leadMetrics: leadMetrics,
		commerce:    commerce,
		analytics:   analytics,
		segments:    segments,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeSummary builds a fresh dashboard projection.
func (s *DashboardService) ComputeSummary() (*DashboardSummary, error) {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperation("analytics:dashboard_query")
	}

	metrics, err := s.leadMetrics.ComputeOverallMetrics()
	if err != nil {
		if marker != nil {
			marker.SetError(err)
			s.perfTracker.CompleteOperation(marker)
		}
		return nil, err
	}

	orders, err := s.commerce.ListOrders()
	if err != nil {
		if marker != nil {
			marker.SetError(err)
			s.perfTracker.CompleteOperation(marker)
		}
		return nil, err
	}

	var revenueCents int64
	for _, order := range orders {
		revenueCents += order.TotalCents
	}

	summary := &DashboardSummary{
		LeadMetrics:    metrics,
		OrderCount:     len(orders),
		RevenueCents:   revenueCents,
		EventCounts:    s.analytics.EventCounts(),
		ActiveSegments: s.segments.Count(),
		GeneratedAt:    time.Now().UTC(),
	}

	if marker != nil {
		marker.SetSuccess(true)
		s.perfTracker.CompleteOperation(marker)
	}

	s.logger.Analytics().Debug("Dashboard summary computed", "totalLeads", metrics.TotalLeads, "orders", len(orders), "duration", time.Since(start))
	return summary, nil
}
