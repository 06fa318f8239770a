package services

import (
	"math"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// AggregatedLeadMetrics is the dashboard projection over the full lead
// collection. Always recomputed on demand, never persisted.
type AggregatedLeadMetrics struct {
	TotalLeads              int            `json:"totalLeads"`
	ActiveLeads             int            `json:"activeLeads"`
	ConvertedLeads          int            `json:"convertedLeads"`
	LostLeads               int            `json:"lostLeads"`
	ConversionRate          int            `json:"conversionRate"`
	AverageValue            int            `json:"averageValue"`
	TotalPipelineValue      float64        `json:"totalPipelineValue"`
	AverageTimeToConversion float64        `json:"averageTimeToConversion"`
	LeadSourceBreakdown     map[string]int `json:"leadSourceBreakdown"`
	StageDistribution       map[string]int `json:"stageDistribution"`
}

// LeadMetricsService computes funnel statistics for the admin dashboard.
type LeadMetricsService struct {
	repo        leads.Repository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLeadMetricsService creates a new lead metrics service.
func NewLeadMetricsService(repo leads.Repository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadMetricsService {
	return &LeadMetricsService{
		repo:        repo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeOverallMetrics loads every lead and aggregates them.
func (s *LeadMetricsService) ComputeOverallMetrics() (*AggregatedLeadMetrics, error) {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperation("analytics:metrics_aggregation")
	}

	all, err := s.repo.FindAll()
	if err != nil {
		if marker != nil {
			marker.SetError(err)
			s.perfTracker.CompleteOperation(marker)
		}
		return nil, err
	}

	metrics := Aggregate(all)

	if marker != nil {
		marker.SetSuccess(true)
		marker.AddMetadata("totalLeads", metrics.TotalLeads)
		s.perfTracker.CompleteOperation(marker)
	}

	s.logger.Analytics().Debug("Lead metrics aggregated", "totalLeads", metrics.TotalLeads, "duration", time.Since(start))
	return metrics, nil
}

// Aggregate partitions leads into active, converted, and lost buckets
// and derives the dashboard statistics. Statuses outside the three
// buckets count toward the total and appear in stageDistribution only.
func Aggregate(all []*leads.Lead) *AggregatedLeadMetrics {
	metrics := &AggregatedLeadMetrics{
		LeadSourceBreakdown: make(map[string]int),
		StageDistribution:   make(map[string]int),
	}

	var totalValue, pipelineValue float64
	var conversionDays float64
	convertedWithTimestamps := 0

	for _, lead := range all {
		metrics.TotalLeads++
		totalValue += lead.ExpectedValue

		switch {
		case leads.ActiveStatuses[lead.Status]:
			metrics.ActiveLeads++
			pipelineValue += lead.ExpectedValue
		case leads.ConvertedStatuses[lead.Status]:
			metrics.ConvertedLeads++
			if !lead.CreatedAt.IsZero() && !lead.UpdatedAt.IsZero() {
				conversionDays += lead.UpdatedAt.Sub(lead.CreatedAt).Hours() / 24
				convertedWithTimestamps++
			}
		case lead.Status == leads.StatusLost:
			metrics.LostLeads++
		}

		if lead.Source != "" {
			metrics.LeadSourceBreakdown[lead.Source]++
		}
		if lead.Status != "" {
			metrics.StageDistribution[string(lead.Status)]++
		}
	}

	if metrics.TotalLeads > 0 {
		metrics.ConversionRate = int(math.Round(float64(metrics.ConvertedLeads) / float64(metrics.TotalLeads) * 100))
		metrics.AverageValue = int(math.Round(totalValue / float64(metrics.TotalLeads)))
	}
	metrics.TotalPipelineValue = pipelineValue
	if convertedWithTimestamps > 0 {
		metrics.AverageTimeToConversion = conversionDays / float64(convertedWithTimestamps)
	}

	return metrics
}
