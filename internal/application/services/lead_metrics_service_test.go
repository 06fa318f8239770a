package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
)

func TestAggregate_ZeroLeads(t *testing.T) {
	metrics := Aggregate(nil)

	assert.Equal(t, 0, metrics.TotalLeads)
	assert.Equal(t, 0, metrics.ActiveLeads)
	assert.Equal(t, 0, metrics.ConvertedLeads)
	assert.Equal(t, 0, metrics.LostLeads)
	assert.Equal(t, 0, metrics.ConversionRate)
	assert.Equal(t, 0, metrics.AverageValue)
	assert.Equal(t, 0.0, metrics.TotalPipelineValue)
	assert.Equal(t, 0.0, metrics.AverageTimeToConversion)
	assert.Empty(t, metrics.LeadSourceBreakdown)
	assert.Empty(t, metrics.StageDistribution)
}

func TestAggregate_StatusPartition(t *testing.T) {
	now := time.Now().UTC()
	all := []*leads.Lead{
		{Status: leads.StatusNew, ExpectedValue: 1000, Source: "calculator", CreatedAt: now, UpdatedAt: now},
		{Status: leads.StatusNegotiation, ExpectedValue: 3000, Source: "calculator", CreatedAt: now, UpdatedAt: now},
		{Status: leads.StatusWon, ExpectedValue: 2000, Source: "referral", CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now},
		{Status: leads.StatusLost, ExpectedValue: 500, Source: "referral", CreatedAt: now, UpdatedAt: now},
	}

	metrics := Aggregate(all)

	assert.Equal(t, 4, metrics.TotalLeads)
	assert.Equal(t, 2, metrics.ActiveLeads)
	assert.Equal(t, 1, metrics.ConvertedLeads)
	assert.Equal(t, 1, metrics.LostLeads)

	// 1 converted of 4 total = 25%
	assert.Equal(t, 25, metrics.ConversionRate)
	// (1000+3000+2000+500)/4 = 1625
	assert.Equal(t, 1625, metrics.AverageValue)
	// active only
	assert.Equal(t, 4000.0, metrics.TotalPipelineValue)
	// single converted lead, 2 days old
	assert.InDelta(t, 2.0, metrics.AverageTimeToConversion, 0.01)

	assert.Equal(t, map[string]int{"calculator": 2, "referral": 2}, metrics.LeadSourceBreakdown)
	assert.Equal(t, map[string]int{"NEW": 1, "NEGOTIATION": 1, "WON": 1, "LOST": 1}, metrics.StageDistribution)
}

func TestAggregate_OutOfBandStatusCountsInTotalOnly(t *testing.T) {
	all := []*leads.Lead{
		{Status: "ARCHIVED", ExpectedValue: 100},
		{Status: leads.StatusNew, ExpectedValue: 300},
	}

	metrics := Aggregate(all)

	assert.Equal(t, 2, metrics.TotalLeads)
	assert.Equal(t, 1, metrics.ActiveLeads)
	assert.Equal(t, 0, metrics.ConvertedLeads)
	assert.Equal(t, 0, metrics.LostLeads)
	// average still spans all leads
	assert.Equal(t, 200, metrics.AverageValue)
	// out-of-band status stays visible in the distribution
	assert.Equal(t, 1, metrics.StageDistribution["ARCHIVED"])
}

func TestAggregate_ConversionTimeSkipsMissingTimestamps(t *testing.T) {
	now := time.Now().UTC()
	all := []*leads.Lead{
		{Status: leads.StatusWon},
		{Status: leads.StatusClosed, CreatedAt: now.Add(-96 * time.Hour), UpdatedAt: now},
	}

	metrics := Aggregate(all)

	require.Equal(t, 2, metrics.ConvertedLeads)
	assert.InDelta(t, 4.0, metrics.AverageTimeToConversion, 0.01)
}

func TestComputeOverallMetrics(t *testing.T) {
	repo := &recordingLeadRepo{stored: []*leads.Lead{
		{ID: "a", Status: leads.StatusNew, ExpectedValue: 100, Source: "calculator"},
	}}
	svc := NewLeadMetricsService(repo, newTestLogger(t), nil)

	metrics, err := svc.ComputeOverallMetrics()
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.TotalLeads)
	assert.Equal(t, 100.0, metrics.TotalPipelineValue)
}
