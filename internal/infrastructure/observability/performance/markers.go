// Package performance provides performance monitoring data structures and
// utilities for tracking operation performance across LeadStack.
package performance

import (
	"runtime"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation   string         `json:"operation"`       // e.g., "funnel:capture_lead", "analytics:emit"
	StartTime   time.Time      `json:"startTime"`       // When the operation started
	EndTime     time.Time      `json:"endTime"`         // When the operation completed
	Duration    time.Duration  `json:"duration"`        // Total operation duration
	Success     bool           `json:"success"`         // Whether the operation completed successfully
	Error       string         `json:"error,omitempty"` // Error message if operation failed
	Metadata    map[string]any `json:"metadata"`        // Additional operation-specific data
	MemoryUsage int64          `json:"memoryUsage"`     // Memory allocated during operation (bytes)
	Completed   bool           `json:"completed"`       // Whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsage = int64(memStats.Alloc)
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// FunnelPerformanceTracker contains markers for lead funnel operations
type FunnelPerformanceTracker struct {
	ScoreComputation *Marker `json:"scoreComputation,omitempty"`
	LeadCapture      *Marker `json:"leadCapture,omitempty"`
	AnalyticsEmit    *Marker `json:"analyticsEmit,omitempty"`
	SegmentUpdate    *Marker `json:"segmentUpdate,omitempty"`
}

// AnalyticsPerformanceTracker contains markers for analytics-related operations
type AnalyticsPerformanceTracker struct {
	DashboardQuery     *Marker `json:"dashboardQuery,omitempty"`
	MetricsAggregation *Marker `json:"metricsAggregation,omitempty"`
}

// CommercePerformanceTracker contains markers for storefront operations
type CommercePerformanceTracker struct {
	CatalogQuery  *Marker `json:"catalogQuery,omitempty"`
	OrderCreation *Marker `json:"orderCreation,omitempty"`
}

// PerformanceSnapshot represents a point-in-time view of system performance
type PerformanceSnapshot struct {
	Timestamp           time.Time                    `json:"timestamp"`
	Funnel              *FunnelPerformanceTracker    `json:"funnel,omitempty"`
	Analytics           *AnalyticsPerformanceTracker `json:"analytics,omitempty"`
	Commerce            *CommercePerformanceTracker  `json:"commerce,omitempty"`
	OverallHealth       HealthStatus                 `json:"overallHealth"`
	ActiveOperations    int                          `json:"activeOperations"`
	CompletedOperations int                          `json:"completedOperations"`
}

// HealthStatus represents the overall health of a system component
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"   // All operations performing within normal parameters
	HealthDegraded  HealthStatus = "degraded"  // Some operations showing performance issues
	HealthUnhealthy HealthStatus = "unhealthy" // Significant performance problems detected
	HealthUnknown   HealthStatus = "unknown"   // Unable to determine health status
)

// PerformanceAlert represents a performance threshold violation
type PerformanceAlert struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Severity  AlertSeverity  `json:"severity"`
	Operation string         `json:"operation"`
	Actual    time.Duration  `json:"actual"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"     // Informational alert
	AlertWarning  AlertSeverity = "warning"  // Performance degradation detected
	AlertCritical AlertSeverity = "critical" // Serious performance issue
)
