package services

import (
	"context"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/messaging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// LeadNotifier sends the new-lead alert email. Matches the email
// service surface so tests can substitute a recorder.
type LeadNotifier interface {
	SendLeadNotificationEmail(toEmail string, lead *leads.Lead) error
}

// CaptureLeadRequest carries a lead capture submission.
type CaptureLeadRequest struct {
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	CalculatorType string         `json:"calculatorType"`
	Score          int            `json:"score"`
	Results        map[string]any `json:"results"`
	Source         string         `json:"source,omitempty"`
}

// Evaluation is the outcome of scoring a calculator interaction.
type Evaluation struct {
	Score           int  `json:"score"`
	ShowCaptureForm bool `json:"showCaptureForm"`
}

// LeadCaptureService orchestrates the funnel: score the calculator
// results, decide whether to reveal the capture form, and on submission
// emit analytics then persist the lead. The analytics emit strictly
// precedes the store write; an emit failure aborts the capture.
type LeadCaptureService struct {
	scoring     *ScoringService
	analytics   *AnalyticsService
	repo        leads.Repository
	broadcaster *messaging.FunnelBroadcaster
	notifier    LeadNotifier
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLeadCaptureService creates a new lead capture orchestrator.
// broadcaster and notifier may be nil; both are best-effort side channels.
func NewLeadCaptureService(
	scoring *ScoringService,
	analytics *AnalyticsService,
	repo leads.Repository,
	broadcaster *messaging.FunnelBroadcaster,
	notifier LeadNotifier,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *LeadCaptureService {
	return &LeadCaptureService{
		scoring:     scoring,
		analytics:   analytics,
		repo:        repo,
		broadcaster: broadcaster,
		notifier:    notifier,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Evaluate scores a calculator interaction and applies the capture
// threshold. The form is revealed iff score >= config.CaptureThreshold.
func (s *LeadCaptureService) Evaluate(calculatorType string, results map[string]any) Evaluation {
	score := s.scoring.ComputeScore(calculatorType, results)
	return Evaluation{
		Score:           score,
		ShowCaptureForm: score >= config.CaptureThreshold,
	}
}

// CaptureLead validates and persists a lead submission. Each submission
// creates a new lead; there is no dedup on email.
func (s *LeadCaptureService) CaptureLead(ctx context.Context, req *CaptureLeadRequest) (*leads.Lead, error) {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperationWithContext(ctx, "funnel:capture_lead")
	}

	if req.Email == "" || req.Name == "" || req.CalculatorType == "" || req.Score <= 0 || len(req.Results) == 0 {
		s.logger.Funnel().Warn("Lead capture rejected, missing required fields", "email", req.Email != "", "name", req.Name != "", "calculatorType", req.CalculatorType, "score", req.Score)
		s.completeMarker(marker, apperrors.ErrValidation)
		return nil, apperrors.ErrValidation
	}

	// Analytics emit must precede the store write. An emit failure
	// aborts the capture so there is never a stored lead without its
	// lead_capture event.
	if err := s.analytics.TrackLeadCapture(ctx, req.Results); err != nil {
		s.logger.Funnel().Error("Lead capture aborted, analytics emit failed", "email", req.Email, "calculatorType", req.CalculatorType, "error", err.Error(), "duration", time.Since(start))
		s.completeMarker(marker, err)
		return nil, err
	}

	now := time.Now().UTC()
	lead := &leads.Lead{
		ID:             security.GenerateULID(),
		Email:          req.Email,
		Name:           req.Name,
		CalculatorType: req.CalculatorType,
		Score:          req.Score,
		Results:        req.Results,
		Status:         leads.StatusNew,
		Source:         req.Source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Store(lead); err != nil {
		s.logger.Funnel().Error("Lead store write failed", "leadId", lead.ID, "email", lead.Email, "error", err.Error(), "duration", time.Since(start))
		s.completeMarker(marker, err)
		return nil, apperrors.ErrInternal
	}

	s.logger.Funnel().Info("Lead captured", "leadId", lead.ID, "calculatorType", lead.CalculatorType, "score", lead.Score, "duration", time.Since(start))
	s.completeMarker(marker, nil)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadCaptured(lead)
	}

	if s.notifier != nil && lead.Score >= config.NotifyThreshold && config.NotifyEmail != "" {
		// Notification failure never fails the capture.
		if err := s.notifier.SendLeadNotificationEmail(config.NotifyEmail, lead); err != nil {
			s.logger.Email().Error("Lead notification email failed", "leadId", lead.ID, "error", err.Error())
		}
	}

	return lead, nil
}

func (s *LeadCaptureService) completeMarker(marker *performance.Marker, err error) {
	if marker == nil {
		return
	}
	marker.SetSuccess(err == nil)
	if err != nil {
		marker.SetError(err)
	}
	s.perfTracker.CompleteOperation(marker)
}
