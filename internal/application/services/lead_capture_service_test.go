package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError + 4,
	})
	require.NoError(t, err)
	return logger
}

// recordingEmitter records emitted events and can be told to fail.
type recordingEmitter struct {
	events   []*analytics.Event
	failWith error
	sequence *[]string
}

func (e *recordingEmitter) Emit(event *analytics.Event) error {
	if e.failWith != nil {
		return e.failWith
	}
	e.events = append(e.events, event)
	if e.sequence != nil {
		*e.sequence = append(*e.sequence, "emit")
	}
	return nil
}

// recordingLeadRepo records stored leads and can be told to fail.
type recordingLeadRepo struct {
	stored   []*leads.Lead
	failWith error
	sequence *[]string
}

func (r *recordingLeadRepo) Store(lead *leads.Lead) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.stored = append(r.stored, lead)
	if r.sequence != nil {
		*r.sequence = append(*r.sequence, "store")
	}
	return nil
}

func (r *recordingLeadRepo) FindByID(id string) (*leads.Lead, error) {
	for _, lead := range r.stored {
		if lead.ID == id {
			return lead, nil
		}
	}
	return nil, nil
}

func (r *recordingLeadRepo) FindAll() ([]*leads.Lead, error) {
	return r.stored, nil
}

func newCaptureFixture(t *testing.T, emitter *recordingEmitter, repo *recordingLeadRepo) *LeadCaptureService {
	t.Helper()
	logger := newTestLogger(t)
	return NewLeadCaptureService(
		NewScoringService(logger, nil),
		NewAnalyticsService(emitter, logger, nil),
		repo,
		nil,
		nil,
		logger,
		nil,
	)
}

func validCaptureRequest() *CaptureLeadRequest {
	return &CaptureLeadRequest{
		Email:          "test@example.com",
		Name:           "Test User",
		CalculatorType: "fba-profit",
		Score:          90,
		Results:        map[string]any{"profit": 100.0, "margin": 0.5},
	}
}

func TestEvaluate_ThresholdDecision(t *testing.T) {
	svc := newCaptureFixture(t, &recordingEmitter{}, &recordingLeadRepo{})

	t.Run("form shown at high score", func(t *testing.T) {
		eval := svc.Evaluate("fba-profit", map[string]any{
			"productCost": 10.0, "shippingCost": 5.0, "amazonFees": 15.0, "sellingPrice": 100.0,
		})
		assert.Equal(t, 90, eval.Score)
		assert.True(t, eval.ShowCaptureForm)
	})

	t.Run("form hidden below threshold", func(t *testing.T) {
		eval := svc.Evaluate("fba-profit", map[string]any{
			"productCost": 60.0, "shippingCost": 10.0, "amazonFees": 15.0, "sellingPrice": 100.0,
		})
		assert.Less(t, eval.Score, 80)
		assert.False(t, eval.ShowCaptureForm)
	})
}

func TestCaptureLead_Success(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &recordingLeadRepo{}
	svc := newCaptureFixture(t, emitter, repo)

	lead, err := svc.CaptureLead(context.Background(), validCaptureRequest())
	require.NoError(t, err)
	require.NotNil(t, lead)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, leads.StatusNew, lead.Status)
	assert.Equal(t, 90, lead.Score)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, analytics.EventLeadCapture, emitter.events[0].EventType)
	assert.Equal(t, map[string]any{"profit": 100.0, "margin": 0.5}, emitter.events[0].EventData)

	require.Len(t, repo.stored, 1)
	assert.Equal(t, lead.ID, repo.stored[0].ID)
}

func TestCaptureLead_AnalyticsPrecedesStore(t *testing.T) {
	var sequence []string
	emitter := &recordingEmitter{sequence: &sequence}
	repo := &recordingLeadRepo{sequence: &sequence}
	svc := newCaptureFixture(t, emitter, repo)

	_, err := svc.CaptureLead(context.Background(), validCaptureRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"emit", "store"}, sequence)
}

func TestCaptureLead_AnalyticsFailureAbortsCapture(t *testing.T) {
	emitter := &recordingEmitter{failWith: apperrors.ErrAnalyticsTracking}
	repo := &recordingLeadRepo{}
	svc := newCaptureFixture(t, emitter, repo)

	lead, err := svc.CaptureLead(context.Background(), validCaptureRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAnalyticsTracking)
	assert.EqualError(t, err, "Failed to track analytics event")
	assert.Nil(t, lead)

	assert.Empty(t, repo.stored, "store write must not happen when the analytics emit fails")
}

func TestCaptureLead_ValidationErrors(t *testing.T) {
	cases := map[string]func(*CaptureLeadRequest){
		"missing email":   func(r *CaptureLeadRequest) { r.Email = "" },
		"missing name":    func(r *CaptureLeadRequest) { r.Name = "" },
		"missing type":    func(r *CaptureLeadRequest) { r.CalculatorType = "" },
		"zero score":      func(r *CaptureLeadRequest) { r.Score = 0 },
		"missing results": func(r *CaptureLeadRequest) { r.Results = nil },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			emitter := &recordingEmitter{}
			repo := &recordingLeadRepo{}
			svc := newCaptureFixture(t, emitter, repo)

			req := validCaptureRequest()
			mutate(req)

			_, err := svc.CaptureLead(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Empty(t, emitter.events, "invalid submissions must not emit analytics")
			assert.Empty(t, repo.stored)
		})
	}
}

func TestCaptureLead_NoDeduplication(t *testing.T) {
	emitter := &recordingEmitter{}
	repo := &recordingLeadRepo{}
	svc := newCaptureFixture(t, emitter, repo)

	first, err := svc.CaptureLead(context.Background(), validCaptureRequest())
	require.NoError(t, err)
	second, err := svc.CaptureLead(context.Background(), validCaptureRequest())
	require.NoError(t, err)

	require.Len(t, repo.stored, 2, "identical submissions create separate leads")
	assert.NotEqual(t, first.ID, second.ID)
}
