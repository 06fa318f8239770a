package services

import (
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/session"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/stores"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
)

// StartVisitRequest carries the campaign attribution of an arrival.
type StartVisitRequest struct {
	SessionID      string `json:"sessionId,omitempty"`
	CampaignSource string `json:"campaignSource,omitempty"`
	CampaignMedium string `json:"campaignMedium,omitempty"`
	HTTPReferrer   string `json:"httpReferrer,omitempty"`
}

// SessionService manages the visit lifecycle and the visitor segment
// behind each session.
type SessionService struct {
	segments *stores.VisitorSegmentStore
	visits   session.VisitRepository
	logger   *logging.ChanneledLogger
}

// NewSessionService creates a new session service.
func NewSessionService(segments *stores.VisitorSegmentStore, visits session.VisitRepository, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		segments: segments,
		visits:   visits,
		logger:   logger,
	}
}

// StartVisit registers an arrival. A missing session ID mints a new one;
// a returning session keeps its existing segment. The visit row is
// durable, the segment is session-scoped and in-memory.
func (s *SessionService) StartVisit(req *StartVisitRequest) (*session.Visit, *session.VisitorSegment, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = security.GenerateULID()
	}

	segment := s.segments.Create(sessionID)

	visit := &session.Visit{
		ID:             security.GenerateULID(),
		SessionID:      sessionID,
		CampaignSource: req.CampaignSource,
		CampaignMedium: req.CampaignMedium,
		HTTPReferrer:   req.HTTPReferrer,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.visits.Store(visit); err != nil {
		return nil, nil, err
	}

	s.logger.Funnel().Info("Visit started", "visitId", visit.ID, "sessionId", sessionID, "campaignSource", req.CampaignSource)
	return visit, segment, nil
}

// LogInteraction records a visitor action against the session's segment.
func (s *SessionService) LogInteraction(sessionID, action string, data map[string]any) *session.VisitorSegment {
	return s.segments.LogInteraction(sessionID, action, data)
}

// SetEmailSubscriberStatus flags the session as a newsletter subscriber.
func (s *SessionService) SetEmailSubscriberStatus(sessionID string, isSubscriber bool) *session.VisitorSegment {
	return s.segments.SetEmailSubscriberStatus(sessionID, isSubscriber)
}

// SetPersona pins a persona onto the session's segment. Persona
// assignment is explicit; nothing infers it from raw interactions.
func (s *SessionService) SetPersona(sessionID, personaID string) (*session.VisitorSegment, bool) {
	return s.segments.SetPersona(sessionID, personaID)
}

// GetSegment returns the live segment for a session, if any.
func (s *SessionService) GetSegment(sessionID string) (*session.VisitorSegment, bool) {
	return s.segments.Get(sessionID)
}

// EndSession discards the session's segment.
func (s *SessionService) EndSession(sessionID string) {
	s.segments.Remove(sessionID)
}
