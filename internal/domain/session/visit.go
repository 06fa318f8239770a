package session

import "time"

// Visit records a single arrival of a browser session, with whatever
// campaign attribution the landing URL carried.
type Visit struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	CampaignSource string    `json:"campaignSource,omitempty"`
	CampaignMedium string    `json:"campaignMedium,omitempty"`
	HTTPReferrer   string    `json:"httpReferrer,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VisitRepository defines persistence operations for visits.
type VisitRepository interface {
	Store(visit *Visit) error
	FindBySessionID(sessionID string) ([]*Visit, error)
}
