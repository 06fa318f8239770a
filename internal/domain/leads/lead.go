// Package leads defines the lead entity produced by calculator engagement
// and the repository interface that abstracts its persistence. The
// repository keeps the funnel orchestration decoupled from the database.
package leads

import "time"

// Status is the lifecycle stage of a captured lead.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusContacted   Status = "CONTACTED"
	StatusQualified   Status = "QUALIFIED"
	StatusProposal    Status = "PROPOSAL"
	StatusNegotiation Status = "NEGOTIATION"
	StatusWon         Status = "WON"
	StatusClosed      Status = "CLOSED"
	StatusLost        Status = "LOST"
)

// ActiveStatuses are the stages counted toward the open pipeline.
var ActiveStatuses = map[Status]bool{
	StatusNew:         true,
	StatusContacted:   true,
	StatusQualified:   true,
	StatusProposal:    true,
	StatusNegotiation: true,
}

// ConvertedStatuses are the stages counted as won business.
var ConvertedStatuses = map[Status]bool{
	StatusWon:    true,
	StatusClosed: true,
}

// Lead represents a prospective customer captured from a calculator funnel.
// Records are write-once in this core; stage transitions belong to the CRM
// layer that consumes them.
type Lead struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	CalculatorType string         `json:"calculatorType"`
	Score          int            `json:"score"`
	Results        map[string]any `json:"results"`
	Status         Status         `json:"status"`
	Source         string         `json:"source"`
	ExpectedValue  float64        `json:"expectedValue"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Repository defines the operations for persisting Lead entities.
type Repository interface {
	Store(lead *Lead) error
	FindByID(id string) (*Lead, error)
	FindAll() ([]*Lead, error)
}
