package models

import (
	"strings"
	"time"

	"crmbackend/internal/domain"
)

// Opportunity statuses mirror the pipeline stages the dashboard cards group by.
const (
	OpportunityOpen      = "open"
	OpportunityWon       = "won"
	OpportunityLost      = "lost"
	OpportunityAbandoned = "abandoned"
)

type Opportunity struct {
	ID            int64     `json:"id"`
	LocationID    string    `json:"location_id"`
	ContactID     int64     `json:"contact_id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	MonetaryValue int64     `json:"monetary_value"` // cents
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ParseOpportunityStatus validates a raw status filter value.
func ParseOpportunityStatus(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case OpportunityOpen, OpportunityWon, OpportunityLost, OpportunityAbandoned:
		return s, nil
	default:
		return "", domain.ValidationError{Field: "status", Msg: "must be one of open, won, lost, abandoned"}
	}
}

// OpportunitySummary aggregates per-status counts and value for the dashboard.
type OpportunitySummary struct {
	LocationID string                    `json:"location_id"`
	Stages     map[string]StageBreakdown `json:"stages"`
	TotalCount int                       `json:"total_count"`
	TotalValue int64                     `json:"total_value"`
}

type StageBreakdown struct {
	Count int   `json:"count"`
	Value int64 `json:"value"`
}
