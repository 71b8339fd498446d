package v1alpha1

import (
	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
)

// RegisterRequest is the body of POST /v1alpha1/kingdoms
type RegisterRequest struct {
	Username    string `json:"username"`
	KingdomName string `json:"kingdom_name"`
	Faction     string `json:"faction"`
}

// RecruitRequest is the body of POST /v1alpha1/kingdoms/{id}/army/recruit
type RecruitRequest struct {
	UnitType string `json:"unit_type"`
	Quantity int    `json:"quantity"`
}

// KingdomResponse wraps a kingdom
type KingdomResponse struct {
	Kingdom    *entities.Kingdom  `json:"kingdom"`
	Production entities.Resources `json:"production,omitempty"`
}

// QuoteResponse wraps an upgrade quote
type QuoteResponse struct {
	Quote *engine.Quote `json:"quote"`
}

// UpgradeResponse is returned when an upgrade starts
type UpgradeResponse struct {
	Kingdom *entities.Kingdom    `json:"kingdom"`
	Entry   *entities.QueueEntry `json:"entry"`
	Cost    entities.Resources   `json:"cost"`
}

// RecruitResponse is returned after recruiting
type RecruitResponse struct {
	Kingdom *entities.Kingdom  `json:"kingdom"`
	Cost    entities.Resources `json:"cost"`
}

// LeaderboardResponse lists ranked kingdoms
type LeaderboardResponse struct {
	Entries []*kingdom.LeaderboardEntry `json:"entries"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Reason  string         `json:"reason,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error *ErrorBody `json:"error"`
}
