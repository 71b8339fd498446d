package kingdom

import (
	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
)

// RegisterInput defines the request for creating a kingdom
type RegisterInput struct {
	Username    string
	KingdomName string
	Faction     entities.Faction
}

// RegisterOutput defines the response for creating a kingdom
type RegisterOutput struct {
	Kingdom *entities.Kingdom
}

// GetKingdomInput defines the request for loading a kingdom
type GetKingdomInput struct {
	KingdomID string
}

// GetKingdomOutput defines the response for loading a kingdom
type GetKingdomOutput struct {
	Kingdom *entities.Kingdom

	// Per-tick yield at current levels
	Production entities.Resources
}

// QuoteUpgradeInput defines the request for pricing a building's next level
type QuoteUpgradeInput struct {
	KingdomID  string
	BuildingID string
}

// QuoteUpgradeOutput defines the response for pricing a building's next level
type QuoteUpgradeOutput struct {
	Quote *engine.Quote
}

// StartUpgradeInput defines the request for starting an upgrade
type StartUpgradeInput struct {
	KingdomID  string
	BuildingID string
}

// StartUpgradeOutput defines the response for starting an upgrade
type StartUpgradeOutput struct {
	Kingdom *entities.Kingdom
	Entry   *entities.QueueEntry
	Cost    entities.Resources
}

// RecruitInput defines the request for recruiting units
type RecruitInput struct {
	KingdomID string
	UnitType  entities.UnitType
	Quantity  int
}

// RecruitOutput defines the response for recruiting units
type RecruitOutput struct {
	Kingdom *entities.Kingdom
	Cost    entities.Resources
}

// TickInput defines the request for advancing one kingdom
type TickInput struct {
	KingdomID string

	// Number of ticks to apply; zero means one
	Ticks int
}

// TickOutput defines the response for advancing one kingdom
type TickOutput struct {
	Kingdom              *entities.Kingdom
	Produced             entities.Resources
	CompletedBuildingIDs []string
}

// TickAllInput defines the request for advancing every kingdom
type TickAllInput struct {
	// Number of ticks to apply to each kingdom; zero means one
	Ticks int
}

// TickAllOutput summarises a pass over every kingdom
type TickAllOutput struct {
	Processed int
	Failed    int
	Completed int
}

// LeaderboardInput defines the request for the power ranking
type LeaderboardInput struct {
	Limit int
}

// LeaderboardEntry is one ranked kingdom
type LeaderboardEntry struct {
	Rank        int              `json:"rank"`
	KingdomID   string           `json:"kingdom_id"`
	Username    string           `json:"username"`
	KingdomName string           `json:"kingdom_name"`
	Faction     entities.Faction `json:"faction"`
	Power       int              `json:"power"`
}

// LeaderboardOutput defines the response for the power ranking
type LeaderboardOutput struct {
	Entries []*LeaderboardEntry
}
