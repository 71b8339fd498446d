package engine

import "github.com/KirkDiggler/kingdom-api/internal/entities"

// TickInput is the state one tick operates on
type TickInput struct {
	Faction   entities.Faction
	Resources entities.Resources
	Buildings []*entities.Building
	Queue     []*entities.QueueEntry
}

// TickOutput is the state after one or more ticks
type TickOutput struct {
	Resources entities.Resources
	Buildings []*entities.Building
	Queue     []*entities.QueueEntry

	// What was added to Resources
	Produced entities.Resources

	// Buildings whose upgrade finished, in completion order
	CompletedBuildingIDs []string

	// Finished entries whose building no longer exists
	DroppedEntryIDs []string
}

// StartUpgradeInput identifies the building to upgrade and the state to pay from
type StartUpgradeInput struct {
	BuildingID string
	Resources  entities.Resources
	Buildings  []*entities.Building
	Queue      []*entities.QueueEntry
}

// StartUpgradeOutput is the state after a successful upgrade start
type StartUpgradeOutput struct {
	Resources entities.Resources
	Buildings []*entities.Building
	Queue     []*entities.QueueEntry
	Entry     *entities.QueueEntry
	Cost      entities.Resources
}

// RecruitInput describes a recruitment order
type RecruitInput struct {
	UnitType  entities.UnitType
	Quantity  int
	Resources entities.Resources
	Army      entities.Army
}

// RecruitOutput is the state after a successful recruitment
type RecruitOutput struct {
	Resources entities.Resources
	Army      entities.Army
	Cost      entities.Resources
}

// Quote describes the next upgrade of a building
type Quote struct {
	BuildingID      string                `json:"building_id"`
	BuildingType    entities.BuildingType `json:"building_type"`
	CurrentLevel    int                   `json:"current_level"`
	TargetLevel     int                   `json:"target_level"`
	MaxLevel        int                   `json:"max_level"`
	MaxLevelReached bool                  `json:"max_level_reached"`
	Constructing    bool                  `json:"constructing"`
	Cost            entities.Resources    `json:"cost,omitempty"`
	BuildTime       int                   `json:"build_time"`
	Affordable      bool                  `json:"affordable"`
	Missing         entities.Resources    `json:"missing,omitempty"`
}
