package entities

// BuildingType tags a building
type BuildingType string

// Building types
const (
	BuildingCastle     BuildingType = "castle"
	BuildingFarm       BuildingType = "farm"
	BuildingLumbermill BuildingType = "lumbermill"
	BuildingMine       BuildingType = "mine"
	BuildingBarracks   BuildingType = "barracks"
	BuildingBlacksmith BuildingType = "blacksmith"
)

// AllBuildingTypes returns every building type in registration order
func AllBuildingTypes() []BuildingType {
	return []BuildingType{
		BuildingCastle,
		BuildingFarm,
		BuildingLumbermill,
		BuildingMine,
		BuildingBarracks,
		BuildingBlacksmith,
	}
}

// IsValid reports whether t is one of the fixed building types
func (t BuildingType) IsValid() bool {
	for _, bt := range AllBuildingTypes() {
		if t == bt {
			return true
		}
	}
	return false
}

// Building is one structure in a kingdom
type Building struct {
	ID           string       `json:"id"`
	Type         BuildingType `json:"type"`
	Level        int          `json:"level"`
	Constructing bool         `json:"constructing"`

	// Per-tick yield at level 1
	Production Resources `json:"production"`
}

// Clone returns a deep copy
func (b *Building) Clone() *Building {
	if b == nil {
		return nil
	}
	out := *b
	if b.Production != nil {
		out.Production = b.Production.Clone()
	}
	return &out
}

// QueueEntry is a pending upgrade. It refers to its building by ID only.
type QueueEntry struct {
	ID            string       `json:"id"`
	BuildingID    string       `json:"building_id"`
	BuildingType  BuildingType `json:"building_type"`
	TargetLevel   int          `json:"target_level"`
	RemainingTime int          `json:"remaining_time"` // ticks
}

// Clone returns a copy
func (q *QueueEntry) Clone() *QueueEntry {
	if q == nil {
		return nil
	}
	out := *q
	return &out
}

// CloneBuildings deep copies a building list
func CloneBuildings(buildings []*Building) []*Building {
	out := make([]*Building, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, b.Clone())
	}
	return out
}

// CloneQueue deep copies a queue
func CloneQueue(queue []*QueueEntry) []*QueueEntry {
	out := make([]*QueueEntry, 0, len(queue))
	for _, q := range queue {
		out = append(out, q.Clone())
	}
	return out
}

// FindBuilding returns the building with id, or nil
func FindBuilding(buildings []*Building, id string) *Building {
	for _, b := range buildings {
		if b != nil && b.ID == id {
			return b
		}
	}
	return nil
}
