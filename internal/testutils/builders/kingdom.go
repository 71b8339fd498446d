// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/testutils"
)

// KingdomBuilder provides a fluent interface for building test kingdoms
type KingdomBuilder struct {
	kingdom *entities.Kingdom
}

// NewKingdomBuilder starts from a freshly registered Norman kingdom
func NewKingdomBuilder() *KingdomBuilder {
	return &KingdomBuilder{
		kingdom: testutils.NewKingdom("kdm_test", "tester", entities.FactionNorman),
	}
}

// WithID sets the kingdom ID
func (b *KingdomBuilder) WithID(id string) *KingdomBuilder {
	b.kingdom.ID = id
	return b
}

// WithUsername sets the owner
func (b *KingdomBuilder) WithUsername(username string) *KingdomBuilder {
	b.kingdom.Username = username
	return b
}

// WithFaction sets the faction without touching resources
func (b *KingdomBuilder) WithFaction(f entities.Faction) *KingdomBuilder {
	b.kingdom.Faction = f
	return b
}

// WithResources replaces the stockpile
func (b *KingdomBuilder) WithResources(r entities.Resources) *KingdomBuilder {
	b.kingdom.Resources = r.Clone()
	return b
}

// WithBuildingLevel sets the level of the first building of type t
func (b *KingdomBuilder) WithBuildingLevel(t entities.BuildingType, level int) *KingdomBuilder {
	for _, bld := range b.kingdom.Buildings {
		if bld.Type == t {
			bld.Level = level
			break
		}
	}
	return b
}

// WithUpgrade marks the building constructing and queues an entry for it
func (b *KingdomBuilder) WithUpgrade(entryID, buildingID string, remaining int) *KingdomBuilder {
	bld := entities.FindBuilding(b.kingdom.Buildings, buildingID)
	if bld == nil {
		return b
	}
	bld.Constructing = true
	b.kingdom.Queue = append(b.kingdom.Queue, &entities.QueueEntry{
		ID:            entryID,
		BuildingID:    bld.ID,
		BuildingType:  bld.Type,
		TargetLevel:   bld.Level + 1,
		RemainingTime: remaining,
	})
	return b
}

// WithArmy replaces the army
func (b *KingdomBuilder) WithArmy(a entities.Army) *KingdomBuilder {
	b.kingdom.Army = a.Clone()
	return b
}

// WithPower sets the cached power
func (b *KingdomBuilder) WithPower(power int) *KingdomBuilder {
	b.kingdom.Power = power
	return b
}

// Build returns a copy so the builder can be reused
func (b *KingdomBuilder) Build() *entities.Kingdom {
	return b.kingdom.Clone()
}
