package testutils

import (
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	"github.com/KirkDiggler/kingdom-api/internal/rules"
)

// DefaultRules returns the embedded rules, panicking if they fail to load.
// The embedded table is covered by the rules tests.
func DefaultRules() *rules.Rules {
	r, err := rules.Default()
	if err != nil {
		panic(err)
	}
	return r
}

// NewKingdom builds a freshly registered kingdom from the default rules.
// Building IDs are bld_1..bld_6 in castle, farm, lumbermill, mine,
// barracks, blacksmith order.
func NewKingdom(id, username string, faction entities.Faction) *entities.Kingdom {
	r := DefaultRules()
	return &entities.Kingdom{
		ID:          id,
		Username:    username,
		KingdomName: username + "'s Realm",
		Faction:     faction,
		Resources:   r.StartingResources(faction),
		Buildings:   r.StartingBuildings(idgen.NewSequential("bld")),
		Queue:       []*entities.QueueEntry{},
		Army:        r.StartingArmy.Clone(),
	}
}
