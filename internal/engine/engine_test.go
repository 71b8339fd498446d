package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	"github.com/KirkDiggler/kingdom-api/internal/rules"
)

type EngineTestSuite struct {
	suite.Suite
	rules  *rules.Rules
	engine *engine.Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	r, err := rules.Default()
	s.Require().NoError(err)
	s.rules = r

	e, err := engine.New(&engine.Config{
		Rules:       r,
		IDGenerator: idgen.NewSequential("q"),
	})
	s.Require().NoError(err)
	s.engine = e
}

func (s *EngineTestSuite) building(id string, t entities.BuildingType, level int) *entities.Building {
	spec, ok := s.rules.Building(t)
	s.Require().True(ok)
	return &entities.Building{
		ID:         id,
		Type:       t,
		Level:      level,
		Production: spec.Production.Clone(),
	}
}

func (s *EngineTestSuite) TestNewValidatesConfig() {
	_, err := engine.New(nil)
	s.Error(err)

	_, err = engine.New(&engine.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Rules")
	s.Contains(err.Error(), "IDGenerator")
}

func (s *EngineTestSuite) TestCost() {
	testCases := []struct {
		name     string
		bt       entities.BuildingType
		level    int
		expected entities.Resources
	}{
		{
			name:     "level 1 is the base cost",
			bt:       entities.BuildingFarm,
			level:    1,
			expected: entities.Resources{entities.ResourceGold: 50, entities.ResourceWood: 60, entities.ResourceStone: 30},
		},
		{
			name:     "farm level 2",
			bt:       entities.BuildingFarm,
			level:    2,
			expected: entities.Resources{entities.ResourceGold: 75, entities.ResourceWood: 90, entities.ResourceStone: 45},
		},
		{
			name:     "farm level 3 floors",
			bt:       entities.BuildingFarm,
			level:    3,
			expected: entities.Resources{entities.ResourceGold: 112, entities.ResourceWood: 135, entities.ResourceStone: 67},
		},
		{
			name:     "castle level 2",
			bt:       entities.BuildingCastle,
			level:    2,
			expected: entities.Resources{entities.ResourceGold: 150, entities.ResourceWood: 120, entities.ResourceStone: 180},
		},
		{
			name:     "castle level 10",
			bt:       entities.BuildingCastle,
			level:    10,
			expected: entities.Resources{entities.ResourceGold: 3844, entities.ResourceWood: 3075, entities.ResourceStone: 4613},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cost, err := s.engine.Cost(tc.bt, tc.level)
			s.Require().NoError(err)
			s.Equal(tc.expected, cost)
		})
	}
}

func (s *EngineTestSuite) TestCostErrors() {
	_, err := s.engine.Cost("tavern", 2)
	s.True(engine.IsUnknownBuildingType(err))
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.Cost(entities.BuildingFarm, 0)
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestBuildTime() {
	testCases := []struct {
		bt       entities.BuildingType
		level    int
		expected int
	}{
		{entities.BuildingCastle, 1, 120},
		{entities.BuildingCastle, 2, 156},
		{entities.BuildingFarm, 2, 78},
		{entities.BuildingFarm, 3, 101},
		{entities.BuildingLumbermill, 2, 58},
	}

	for _, tc := range testCases {
		s.Run(string(tc.bt), func() {
			got, err := s.engine.BuildTime(tc.bt, tc.level)
			s.Require().NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *EngineTestSuite) TestYieldAppliesFactionBonus() {
	mine := s.building("b_mine", entities.BuildingMine, 5)

	norman := s.engine.Yield(mine, entities.FactionNorman)
	viking := s.engine.Yield(mine, entities.FactionViking)

	s.Equal(12, norman[entities.ResourceStone])
	s.Equal(10, viking[entities.ResourceStone])
	s.Equal(6, norman[entities.ResourceGold])
	s.Equal(5, viking[entities.ResourceGold])
}

func (s *EngineTestSuite) TestYieldDropsFractions() {
	castle := s.building("b_castle", entities.BuildingCastle, 1)

	// 2 * 125 / 100 = 2.5
	s.Equal(entities.Resources{entities.ResourceGold: 2}, s.engine.Yield(castle, entities.FactionNorman))
	s.Empty(s.engine.Yield(s.building("b_barracks", entities.BuildingBarracks, 3), entities.FactionNorman))
	s.Empty(s.engine.Yield(nil, entities.FactionNorman))
}

func (s *EngineTestSuite) TestTickAddsProduction() {
	buildings := []*entities.Building{
		s.building("b_castle", entities.BuildingCastle, 1),
		s.building("b_farm", entities.BuildingFarm, 1),
		s.building("b_lumbermill", entities.BuildingLumbermill, 1),
		s.building("b_mine", entities.BuildingMine, 1),
		s.building("b_barracks", entities.BuildingBarracks, 1),
		s.building("b_blacksmith", entities.BuildingBlacksmith, 1),
	}
	start := entities.Resources{
		entities.ResourceGold:  100,
		entities.ResourceWood:  100,
		entities.ResourceStone: 100,
		entities.ResourceFood:  100,
	}

	out := s.engine.Tick(&engine.TickInput{
		Faction:   entities.FactionNorman,
		Resources: start,
		Buildings: buildings,
	})

	expected := entities.Resources{
		entities.ResourceGold:  4,
		entities.ResourceWood:  2,
		entities.ResourceStone: 2,
		entities.ResourceFood:  3,
	}
	s.Equal(expected, out.Produced)
	for _, k := range entities.AllResourceKinds() {
		s.Equal(start[k]+expected[k], out.Resources[k], string(k))
		s.GreaterOrEqual(out.Resources[k], start[k])
	}
	s.Empty(out.Queue)
	s.Empty(out.CompletedBuildingIDs)

	// input untouched
	s.Equal(100, start[entities.ResourceGold])
}

func (s *EngineTestSuite) TestTickCompletesEntry() {
	farm := s.building("b_farm", entities.BuildingFarm, 1)
	farm.Constructing = true
	queue := []*entities.QueueEntry{{
		ID:            "q_1",
		BuildingID:    "b_farm",
		BuildingType:  entities.BuildingFarm,
		TargetLevel:   2,
		RemainingTime: 1,
	}}

	out := s.engine.Tick(&engine.TickInput{
		Faction:   entities.FactionSaxon,
		Resources: entities.Resources{},
		Buildings: []*entities.Building{farm},
		Queue:     queue,
	})

	s.Empty(out.Queue)
	s.Equal([]string{"b_farm"}, out.CompletedBuildingIDs)
	done := entities.FindBuilding(out.Buildings, "b_farm")
	s.Require().NotNil(done)
	s.Equal(2, done.Level)
	s.False(done.Constructing)

	// production uses the level at the start of the tick
	s.Equal(3, out.Produced[entities.ResourceFood])

	s.Equal(1, farm.Level)
	s.True(farm.Constructing)
	s.Equal(1, queue[0].RemainingTime)
}

func (s *EngineTestSuite) TestTickDecrementsAndFloorsAtZero() {
	buildings := []*entities.Building{
		s.building("b_farm", entities.BuildingFarm, 1),
		s.building("b_mine", entities.BuildingMine, 1),
	}
	queue := []*entities.QueueEntry{
		{ID: "q_1", BuildingID: "b_farm", TargetLevel: 2, RemainingTime: 5},
		{ID: "q_2", BuildingID: "b_mine", TargetLevel: 2, RemainingTime: 0},
	}

	out := s.engine.Tick(&engine.TickInput{
		Buildings: buildings,
		Queue:     queue,
	})

	s.Require().Len(out.Queue, 1)
	s.Equal("q_1", out.Queue[0].ID)
	s.Equal(4, out.Queue[0].RemainingTime)
	s.Equal([]string{"b_mine"}, out.CompletedBuildingIDs)
}

func (s *EngineTestSuite) TestTickDropsOrphanedEntry() {
	out := s.engine.Tick(&engine.TickInput{
		Queue: []*entities.QueueEntry{{ID: "q_9", BuildingID: "gone", TargetLevel: 2, RemainingTime: 1}},
	})

	s.Empty(out.Queue)
	s.Empty(out.CompletedBuildingIDs)
	s.Equal([]string{"q_9"}, out.DroppedEntryIDs)
}

func (s *EngineTestSuite) TestAdvanceMatchesRepeatedTicks() {
	input := &engine.TickInput{
		Faction:   entities.FactionCeltic,
		Resources: entities.Resources{entities.ResourceGold: 10},
		Buildings: []*entities.Building{
			s.building("b_lumbermill", entities.BuildingLumbermill, 3),
			s.building("b_farm", entities.BuildingFarm, 2),
		},
		Queue: []*entities.QueueEntry{
			{ID: "q_1", BuildingID: "b_farm", TargetLevel: 3, RemainingTime: 4},
		},
	}

	stepwise := input
	produced := entities.Resources{}
	for i := 0; i < 7; i++ {
		out := s.engine.Tick(stepwise)
		produced.Add(out.Produced)
		stepwise = &engine.TickInput{
			Faction:   input.Faction,
			Resources: out.Resources,
			Buildings: out.Buildings,
			Queue:     out.Queue,
		}
	}

	advanced := s.engine.Advance(input, 7)

	s.Equal(stepwise.Resources, advanced.Resources)
	s.Equal(stepwise.Buildings, advanced.Buildings)
	s.Empty(advanced.Queue)
	s.Equal([]string{"b_farm"}, advanced.CompletedBuildingIDs)
	s.Equal(produced, advanced.Produced)

	// the farm levels after tick 4, so ticks 5-7 use level 3
	farm := entities.FindBuilding(advanced.Buildings, "b_farm")
	s.Equal(3, farm.Level)
	s.Equal(4*6+3*9, advanced.Produced[entities.ResourceFood])
}

func (s *EngineTestSuite) TestAdvanceZeroIsNoop() {
	input := &engine.TickInput{
		Resources: entities.Resources{entities.ResourceFood: 7},
		Buildings: []*entities.Building{s.building("b_farm", entities.BuildingFarm, 1)},
	}

	out := s.engine.Advance(input, 0)
	s.Equal(input.Resources, out.Resources)
	s.Equal(input.Buildings, out.Buildings)
	s.Empty(out.Produced)
}

func (s *EngineTestSuite) TestStartUpgrade() {
	castle := s.building("b_castle", entities.BuildingCastle, 1)
	resources := entities.Resources{
		entities.ResourceGold:  1500,
		entities.ResourceWood:  800,
		entities.ResourceStone: 600,
		entities.ResourceFood:  400,
	}

	out, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
		BuildingID: "b_castle",
		Resources:  resources,
		Buildings:  []*entities.Building{castle},
	})
	s.Require().NoError(err)

	s.Equal(entities.Resources{
		entities.ResourceGold:  150,
		entities.ResourceWood:  120,
		entities.ResourceStone: 180,
	}, out.Cost)
	s.Equal(entities.Resources{
		entities.ResourceGold:  1350,
		entities.ResourceWood:  680,
		entities.ResourceStone: 420,
		entities.ResourceFood:  400,
	}, out.Resources)

	s.Require().Len(out.Queue, 1)
	s.Equal(out.Entry, out.Queue[0])
	s.Equal("q_1", out.Entry.ID)
	s.Equal("b_castle", out.Entry.BuildingID)
	s.Equal(entities.BuildingCastle, out.Entry.BuildingType)
	s.Equal(2, out.Entry.TargetLevel)
	s.Equal(156, out.Entry.RemainingTime)
	s.True(entities.FindBuilding(out.Buildings, "b_castle").Constructing)

	// inputs untouched
	s.Equal(1500, resources[entities.ResourceGold])
	s.False(castle.Constructing)
}

func (s *EngineTestSuite) TestStartUpgradeInsufficientResources() {
	farm := s.building("b_farm", entities.BuildingFarm, 2)
	resources := entities.Resources{
		entities.ResourceGold:  500,
		entities.ResourceWood:  100,
		entities.ResourceStone: 500,
	}
	queue := []*entities.QueueEntry{}

	out, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
		BuildingID: "b_farm",
		Resources:  resources,
		Buildings:  []*entities.Building{farm},
		Queue:      queue,
	})

	s.Nil(out)
	s.Require().Error(err)
	s.True(engine.IsInsufficientResources(err))
	s.True(errors.IsResourceExhausted(err))
	s.Equal(map[string]int{"wood": 35}, errors.GetMeta(err)["missing"])

	s.Equal(entities.Resources{
		entities.ResourceGold:  500,
		entities.ResourceWood:  100,
		entities.ResourceStone: 500,
	}, resources)
	s.Empty(queue)
	s.False(farm.Constructing)
}

func (s *EngineTestSuite) TestStartUpgradeRejections() {
	rich := entities.Resources{
		entities.ResourceGold:  1_000_000,
		entities.ResourceWood:  1_000_000,
		entities.ResourceStone: 1_000_000,
	}

	s.Run("already constructing", func() {
		farm := s.building("b_farm", entities.BuildingFarm, 1)
		farm.Constructing = true

		out, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
			BuildingID: "b_farm",
			Resources:  rich,
			Buildings:  []*entities.Building{farm},
		})
		s.Nil(out)
		s.True(engine.IsAlreadyConstructing(err))
		s.True(errors.IsFailedPrecondition(err))

		s.Equal(entities.Resources{
			entities.ResourceGold:  1_000_000,
			entities.ResourceWood:  1_000_000,
			entities.ResourceStone: 1_000_000,
		}, rich)
		s.Equal(1, farm.Level)
		s.True(farm.Constructing)
	})

	s.Run("already queued", func() {
		_, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
			BuildingID: "b_farm",
			Resources:  rich,
			Buildings:  []*entities.Building{s.building("b_farm", entities.BuildingFarm, 1)},
			Queue:      []*entities.QueueEntry{{ID: "q_7", BuildingID: "b_farm", TargetLevel: 2, RemainingTime: 3}},
		})
		s.True(engine.IsAlreadyConstructing(err))
	})

	s.Run("max level", func() {
		_, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
			BuildingID: "b_barracks",
			Resources:  rich,
			Buildings:  []*entities.Building{s.building("b_barracks", entities.BuildingBarracks, 15)},
		})
		s.True(engine.IsMaxLevelReached(err))
		s.True(errors.IsOutOfRange(err))
	})

	s.Run("unknown type", func() {
		_, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
			BuildingID: "b_tavern",
			Resources:  rich,
			Buildings:  []*entities.Building{{ID: "b_tavern", Type: "tavern", Level: 1}},
		})
		s.True(engine.IsUnknownBuildingType(err))
	})

	s.Run("missing building", func() {
		_, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
			BuildingID: "b_nowhere",
			Resources:  rich,
		})
		s.True(errors.IsNotFound(err))
	})

	s.Run("empty id", func() {
		_, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{Resources: rich})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *EngineTestSuite) TestNormanCastleScenario() {
	castle := s.building("b_castle", entities.BuildingCastle, 1)

	started, err := s.engine.StartUpgrade(&engine.StartUpgradeInput{
		BuildingID: "b_castle",
		Resources: entities.Resources{
			entities.ResourceGold:  1500,
			entities.ResourceWood:  800,
			entities.ResourceStone: 600,
			entities.ResourceFood:  400,
		},
		Buildings: []*entities.Building{castle},
	})
	s.Require().NoError(err)
	s.Equal(156, started.Entry.RemainingTime)

	state := &engine.TickInput{
		Faction:   entities.FactionNorman,
		Resources: started.Resources,
		Buildings: started.Buildings,
		Queue:     started.Queue,
	}

	almost := s.engine.Advance(state, 155)
	s.Require().Len(almost.Queue, 1)
	s.Equal(1, almost.Queue[0].RemainingTime)
	s.Equal(1, entities.FindBuilding(almost.Buildings, "b_castle").Level)

	done := s.engine.Advance(state, 156)
	s.Empty(done.Queue)
	s.Equal([]string{"b_castle"}, done.CompletedBuildingIDs)
	finished := entities.FindBuilding(done.Buildings, "b_castle")
	s.Equal(2, finished.Level)
	s.False(finished.Constructing)

	// 2 * 1 * 125 / 100 = 2 gold per tick while at level 1
	s.Equal(1350+156*2, done.Resources[entities.ResourceGold])
}

func (s *EngineTestSuite) TestRecruit() {
	resources := entities.Resources{
		entities.ResourceGold: 1000,
		entities.ResourceFood: 400,
	}
	army := entities.Army{entities.UnitSoldiers: 25}

	out, err := s.engine.Recruit(&engine.RecruitInput{
		UnitType:  entities.UnitSoldiers,
		Quantity:  10,
		Resources: resources,
		Army:      army,
	})
	s.Require().NoError(err)

	s.Equal(entities.Resources{entities.ResourceGold: 500, entities.ResourceFood: 300}, out.Cost)
	s.Equal(500, out.Resources[entities.ResourceGold])
	s.Equal(100, out.Resources[entities.ResourceFood])
	s.Equal(35, out.Army[entities.UnitSoldiers])
	s.Equal(25, army[entities.UnitSoldiers])
}

func (s *EngineTestSuite) TestRecruitRejections() {
	resources := entities.Resources{entities.ResourceGold: 100, entities.ResourceFood: 100}

	_, err := s.engine.Recruit(&engine.RecruitInput{
		UnitType:  entities.UnitCavalry,
		Quantity:  1,
		Resources: resources,
	})
	s.True(engine.IsInsufficientResources(err))
	s.Equal(100, resources[entities.ResourceGold])

	_, err = s.engine.Recruit(&engine.RecruitInput{UnitType: entities.UnitSoldiers, Quantity: 0, Resources: resources})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.Recruit(&engine.RecruitInput{UnitType: "dragons", Quantity: 1, Resources: resources})
	s.True(errors.IsInvalidArgument(err))
	s.Equal(engine.ReasonUnknownUnitType, errors.GetReason(err))
}

func (s *EngineTestSuite) TestRecruitRejectsOversizedOrders() {
	resources := entities.Resources{
		entities.ResourceGold:  1500,
		entities.ResourceWood:  800,
		entities.ResourceStone: 600,
		entities.ResourceFood:  400,
	}
	army := entities.Army{entities.UnitSoldiers: 25}

	for _, quantity := range []int{engine.MaxRecruitQuantity + 1, math.MaxInt/30 + 1, math.MaxInt} {
		out, err := s.engine.Recruit(&engine.RecruitInput{
			UnitType:  entities.UnitSoldiers,
			Quantity:  quantity,
			Resources: resources,
			Army:      army,
		})
		s.Nil(out)
		s.True(errors.IsInvalidArgument(err), "quantity %d", quantity)
	}

	s.Equal(entities.Resources{
		entities.ResourceGold:  1500,
		entities.ResourceWood:  800,
		entities.ResourceStone: 600,
		entities.ResourceFood:  400,
	}, resources)
	s.Equal(entities.Army{entities.UnitSoldiers: 25}, army)
}

func (s *EngineTestSuite) TestRecruitRejectsOverflowingCost() {
	r, err := rules.Default()
	s.Require().NoError(err)
	r.Units[entities.UnitCavalry] = &rules.UnitSpec{Cost: entities.Resources{entities.ResourceGold: math.MaxInt / 2}}
	eng, err := engine.New(&engine.Config{Rules: r, IDGenerator: idgen.NewSequential("q")})
	s.Require().NoError(err)

	resources := entities.Resources{entities.ResourceGold: 100}
	_, err = eng.Recruit(&engine.RecruitInput{
		UnitType:  entities.UnitCavalry,
		Quantity:  3,
		Resources: resources,
	})
	s.True(errors.IsOutOfRange(err))
	s.Equal(100, resources[entities.ResourceGold])
}

func (s *EngineTestSuite) TestPower() {
	k := &entities.Kingdom{
		Resources: entities.Resources{
			entities.ResourceGold:  1550,
			entities.ResourceWood:  99,
			entities.ResourceStone: 200,
		},
		Buildings: []*entities.Building{
			s.building("b_castle", entities.BuildingCastle, 3),
			s.building("b_farm", entities.BuildingFarm, 2),
		},
		Army: entities.Army{entities.UnitSoldiers: 10, entities.UnitArchers: 2},
	}

	// 5 levels * 100 + 12 units * 50 + 15 + 0 + 2
	s.Equal(500+600+17, s.engine.Power(k))
	s.Equal(0, s.engine.Power(nil))
}

func (s *EngineTestSuite) TestQuote() {
	farm := s.building("b_farm", entities.BuildingFarm, 2)

	quote, err := s.engine.Quote(farm, entities.Resources{
		entities.ResourceGold:  200,
		entities.ResourceWood:  100,
		entities.ResourceStone: 200,
	})
	s.Require().NoError(err)
	s.Equal(3, quote.TargetLevel)
	s.Equal(101, quote.BuildTime)
	s.False(quote.Affordable)
	s.Equal(entities.Resources{entities.ResourceWood: 35}, quote.Missing)

	maxed, err := s.engine.Quote(s.building("b_barracks", entities.BuildingBarracks, 15), nil)
	s.Require().NoError(err)
	s.True(maxed.MaxLevelReached)
	s.Empty(maxed.Cost)
}
