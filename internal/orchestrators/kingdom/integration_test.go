package kingdom_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	kingdomrepo "github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/testutils"
)

func newIntegrationService(t *testing.T) (kingdom.Service, kingdomrepo.Repository) {
	t.Helper()

	e, err := engine.New(&engine.Config{
		Rules:       testutils.DefaultRules(),
		IDGenerator: idgen.NewSequential("q"),
	})
	require.NoError(t, err)

	repo := kingdomrepo.NewInMemory(nil)
	svc, err := kingdom.NewOrchestrator(&kingdom.Config{
		Repository:  repo,
		Engine:      e,
		IDGenerator: idgen.NewSequential("kdm"),
	})
	require.NoError(t, err)
	return svc, repo
}

func TestCastleUpgradeEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, repo := newIntegrationService(t)

	k := testutils.NewKingdom("kdm_castle", "william", entities.FactionNorman)
	k.Resources = entities.Resources{
		entities.ResourceGold:  1500,
		entities.ResourceWood:  800,
		entities.ResourceStone: 600,
		entities.ResourceFood:  400,
	}
	// Only the castle, so the stockpile after the upgrade is easy to follow
	k.Buildings = k.Buildings[:1]
	_, err := repo.Create(ctx, kingdomrepo.CreateInput{Kingdom: k})
	require.NoError(t, err)

	started, err := svc.StartUpgrade(ctx, &kingdom.StartUpgradeInput{KingdomID: "kdm_castle", BuildingID: "bld_1"})
	require.NoError(t, err)
	assert.Equal(t, entities.Resources{
		entities.ResourceGold:  1350,
		entities.ResourceWood:  680,
		entities.ResourceStone: 420,
		entities.ResourceFood:  400,
	}, started.Kingdom.Resources)
	assert.Equal(t, 156, started.Entry.RemainingTime)

	ticked, err := svc.Tick(ctx, &kingdom.TickInput{KingdomID: "kdm_castle", Ticks: 155})
	require.NoError(t, err)
	require.Len(t, ticked.Kingdom.Queue, 1)
	assert.Empty(t, ticked.CompletedBuildingIDs)

	ticked, err = svc.Tick(ctx, &kingdom.TickInput{KingdomID: "kdm_castle"})
	require.NoError(t, err)
	assert.Empty(t, ticked.Kingdom.Queue)
	assert.Equal(t, []string{"bld_1"}, ticked.CompletedBuildingIDs)

	castle := entities.FindBuilding(ticked.Kingdom.Buildings, "bld_1")
	require.NotNil(t, castle)
	assert.Equal(t, 2, castle.Level)
	assert.False(t, castle.Constructing)
	assert.Equal(t, uint64(156), ticked.Kingdom.Ticks)
}

func TestRegisterThenLeaderboard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntegrationService(t)

	for _, in := range []*kingdom.RegisterInput{
		{Username: "william", KingdomName: "Normandy", Faction: entities.FactionNorman},
		{Username: "harald", KingdomName: "Norway", Faction: entities.FactionViking},
	} {
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)
	}

	_, err := svc.Register(ctx, &kingdom.RegisterInput{Username: "william", KingdomName: "Again", Faction: entities.FactionSaxon})
	require.Error(t, err)

	board, err := svc.Leaderboard(ctx, &kingdom.LeaderboardInput{})
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	// Norman starts with more gold and stone
	assert.Equal(t, "william", board.Entries[0].Username)
	assert.Greater(t, board.Entries[0].Power, board.Entries[1].Power)
}

func TestConcurrentWritersNeverOverspend(t *testing.T) {
	ctx := context.Background()
	svc, repo := newIntegrationService(t)

	k := testutils.NewKingdom("kdm_busy", "busy", entities.FactionCeltic)
	_, err := repo.Create(ctx, kingdomrepo.CreateInput{Kingdom: k})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Tick(ctx, &kingdom.TickInput{KingdomID: "kdm_busy"})
			assert.NoError(t, err)
		}()
		go func(buildingID string) {
			defer wg.Done()
			if _, err := svc.StartUpgrade(ctx, &kingdom.StartUpgradeInput{KingdomID: "kdm_busy", BuildingID: buildingID}); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}(k.Buildings[i%len(k.Buildings)].ID)
	}
	wg.Wait()

	got, err := svc.GetKingdom(ctx, &kingdom.GetKingdomInput{KingdomID: "kdm_busy"})
	require.NoError(t, err)

	assert.Equal(t, uint64(20), got.Kingdom.Ticks)
	for _, amount := range got.Kingdom.Resources {
		assert.GreaterOrEqual(t, amount, 0)
	}
	// each building can only be queued once
	assert.LessOrEqual(t, started, len(k.Buildings))
	queued := map[string]bool{}
	for _, q := range got.Kingdom.Queue {
		assert.False(t, queued[q.BuildingID], "building %s queued twice", q.BuildingID)
		queued[q.BuildingID] = true
	}
}

func TestRecruitOverflowLeavesKingdomUntouched(t *testing.T) {
	ctx := context.Background()
	svc, repo := newIntegrationService(t)

	registered, err := svc.Register(ctx, &kingdom.RegisterInput{
		Username:    "harald",
		KingdomName: "Norway",
		Faction:     entities.FactionViking,
	})
	require.NoError(t, err)
	id := registered.Kingdom.ID

	_, err = svc.Recruit(ctx, &kingdom.RecruitInput{
		KingdomID: id,
		UnitType:  entities.UnitSoldiers,
		Quantity:  math.MaxInt/30 + 1,
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	got, err := repo.Get(ctx, kingdomrepo.GetInput{ID: id})
	require.NoError(t, err)
	assert.Equal(t, registered.Kingdom.Resources, got.Kingdom.Resources)
	assert.Equal(t, registered.Kingdom.Army, got.Kingdom.Army)
	assert.Empty(t, got.Kingdom.Problems())
}
