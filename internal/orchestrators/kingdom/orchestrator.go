// Package kingdom implements the kingdom orchestrator. It owns the
// load, simulate, save cycle and serializes writers per kingdom.
package kingdom

//go:generate mockgen -destination=mock/mock_service.go -package=kingdommock github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/events"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	kingdomrepo "github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom"
)

const (
	// DefaultMaxCatchUpTicks bounds how many ticks a single call may apply
	DefaultMaxCatchUpTicks = 3600

	// DefaultLeaderboardLimit is used when no limit is requested
	DefaultLeaderboardLimit = 100

	minUsernameLength    = 3
	maxUsernameLength    = 32
	maxKingdomNameLength = 64

	// maxTickAttempts bounds reloads when another writer saves mid-tick
	maxTickAttempts = 3
)

// Service defines the interface for kingdom operations
type Service interface {
	// Register creates a kingdom with its faction's starting state
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	GetKingdom(ctx context.Context, input *GetKingdomInput) (*GetKingdomOutput, error)

	// Upgrades
	QuoteUpgrade(ctx context.Context, input *QuoteUpgradeInput) (*QuoteUpgradeOutput, error)
	StartUpgrade(ctx context.Context, input *StartUpgradeInput) (*StartUpgradeOutput, error)

	Recruit(ctx context.Context, input *RecruitInput) (*RecruitOutput, error)

	// Simulation
	Tick(ctx context.Context, input *TickInput) (*TickOutput, error)
	TickAll(ctx context.Context, input *TickAllInput) (*TickAllOutput, error)

	Leaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error)
}

// Config holds the dependencies for the kingdom orchestrator
type Config struct {
	Repository  kingdomrepo.Repository
	Engine      *engine.Engine
	IDGenerator idgen.Generator

	// Optional
	Clock           clock.Clock
	Publisher       events.Publisher
	MaxCatchUpTicks int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.MaxCatchUpTicks < 0 {
		vb.Field("MaxCatchUpTicks", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	repo            kingdomrepo.Repository
	engine          *engine.Engine
	idGen           idgen.Generator
	clock           clock.Clock
	publisher       events.Publisher
	maxCatchUpTicks int

	// kingdom ID -> *sync.Mutex
	locks sync.Map
}

// NewOrchestrator creates a new kingdom orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		repo:            cfg.Repository,
		engine:          cfg.Engine,
		idGen:           cfg.IDGenerator,
		clock:           cfg.Clock,
		publisher:       cfg.Publisher,
		maxCatchUpTicks: cfg.MaxCatchUpTicks,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.publisher == nil {
		o.publisher = events.Nop{}
	}
	if o.maxCatchUpTicks == 0 {
		o.maxCatchUpTicks = DefaultMaxCatchUpTicks
	}

	return o, nil
}

// lock serializes writers of one kingdom
func (o *orchestrator) lock(kingdomID string) func() {
	mu, _ := o.locks.LoadOrStore(kingdomID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (o *orchestrator) load(ctx context.Context, kingdomID string) (*entities.Kingdom, error) {
	out, err := o.repo.Get(ctx, kingdomrepo.GetInput{ID: kingdomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load kingdom %s", kingdomID)
	}
	return out.Kingdom, nil
}

// save refreshes the derived power and persists
func (o *orchestrator) save(ctx context.Context, k *entities.Kingdom) (*entities.Kingdom, error) {
	k.Power = o.engine.Power(k)
	out, err := o.repo.Update(ctx, kingdomrepo.UpdateInput{Kingdom: k})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save kingdom %s", k.ID)
	}
	return out.Kingdom, nil
}

func (o *orchestrator) publish(ctx context.Context, event events.Event) {
	event.At = o.clock.Now()
	o.publisher.Publish(ctx, event)
}

func (o *orchestrator) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateLength("username", input.Username, minUsernameLength, maxUsernameLength, vb)
	errors.ValidateLength("kingdom_name", input.KingdomName, 1, maxKingdomNameLength, vb)
	errors.ValidateEnum("faction", string(input.Faction), factionNames(), vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	r := o.engine.Rules()
	k := &entities.Kingdom{
		ID:          o.idGen.Generate(),
		Username:    input.Username,
		KingdomName: input.KingdomName,
		Faction:     input.Faction,
		Resources:   r.StartingResources(input.Faction),
		Buildings:   r.StartingBuildings(idgen.NewSequential("bld")),
		Queue:       []*entities.QueueEntry{},
		Army:        r.StartingArmy.Clone(),
	}
	k.Power = o.engine.Power(k)

	out, err := o.repo.Create(ctx, kingdomrepo.CreateInput{Kingdom: k})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kingdom")
	}

	slog.InfoContext(ctx, "kingdom registered",
		"kingdom_id", out.Kingdom.ID,
		"username", out.Kingdom.Username,
		"faction", out.Kingdom.Faction)

	o.publish(ctx, events.Event{
		Type:      events.TypeKingdomRegistered,
		KingdomID: out.Kingdom.ID,
		Data:      map[string]any{"username": out.Kingdom.Username, "faction": string(out.Kingdom.Faction)},
	})

	return &RegisterOutput{Kingdom: out.Kingdom}, nil
}

func factionNames() []string {
	factions := entities.AllFactions()
	names := make([]string, len(factions))
	for i, f := range factions {
		names[i] = string(f)
	}
	return names
}

func (o *orchestrator) GetKingdom(ctx context.Context, input *GetKingdomInput) (*GetKingdomOutput, error) {
	if input == nil || input.KingdomID == "" {
		return nil, errors.InvalidArgument("kingdom ID is required")
	}

	k, err := o.load(ctx, input.KingdomID)
	if err != nil {
		return nil, err
	}

	return &GetKingdomOutput{
		Kingdom:    k,
		Production: o.engine.Production(k.Buildings, k.Faction),
	}, nil
}

func (o *orchestrator) QuoteUpgrade(ctx context.Context, input *QuoteUpgradeInput) (*QuoteUpgradeOutput, error) {
	if input == nil || input.KingdomID == "" {
		return nil, errors.InvalidArgument("kingdom ID is required")
	}
	if input.BuildingID == "" {
		return nil, errors.InvalidArgument("building ID is required")
	}

	k, err := o.load(ctx, input.KingdomID)
	if err != nil {
		return nil, err
	}

	b := entities.FindBuilding(k.Buildings, input.BuildingID)
	if b == nil {
		return nil, errors.NotFoundf("building %s not found in kingdom %s", input.BuildingID, input.KingdomID)
	}

	quote, err := o.engine.Quote(b, k.Resources)
	if err != nil {
		return nil, errors.Wrap(err, "failed to quote upgrade")
	}

	return &QuoteUpgradeOutput{Quote: quote}, nil
}

func (o *orchestrator) StartUpgrade(ctx context.Context, input *StartUpgradeInput) (*StartUpgradeOutput, error) {
	if input == nil || input.KingdomID == "" {
		return nil, errors.InvalidArgument("kingdom ID is required")
	}
	if input.BuildingID == "" {
		return nil, errors.InvalidArgument("building ID is required")
	}

	unlock := o.lock(input.KingdomID)
	defer unlock()

	k, err := o.load(ctx, input.KingdomID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.StartUpgrade(&engine.StartUpgradeInput{
		BuildingID: input.BuildingID,
		Resources:  k.Resources,
		Buildings:  k.Buildings,
		Queue:      k.Queue,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start upgrade").
			WithMeta("kingdom_id", input.KingdomID)
	}

	k.Resources = result.Resources
	k.Buildings = result.Buildings
	k.Queue = result.Queue

	saved, err := o.save(ctx, k)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "upgrade started",
		"kingdom_id", k.ID,
		"building_id", result.Entry.BuildingID,
		"building_type", result.Entry.BuildingType,
		"target_level", result.Entry.TargetLevel,
		"remaining_time", result.Entry.RemainingTime)

	o.publish(ctx, events.Event{
		Type:       events.TypeUpgradeStarted,
		KingdomID:  k.ID,
		BuildingID: result.Entry.BuildingID,
		Level:      result.Entry.TargetLevel,
		Tick:       k.Ticks,
		Data:       map[string]any{"remaining_time": result.Entry.RemainingTime},
	})

	return &StartUpgradeOutput{
		Kingdom: saved,
		Entry:   result.Entry,
		Cost:    result.Cost,
	}, nil
}

func (o *orchestrator) Recruit(ctx context.Context, input *RecruitInput) (*RecruitOutput, error) {
	if input == nil || input.KingdomID == "" {
		return nil, errors.InvalidArgument("kingdom ID is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("quantity", input.Quantity, 1, engine.MaxRecruitQuantity, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.KingdomID)
	defer unlock()

	k, err := o.load(ctx, input.KingdomID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.Recruit(&engine.RecruitInput{
		UnitType:  input.UnitType,
		Quantity:  input.Quantity,
		Resources: k.Resources,
		Army:      k.Army,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to recruit").
			WithMeta("kingdom_id", input.KingdomID)
	}

	k.Resources = result.Resources
	k.Army = result.Army

	saved, err := o.save(ctx, k)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "units recruited",
		"kingdom_id", k.ID,
		"unit_type", input.UnitType,
		"quantity", input.Quantity)

	o.publish(ctx, events.Event{
		Type:      events.TypeUnitsRecruited,
		KingdomID: k.ID,
		Tick:      k.Ticks,
		Data:      map[string]any{"unit_type": string(input.UnitType), "quantity": input.Quantity},
	})

	return &RecruitOutput{Kingdom: saved, Cost: result.Cost}, nil
}

func (o *orchestrator) Tick(ctx context.Context, input *TickInput) (*TickOutput, error) {
	if input == nil || input.KingdomID == "" {
		return nil, errors.InvalidArgument("kingdom ID is required")
	}
	if input.Ticks < 0 {
		return nil, errors.InvalidArgumentf("ticks must not be negative, got %d", input.Ticks)
	}

	return o.tickWithRetry(ctx, input.KingdomID, o.clampTicks(ctx, input.Ticks))
}

// tickWithRetry reapplies the tick to a fresh copy when the save loses a
// version race
func (o *orchestrator) tickWithRetry(ctx context.Context, kingdomID string, n int) (*TickOutput, error) {
	var err error
	for attempt := 1; attempt <= maxTickAttempts; attempt++ {
		var out *TickOutput
		out, err = o.tick(ctx, kingdomID, n)
		if err == nil || !kingdomrepo.IsVersionConflict(err) {
			return out, err
		}
		slog.DebugContext(ctx, "kingdom changed during tick, retrying",
			"kingdom_id", kingdomID,
			"attempt", attempt)
	}
	return nil, err
}

func (o *orchestrator) clampTicks(ctx context.Context, n int) int {
	if n == 0 {
		return 1
	}
	if n > o.maxCatchUpTicks {
		slog.WarnContext(ctx, "clamping catch-up ticks",
			"requested", n,
			"max", o.maxCatchUpTicks)
		return o.maxCatchUpTicks
	}
	return n
}

func (o *orchestrator) tick(ctx context.Context, kingdomID string, n int) (*TickOutput, error) {
	unlock := o.lock(kingdomID)
	defer unlock()

	k, err := o.load(ctx, kingdomID)
	if err != nil {
		return nil, err
	}

	result := o.engine.Advance(&engine.TickInput{
		Faction:   k.Faction,
		Resources: k.Resources,
		Buildings: k.Buildings,
		Queue:     k.Queue,
	}, n)

	k.Resources = result.Resources
	k.Buildings = result.Buildings
	k.Queue = result.Queue
	k.Ticks += uint64(n)

	saved, err := o.save(ctx, k)
	if err != nil {
		return nil, err
	}

	for _, entryID := range result.DroppedEntryIDs {
		slog.WarnContext(ctx, "dropped queue entry for missing building",
			"kingdom_id", k.ID,
			"entry_id", entryID)
	}

	for _, buildingID := range result.CompletedBuildingIDs {
		level := 0
		if b := entities.FindBuilding(saved.Buildings, buildingID); b != nil {
			level = b.Level
		}

		slog.InfoContext(ctx, "upgrade completed",
			"kingdom_id", k.ID,
			"building_id", buildingID,
			"level", level)

		o.publish(ctx, events.Event{
			Type:       events.TypeUpgradeCompleted,
			KingdomID:  k.ID,
			BuildingID: buildingID,
			Level:      level,
			Tick:       saved.Ticks,
		})
	}

	return &TickOutput{
		Kingdom:              saved,
		Produced:             result.Produced,
		CompletedBuildingIDs: result.CompletedBuildingIDs,
	}, nil
}

func (o *orchestrator) TickAll(ctx context.Context, input *TickAllInput) (*TickAllOutput, error) {
	if input == nil {
		input = &TickAllInput{}
	}
	if input.Ticks < 0 {
		return nil, errors.InvalidArgumentf("ticks must not be negative, got %d", input.Ticks)
	}
	n := o.clampTicks(ctx, input.Ticks)

	list, err := o.repo.List(ctx, kingdomrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list kingdoms")
	}

	out := &TickAllOutput{}
	for _, k := range list.Kingdoms {
		if err := ctx.Err(); err != nil {
			return out, errors.WrapWithCode(err, errors.CodeCanceled, "tick pass interrupted")
		}

		result, err := o.tickWithRetry(ctx, k.ID, n)
		if err != nil {
			out.Failed++
			slog.ErrorContext(ctx, "failed to tick kingdom",
				"kingdom_id", k.ID,
				"error", err)
			continue
		}
		out.Processed++
		out.Completed += len(result.CompletedBuildingIDs)
	}

	slog.DebugContext(ctx, "tick pass finished",
		"ticks", n,
		"processed", out.Processed,
		"failed", out.Failed,
		"completed", out.Completed)

	return out, nil
}

func (o *orchestrator) Leaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	limit := DefaultLeaderboardLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	list, err := o.repo.List(ctx, kingdomrepo.ListInput{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list kingdoms")
	}

	entries := make([]*LeaderboardEntry, 0, len(list.Kingdoms))
	for i, k := range list.Kingdoms {
		entries = append(entries, &LeaderboardEntry{
			Rank:        i + 1,
			KingdomID:   k.ID,
			Username:    k.Username,
			KingdomName: k.KingdomName,
			Faction:     k.Faction,
			Power:       k.Power,
		})
	}

	return &LeaderboardOutput{Entries: entries}, nil
}
