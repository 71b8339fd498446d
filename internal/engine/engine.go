// Package engine is the kingdom simulation core. It advances production and
// construction timers one tick at a time and validates spending. Every
// operation is pure: inputs are never modified and outputs are fresh copies,
// so a failed call leaves the caller's state exactly as it was.
package engine

import (
	"math"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	"github.com/KirkDiggler/kingdom-api/internal/rules"
)

// Config holds the engine dependencies
type Config struct {
	Rules       *rules.Rules
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// Engine applies the balance rules to kingdom state
type Engine struct {
	rules *rules.Rules
	idGen idgen.Generator
}

// New creates an engine
func New(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{
		rules: cfg.Rules,
		idGen: cfg.IDGenerator,
	}, nil
}

// Rules returns the balance tables in use
func (e *Engine) Rules() *rules.Rules {
	return e.rules
}

// Cost returns the price of bringing a building of type t to level:
// floor(baseCost * growth^(level-1)) per resource kind
func (e *Engine) Cost(t entities.BuildingType, level int) (entities.Resources, error) {
	spec, ok := e.rules.Building(t)
	if !ok {
		return nil, unknownBuildingType(t)
	}
	if level < 1 {
		return nil, errors.InvalidArgumentf("level must be at least 1, got %d", level)
	}

	mult := math.Pow(e.rules.Growth.Cost, float64(level-1))
	cost := make(entities.Resources, len(spec.BaseCost))
	for k, base := range spec.BaseCost {
		cost[k] = int(math.Floor(float64(base) * mult))
	}
	return cost, nil
}

// BuildTime returns the construction time in ticks for reaching level:
// floor(baseTime * growth^(level-1))
func (e *Engine) BuildTime(t entities.BuildingType, level int) (int, error) {
	spec, ok := e.rules.Building(t)
	if !ok {
		return 0, unknownBuildingType(t)
	}
	if level < 1 {
		return 0, errors.InvalidArgumentf("level must be at least 1, got %d", level)
	}

	mult := math.Pow(e.rules.Growth.Time, float64(level-1))
	return int(math.Floor(float64(spec.BaseTime) * mult)), nil
}

// Yield returns what b produces in one tick for faction f:
// floor(base * level * (100 + bonus) / 100) per kind. The remainder is
// dropped every tick, not carried over.
func (e *Engine) Yield(b *entities.Building, f entities.Faction) entities.Resources {
	out := entities.Resources{}
	if b == nil {
		return out
	}
	for k, base := range b.Production {
		amount := base * b.Level * (100 + e.rules.Bonus(f, k)) / 100
		if amount > 0 {
			out[k] = amount
		}
	}
	return out
}

// Production sums the per-tick yield of every building
func (e *Engine) Production(buildings []*entities.Building, f entities.Faction) entities.Resources {
	total := entities.Resources{}
	for _, b := range buildings {
		total.Add(e.Yield(b, f))
	}
	return total
}

// Power scores a kingdom for ranking:
// Σ level*perBuildingLevel + armySize*perUnit [+ Σ floor(resource/divisor)]
func (e *Engine) Power(k *entities.Kingdom) int {
	if k == nil {
		return 0
	}

	p := e.rules.Power
	power := 0
	for _, b := range k.Buildings {
		if b != nil {
			power += b.Level * p.PerBuildingLevel
		}
	}
	power += k.Army.Size() * p.PerUnit

	if p.IncludeResources && p.ResourceDivisor > 0 {
		for _, amount := range k.Resources {
			if amount > 0 {
				power += amount / p.ResourceDivisor
			}
		}
	}
	return power
}

// Quote prices the next level of b against the given stockpile
func (e *Engine) Quote(b *entities.Building, resources entities.Resources) (*Quote, error) {
	if b == nil {
		return nil, errors.InvalidArgument("building cannot be nil")
	}
	spec, ok := e.rules.Building(b.Type)
	if !ok {
		return nil, unknownBuildingType(b.Type)
	}

	quote := &Quote{
		BuildingID:   b.ID,
		BuildingType: b.Type,
		CurrentLevel: b.Level,
		TargetLevel:  b.Level + 1,
		MaxLevel:     spec.MaxLevel,
		Constructing: b.Constructing,
	}
	if b.Level >= spec.MaxLevel {
		quote.MaxLevelReached = true
		return quote, nil
	}

	cost, err := e.Cost(b.Type, quote.TargetLevel)
	if err != nil {
		return nil, err
	}
	buildTime, err := e.BuildTime(b.Type, quote.TargetLevel)
	if err != nil {
		return nil, err
	}

	quote.Cost = cost
	quote.BuildTime = buildTime
	quote.Missing = resources.Missing(cost)
	quote.Affordable = len(quote.Missing) == 0
	return quote, nil
}
