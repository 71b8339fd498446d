// Package rules holds the static balance tables: building costs, build
// times and production, faction bonuses, unit costs and the power formula.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
)

//go:embed default.yaml
var defaultYAML []byte

// Growth holds the geometric bases for cost and build time
type Growth struct {
	Cost float64 `yaml:"cost" json:"cost"`
	Time float64 `yaml:"time" json:"time"`
}

// BuildingSpec describes one building type
type BuildingSpec struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	BaseCost    entities.Resources `yaml:"base_cost" json:"base_cost"`
	BaseTime    int                `yaml:"base_time" json:"base_time"` // seconds
	Production  entities.Resources `yaml:"production" json:"production"`
	MaxLevel    int                `yaml:"max_level" json:"max_level"`
}

// FactionSpec describes one faction
type FactionSpec struct {
	Name              string                        `yaml:"name" json:"name"`
	Bonuses           map[entities.ResourceKind]int `yaml:"bonuses" json:"bonuses"` // percent
	StartingResources entities.Resources            `yaml:"starting_resources" json:"starting_resources"`
}

// UnitSpec describes a recruitable unit
type UnitSpec struct {
	Cost entities.Resources `yaml:"cost" json:"cost"`
}

// PowerSpec parameterises the power score
type PowerSpec struct {
	PerBuildingLevel int  `yaml:"per_building_level" json:"per_building_level"`
	PerUnit          int  `yaml:"per_unit" json:"per_unit"`
	IncludeResources bool `yaml:"include_resources" json:"include_resources"`
	ResourceDivisor  int  `yaml:"resource_divisor" json:"resource_divisor"`
}

// Rules is the full balance configuration
type Rules struct {
	Growth       Growth                                   `yaml:"growth" json:"growth"`
	Buildings    map[entities.BuildingType]*BuildingSpec `yaml:"buildings" json:"buildings"`
	Factions     map[entities.Faction]*FactionSpec       `yaml:"factions" json:"factions"`
	Units        map[entities.UnitType]*UnitSpec         `yaml:"units" json:"units"`
	StartingArmy entities.Army                            `yaml:"starting_army" json:"starting_army"`
	Power        PowerSpec                                `yaml:"power" json:"power"`
}

// fallbackStartingResources is used for factions without their own table
var fallbackStartingResources = entities.Resources{
	entities.ResourceGold:  1500,
	entities.ResourceWood:  800,
	entities.ResourceStone: 600,
	entities.ResourceFood:  400,
}

// Default returns the embedded balance tables
func Default() (*Rules, error) {
	r, err := Load(defaultYAML)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load embedded rules")
	}
	return r, nil
}

// LoadFile reads rules from a YAML file
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %s", path)
	}
	return Load(data)
}

// Load parses and validates YAML rules
func Load(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse rules")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that every building type is described and that the
// tables are internally consistent
func (r *Rules) Validate() error {
	vb := errors.NewValidationBuilder()

	if r.Growth.Cost < 1 {
		vb.Field("growth.cost", "must be at least 1")
	}
	if r.Growth.Time < 1 {
		vb.Field("growth.time", "must be at least 1")
	}

	for _, bt := range entities.AllBuildingTypes() {
		spec, ok := r.Buildings[bt]
		field := fmt.Sprintf("buildings.%s", bt)
		if !ok || spec == nil {
			vb.RequiredField(field)
			continue
		}
		if spec.MaxLevel < 1 {
			vb.Field(field+".max_level", "must be at least 1")
		}
		if spec.BaseTime < 0 {
			vb.Field(field+".base_time", "must not be negative")
		}
		validateResources(field+".base_cost", spec.BaseCost, vb)
		validateResources(field+".production", spec.Production, vb)
	}
	for bt := range r.Buildings {
		if !bt.IsValid() {
			vb.Fieldf("buildings", "unknown building type %q", bt)
		}
	}

	for f, spec := range r.Factions {
		field := fmt.Sprintf("factions.%s", f)
		if !f.IsValid() {
			vb.Fieldf("factions", "unknown faction %q", f)
			continue
		}
		if spec == nil {
			vb.RequiredField(field)
			continue
		}
		for k, pct := range spec.Bonuses {
			if !k.IsValid() {
				vb.Fieldf(field+".bonuses", "unknown resource %q", k)
			}
			if pct < 0 {
				vb.Fieldf(field+".bonuses", "%s bonus must not be negative", k)
			}
		}
		validateResources(field+".starting_resources", spec.StartingResources, vb)
	}

	for u, spec := range r.Units {
		if spec == nil {
			vb.RequiredField(fmt.Sprintf("units.%s", u))
			continue
		}
		validateResources(fmt.Sprintf("units.%s.cost", u), spec.Cost, vb)
	}

	if r.Power.PerBuildingLevel < 0 || r.Power.PerUnit < 0 {
		vb.Field("power", "weights must not be negative")
	}
	if r.Power.IncludeResources && r.Power.ResourceDivisor <= 0 {
		vb.Field("power.resource_divisor", "must be positive when resources are included")
	}

	return vb.Build()
}

func validateResources(field string, res entities.Resources, vb *errors.ValidationBuilder) {
	for k, v := range res {
		if !k.IsValid() {
			vb.Fieldf(field, "unknown resource %q", k)
		}
		if v < 0 {
			vb.Fieldf(field, "%s must not be negative", k)
		}
	}
}

// Building returns the spec for t
func (r *Rules) Building(t entities.BuildingType) (*BuildingSpec, bool) {
	spec, ok := r.Buildings[t]
	return spec, ok && spec != nil
}

// Unit returns the spec for u
func (r *Rules) Unit(u entities.UnitType) (*UnitSpec, bool) {
	spec, ok := r.Units[u]
	return spec, ok && spec != nil
}

// Bonus returns the production bonus percent of faction f for kind k.
// Unknown factions get no bonus.
func (r *Rules) Bonus(f entities.Faction, k entities.ResourceKind) int {
	spec, ok := r.Factions[f]
	if !ok || spec == nil {
		return 0
	}
	return spec.Bonuses[k]
}

// StartingResources returns a fresh copy of faction f's opening stockpile
func (r *Rules) StartingResources(f entities.Faction) entities.Resources {
	if spec, ok := r.Factions[f]; ok && spec != nil && len(spec.StartingResources) > 0 {
		return spec.StartingResources.Clone()
	}
	return fallbackStartingResources.Clone()
}

// StartingBuildings returns one level 1 building of every type, each with
// its production table copied from the rules
func (r *Rules) StartingBuildings(ids idgen.Generator) []*entities.Building {
	buildings := make([]*entities.Building, 0, len(r.Buildings))
	for _, bt := range entities.AllBuildingTypes() {
		spec, ok := r.Building(bt)
		if !ok {
			continue
		}
		buildings = append(buildings, &entities.Building{
			ID:         ids.Generate(),
			Type:       bt,
			Level:      1,
			Production: spec.Production.Clone(),
		})
	}
	return buildings
}
