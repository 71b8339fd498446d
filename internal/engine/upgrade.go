package engine

import (
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// StartUpgrade pays for the next level of a building and queues it.
//
// Checks run before anything is deducted: the building must exist, have a
// known type, not be constructing already and be below its max level, and
// the stockpile must cover every resource kind of the cost.
func (e *Engine) StartUpgrade(input *StartUpgradeInput) (*StartUpgradeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.BuildingID == "" {
		return nil, errors.InvalidArgument("building ID is required")
	}

	current := entities.FindBuilding(input.Buildings, input.BuildingID)
	if current == nil {
		return nil, errors.NotFoundf("building %s not found", input.BuildingID).
			WithMeta("building_id", input.BuildingID)
	}

	spec, ok := e.rules.Building(current.Type)
	if !ok {
		return nil, unknownBuildingType(current.Type)
	}
	if current.Constructing || queued(input.Queue, current.ID) {
		return nil, alreadyConstructing(current.ID)
	}
	if current.Level >= spec.MaxLevel {
		return nil, maxLevelReached(current.ID, spec.MaxLevel)
	}

	target := current.Level + 1
	cost, err := e.Cost(current.Type, target)
	if err != nil {
		return nil, err
	}
	buildTime, err := e.BuildTime(current.Type, target)
	if err != nil {
		return nil, err
	}

	resources := input.Resources.Clone()
	if !resources.Spend(cost) {
		return nil, insufficientResources(resources.Missing(cost)).
			WithMeta("building_id", current.ID)
	}

	buildings := entities.CloneBuildings(input.Buildings)
	entities.FindBuilding(buildings, current.ID).Constructing = true

	entry := &entities.QueueEntry{
		ID:            e.idGen.Generate(),
		BuildingID:    current.ID,
		BuildingType:  current.Type,
		TargetLevel:   target,
		RemainingTime: buildTime,
	}

	return &StartUpgradeOutput{
		Resources: resources,
		Buildings: buildings,
		Queue:     append(entities.CloneQueue(input.Queue), entry),
		Entry:     entry.Clone(),
		Cost:      cost,
	}, nil
}

func queued(queue []*entities.QueueEntry, buildingID string) bool {
	for _, q := range queue {
		if q != nil && q.BuildingID == buildingID {
			return true
		}
	}
	return false
}
