package engine

import (
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// Failure reasons attached to engine errors
const (
	ReasonInsufficientResources = "insufficient_resources"
	ReasonAlreadyConstructing   = "already_constructing"
	ReasonMaxLevelReached       = "max_level_reached"
	ReasonUnknownBuildingType   = "unknown_building_type"
	ReasonUnknownUnitType       = "unknown_unit_type"
)

func insufficientResources(missing entities.Resources) *errors.Error {
	detail := make(map[string]int, len(missing))
	for k, v := range missing {
		detail[string(k)] = v
	}
	return errors.ResourceExhausted("insufficient resources").
		WithReason(ReasonInsufficientResources).
		WithMeta("missing", detail)
}

func alreadyConstructing(buildingID string) *errors.Error {
	return errors.FailedPreconditionf("building %s is already being upgraded", buildingID).
		WithReason(ReasonAlreadyConstructing).
		WithMeta("building_id", buildingID)
}

func maxLevelReached(buildingID string, maxLevel int) *errors.Error {
	return errors.OutOfRangef("building %s is already at max level %d", buildingID, maxLevel).
		WithReason(ReasonMaxLevelReached).
		WithMeta("building_id", buildingID)
}

func unknownBuildingType(t entities.BuildingType) *errors.Error {
	return errors.InvalidArgumentf("unknown building type %q", t).
		WithReason(ReasonUnknownBuildingType)
}

func unknownUnitType(u entities.UnitType) *errors.Error {
	return errors.InvalidArgumentf("unknown unit type %q", u).
		WithReason(ReasonUnknownUnitType)
}

// IsInsufficientResources reports a spend the stockpile could not cover
func IsInsufficientResources(err error) bool {
	return errors.GetReason(err) == ReasonInsufficientResources
}

// IsAlreadyConstructing reports an upgrade requested on a busy building
func IsAlreadyConstructing(err error) bool {
	return errors.GetReason(err) == ReasonAlreadyConstructing
}

// IsMaxLevelReached reports an upgrade past the type's max level
func IsMaxLevelReached(err error) bool {
	return errors.GetReason(err) == ReasonMaxLevelReached
}

// IsUnknownBuildingType reports a type outside the fixed enumeration
func IsUnknownBuildingType(err error) bool {
	return errors.GetReason(err) == ReasonUnknownBuildingType
}
