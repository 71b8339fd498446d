package engine

import (
	"math"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// MaxRecruitQuantity caps a single recruitment order
const MaxRecruitQuantity = 10_000

// Recruit buys Quantity units. The total cost is all-or-nothing like any
// other spend.
func (e *Engine) Recruit(input *RecruitInput) (*RecruitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Quantity < 1 || input.Quantity > MaxRecruitQuantity {
		return nil, errors.InvalidArgumentf("quantity must be between 1 and %d, got %d",
			MaxRecruitQuantity, input.Quantity).
			WithMeta("quantity", input.Quantity)
	}

	spec, ok := e.rules.Unit(input.UnitType)
	if !ok {
		return nil, unknownUnitType(input.UnitType)
	}

	for kind, amount := range spec.Cost {
		if amount > 0 && amount > math.MaxInt/input.Quantity {
			return nil, errors.OutOfRangef("%s cost of %d %s overflows", kind, input.Quantity, input.UnitType)
		}
	}

	cost := spec.Cost.Scale(input.Quantity)
	resources := input.Resources.Clone()
	if !resources.Spend(cost) {
		return nil, insufficientResources(resources.Missing(cost)).
			WithMeta("unit_type", string(input.UnitType))
	}

	army := input.Army.Clone()
	army[input.UnitType] += input.Quantity

	return &RecruitOutput{
		Resources: resources,
		Army:      army,
		Cost:      cost,
	}, nil
}
