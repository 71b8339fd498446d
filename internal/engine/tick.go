package engine

import "github.com/KirkDiggler/kingdom-api/internal/entities"

// Tick advances the state by one tick. Production is computed from the
// levels at the start of the tick and added to the stockpile; then every
// queue entry is decremented (floored at zero) and entries at zero finish,
// setting their building to the target level.
func (e *Engine) Tick(input *TickInput) *TickOutput {
	out := &TickOutput{
		Resources: input.Resources.Clone(),
		Buildings: entities.CloneBuildings(input.Buildings),
		Queue:     make([]*entities.QueueEntry, 0, len(input.Queue)),
	}

	out.Produced = e.Production(out.Buildings, input.Faction)
	out.Resources.Add(out.Produced)

	for _, entry := range input.Queue {
		if entry == nil {
			continue
		}
		next := entry.Clone()
		next.RemainingTime--
		if next.RemainingTime > 0 {
			out.Queue = append(out.Queue, next)
			continue
		}

		b := entities.FindBuilding(out.Buildings, next.BuildingID)
		if b == nil {
			out.DroppedEntryIDs = append(out.DroppedEntryIDs, next.ID)
			continue
		}
		b.Level = next.TargetLevel
		b.Constructing = false
		out.CompletedBuildingIDs = append(out.CompletedBuildingIDs, b.ID)
	}

	return out
}

// Advance applies Tick n times. Timers are checked after every single
// decrement so no completion is skipped. n <= 0 returns an unchanged copy.
func (e *Engine) Advance(input *TickInput, n int) *TickOutput {
	out := &TickOutput{
		Resources: input.Resources.Clone(),
		Buildings: entities.CloneBuildings(input.Buildings),
		Queue:     entities.CloneQueue(input.Queue),
		Produced:  entities.Resources{},
	}

	for i := 0; i < n; i++ {
		step := e.Tick(&TickInput{
			Faction:   input.Faction,
			Resources: out.Resources,
			Buildings: out.Buildings,
			Queue:     out.Queue,
		})
		out.Resources = step.Resources
		out.Buildings = step.Buildings
		out.Queue = step.Queue
		out.Produced.Add(step.Produced)
		out.CompletedBuildingIDs = append(out.CompletedBuildingIDs, step.CompletedBuildingIDs...)
		out.DroppedEntryIDs = append(out.DroppedEntryIDs, step.DroppedEntryIDs...)
	}

	return out
}
