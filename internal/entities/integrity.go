package entities

import "fmt"

// Problems lists broken invariants in k: negative stock, bad levels,
// queue entries without a building and constructing flags without an
// entry. A healthy kingdom returns nil.
func (k *Kingdom) Problems() []string {
	if k == nil {
		return []string{"kingdom is nil"}
	}

	var problems []string
	if k.ID == "" {
		problems = append(problems, "missing id")
	}
	if !k.Faction.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown faction %q", k.Faction))
	}
	for _, kind := range k.Resources.Kinds() {
		if k.Resources[kind] < 0 {
			problems = append(problems, fmt.Sprintf("negative %s: %d", kind, k.Resources[kind]))
		}
	}

	queued := make(map[string]bool, len(k.Queue))
	for _, q := range k.Queue {
		if q == nil {
			problems = append(problems, "nil queue entry")
			continue
		}
		b := FindBuilding(k.Buildings, q.BuildingID)
		if b == nil {
			problems = append(problems, fmt.Sprintf("queue entry %s references missing building %s", q.ID, q.BuildingID))
			continue
		}
		if queued[q.BuildingID] {
			problems = append(problems, fmt.Sprintf("building %s queued more than once", q.BuildingID))
		}
		queued[q.BuildingID] = true
		if q.TargetLevel != b.Level+1 {
			problems = append(problems, fmt.Sprintf("queue entry %s targets level %d but building %s is level %d",
				q.ID, q.TargetLevel, b.ID, b.Level))
		}
		if q.RemainingTime < 0 {
			problems = append(problems, fmt.Sprintf("queue entry %s has negative remaining time", q.ID))
		}
	}

	seen := make(map[string]bool, len(k.Buildings))
	for _, b := range k.Buildings {
		if b == nil {
			problems = append(problems, "nil building")
			continue
		}
		if seen[b.ID] {
			problems = append(problems, fmt.Sprintf("duplicate building id %s", b.ID))
		}
		seen[b.ID] = true
		if b.Level < 1 {
			problems = append(problems, fmt.Sprintf("building %s has level %d", b.ID, b.Level))
		}
		if b.Constructing != queued[b.ID] {
			problems = append(problems, fmt.Sprintf("building %s constructing=%t but queued=%t", b.ID, b.Constructing, queued[b.ID]))
		}
	}

	for u, n := range k.Army {
		if n < 0 {
			problems = append(problems, fmt.Sprintf("negative %s: %d", u, n))
		}
	}

	return problems
}
