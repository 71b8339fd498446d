package entities

import "sort"

// ResourceKind names a stockpiled resource
type ResourceKind string

// Resource kinds
const (
	ResourceGold  ResourceKind = "gold"
	ResourceWood  ResourceKind = "wood"
	ResourceStone ResourceKind = "stone"
	ResourceFood  ResourceKind = "food"
)

// AllResourceKinds returns the kinds in display order
func AllResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceGold, ResourceWood, ResourceStone, ResourceFood}
}

// IsValid reports whether k is a known kind
func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceGold, ResourceWood, ResourceStone, ResourceFood:
		return true
	}
	return false
}

// Resources maps a kind to an amount. Used both for stockpiles and for
// costs/yields; a missing key means zero.
type Resources map[ResourceKind]int

// Clone returns an independent copy (never nil)
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Get returns the amount of k
func (r Resources) Get(k ResourceKind) int {
	return r[k]
}

// Add adds every amount of delta in place
func (r Resources) Add(delta Resources) {
	for k, v := range delta {
		r[k] += v
	}
}

// Scale returns a copy with every amount multiplied by n
func (r Resources) Scale(n int) Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v * n
	}
	return out
}

// Missing returns, for each kind of cost, how much r falls short. Empty
// when r can pay.
func (r Resources) Missing(cost Resources) Resources {
	missing := Resources{}
	for k, need := range cost {
		if have := r[k]; have < need {
			missing[k] = need - have
		}
	}
	return missing
}

// CanAfford reports whether every kind of cost is covered
func (r Resources) CanAfford(cost Resources) bool {
	return len(r.Missing(cost)) == 0
}

// Spend deducts cost in place. It is all-or-nothing: when any kind is
// short, or any cost amount is negative, nothing is deducted and false is
// returned.
func (r Resources) Spend(cost Resources) bool {
	for _, v := range cost {
		if v < 0 {
			return false
		}
	}
	if !r.CanAfford(cost) {
		return false
	}
	for k, v := range cost {
		r[k] -= v
	}
	return true
}

// Total sums all amounts
func (r Resources) Total() int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

// Kinds returns the kinds present in r, sorted
func (r Resources) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
