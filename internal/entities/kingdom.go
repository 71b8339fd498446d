package entities

// Faction is a player's chosen culture
type Faction string

// Factions
const (
	FactionNorman   Faction = "norman"
	FactionViking   Faction = "viking"
	FactionSaxon    Faction = "saxon"
	FactionCeltic   Faction = "celtic"
	FactionFrankish Faction = "frankish"
)

// AllFactions returns every faction
func AllFactions() []Faction {
	return []Faction{FactionNorman, FactionViking, FactionSaxon, FactionCeltic, FactionFrankish}
}

// IsValid reports whether f is a known faction
func (f Faction) IsValid() bool {
	for _, known := range AllFactions() {
		if f == known {
			return true
		}
	}
	return false
}

// UnitType is a recruitable army unit
type UnitType string

// Unit types
const (
	UnitSoldiers UnitType = "soldiers"
	UnitArchers  UnitType = "archers"
	UnitCavalry  UnitType = "cavalry"
)

// Army counts units by type
type Army map[UnitType]int

// Size is the total number of units
func (a Army) Size() int {
	size := 0
	for _, n := range a {
		size += n
	}
	return size
}

// Clone returns an independent copy (never nil)
func (a Army) Clone() Army {
	out := make(Army, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Kingdom is the per-player state the simulation works on
type Kingdom struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	KingdomName string        `json:"kingdom_name"`
	Faction     Faction       `json:"faction"`
	Resources   Resources     `json:"resources"`
	Buildings   []*Building   `json:"buildings"`
	Queue       []*QueueEntry `json:"queue"`
	Army        Army          `json:"army"`

	// Derived ranking score, refreshed on every save
	Power int `json:"power"`

	// Number of ticks applied since registration
	Ticks uint64 `json:"ticks"`

	// Version increments on every stored update
	Version int64 `json:"version"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Clone returns a deep copy
func (k *Kingdom) Clone() *Kingdom {
	if k == nil {
		return nil
	}
	out := *k
	out.Resources = k.Resources.Clone()
	out.Buildings = CloneBuildings(k.Buildings)
	out.Queue = CloneQueue(k.Queue)
	out.Army = k.Army.Clone()
	return &out
}
