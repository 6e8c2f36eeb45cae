// Package task provides schedulable units of work: the kinds, the board
// rebuilt from world state every tick, and kind-specific validity.
package task

import (
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/world"
)

// Kind is a closed set of work types.
type Kind uint8

const (
	ChopTree Kind = iota
	RepairBuilding
	AssistConstruction
	TendPlants
	PatrolFence
	HaulStorage
)

// ActionKey returns the stable string key used for quest objectives and
// the event log.
func (k Kind) ActionKey() string {
	switch k {
	case ChopTree:
		return "chop_tree"
	case RepairBuilding:
		return "repair_building"
	case AssistConstruction:
		return "assist_construction"
	case TendPlants:
		return "tend_plants"
	case PatrolFence:
		return "patrol_fence"
	case HaulStorage:
		return "haul_storage"
	default:
		return "unknown"
	}
}

// String returns the action key.
func (k Kind) String() string { return k.ActionKey() }

// Execution durations in sim-seconds for the non-felling kinds.
// Felling durations come from the tree size.
const (
	RepairDuration       = 4.0
	ConstructionDuration = 3.0
	TendDuration         = 2.5
	PatrolDuration       = 3.0
	HaulDuration         = 2.0
)

// Task is one schedulable unit of work. Tasks are value objects: copied
// at assignment, never shared by reference between workers, and carry no
// identity across board rebuilds.
type Task struct {
	Kind     Kind         `json:"kind"`
	Target   *world.Coord `json:"target,omitempty"` // absent for storage hauls
	Weight   float64      `json:"weight"`
	Duration float64      `json:"duration"`
	Progress float64      `json:"progress"`
	Assigned bool         `json:"assigned"`
}

// Clone returns a copy whose target does not alias the original's
// memory.
func (t Task) Clone() Task {
	if t.Target != nil {
		c := *t.Target
		t.Target = &c
	}
	return t
}

// Valid re-derives whether a task still makes sense against current
// world state. A task that fails this check is dropped, never retried;
// the next board rebuild emits a fresh one if the work still exists.
func Valid(t Task, g *world.Grid, inv econ.Inventory) bool {
	switch t.Kind {
	case HaulStorage:
		return inv.Spendable() > 0
	}

	if t.Target == nil {
		return false
	}
	tile := g.Get(t.Target.X, t.Target.Y, false)
	if tile == nil {
		return false
	}

	switch t.Kind {
	case ChopTree:
		return tile.Owned && tile.HasTree && !tile.HasDust
	case RepairBuilding:
		return tile.Building != nil && (tile.Building.Damage > 0 || tile.HasDust)
	case AssistConstruction:
		return tile.Building != nil && tile.Building.Progress < 1
	case TendPlants:
		return tile.Owned && !tile.HasTree && tile.Building == nil && tile.TreeGrowth < 1
	case PatrolFence:
		return tile.Owned
	default:
		return false
	}
}
