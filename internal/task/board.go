package task

import (
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/world"
)

// Board generation thresholds and weights.
const (
	chopBaseWeight   = 1.0
	repairBaseWeight = 1.5
	assistBaseWeight = 1.4
	tendBaseWeight   = 0.8
	patrolWeight     = 0.6
	haulBaseWeight   = 1.2
	haulWeightPerUnit = 0.05

	// tendThreshold: below this regrowth a tile is worth tending.
	tendThreshold = 0.6

	// damageEpsilon: damage below this is cosmetic and not worth a trip.
	damageEpsilon = 0.05

	// builtThreshold: construction past this counts as finished.
	builtThreshold = 0.99

	// maxPatrolTasks caps frontier sampling per rebuild.
	maxPatrolTasks = 5
)

// Board holds the current candidate task set. It is rebuilt wholesale
// every tick; nothing on it survives a refresh. Only the copy a worker
// holds keeps its accumulated progress — a deliberate property, not an
// oversight.
type Board struct {
	Tasks []Task
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Refresh replaces the task list in full from current world and economy
// state. Tiles are scanned in deterministic (y, x) order, so two
// refreshes over unchanged state produce equal boards. Priority between
// kinds is the scheduler's concern, not the generator's.
func (b *Board) Refresh(g *world.Grid, inv econ.Inventory) {
	tasks := b.Tasks[:0]
	patrols := 0

	for _, t := range g.OwnedTiles() {
		c := t.Coord

		if t.HasTree && !t.HasDust {
			tasks = append(tasks, Task{
				Kind:     ChopTree,
				Target:   &c,
				Weight:   chopBaseWeight + t.TreeSize.WeightBonus(),
				Duration: t.TreeSize.ChopDuration(),
			})
		}

		if bld := t.Building; bld != nil {
			if bld.Damage > damageEpsilon || t.HasDust {
				tasks = append(tasks, Task{
					Kind:     RepairBuilding,
					Target:   &c,
					Weight:   repairBaseWeight + bld.Damage,
					Duration: RepairDuration,
				})
			}
			if bld.Progress < builtThreshold {
				tasks = append(tasks, Task{
					Kind:     AssistConstruction,
					Target:   &c,
					Weight:   assistBaseWeight + (1 - bld.Progress),
					Duration: ConstructionDuration,
				})
			}
		}

		if !t.HasTree && t.Building == nil && t.TreeGrowth < tendThreshold {
			tasks = append(tasks, Task{
				Kind:     TendPlants,
				Target:   &c,
				Weight:   tendBaseWeight + (tendThreshold - t.TreeGrowth),
				Duration: TendDuration,
			})
		}

		if patrols < maxPatrolTasks && g.HasUnownedNeighbor(c) {
			tasks = append(tasks, Task{
				Kind:     PatrolFence,
				Target:   &c,
				Weight:   patrolWeight,
				Duration: PatrolDuration,
			})
			patrols++
		}
	}

	if inv.Spendable() >= econ.HaulThreshold {
		if _, ok := g.FindStorage(); ok {
			tasks = append(tasks, Task{
				Kind:     HaulStorage,
				Weight:   haulBaseWeight + float64(inv.Spendable())*haulWeightPerUnit,
				Duration: HaulDuration,
			})
		}
	}

	b.Tasks = tasks
}
