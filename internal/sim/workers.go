// Worker execution pass: movement, task progress, felling countdowns,
// and completion side effects.
package sim

import (
	"math"

	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/world"
)

const (
	// raiderSpeed is hostile movement in tiles per second.
	raiderSpeed = 1.2

	// sabotageGoldPenalty is lost when a raider destroys a tree.
	sabotageGoldPenalty = 2

	// Per-completion work amounts.
	repairAmount = 0.4
	tendAmount   = 0.25
	assistAmount = 0.2
	assistRepair = 0.05
)

// updateWorkers runs one execution step for every worker, in list
// order. Combat suppresses everything; a felling countdown suppresses
// movement and generic progress.
func (s *Simulation) updateWorkers(dt float64) {
	for _, w := range s.Workers {
		if w.InCombat {
			continue
		}
		if !w.Friendly {
			s.updateRaider(w, dt)
			continue
		}

		if w.Chopping > 0 {
			w.Chopping -= dt
			if w.Chopping <= 0 {
				s.finishFelling(w)
			}
			continue
		}

		t := w.Current
		if t == nil {
			continue
		}
		if !task.Valid(*t, s.Grid, s.Inv) {
			w.ClearTask()
			continue
		}

		// Storage hauls carry no target of their own — resolve one now.
		if w.Target == nil {
			c, ok := s.Grid.FindStorage()
			if !ok {
				w.ClearTask()
				continue
			}
			w.Target = &c
		}

		arrived := w.StepToward(float64(w.Target.X), float64(w.Target.Y), w.Speed(s.speedBonus()), dt)
		if !arrived {
			continue
		}

		if t.Kind == task.ChopTree {
			// Felling runs on its own countdown instead of task progress.
			w.Chopping = t.Duration
			w.ChopTotal = t.Duration
			continue
		}

		t.Progress += dt
		if t.Progress >= t.Duration {
			s.completeTask(w, *t)
		}
	}
}

// finishFelling applies the outcome of an expired chop countdown. A
// friendly worker converts the tree into wood; a raider destroys it
// into contamination and a small gold loss.
func (s *Simulation) finishFelling(w *agent.Worker) {
	defer func() {
		w.ClearTask()
		w.TakeQueued()
	}()

	if w.Target == nil {
		return
	}
	tile := s.Grid.Get(w.Target.X, w.Target.Y, false)
	if tile == nil || !tile.HasTree {
		return
	}

	if w.Friendly {
		yield := tile.TreeSize.WoodYield()
		yield += int(math.Round(float64(yield) * s.Mods.WoodYield))
		tile.ClearTree()
		s.Inv.Wood += yield
		s.recordAction("chop_tree")
		s.logEvent("work", "felled a %s tree at %s for %d wood", tile.TreeSize, tile.Coord, yield)
		return
	}

	// Sabotage.
	tile.ClearTree()
	tile.HasDust = true
	s.Inv.AddGold(-sabotageGoldPenalty)
	s.logEvent("combat", "a raider destroyed the tree at %s", tile.Coord)
}

// completeTask applies a finished task's side effects, then chains into
// the lookahead queue.
func (s *Simulation) completeTask(w *agent.Worker, t task.Task) {
	switch t.Kind {
	case task.HaulStorage:
		s.resolveHaul()

	case task.RepairBuilding:
		tile := s.targetTile(t)
		if tile != nil && tile.Building != nil {
			tile.Building.Damage = math.Max(0, tile.Building.Damage-repairAmount)
			tile.HasDust = false
			s.recordAction(t.Kind.ActionKey())
			s.logEvent("work", "repaired the %s at %s", tile.Building.Kind, tile.Coord)
		}

	case task.TendPlants:
		if t.Target != nil {
			s.Grid.TendTile(*t.Target, tendAmount, s.Rand)
			s.recordAction(t.Kind.ActionKey())
		}

	case task.AssistConstruction:
		tile := s.targetTile(t)
		if tile != nil && tile.Building != nil {
			b := tile.Building
			b.Progress = math.Min(1, b.Progress+assistAmount)
			b.Damage = math.Max(0, b.Damage-assistRepair)
			s.recordAction(t.Kind.ActionKey())
			if b.Built() {
				s.logEvent("work", "finished building the %s at %s", b.Kind, tile.Coord)
			}
		}

	case task.PatrolFence:
		// No world mutation — the frontier was watched, that is the job.
		s.recordAction(t.Kind.ActionKey())
	}

	w.ClearTask()
	w.TakeQueued()
}

// resolveHaul moves a bounded load of wood and dust to the sell-point,
// crediting gold at the current rates.
func (s *Simulation) resolveHaul() {
	wood := min(s.Inv.Wood, econ.HaulWoodCap)
	dust := min(s.Inv.Dust, econ.HaulDustCap)
	if wood+dust == 0 {
		return
	}
	gain := float64(wood*econ.WoodPrice+dust*econ.DustPrice) * (1 + s.Mods.SellPrice)
	s.Inv.Wood -= wood
	s.Inv.Dust -= dust
	s.Inv.AddGold(int(math.Round(gain)))
	s.recordAction("haul_storage")
	s.logEvent("economy", "hauled %d wood and %d dust to storage", wood, dust)
}

func (s *Simulation) targetTile(t task.Task) *world.Tile {
	if t.Target == nil {
		return nil
	}
	return s.Grid.Get(t.Target.X, t.Target.Y, false)
}

// updateRaider drives a hostile worker: walk to the nearest owned
// standing tree and destroy it. Raiders never touch the task board.
func (s *Simulation) updateRaider(w *agent.Worker, dt float64) {
	if w.Chopping > 0 {
		w.Chopping -= dt
		if w.Chopping <= 0 {
			s.finishFelling(w)
		}
		return
	}

	if w.Target != nil {
		tile := s.Grid.Get(w.Target.X, w.Target.Y, false)
		if tile == nil || !tile.HasTree {
			w.Target = nil
		}
	}

	if w.Target == nil {
		var best *world.Tile
		bestDist := math.MaxFloat64
		for _, tile := range s.Grid.OwnedTiles() {
			if !tile.HasTree {
				continue
			}
			if d := w.DistanceTo(tile.Coord); d < bestDist {
				best, bestDist = tile, d
			}
		}
		if best == nil {
			return
		}
		c := best.Coord
		w.Target = &c
	}

	arrived := w.StepToward(float64(w.Target.X), float64(w.Target.Y), raiderSpeed, dt)
	if arrived {
		tile := s.Grid.Get(w.Target.X, w.Target.Y, false)
		if tile != nil && tile.HasTree {
			w.Chopping = tile.TreeSize.ChopDuration()
			w.ChopTotal = w.Chopping
		}
	}
}
