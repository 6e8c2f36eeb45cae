// Combat resolver: friendly and hostile workers within reach lock each
// other in combat, which pre-empts all task work until one side falls.
package sim

import (
	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/world"
)

const (
	// CombatRadius is the engagement distance.
	CombatRadius = 0.2

	// CombatDamagePerSecond is dealt by each side simultaneously.
	CombatDamagePerSecond = 0.5
)

// resolveCombat flags every engaged pair, applies damage, and sweeps
// the fallen. A defeated raider's origin tile loses its event marker.
// Task state on survivors is untouched — a worker resumes exactly where
// it left off once the fight is over.
func (s *Simulation) resolveCombat(dt float64) {
	for _, w := range s.Workers {
		w.InCombat = false
	}

	for i, a := range s.Workers {
		for _, b := range s.Workers[i+1:] {
			if a.Friendly == b.Friendly {
				continue
			}
			if a.DistanceToWorker(b) >= CombatRadius {
				continue
			}
			a.InCombat = true
			b.InCombat = true
			a.Health -= CombatDamagePerSecond * dt
			b.Health -= CombatDamagePerSecond * dt
		}
	}

	// Sweep the defeated after the pass, not during it.
	alive := s.Workers[:0]
	for _, w := range s.Workers {
		if w.Health > 0 {
			alive = append(alive, w)
			continue
		}
		s.clearOriginEvent(w)
		side := "worker"
		if !w.Friendly {
			side = "raider"
		}
		s.logEvent("combat", "a %s fell in battle", side)
	}
	s.Workers = alive
}

func (s *Simulation) clearOriginEvent(w *agent.Worker) {
	if w.Origin == nil {
		return
	}
	if tile := s.Grid.Get(w.Origin.X, w.Origin.Y, false); tile != nil {
		tile.Event = world.EventNone
	}
}
