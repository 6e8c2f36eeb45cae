// Package agent provides the worker data model and its decision logic:
// movement toward a bound task and greedy task selection. World side
// effects of finishing work are applied by the sim package, mirroring
// the decide/apply split between an agent and its world.
package agent

import (
	"math"

	"github.com/google/uuid"

	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/world"
)

const (
	// ArrivalEpsilon is the distance at which a worker counts as having
	// reached its target. Exact coordinate equality would oscillate
	// under floating accumulation.
	ArrivalEpsilon = 0.05

	// BaseHealth is a fresh worker's health.
	BaseHealth = 3.0

	// weightSpeedFactor: heavier tasks are walked to faster.
	weightSpeedFactor = 0.2
)

// Worker is an autonomous unit that moves to and executes tasks, or
// fights when hostile units are near. A worker holds at most one
// current task; Target always derives from it while one is active.
type Worker struct {
	ID       uuid.UUID    `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Target   *world.Coord `json:"target,omitempty"`
	Chopping float64      `json:"chopping"`   // felling countdown, seconds left
	ChopTotal float64     `json:"chop_total"` // full countdown, for progress bars
	Friendly bool         `json:"friendly"`
	Health   float64      `json:"health"`

	Current *task.Task  `json:"current_task,omitempty"`
	Queue   []task.Task `json:"queue,omitempty"` // one-deep lookahead

	// Origin is the tile a raider spawned from; its event marker is
	// cleared when the raider falls.
	Origin *world.Coord `json:"origin,omitempty"`

	// InCombat is set by the combat pass each tick and suppresses all
	// task work. Not persisted — re-derived every tick.
	InCombat bool `json:"-"`
}

// New creates a worker at the given position.
func New(x, y float64, friendly bool) *Worker {
	return &Worker{
		ID:       uuid.New(),
		X:        x,
		Y:        y,
		Friendly: friendly,
		Health:   BaseHealth,
	}
}

// Clone returns a value copy sharing no pointers with the live worker,
// safe to read after the caller releases the simulation lock.
func (w *Worker) Clone() Worker {
	out := *w
	if w.Target != nil {
		c := *w.Target
		out.Target = &c
	}
	if w.Origin != nil {
		c := *w.Origin
		out.Origin = &c
	}
	if w.Current != nil {
		t := w.Current.Clone()
		out.Current = &t
	}
	if len(w.Queue) > 0 {
		out.Queue = make([]task.Task, len(w.Queue))
		for i, t := range w.Queue {
			out.Queue[i] = t.Clone()
		}
	}
	return out
}

// SetTask binds a task copy as the current task and derives the target.
func (w *Worker) SetTask(t task.Task) {
	w.Current = &t
	w.Target = t.Target
	w.Chopping = 0
}

// ClearTask drops the current task and target, returning the worker to
// idle. The lookahead queue is untouched.
func (w *Worker) ClearTask() {
	w.Current = nil
	w.Target = nil
	w.Chopping = 0
	w.ChopTotal = 0
}

// TakeQueued pops the lookahead task into Current. Returns false when
// the queue is empty.
func (w *Worker) TakeQueued() bool {
	if len(w.Queue) == 0 {
		return false
	}
	next := w.Queue[0]
	w.Queue = w.Queue[1:]
	w.SetTask(next)
	return true
}

// DistanceTo returns the straight-line distance to a coordinate.
func (w *Worker) DistanceTo(c world.Coord) float64 {
	return math.Hypot(float64(c.X)-w.X, float64(c.Y)-w.Y)
}

// DistanceToWorker returns the straight-line distance to another worker.
func (w *Worker) DistanceToWorker(o *Worker) float64 {
	return math.Hypot(o.X-w.X, o.Y-w.Y)
}

// Speed returns movement speed for the current task weight: heavier
// work is hurried to, and the economy's speed bonus scales everything.
func (w *Worker) Speed(speedBonus float64) float64 {
	weight := 0.0
	if w.Current != nil {
		weight = w.Current.Weight
	}
	return (1 + weight*weightSpeedFactor) * (1 + speedBonus)
}

// StepToward interpolates straight toward (tx, ty) and reports whether
// the worker has arrived (within ArrivalEpsilon).
func (w *Worker) StepToward(tx, ty, speed, dt float64) bool {
	dx := tx - w.X
	dy := ty - w.Y
	dist := math.Hypot(dx, dy)
	if dist < ArrivalEpsilon {
		return true
	}
	step := speed * dt
	if step >= dist {
		w.X = tx
		w.Y = ty
		return true
	}
	w.X += dx / dist * step
	w.Y += dy / dist * step
	return false
}
