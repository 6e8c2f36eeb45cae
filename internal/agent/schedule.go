// Greedy task assignment: nearest useful work wins, with a one-deep
// lookahead so a worker chains into a follow-up without a re-scan.
package agent

import (
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/world"
)

// distancePenalty converts tiles of travel into priority loss.
const distancePenalty = 0.05

// Assign binds the best valid unclaimed board task to the worker, and
// the second best into its lookahead queue if that is empty. Candidates
// are scored weight − distance×0.05; ties break to the first-found
// maximum, which is deterministic because the board is built in a fixed
// order. Tasks are copied at assignment — the board keeps only the
// Assigned flag, so two workers never share a task instance.
//
// Returns true when a task was bound.
func Assign(w *Worker, board *task.Board, g *world.Grid, inv econ.Inventory) bool {
	best, second := -1, -1
	var bestScore, secondScore float64

	for i := range board.Tasks {
		t := &board.Tasks[i]
		if t.Assigned || !task.Valid(*t, g, inv) {
			continue
		}
		score := t.Weight
		if t.Target != nil {
			score -= w.DistanceTo(*t.Target) * distancePenalty
		}
		switch {
		case best == -1 || score > bestScore:
			second, secondScore = best, bestScore
			best, bestScore = i, score
		case second == -1 || score > secondScore:
			second, secondScore = i, score
		}
	}

	if best == -1 {
		return false
	}

	board.Tasks[best].Assigned = true
	w.SetTask(board.Tasks[best])

	if len(w.Queue) == 0 && second != -1 {
		board.Tasks[second].Assigned = true
		w.Queue = append(w.Queue, board.Tasks[second])
	}
	return true
}
