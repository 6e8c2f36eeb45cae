// Package quest tracks named objective sets: counts of qualifying
// actions, with a one-time resource reward on completion.
package quest

import "maps"

// Quest is a named set of action-count objectives. Progress counters
// never exceed their targets, and rewards are granted exactly once.
type Quest struct {
	Name       string         `json:"name"`
	Objectives map[string]int `json:"objectives"` // action key → required count
	Progress   map[string]int `json:"progress"`   // action key → current count
	Rewards    map[string]int `json:"rewards"`    // "gold"/"wood"/"dust" → amount
	Completed  bool           `json:"completed"`
}

// Clone returns a copy with its own counter maps.
func (q *Quest) Clone() Quest {
	out := *q
	out.Objectives = maps.Clone(q.Objectives)
	out.Progress = maps.Clone(q.Progress)
	out.Rewards = maps.Clone(q.Rewards)
	return out
}

// met reports whether every objective counter has reached its target.
func (q *Quest) met() bool {
	for key, need := range q.Objectives {
		if q.Progress[key] < need {
			return false
		}
	}
	return true
}

// Tracker owns the active quest list and the pointer to the quest
// currently shown to the player.
type Tracker struct {
	Quests []*Quest `json:"quests"`
	Active int      `json:"active"` // index of the displayed quest
}

// NewTracker creates a tracker over the given quests.
func NewTracker(quests []*Quest) *Tracker {
	t := &Tracker{Quests: quests}
	t.AdvanceActive()
	return t
}

// Record counts one qualifying action against every active quest whose
// objectives contain the key, clamped at each target. Quests whose
// objectives are now all met are marked complete and returned so the
// caller can grant their rewards — each quest appears here at most once,
// ever.
func (t *Tracker) Record(actionKey string) []*Quest {
	var completed []*Quest
	for _, q := range t.Quests {
		if q.Completed {
			continue
		}
		need, ok := q.Objectives[actionKey]
		if !ok {
			continue
		}
		if q.Progress == nil {
			q.Progress = make(map[string]int)
		}
		if q.Progress[actionKey] < need {
			q.Progress[actionKey]++
		}
		if q.met() {
			q.Completed = true
			completed = append(completed, q)
		}
	}
	return completed
}

// AdvanceActive moves the displayed-quest pointer to the first
// incomplete quest in priority order. With everything complete it rests
// past the end.
func (t *Tracker) AdvanceActive() {
	for i, q := range t.Quests {
		if !q.Completed {
			t.Active = i
			return
		}
	}
	t.Active = len(t.Quests)
}

// ActiveQuest returns the displayed quest, or nil when all are done.
func (t *Tracker) ActiveQuest() *Quest {
	if t.Active < 0 || t.Active >= len(t.Quests) {
		return nil
	}
	return t.Quests[t.Active]
}

// DefaultQuests returns the standard early-game objective chain.
func DefaultQuests() []*Quest {
	return []*Quest{
		{
			Name:       "Settling In",
			Objectives: map[string]int{"buy_tile": 2},
			Progress:   map[string]int{},
			Rewards:    map[string]int{"gold": 15},
		},
		{
			Name:       "Timber",
			Objectives: map[string]int{"chop_tree": 5},
			Progress:   map[string]int{},
			Rewards:    map[string]int{"gold": 20},
		},
		{
			Name:       "Tidy Grounds",
			Objectives: map[string]int{"clean_tile": 3, "tend_plants": 2},
			Progress:   map[string]int{},
			Rewards:    map[string]int{"wood": 4},
		},
		{
			Name:       "Watchful Eye",
			Objectives: map[string]int{"patrol_fence": 4, "repair_building": 1},
			Progress:   map[string]int{},
			Rewards:    map[string]int{"gold": 25},
		},
	}
}
