// Package sim ties the world grid, economy, task board, workers, and
// quests together and runs them in a fixed order each tick.
package sim

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/entropy"
	"github.com/quillback/homestead/internal/quest"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/weather"
	"github.com/quillback/homestead/internal/world"
)

// maxEvents bounds the in-memory event ring.
const maxEvents = 1000

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "economy", "work", "combat", "quest", ...
}

// Simulation is the single explicit context object holding all world
// state. Every system call receives it (or a piece of it) — there are
// no package-level singletons.
type Simulation struct {
	mu sync.Mutex

	Grid    *world.Grid
	Inv     econ.Inventory
	Mods    econ.Modifiers
	Workers []*agent.Worker
	Board   *task.Board
	Quests  *quest.Tracker
	Clock   Clock

	Sky     weather.Kind
	SkyMods weather.SimWeather

	// Rand is the injected randomness source; seed it for replayable runs.
	Rand *entropy.Source

	// SkyClient, when set, overrides seasonal weather rolls with real
	// conditions.
	SkyClient *weather.Client

	Events []Event
	Ticks  uint64
	Seed   int64
}

// New creates a simulation over a generated or restored grid. The
// worker list must contain at least the starting lumberjack.
func New(g *world.Grid, workers []*agent.Worker, src *entropy.Source, seed int64) *Simulation {
	s := &Simulation{
		Grid:    g,
		Inv:     econ.NewInventory(),
		Workers: workers,
		Board:   task.NewBoard(),
		Quests:  quest.NewTracker(quest.DefaultQuests()),
		Rand:    src,
		Sky:     weather.Sun,
		SkyMods: weather.MapToSim(weather.Sun),
		Seed:    seed,
	}
	return s
}

// Lock takes the simulation mutex. The engine holds it across a tick;
// API readers and the snapshot writer hold it across their reads.
func (s *Simulation) Lock() { s.mu.Lock() }

// Unlock releases the simulation mutex.
func (s *Simulation) Unlock() { s.mu.Unlock() }

// Tick advances the world by dt sim-seconds. Steps run synchronously in
// a fixed order; later workers in the same pass observe mutations made
// by earlier ones, which is intended (an early hauler may drain the
// stock a later one was scheduled for).
func (s *Simulation) Tick(dt float64) {
	s.Ticks++

	// 1. Clocks and weather.
	dayRolled, seasonRolled := s.Clock.Advance(dt)
	if seasonRolled {
		s.rollWeather()
	}

	// 2. Grid lifecycle.
	s.Grid.SpawnDust(dt, s.Rand)
	s.Grid.UpdateGrowth(dt, s.growthBonus(), s.Rand)
	s.Grid.UpdateDecay(dt, s.Rand)

	// 3. Economy-derived modifiers.
	s.Mods = econ.Recompute(s.Grid)
	s.Inv.GoldMax = econ.GoldCeiling(s.Grid)
	s.Inv.ClampGold()

	// 4. Task board rebuild.
	s.Board.Refresh(s.Grid, s.Inv)

	// 5. Combat pre-empts everything else.
	s.resolveCombat(dt)

	// 6. Scheduling.
	s.assignTasks()

	// 7. Worker execution.
	s.updateWorkers(dt)

	// 8. Quest pass: move the displayed quest past anything finished.
	s.Quests.AdvanceActive()

	if dayRolled {
		s.dailyReport()
	}

	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// growthBonus combines building and weather growth effects.
func (s *Simulation) growthBonus() float64 {
	return s.Mods.Growth + (s.SkyMods.GrowthMod - 1)
}

// speedBonus combines building and weather movement effects into the
// single additive bonus workers expect.
func (s *Simulation) speedBonus() float64 {
	return (1+s.Mods.Speed)*s.SkyMods.SpeedMod - 1
}

func (s *Simulation) rollWeather() {
	if s.SkyClient != nil {
		if kind, err := s.SkyClient.Current(); err == nil {
			s.setWeather(kind)
			return
		}
	}
	s.setWeather(weather.Roll(s.Rand))
}

func (s *Simulation) setWeather(kind weather.Kind) {
	s.Sky = kind
	s.SkyMods = weather.MapToSim(kind)
	s.logEvent("weather", "the weather turns to %s", s.SkyMods.Description)
}

// assignTasks fills every idle friendly worker: queued lookahead first,
// then a board scan. A current task that has gone invalid is dropped
// here, before any movement happens this tick.
func (s *Simulation) assignTasks() {
	for _, w := range s.Workers {
		if !w.Friendly || w.InCombat {
			continue
		}
		if w.Current != nil && !task.Valid(*w.Current, s.Grid, s.Inv) {
			w.ClearTask()
		}
		for w.Current == nil && w.TakeQueued() {
			if task.Valid(*w.Current, s.Grid, s.Inv) {
				break
			}
			w.ClearTask()
		}
		if w.Current == nil {
			agent.Assign(w, s.Board, s.Grid, s.Inv)
		}
	}
}

// recordAction counts a qualifying action toward quests and grants the
// rewards of anything newly completed. Gold rewards respect the ceiling;
// other resources do not.
func (s *Simulation) recordAction(key string) {
	for _, q := range s.Quests.Record(key) {
		s.Inv.Wood += q.Rewards["wood"]
		s.Inv.Dust += q.Rewards["dust"]
		s.Inv.AddGold(q.Rewards["gold"])
		s.logEvent("quest", "quest complete: %s", q.Name)
	}
}

func (s *Simulation) logEvent(category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        s.Ticks,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

// dailyReport logs the state of the homestead once per sim-day.
func (s *Simulation) dailyReport() {
	friendly, hostile := 0, 0
	for _, w := range s.Workers {
		if w.Friendly {
			friendly++
		} else {
			hostile++
		}
	}
	slog.Info("daily report",
		"tick", s.Ticks,
		"clock", s.Clock.String(),
		"weather", s.Sky.String(),
		"gold", humanize.Comma(int64(s.Inv.Gold)),
		"gold_max", humanize.Comma(int64(s.Inv.GoldMax)),
		"wood", s.Inv.Wood,
		"dust", s.Inv.Dust,
		"tiles", len(s.Grid.Tiles),
		"owned", len(s.Grid.OwnedTiles()),
		"workers", friendly,
		"raiders", hostile,
		"board", len(s.Board.Tasks),
	)
}
