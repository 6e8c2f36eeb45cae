// Package persistence stores world state two ways: whole-state snapshot
// files (zstd-compressed, versioned JSON) for save/load, and a SQLite
// log for events, stats history, and metadata.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/entropy"
	"github.com/quillback/homestead/internal/quest"
	"github.com/quillback/homestead/internal/sim"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/tuning"
	"github.com/quillback/homestead/internal/weather"
	"github.com/quillback/homestead/internal/world"
)

// SnapshotVersion guards the on-disk format.
const SnapshotVersion = 1

// Header identifies a snapshot.
type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
	SavedAt string `json:"saved_at"`
}

// Snapshot is the complete persisted world state. The frontier buffer
// is deliberately not trusted from disk — it is rebuilt on restore.
type Snapshot struct {
	Header Header `json:"header"`

	Seed       int64          `json:"seed"`
	DayTime    float64        `json:"day_time"`
	SeasonTime float64        `json:"season_time"`
	Weather    uint8          `json:"weather"`
	DustTimer  float64        `json:"dust_timer"`
	Inventory  econ.Inventory `json:"inventory"`

	Tiles   []world.Tile   `json:"tiles"`
	Workers []agent.Worker `json:"workers"` // queues and current tasks included
	Board   []task.Task    `json:"board"`
	Quests  []quest.Quest  `json:"quests"`
	Active  int            `json:"active_quest"`
}

// Capture builds a snapshot from the simulation. The caller holds the
// simulation lock; the returned snapshot shares no memory with the live
// world, so it may be encoded after the lock is released while ticks
// keep mutating buildings, tasks, and quest counters.
func Capture(s *sim.Simulation) *Snapshot {
	snap := &Snapshot{
		Header: Header{
			Version: SnapshotVersion,
			Tick:    s.Ticks,
			SavedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Seed:       s.Seed,
		DayTime:    s.Clock.DayTime,
		SeasonTime: s.Clock.SeasonTime,
		Weather:    uint8(s.Sky),
		DustTimer:  s.Grid.DustTimer,
		Inventory:  s.Inv,
		Active:     s.Quests.Active,
	}
	snap.Board = make([]task.Task, 0, len(s.Board.Tasks))
	for _, t := range s.Board.Tasks {
		snap.Board = append(snap.Board, t.Clone())
	}
	for _, t := range s.Grid.SortedTiles() {
		snap.Tiles = append(snap.Tiles, t.Clone())
	}
	for _, w := range s.Workers {
		snap.Workers = append(snap.Workers, w.Clone())
	}
	for _, q := range s.Quests.Quests {
		snap.Quests = append(snap.Quests, q.Clone())
	}
	return snap
}

// Save writes the snapshot atomically: compressed to a temp file, then
// renamed over the target.
func Save(path string, snap *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("snapshot create: %w", err)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("zstd close: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}

	return os.Rename(tmp, path)
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var snap Snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	if snap.Header.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Header.Version, SnapshotVersion)
	}
	return &snap, nil
}

// Restore rebuilds a live simulation from a snapshot. The frontier
// buffer is re-expanded from ownership rather than read back verbatim.
func Restore(snap *Snapshot) *sim.Simulation {
	grid := world.NewGrid(snap.Seed)
	for i := range snap.Tiles {
		t := snap.Tiles[i]
		grid.Put(&t)
	}
	grid.DustTimer = snap.DustTimer
	grid.ExpandFrontier()

	workers := make([]*agent.Worker, 0, len(snap.Workers))
	for i := range snap.Workers {
		w := snap.Workers[i]
		workers = append(workers, &w)
	}

	s := sim.New(grid, workers, entropy.NewSource(snap.Seed), snap.Seed)
	s.Ticks = snap.Header.Tick
	s.Clock.DayTime = snap.DayTime
	s.Clock.SeasonTime = snap.SeasonTime
	s.Sky = weather.Kind(snap.Weather)
	s.SkyMods = weather.MapToSim(s.Sky)
	s.Inv = snap.Inventory
	s.Board.Tasks = append([]task.Task(nil), snap.Board...)

	if len(snap.Quests) > 0 {
		quests := make([]*quest.Quest, 0, len(snap.Quests))
		for i := range snap.Quests {
			q := snap.Quests[i]
			quests = append(quests, &q)
		}
		s.Quests = quest.NewTracker(quests)
	}

	return s
}

// LoadOrGenerate restores the snapshot at path, or generates a fresh
// world when the file is missing or unreadable. Corruption is a warning
// and a new beginning, never a fatal error.
func LoadOrGenerate(path string, tun tuning.Tuning) *sim.Simulation {
	snap, err := Load(path)
	if err == nil {
		slog.Info("snapshot restored", "path", path, "tick", snap.Header.Tick, "tiles", len(snap.Tiles))
		return Restore(snap)
	}
	if !os.IsNotExist(err) {
		slog.Warn("snapshot unreadable, starting fresh", "path", path, "error", err)
	}

	seed := tun.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := entropy.NewSource(seed)
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	if tun.InitialGrid > 0 {
		cfg.InitialSize = tun.InitialGrid
	}
	if tun.InitialTreeProb > 0 {
		cfg.InitialTreeProb = tun.InitialTreeProb
	}
	grid := world.Generate(cfg, src)
	workers := []*agent.Worker{agent.New(0, 0, true)}
	slog.Info("fresh world generated", "seed", seed, "tiles", len(grid.Tiles))
	return sim.New(grid, workers, src, seed)
}
