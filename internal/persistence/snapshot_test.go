package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/entropy"
	"github.com/quillback/homestead/internal/sim"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/tuning"
	"github.com/quillback/homestead/internal/world"
)

func testSim(seed int64) *sim.Simulation {
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	src := entropy.NewSource(seed)
	g := world.Generate(cfg, src)
	workers := []*agent.Worker{agent.New(0, 0, true)}
	return sim.New(g, workers, src, seed)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testSim(11)
	for i := 0; i < 50; i++ {
		s.Tick(0.5)
	}
	s.Inv.Wood = 7
	s.Quests.Record("chop_tree")

	path := filepath.Join(t.TempDir(), "world.save")
	require.NoError(t, Save(path, Capture(s)))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Ticks, snap.Header.Tick)

	restored := Restore(snap)
	assert.Equal(t, s.Inv, restored.Inv)
	assert.Equal(t, s.Seed, restored.Seed)
	assert.InDelta(t, s.Clock.DayTime, restored.Clock.DayTime, 1e-9)
	assert.Equal(t, s.Sky, restored.Sky)
	assert.Equal(t, len(s.Grid.Tiles), len(restored.Grid.Tiles))
	assert.Equal(t, len(s.Workers), len(restored.Workers))
	assert.Equal(t, s.Workers[0].ID, restored.Workers[0].ID)
	assert.Equal(t, 1, restored.Quests.Quests[1].Progress["chop_tree"])
	assert.Equal(t, len(s.Board.Tasks), len(restored.Board.Tasks))

	// Ownership flags survive tile by tile.
	for c, tile := range s.Grid.Tiles {
		rt := restored.Grid.Get(c.X, c.Y, false)
		require.NotNil(t, rt, "tile %s", c)
		assert.Equal(t, tile.Owned, rt.Owned, "tile %s", c)
	}

	// The restored world keeps ticking.
	restored.Tick(0.5)
}

func TestCaptureDetachesFromLiveState(t *testing.T) {
	s := testSim(9)

	tile := s.Grid.Get(1, 1, false)
	require.NotNil(t, tile)
	tile.ClearTree()
	tile.Building = &world.Building{Kind: world.BuildingStorage, Tier: 1, Progress: 1, Damage: 0.1}

	w := s.Workers[0]
	c := tile.Coord
	w.SetTask(task.Task{Kind: task.RepairBuilding, Target: &c, Duration: 4})
	w.Queue = []task.Task{{Kind: task.PatrolFence, Target: &c, Duration: 3}}

	snap := Capture(s)

	// Mutate the live world after capture; the snapshot must not move.
	tile.Building.Damage = 0.9
	w.Current.Progress = 3.5
	w.Queue[0].Target.X = 42
	s.Quests.Record("buy_tile")

	var got *world.Tile
	for i := range snap.Tiles {
		if snap.Tiles[i].Coord == tile.Coord {
			got = &snap.Tiles[i]
		}
	}
	require.NotNil(t, got)
	require.NotNil(t, got.Building)
	assert.Equal(t, 0.1, got.Building.Damage)

	require.NotNil(t, snap.Workers[0].Current)
	assert.Zero(t, snap.Workers[0].Current.Progress)
	assert.Equal(t, 1, snap.Workers[0].Queue[0].Target.X)
	assert.Zero(t, snap.Quests[0].Progress["buy_tile"])
}

func TestSaveOverwritesAtomically(t *testing.T) {
	s := testSim(1)
	path := filepath.Join(t.TempDir(), "world.save")

	require.NoError(t, Save(path, Capture(s)))
	s.Inv.Gold = 77
	require.NoError(t, Save(path, Capture(s)))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 77, snap.Inventory.Gold)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file cleaned up")
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	s := testSim(1)
	snap := Capture(s)
	snap.Header.Version = 99

	path := filepath.Join(t.TempDir(), "world.save")
	require.NoError(t, Save(path, snap))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrGenerateFallsBackOnCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.save")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	tun := tuning.Default()
	tun.Seed = 3
	s := LoadOrGenerate(path, tun)
	require.NotNil(t, s)
	assert.Zero(t, s.Ticks)
	assert.NotEmpty(t, s.Grid.Tiles)
	assert.Len(t, s.Workers, 1)
}

func TestLoadOrGenerateMissingFile(t *testing.T) {
	tun := tuning.Default()
	tun.Seed = 3
	s := LoadOrGenerate(filepath.Join(t.TempDir(), "nope.save"), tun)
	require.NotNil(t, s)

	// Same seed, same world.
	s2 := LoadOrGenerate(filepath.Join(t.TempDir(), "nope.save"), tun)
	assert.Equal(t, len(s.Grid.Tiles), len(s2.Grid.Tiles))
}

func TestSnapshotMatchesSchema(t *testing.T) {
	s := testSim(5)
	for i := 0; i < 20; i++ {
		s.Tick(0.5)
	}

	raw, err := json.Marshal(Capture(s))
	require.NoError(t, err)

	var doc any
	require.NoError(t, json.Unmarshal(raw, &doc))

	schema, err := jsonschema.Compile("testdata/snapshot.schema.json")
	require.NoError(t, err)
	assert.NoError(t, schema.Validate(doc))
}
