package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/task"
	"github.com/quillback/homestead/internal/world"
)

func TestStepTowardArrival(t *testing.T) {
	w := New(0, 0, true)

	arrived := w.StepToward(10, 0, 1.0, 1.0)
	assert.False(t, arrived)
	assert.InDelta(t, 1.0, w.X, 1e-9)

	// A step past the target snaps onto it.
	w.X, w.Y = 9.5, 0
	arrived = w.StepToward(10, 0, 1.0, 1.0)
	assert.True(t, arrived)
	assert.Equal(t, 10.0, w.X)

	// Inside the arrival envelope counts as there without moving.
	w.X = 10.0 + ArrivalEpsilon/2
	arrived = w.StepToward(10, 0, 1.0, 1.0)
	assert.True(t, arrived)
	assert.Equal(t, 10.0+ArrivalEpsilon/2, w.X)
}

func TestSpeedScalesWithWeight(t *testing.T) {
	w := New(0, 0, true)
	assert.InDelta(t, 1.0, w.Speed(0), 1e-9)

	w.SetTask(task.Task{Kind: task.ChopTree, Weight: 1.8})
	assert.InDelta(t, (1+1.8*0.2)*1.0, w.Speed(0), 1e-9)
	assert.InDelta(t, (1+1.8*0.2)*1.25, w.Speed(0.25), 1e-9)
}

func TestSetAndClearTask(t *testing.T) {
	w := New(0, 0, true)
	c := world.Coord{X: 2, Y: 3}

	w.SetTask(task.Task{Kind: task.ChopTree, Target: &c, Duration: 5})
	require.NotNil(t, w.Current)
	assert.Equal(t, c, *w.Target)

	w.Chopping = 2.5
	w.ClearTask()
	assert.Nil(t, w.Current)
	assert.Nil(t, w.Target)
	assert.Zero(t, w.Chopping)
}

func TestAssignPicksHeavierOverCloser(t *testing.T) {
	g := world.NewGrid(1)
	small := g.Get(1, 0, true)
	small.Owned = true
	small.TreeGrowth = 1
	small.PlantTree(world.TreeSmall)
	large := g.Get(5, 0, true)
	large.Owned = true
	large.TreeGrowth = 1
	large.PlantTree(world.TreeLarge)

	b := task.NewBoard()
	b.Refresh(g, econ.Inventory{})

	// small: 1.0 - 1*0.05 = 0.95; large: 1.8 - 5*0.05 = 1.55.
	w := New(0, 0, true)
	require.True(t, Assign(w, b, g, econ.Inventory{}))
	require.NotNil(t, w.Current)
	assert.Equal(t, world.Coord{X: 5, Y: 0}, *w.Current.Target)
}

func TestAssignCopiesAndFlagsBoardTask(t *testing.T) {
	g := world.NewGrid(1)
	tile := g.Get(0, 0, true)
	tile.Owned = true
	tile.TreeGrowth = 1
	tile.PlantTree(world.TreeSmall)

	b := task.NewBoard()
	b.Refresh(g, econ.Inventory{})

	w := New(0, 0, true)
	require.True(t, Assign(w, b, g, econ.Inventory{}))
	require.NotNil(t, w.Current)
	assert.Equal(t, task.ChopTree, w.Current.Kind, "chop outweighs patrol")

	chopIdx := -1
	for i := range b.Tasks {
		if b.Tasks[i].Kind == task.ChopTree {
			chopIdx = i
		}
	}
	require.NotEqual(t, -1, chopIdx)
	assert.True(t, b.Tasks[chopIdx].Assigned)
	assert.NotSame(t, &b.Tasks[chopIdx], w.Current, "worker holds a copy, not the board slot")

	// Progress on the worker's copy never leaks back to the board.
	w.Current.Progress = 3.0
	assert.Zero(t, b.Tasks[chopIdx].Progress)
}

func TestAssignFillsLookahead(t *testing.T) {
	g := world.NewGrid(1)
	for x := 0; x < 2; x++ {
		tile := g.Get(x, 0, true)
		tile.Owned = true
		tile.TreeGrowth = 1
		tile.PlantTree(world.TreeSmall)
	}

	b := task.NewBoard()
	b.Refresh(g, econ.Inventory{})

	w := New(0, 0, true)
	require.True(t, Assign(w, b, g, econ.Inventory{}))

	// The two chop tasks outscore every patrol; current and lookahead
	// are the two trees.
	require.Len(t, w.Queue, 1)
	assert.Equal(t, task.ChopTree, w.Current.Kind)
	assert.Equal(t, task.ChopTree, w.Queue[0].Kind)
	assert.NotEqual(t, w.Current.Target.X, w.Queue[0].Target.X)

	require.True(t, w.TakeQueued())
	assert.Empty(t, w.Queue)
	require.NotNil(t, w.Current)
}

func TestAssignSkipsInvalid(t *testing.T) {
	g := world.NewGrid(1)
	tile := g.Get(0, 0, true)
	tile.Owned = true
	tile.PlantTree(world.TreeSmall)

	b := task.NewBoard()
	b.Refresh(g, econ.Inventory{})

	// The claim is lost between refresh and assignment; every task on
	// the tile goes stale at once.
	tile.ClearTree()
	tile.Owned = false

	w := New(0, 0, true)
	assert.False(t, Assign(w, b, g, econ.Inventory{}))
	assert.Nil(t, w.Current)
}
