package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/world"
)

func ownedTile(g *world.Grid, x, y int) *world.Tile {
	t := g.Get(x, y, true)
	t.Owned = true
	t.TreeGrowth = 1.0
	return t
}

func findKind(tasks []Task, k Kind) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

func TestChopTaskWeightAndDuration(t *testing.T) {
	g := world.NewGrid(1)
	ownedTile(g, 0, 0).PlantTree(world.TreeLarge)
	ownedTile(g, 1, 0).PlantTree(world.TreeSmall)

	b := NewBoard()
	b.Refresh(g, econ.Inventory{})

	chops := findKind(b.Tasks, ChopTree)
	require.Len(t, chops, 2)

	large := chops[0]
	if large.Target.X != 0 {
		large = chops[1]
	}
	assert.InDelta(t, 1.8, large.Weight, 1e-9)
	assert.Equal(t, world.LargeChopSeconds, large.Duration)
}

func TestNoChopTaskOnContaminatedTree(t *testing.T) {
	g := world.NewGrid(1)
	tile := ownedTile(g, 0, 0)
	tile.PlantTree(world.TreeSmall)
	tile.HasDust = true

	b := NewBoard()
	b.Refresh(g, econ.Inventory{})

	assert.Empty(t, findKind(b.Tasks, ChopTree))
}

func TestRepairAndAssistTasks(t *testing.T) {
	g := world.NewGrid(1)
	site := ownedTile(g, 0, 0)
	site.PlaceBuilding(world.BuildingSawmill, 0.25)
	site.Building.Damage = 0.5

	b := NewBoard()
	b.Refresh(g, econ.Inventory{})

	repairs := findKind(b.Tasks, RepairBuilding)
	require.Len(t, repairs, 1)
	assert.InDelta(t, 1.5+0.5, repairs[0].Weight, 1e-9)

	assists := findKind(b.Tasks, AssistConstruction)
	require.Len(t, assists, 1)
	assert.InDelta(t, 1.4+0.75, assists[0].Weight, 1e-9)

	// Cosmetic damage on a finished building generates neither.
	site.Building.Damage = 0.01
	site.Building.Progress = 1.0
	b.Refresh(g, econ.Inventory{})
	assert.Empty(t, findKind(b.Tasks, RepairBuilding))
	assert.Empty(t, findKind(b.Tasks, AssistConstruction))
}

func TestTendTaskBelowThreshold(t *testing.T) {
	g := world.NewGrid(1)
	low := ownedTile(g, 0, 0)
	low.TreeGrowth = 0.2
	high := ownedTile(g, 1, 0)
	high.TreeGrowth = 0.7

	b := NewBoard()
	b.Refresh(g, econ.Inventory{})

	tends := findKind(b.Tasks, TendPlants)
	require.Len(t, tends, 1)
	assert.Equal(t, world.Coord{X: 0, Y: 0}, *tends[0].Target)
	assert.InDelta(t, 0.8+0.4, tends[0].Weight, 1e-9)
}

func TestPatrolCap(t *testing.T) {
	g := world.NewGrid(1)
	// A line of owned tiles, every one on the frontier.
	for x := 0; x < 12; x++ {
		ownedTile(g, x, 0)
	}

	b := NewBoard()
	b.Refresh(g, econ.Inventory{})

	assert.Len(t, findKind(b.Tasks, PatrolFence), 5)
}

func TestHaulTaskThresholdAndWeight(t *testing.T) {
	g := world.NewGrid(1)
	g.Get(0, 0, true).Special = world.SpecialSellPoint

	b := NewBoard()

	b.Refresh(g, econ.Inventory{Wood: 2, Dust: 1})
	assert.Empty(t, findKind(b.Tasks, HaulStorage), "below threshold")

	b.Refresh(g, econ.Inventory{Wood: 5, Dust: 3})
	hauls := findKind(b.Tasks, HaulStorage)
	require.Len(t, hauls, 1, "exactly one haul task regardless of stock size")
	assert.InDelta(t, 1.2+8*0.05, hauls[0].Weight, 1e-9)
	assert.Nil(t, hauls[0].Target)
}

func TestNoHaulWithoutDestination(t *testing.T) {
	g := world.NewGrid(1)
	ownedTile(g, 0, 0)

	b := NewBoard()
	b.Refresh(g, econ.Inventory{Wood: 10})
	assert.Empty(t, findKind(b.Tasks, HaulStorage))
}

func TestRefreshDeterministic(t *testing.T) {
	g := world.NewGrid(4)
	ownedTile(g, 0, 0).PlantTree(world.TreeMedium)
	ownedTile(g, 2, 1).TreeGrowth = 0.1
	ownedTile(g, 1, 2).PlaceBuilding(world.BuildingStorage, 0.5)
	g.Get(0, -1, true).Special = world.SpecialSellPoint

	inv := econ.Inventory{Wood: 6}

	a := NewBoard()
	a.Refresh(g, inv)
	b := NewBoard()
	b.Refresh(g, inv)

	require.Equal(t, len(a.Tasks), len(b.Tasks))
	for i := range a.Tasks {
		assert.Equal(t, a.Tasks[i].Kind, b.Tasks[i].Kind)
		assert.Equal(t, a.Tasks[i].Weight, b.Tasks[i].Weight)
	}
}

func TestValid(t *testing.T) {
	g := world.NewGrid(1)
	tile := ownedTile(g, 0, 0)
	tile.PlantTree(world.TreeSmall)
	c := tile.Coord

	chop := Task{Kind: ChopTree, Target: &c}
	assert.True(t, Valid(chop, g, econ.Inventory{}))

	tile.HasDust = true
	assert.False(t, Valid(chop, g, econ.Inventory{}), "contaminated tree")
	tile.HasDust = false

	tile.ClearTree()
	assert.False(t, Valid(chop, g, econ.Inventory{}), "tree gone")

	haul := Task{Kind: HaulStorage}
	assert.False(t, Valid(haul, g, econ.Inventory{}))
	assert.True(t, Valid(haul, g, econ.Inventory{Dust: 1}))

	missing := world.Coord{X: 50, Y: 50}
	assert.False(t, Valid(Task{Kind: PatrolFence, Target: &missing}, g, econ.Inventory{}))
	assert.False(t, Valid(Task{Kind: TendPlants}, g, econ.Inventory{}), "nil target")
}
