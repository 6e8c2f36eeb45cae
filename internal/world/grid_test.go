package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreatesLazily(t *testing.T) {
	g := NewGrid(1)

	assert.Nil(t, g.Get(3, 4, false))
	assert.Empty(t, g.Tiles)

	tile := g.Get(3, 4, true)
	require.NotNil(t, tile)
	assert.Equal(t, Coord{3, 4}, tile.Coord)
	assert.False(t, tile.Owned)
	assert.Len(t, g.Tiles, 1)

	// Second access returns the same tile.
	assert.Same(t, tile, g.Get(3, 4, true))
	assert.Len(t, g.Tiles, 1)
}

func TestFertilityDeterministicPerSeed(t *testing.T) {
	a := NewGrid(7).Get(2, 2, true)
	b := NewGrid(7).Get(2, 2, true)
	c := NewGrid(8).Get(2, 2, true)

	assert.Equal(t, a.Fertility, b.Fertility)
	assert.NotEqual(t, a.Fertility, c.Fertility)
	assert.GreaterOrEqual(t, a.Fertility, 0.0)
	assert.LessOrEqual(t, a.Fertility, 1.0)
}

func TestPutFillsFertility(t *testing.T) {
	g := NewGrid(1)
	g.Put(&Tile{Coord: Coord{1, 1}})

	assert.NotZero(t, g.Get(1, 1, false).Fertility)
}

func TestSortedTilesOrder(t *testing.T) {
	g := NewGrid(1)
	g.Get(1, 0, true)
	g.Get(-2, 1, true)
	g.Get(0, 0, true)
	g.Get(5, -1, true)

	tiles := g.SortedTiles()
	require.Len(t, tiles, 4)
	assert.Equal(t, Coord{5, -1}, tiles[0].Coord)
	assert.Equal(t, Coord{0, 0}, tiles[1].Coord)
	assert.Equal(t, Coord{1, 0}, tiles[2].Coord)
	assert.Equal(t, Coord{-2, 1}, tiles[3].Coord)
}

func TestNeighborChecks(t *testing.T) {
	g := NewGrid(1)
	g.Get(0, 0, true).Owned = true

	assert.True(t, g.HasOwnedNeighbor(Coord{1, 0}))
	assert.True(t, g.HasOwnedNeighbor(Coord{0, -1}))
	assert.False(t, g.HasOwnedNeighbor(Coord{1, 1}))
	assert.False(t, g.HasOwnedNeighbor(Coord{2, 0}))

	// The owned tile itself borders unowned space on all sides.
	assert.True(t, g.HasUnownedNeighbor(Coord{0, 0}))
}

func TestExpandFrontierCoversBoundingBox(t *testing.T) {
	g := NewGrid(1)
	g.Get(0, 0, true).Owned = true
	g.Get(3, 2, true).Owned = true

	g.ExpandFrontier()

	// Box [0,3]x[0,2] inflated by FrontierRadius on each side.
	for y := -FrontierRadius; y <= 2+FrontierRadius; y++ {
		for x := -FrontierRadius; x <= 3+FrontierRadius; x++ {
			assert.NotNil(t, g.Get(x, y, false), "missing tile (%d,%d)", x, y)
		}
	}
	assert.Nil(t, g.Get(3+FrontierRadius+1, 0, false))
}

func TestExpandFrontierNoOwnership(t *testing.T) {
	g := NewGrid(1)
	g.Get(0, 0, true)
	g.ExpandFrontier()
	assert.Len(t, g.Tiles, 1)
}

func TestFindStoragePrefersBuiltStorage(t *testing.T) {
	g := NewGrid(1)

	_, ok := g.FindStorage()
	assert.False(t, ok)

	sell := g.Get(0, 0, true)
	sell.Special = SpecialSellPoint

	c, ok := g.FindStorage()
	require.True(t, ok)
	assert.Equal(t, Coord{0, 0}, c)

	// Unfinished storage does not count.
	site := g.Get(2, 2, true)
	site.Owned = true
	site.PlaceBuilding(BuildingStorage, 0.5)

	c, ok = g.FindStorage()
	require.True(t, ok)
	assert.Equal(t, Coord{0, 0}, c)

	site.Building.Progress = 1.0
	c, ok = g.FindStorage()
	require.True(t, ok)
	assert.Equal(t, Coord{2, 2}, c)
}

func TestTreeBuildingExclusive(t *testing.T) {
	tile := &Tile{Coord: Coord{0, 0}, Owned: true}

	tile.PlantTree(TreeMedium)
	tile.PlaceBuilding(BuildingSawmill, 0.25)
	assert.Nil(t, tile.Building, "building must not land on a tree")

	tile.ClearTree()
	assert.False(t, tile.HasTree)
	assert.Zero(t, tile.TreeGrowth)

	tile.PlaceBuilding(BuildingSawmill, 0.25)
	require.NotNil(t, tile.Building)
	tile.PlantTree(TreeSmall)
	assert.False(t, tile.HasTree, "tree must not land on a building")
}

func TestBuildable(t *testing.T) {
	tile := &Tile{Coord: Coord{0, 0}}
	assert.False(t, tile.Buildable(), "unowned")

	tile.Owned = true
	assert.True(t, tile.Buildable())

	tile.HasDust = true
	assert.False(t, tile.Buildable(), "contaminated")
	tile.HasDust = false

	tile.Special = SpecialRestPoint
	assert.False(t, tile.Buildable(), "fixture")
}
