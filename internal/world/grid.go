package world

import (
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// FrontierRadius is how far beyond the owned bounding box tiles are
// kept materialized, so the explorable edge always exists on screen.
const FrontierRadius = 2

// fertilityFrequency controls how quickly the fertility field varies
// across the map. Lower = broader bands of good and poor soil.
const fertilityFrequency = 0.15

// Grid owns every tile. Tiles are created lazily on first access and
// never deleted; growth is bounded by the frontier rule, not by eager
// generation.
type Grid struct {
	Tiles map[Coord]*Tile

	// DustTimer accumulates toward the next contamination spawn.
	DustTimer float64

	seed      int64
	fertility opensimplex.Noise
}

// NewGrid creates an empty grid whose fertility field derives from seed.
func NewGrid(seed int64) *Grid {
	return &Grid{
		Tiles:     make(map[Coord]*Tile),
		seed:      seed,
		fertility: opensimplex.NewNormalized(seed),
	}
}

// Seed returns the seed the fertility field was built from.
func (g *Grid) Seed() int64 {
	return g.seed
}

// Get returns the tile at (x, y). When absent and create is true, a
// default tile is created, stored, and returned; otherwise nil.
func (g *Grid) Get(x, y int, create bool) *Tile {
	c := Coord{x, y}
	if t, ok := g.Tiles[c]; ok {
		return t
	}
	if !create {
		return nil
	}
	t := &Tile{
		Coord:     c,
		Fertility: g.fertilityAt(x, y),
	}
	g.Tiles[c] = t
	return t
}

// Put stores a tile, filling in its fertility if unset. Used when
// restoring from a snapshot.
func (g *Grid) Put(t *Tile) {
	if t.Fertility == 0 {
		t.Fertility = g.fertilityAt(t.Coord.X, t.Coord.Y)
	}
	g.Tiles[t.Coord] = t
}

func (g *Grid) fertilityAt(x, y int) float64 {
	return g.fertility.Eval2(float64(x)*fertilityFrequency, float64(y)*fertilityFrequency)
}

// OwnedTiles returns all owned tiles in deterministic (y, x) order.
func (g *Grid) OwnedTiles() []*Tile {
	var out []*Tile
	for _, t := range g.Tiles {
		if t.Owned {
			out = append(out, t)
		}
	}
	sortTiles(out)
	return out
}

// DustTiles returns all contaminated tiles in deterministic (y, x) order.
func (g *Grid) DustTiles() []*Tile {
	var out []*Tile
	for _, t := range g.Tiles {
		if t.HasDust {
			out = append(out, t)
		}
	}
	sortTiles(out)
	return out
}

// SortedTiles returns every tile in deterministic (y, x) order.
func (g *Grid) SortedTiles() []*Tile {
	out := make([]*Tile, 0, len(g.Tiles))
	for _, t := range g.Tiles {
		out = append(out, t)
	}
	sortTiles(out)
	return out
}

func sortTiles(ts []*Tile) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Coord.Y != ts[j].Coord.Y {
			return ts[i].Coord.Y < ts[j].Coord.Y
		}
		return ts[i].Coord.X < ts[j].Coord.X
	})
}

// HasOwnedNeighbor reports whether any orthogonal neighbor of c is owned.
func (g *Grid) HasOwnedNeighbor(c Coord) bool {
	for _, n := range c.Neighbors() {
		if t := g.Get(n.X, n.Y, false); t != nil && t.Owned {
			return true
		}
	}
	return false
}

// HasUnownedNeighbor reports whether any orthogonal neighbor of c is
// absent or not owned — i.e. c sits on the frontier.
func (g *Grid) HasUnownedNeighbor(c Coord) bool {
	for _, n := range c.Neighbors() {
		t := g.Get(n.X, n.Y, false)
		if t == nil || !t.Owned {
			return true
		}
	}
	return false
}

// ExpandFrontier materializes every tile inside the owned bounding box
// inflated by FrontierRadius. Degenerate snake-shaped claims can inflate
// a large box; a long-running world should age out far-frontier tiles.
func (g *Grid) ExpandFrontier() {
	minX, minY, maxX, maxY, any := g.ownedBounds()
	if !any {
		return
	}
	for y := minY - FrontierRadius; y <= maxY+FrontierRadius; y++ {
		for x := minX - FrontierRadius; x <= maxX+FrontierRadius; x++ {
			g.Get(x, y, true)
		}
	}
}

func (g *Grid) ownedBounds() (minX, minY, maxX, maxY int, any bool) {
	for c, t := range g.Tiles {
		if !t.Owned {
			continue
		}
		if !any {
			minX, maxX = c.X, c.X
			minY, maxY = c.Y, c.Y
			any = true
			continue
		}
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return
}

// FindStorage returns the coordinate of a finished storage building, or
// the sell-point fixture as a fallback, in deterministic order. The
// second return is false when neither exists.
func (g *Grid) FindStorage() (Coord, bool) {
	var fallback *Tile
	for _, t := range g.SortedTiles() {
		if t.Building != nil && t.Building.Kind == BuildingStorage && t.Building.Built() {
			return t.Coord, true
		}
		if fallback == nil && t.Special == SpecialSellPoint {
			fallback = t
		}
	}
	if fallback != nil {
		return fallback.Coord, true
	}
	return Coord{}, false
}
