// Initial world generation: a small starting plot with interior
// ownership, scattered young trees, and the two fixture tiles.
package world

import (
	"github.com/quillback/homestead/internal/entropy"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Seed            int64   // Fertility field and stochastic rolls
	InitialSize     int     // Side length of the starting square
	InitialTreeProb float64 // Chance an owned starting tile holds a tree
}

// DefaultGenConfig returns the standard starting plot.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:            0,
		InitialSize:     6,
		InitialTreeProb: 0.12,
	}
}

// Generate creates the starting world: an InitialSize square whose
// interior ring is owned, a sprinkle of small/medium trees, the
// sell-point at (0,0) and the rest-point at (0,1), and a populated
// frontier buffer.
func Generate(cfg GenConfig, src *entropy.Source) *Grid {
	g := NewGrid(cfg.Seed)

	n := cfg.InitialSize
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			t := g.Get(x, y, true)
			t.Owned = x >= 1 && x <= n-2 && y >= 1 && y <= n-2
			t.TreeGrowth = 1.0
			if t.Owned && src.Chance(cfg.InitialTreeProb) {
				size := TreeSmall
				if src.Chance(0.5) {
					size = TreeMedium
				}
				t.PlantTree(size)
			}
		}
	}

	g.Get(0, 0, true).Special = SpecialSellPoint
	g.Get(0, 1, true).Special = SpecialRestPoint

	g.ExpandFrontier()
	return g
}
