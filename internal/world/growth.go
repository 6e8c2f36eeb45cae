// Per-tick tile lifecycle: regrowth, tree spawning, contamination
// spread, and building decay.
package world

import "github.com/quillback/homestead/internal/entropy"

const (
	// GrowthSeconds is how long bare owned ground takes to reach full
	// regrowth at zero bonus.
	GrowthSeconds = 60.0

	// TreeSpawnProb is the per-tick trial probability once regrowth is
	// full, before fertility scaling.
	TreeSpawnProb = 0.04

	// DustSpawnInterval is the time between contamination spawns.
	DustSpawnInterval = 4.0

	// MaxDustTiles caps simultaneous contaminated tiles from ambient spread.
	MaxDustTiles = 3

	// DecayBaseRate is building damage accrued per sim-second.
	DecayBaseRate = 1.0 / 240.0

	// DecayDustFactor multiplies decay on contaminated tiles.
	DecayDustFactor = 3.0

	// DecaySpreadThreshold is the damage level past which a decaying
	// building may itself spawn contamination.
	DecaySpreadThreshold = 0.6

	// DecaySpreadProb is the per-second chance of that spawn.
	DecaySpreadProb = 0.02
)

// Tree size distribution on spawn: small 50%, medium 35%, large 15%.
var treeSizeWeights = []float64{0.5, 0.35, 0.15}

// RollTreeSize picks a tree size with the standard spawn weights.
func RollTreeSize(src *entropy.Source) TreeSize {
	return TreeSize(src.WeightedIndex(treeSizeWeights))
}

// UpdateGrowth advances regrowth on every owned, tree-less,
// building-less tile by dt/GrowthSeconds × (1 + growthBonus), clamped
// to 1. Fully regrown tiles run a stochastic trial to spawn a tree;
// richer soil (fertility) makes the trial more likely to succeed.
func (g *Grid) UpdateGrowth(dt, growthBonus float64, src *entropy.Source) {
	for _, t := range g.OwnedTiles() {
		if t.HasTree || t.Building != nil {
			continue
		}
		t.TreeGrowth += dt / GrowthSeconds * (1 + growthBonus)
		if t.TreeGrowth < 1 {
			continue
		}
		t.TreeGrowth = 1
		if src.Chance(TreeSpawnProb * (0.5 + t.Fertility)) {
			t.PlantTree(RollTreeSize(src))
		}
	}
}

// TendTile advances regrowth on one tile by a fixed amount, running the
// same spawn trial when it tops out. Used by plant-tending work.
func (g *Grid) TendTile(c Coord, amount float64, src *entropy.Source) {
	t := g.Get(c.X, c.Y, false)
	if t == nil || !t.Owned || t.HasTree || t.Building != nil {
		return
	}
	t.TreeGrowth += amount
	if t.TreeGrowth < 1 {
		return
	}
	t.TreeGrowth = 1
	if src.Chance(TreeSpawnProb * (0.5 + t.Fertility)) {
		t.PlantTree(RollTreeSize(src))
	}
}

// UpdateDecay accrues building damage on every owned tile. Contaminated
// tiles decay faster, and badly damaged buildings can shed contamination
// back onto their own tile — the feedback loop repair work corrects.
func (g *Grid) UpdateDecay(dt float64, src *entropy.Source) {
	for _, t := range g.OwnedTiles() {
		b := t.Building
		if b == nil {
			continue
		}
		rate := DecayBaseRate
		if t.HasDust {
			rate *= DecayDustFactor
		}
		b.Damage += rate * dt
		if b.Damage > 1 {
			b.Damage = 1
		}
		if b.Damage > DecaySpreadThreshold && !t.HasDust && src.Chance(DecaySpreadProb*dt) {
			t.HasDust = true
		}
	}
}

// SpawnDust advances the ambient contamination timer and, every
// DustSpawnInterval, contaminates one random owned clean tile while
// fewer than MaxDustTiles are contaminated.
func (g *Grid) SpawnDust(dt float64, src *entropy.Source) {
	g.DustTimer += dt
	if g.DustTimer < DustSpawnInterval {
		return
	}
	g.DustTimer = 0

	if len(g.DustTiles()) >= MaxDustTiles {
		return
	}

	var candidates []*Tile
	for _, t := range g.OwnedTiles() {
		if !t.HasDust {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return
	}
	candidates[src.Intn(len(candidates))].HasDust = true
}
