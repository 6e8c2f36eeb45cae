// Building cost tables and the passive modifiers recomputed from
// standing buildings every tick.
package econ

import "github.com/quillback/homestead/internal/world"

// Cost is a combined gold/wood price.
type Cost struct {
	Gold int `json:"gold"`
	Wood int `json:"wood"`
}

// buildCosts is the price of placing tier 1 of each kind.
var buildCosts = map[world.BuildingKind]Cost{
	world.BuildingStorage:    {Gold: 15, Wood: 4},
	world.BuildingGreenhouse: {Gold: 20, Wood: 6},
	world.BuildingSawmill:    {Gold: 25, Wood: 8},
	world.BuildingMarket:     {Gold: 30, Wood: 6},
	world.BuildingWorkshop:   {Gold: 25, Wood: 5},
}

// BuildCost returns the placement price for a kind.
func BuildCost(kind world.BuildingKind) Cost {
	return buildCosts[kind]
}

// UpgradeCost returns the price of raising a building from its current
// tier. Scales linearly with tier.
func UpgradeCost(kind world.BuildingKind, tier int) Cost {
	base := buildCosts[kind]
	return Cost{
		Gold: base.Gold / 2 * tier,
		Wood: base.Wood / 2 * tier,
	}
}

// Per-tier modifier contributions by kind.
const (
	greenhouseGrowthPerTier = 0.15
	sawmillYieldPerTier     = 0.20
	marketSellPerTier       = 0.10
	workshopSpeedPerTier    = 0.10
)

// MaxSpeedBonus caps the additive worker-speed bonus.
const MaxSpeedBonus = 1.0

// Modifiers are the passive bonuses granted by finished buildings.
// All are additive fractions (0.15 = +15%).
type Modifiers struct {
	Growth    float64 `json:"growth"`     // tree regrowth speed
	WoodYield float64 `json:"wood_yield"` // extra wood per felled tree
	SellPrice float64 `json:"sell_price"` // better sale rates
	Speed     float64 `json:"speed"`      // worker movement, clamped
}

// Recompute derives the active modifier set from every finished building
// on owned land. Buildings still under construction grant nothing.
func Recompute(g *world.Grid) Modifiers {
	var m Modifiers
	for _, t := range g.OwnedTiles() {
		b := t.Building
		if !b.Built() {
			continue
		}
		switch b.Kind {
		case world.BuildingGreenhouse:
			m.Growth += greenhouseGrowthPerTier * float64(b.Tier)
		case world.BuildingSawmill:
			m.WoodYield += sawmillYieldPerTier * float64(b.Tier)
		case world.BuildingMarket:
			m.SellPrice += marketSellPerTier * float64(b.Tier)
		case world.BuildingWorkshop:
			m.Speed += workshopSpeedPerTier * float64(b.Tier)
		}
	}
	if m.Speed > MaxSpeedBonus {
		m.Speed = MaxSpeedBonus
	}
	return m
}

// GoldCeiling derives the gold cap from finished storage tiers.
func GoldCeiling(g *world.Grid) int {
	ceiling := BaseGoldMax
	for _, t := range g.OwnedTiles() {
		b := t.Building
		if b.Built() && b.Kind == world.BuildingStorage {
			ceiling += StorageGoldPerTier * b.Tier
		}
	}
	return ceiling
}
