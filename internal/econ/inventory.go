// Package econ provides the resource inventory, the storage-derived
// gold ceiling, building cost tables, and the passive modifiers active
// buildings grant each tick.
package econ

// Sell rates and purchase costs, in gold.
const (
	WoodPrice   = 4
	DustPrice   = 2
	TileCost    = 10
	StartingGold = 20
)

// BaseGoldMax is the gold ceiling with no storage built.
const BaseGoldMax = 100

// StorageGoldPerTier is the ceiling added per storage tier.
const StorageGoldPerTier = 100

// Haul transfer caps: at most this much of each resource moves to the
// sell-point per haul job.
const (
	HaulWoodCap = 5
	HaulDustCap = 5
)

// HaulThreshold is the combined spendable stock that makes hauling worth
// scheduling.
const HaulThreshold = 4

// Inventory holds the homestead's resource counters. Gold never exceeds
// GoldMax and never drops below zero.
type Inventory struct {
	Gold    int `json:"gold"`
	Wood    int `json:"wood"`
	Dust    int `json:"dust"`
	GoldMax int `json:"gold_max"`
}

// NewInventory returns the starting stock.
func NewInventory() Inventory {
	return Inventory{
		Gold:    StartingGold,
		GoldMax: BaseGoldMax,
	}
}

// AddGold credits (or debits, when n is negative) gold, clamped to
// [0, GoldMax].
func (inv *Inventory) AddGold(n int) {
	inv.Gold += n
	inv.ClampGold()
}

// ClampGold enforces the gold bounds after any mutation, including a
// ceiling change.
func (inv *Inventory) ClampGold() {
	if inv.Gold > inv.GoldMax {
		inv.Gold = inv.GoldMax
	}
	if inv.Gold < 0 {
		inv.Gold = 0
	}
}

// Spendable returns the combined haulable stock.
func (inv *Inventory) Spendable() int {
	return inv.Wood + inv.Dust
}
