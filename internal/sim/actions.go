// External actions invoked by the player-facing surface. Every one is a
// guarded no-op: insufficient funds, an invalid target, or an
// already-owned tile leave state unchanged and raise nothing.
package sim

import (
	"math"

	"github.com/quillback/homestead/internal/agent"
	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/world"
)

// Story unlock events tied to specific coordinates; anywhere else the
// purchase rolls the generic event table.
var storyEvents = map[world.Coord]world.EventKind{
	{X: 3, Y: 0}:  world.EventFriend,
	{X: -1, Y: 2}: world.EventGoldenTree,
}

// randomEventProb is the chance a purchased tile carries an event.
const randomEventProb = 0.3

// BuyTile purchases the tile at (x, y). Requires the tile to be
// unowned, an owned orthogonal neighbor (contiguous growth from the
// origin), and the fixed price in gold. On success the frontier buffer
// is re-expanded and an unlock event may fire.
func (s *Simulation) BuyTile(x, y int) {
	tile := s.Grid.Get(x, y, true)
	if tile.Owned || s.Inv.Gold < econ.TileCost {
		return
	}
	if !s.Grid.HasOwnedNeighbor(tile.Coord) {
		return
	}

	s.Inv.Gold -= econ.TileCost
	tile.Owned = true
	tile.TreeGrowth = 1.0
	s.applyUnlockEvent(tile)
	s.Grid.ExpandFrontier()
	s.recordAction("buy_tile")
	s.logEvent("economy", "bought the land at %s", tile.Coord)
}

func (s *Simulation) applyUnlockEvent(tile *world.Tile) {
	kind, ok := storyEvents[tile.Coord]
	if !ok && s.Rand.Chance(randomEventProb) {
		kind = world.EventKind(1 + s.Rand.Intn(3))
	}
	if kind == world.EventNone {
		return
	}
	tile.Event = kind

	switch kind {
	case world.EventFriend:
		s.Workers = append(s.Workers, agent.New(float64(tile.Coord.X)+0.2, float64(tile.Coord.Y)+0.2, true))
		s.logEvent("story", "a friendly lumberjack settles at %s", tile.Coord)
	case world.EventGoldenTree:
		tile.PlantTree(world.TreeLarge)
		s.logEvent("story", "a towering tree stands at %s", tile.Coord)
	case world.EventRaider:
		raider := agent.New(float64(tile.Coord.X), float64(tile.Coord.Y), false)
		c := tile.Coord
		raider.Origin = &c
		s.Workers = append(s.Workers, raider)
		s.logEvent("story", "a raider lurks at %s", tile.Coord)
	}
}

// ChopTree fells the tree at (x, y) by hand, skipping the usual
// countdown. The tile must be owned, tree-bearing, and clean.
func (s *Simulation) ChopTree(x, y int) {
	tile := s.Grid.Get(x, y, false)
	if tile == nil || !tile.Owned || !tile.HasTree || tile.HasDust {
		return
	}
	yield := tile.TreeSize.WoodYield()
	yield += int(math.Round(float64(yield) * s.Mods.WoodYield))
	tile.ClearTree()
	s.Inv.Wood += yield
	s.recordAction("chop_tree")
	s.logEvent("work", "chopped the tree at %s by hand", tile.Coord)
}

// CleanTile sweeps contamination off (x, y) into the dust stock.
func (s *Simulation) CleanTile(x, y int) {
	tile := s.Grid.Get(x, y, false)
	if tile == nil || !tile.HasDust {
		return
	}
	tile.HasDust = false
	s.Inv.Dust++
	s.recordAction("clean_tile")
}

// PlaceBuilding starts a structure of the given kind at (x, y). The
// tile must be buildable and the build cost affordable. Placing storage
// onto an existing storage raises its tier instead of failing — storage
// stacks.
func (s *Simulation) PlaceBuilding(x, y int, kind world.BuildingKind) {
	tile := s.Grid.Get(x, y, false)
	if tile == nil || !tile.Owned {
		return
	}

	// Stackable kind: a second storage on the same tile is an upgrade.
	if b := tile.Building; b != nil {
		if kind == world.BuildingStorage && b.Kind == world.BuildingStorage && b.Tier < world.MaxTier {
			cost := econ.BuildCost(kind)
			if !s.spend(cost) {
				return
			}
			b.Tier++
			s.recordAction("place_building")
			s.logEvent("economy", "stacked storage at %s to tier %d", tile.Coord, b.Tier)
		}
		return
	}

	if !tile.Buildable() {
		return
	}
	cost := econ.BuildCost(kind)
	if !s.spend(cost) {
		return
	}
	tile.PlaceBuilding(kind, 0.25)
	s.recordAction("place_building")
	s.logEvent("economy", "started a %s at %s", kind, tile.Coord)
}

// UpgradeBuilding raises the tier of the building at (x, y), capped at
// the maximum tier regardless of available resources. Upgrading also
// nudges damage down — scaffolding fixes things.
func (s *Simulation) UpgradeBuilding(x, y int) {
	tile := s.Grid.Get(x, y, false)
	if tile == nil || tile.Building == nil {
		return
	}
	b := tile.Building
	if b.Tier >= world.MaxTier {
		return
	}
	if !s.spend(econ.UpgradeCost(b.Kind, b.Tier)) {
		return
	}
	b.Tier++
	b.Damage = math.Max(0, b.Damage-0.1)
	s.recordAction("upgrade_building")
	s.logEvent("economy", "upgraded the %s at %s to tier %d", b.Kind, tile.Coord, b.Tier)
}

// DestroyBuilding removes the building at (x, y). No refund.
func (s *Simulation) DestroyBuilding(x, y int) {
	tile := s.Grid.Get(x, y, false)
	if tile == nil || tile.Building == nil {
		return
	}
	kind := tile.Building.Kind
	tile.Building = nil
	s.logEvent("economy", "tore down the %s at %s", kind, tile.Coord)
}

// SellResources converts the entire wood and dust stock to gold at the
// current rates, clamped by the storage ceiling.
func (s *Simulation) SellResources() {
	if s.Inv.Spendable() == 0 {
		return
	}
	gain := float64(s.Inv.Wood*econ.WoodPrice+s.Inv.Dust*econ.DustPrice) * (1 + s.Mods.SellPrice)
	s.Inv.Wood = 0
	s.Inv.Dust = 0
	s.Inv.AddGold(int(math.Round(gain)))
	s.recordAction("sell_resources")
	s.logEvent("economy", "sold the stock at the sell-point")
}

// Sleep skips ahead to morning, the rest-point's sole power.
func (s *Simulation) Sleep() {
	s.Clock.DayTime = 0
}

// spend deducts a combined cost if fully affordable; otherwise leaves
// the inventory untouched.
func (s *Simulation) spend(c econ.Cost) bool {
	if s.Inv.Gold < c.Gold || s.Inv.Wood < c.Wood {
		return false
	}
	s.Inv.Gold -= c.Gold
	s.Inv.Wood -= c.Wood
	return true
}
