// Package world provides the sparse tile map: ownership, vegetation,
// contamination, buildings, and the frontier buffer around owned land.
package world

import "fmt"

// Coord identifies a tile by integer grid position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbors returns the four orthogonally adjacent coordinates.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
	}
}

// String returns "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// TreeSize classifies a standing tree.
type TreeSize uint8

const (
	TreeSmall TreeSize = iota
	TreeMedium
	TreeLarge
)

// Felling durations in sim-seconds per tree size.
const (
	SmallChopSeconds  = 5.0
	MediumChopSeconds = 7.0
	LargeChopSeconds  = 10.0
)

// ChopDuration returns how long felling this size takes.
func (t TreeSize) ChopDuration() float64 {
	switch t {
	case TreeMedium:
		return MediumChopSeconds
	case TreeLarge:
		return LargeChopSeconds
	default:
		return SmallChopSeconds
	}
}

// WoodYield returns the wood gained from felling this size.
func (t TreeSize) WoodYield() int {
	switch t {
	case TreeMedium:
		return 2
	case TreeLarge:
		return 3
	default:
		return 1
	}
}

// WeightBonus returns the scheduling weight bonus for this size.
// Bigger trees are worth walking further for.
func (t TreeSize) WeightBonus() float64 {
	switch t {
	case TreeMedium:
		return 0.4
	case TreeLarge:
		return 0.8
	default:
		return 0
	}
}

// String returns a human-readable size name.
func (t TreeSize) String() string {
	switch t {
	case TreeMedium:
		return "medium"
	case TreeLarge:
		return "large"
	default:
		return "small"
	}
}

// Special marks fixed world fixtures placed at generation time.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialSellPoint
	SpecialRestPoint
	SpecialQuestGiver
	SpecialGuide
)

// String returns a human-readable fixture name.
func (s Special) String() string {
	switch s {
	case SpecialSellPoint:
		return "sell_point"
	case SpecialRestPoint:
		return "rest_point"
	case SpecialQuestGiver:
		return "quest_giver"
	case SpecialGuide:
		return "guide"
	default:
		return "none"
	}
}

// EventKind tags a transient narrative marker on a tile.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventFriend     // a friendly lumberjack joins
	EventGoldenTree // a large tree appears
	EventRaider     // a hostile raider appears
)

// BuildingKind enumerates placeable structures.
type BuildingKind uint8

const (
	BuildingStorage BuildingKind = iota // raises the gold ceiling; stacks by tier
	BuildingGreenhouse                  // growth-speed bonus
	BuildingSawmill                     // wood-yield bonus
	BuildingMarket                      // sell-price bonus
	BuildingWorkshop                    // worker-speed bonus
)

// NumBuildingKinds is the count of building kinds.
const NumBuildingKinds = 5

// MaxTier is the upgrade ceiling for any building.
const MaxTier = 12

// String returns a human-readable building name.
func (k BuildingKind) String() string {
	switch k {
	case BuildingStorage:
		return "storage"
	case BuildingGreenhouse:
		return "greenhouse"
	case BuildingSawmill:
		return "sawmill"
	case BuildingMarket:
		return "market"
	case BuildingWorkshop:
		return "workshop"
	default:
		return "unknown"
	}
}

// ParseBuildingKind maps a name back to its kind.
func ParseBuildingKind(name string) (BuildingKind, bool) {
	switch name {
	case "storage":
		return BuildingStorage, true
	case "greenhouse":
		return BuildingGreenhouse, true
	case "sawmill":
		return BuildingSawmill, true
	case "market":
		return BuildingMarket, true
	case "workshop":
		return BuildingWorkshop, true
	}
	return 0, false
}

// Building is a structure standing on a tile.
type Building struct {
	Kind     BuildingKind `json:"kind"`
	Tier     int          `json:"tier"`     // 1..MaxTier
	Damage   float64      `json:"damage"`   // 0 (pristine) .. 1 (ruined)
	Progress float64      `json:"progress"` // construction completion, 0..1
}

// Built reports whether construction has finished.
func (b *Building) Built() bool {
	return b != nil && b.Progress >= 0.99
}

// Tile holds the full state of one grid cell. A tile never holds a tree
// and a building at the same time; the mutators below maintain that.
type Tile struct {
	Coord      Coord     `json:"coord"`
	Owned      bool      `json:"owned"`
	HasTree    bool      `json:"has_tree"`
	TreeSize   TreeSize  `json:"tree_size"`
	TreeGrowth float64   `json:"tree_growth"` // 0..1, regrowth toward the next tree
	HasDust    bool      `json:"has_dust"`    // contamination
	Special    Special   `json:"special,omitempty"`
	Event      EventKind `json:"event,omitempty"`
	Building   *Building `json:"building,omitempty"`
	Fertility  float64   `json:"fertility"` // 0..1 noise field, scales tree spawn odds
}

// PlantTree places a tree of the given size. No-op if a building stands here.
func (t *Tile) PlantTree(size TreeSize) {
	if t.Building != nil {
		return
	}
	t.HasTree = true
	t.TreeSize = size
	t.TreeGrowth = 1.0
}

// ClearTree removes the tree and resets regrowth.
func (t *Tile) ClearTree() {
	t.HasTree = false
	t.TreeGrowth = 0
}

// PlaceBuilding puts a new building on the tile. No-op if a tree stands here.
func (t *Tile) PlaceBuilding(kind BuildingKind, initialProgress float64) {
	if t.HasTree {
		return
	}
	t.Building = &Building{Kind: kind, Tier: 1, Progress: initialProgress}
}

/// Buildable reports whether a structure may be placed here: owned, empty
// ground with no fixture, tree, dust, or existing building.
func (t *Tile) Buildable() bool {
	return t.Owned && !t.HasTree && !t.HasDust && t.Special == SpecialNone && t.Building == nil
}

// Clone returns a copy with its own building, sharing no memory with
// the live tile.
func (t *Tile) Clone() Tile {
	out := *t
	if t.Building != nil {
		b := *t.Building
		out.Building = &b
	}
	return out
}
