// Day and season clocks. A sim-day is 24 real minutes; each season is a
// quarter of a day, four seasons to a year.
package sim

import (
	"fmt"
	"math"
)

const (
	// DayLengthSeconds is one full day/night cycle.
	DayLengthSeconds = 24 * 60

	// SeasonLengthSeconds is one season.
	SeasonLengthSeconds = DayLengthSeconds / 4
)

// Season indices.
const (
	SeasonSpring = 0
	SeasonSummer = 1
	SeasonAutumn = 2
	SeasonWinter = 3
)

// SeasonName returns a human-readable season name.
func SeasonName(season int) string {
	switch season {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// Clock tracks time-of-day and season progression.
type Clock struct {
	DayTime    float64 `json:"day_time"`    // seconds into the current day
	SeasonTime float64 `json:"season_time"` // seconds into the current year
}

// Advance moves both clocks forward and reports boundary crossings.
// seasonRolled triggers the weather re-roll.
func (c *Clock) Advance(dt float64) (dayRolled, seasonRolled bool) {
	c.DayTime += dt
	if c.DayTime >= DayLengthSeconds {
		c.DayTime = math.Mod(c.DayTime, DayLengthSeconds)
		dayRolled = true
	}
	c.SeasonTime = math.Mod(c.SeasonTime+dt, SeasonLengthSeconds*4)
	if math.Mod(c.SeasonTime, SeasonLengthSeconds) < dt {
		seasonRolled = true
	}
	return
}

// DayFraction returns progress through the current day in [0, 1).
func (c Clock) DayFraction() float64 {
	return c.DayTime / DayLengthSeconds
}

// Season returns the current season index.
func (c Clock) Season() int {
	return int(c.SeasonTime/SeasonLengthSeconds) % 4
}

// String returns a human-readable clock reading. The 24-minute day maps
// onto a 24-hour face.
func (c Clock) String() string {
	frac := c.DayFraction() * 24
	h := int(frac)
	m := int((frac - float64(h)) * 60)
	return fmt.Sprintf("%s %02d:%02d", SeasonName(c.Season()), h, m)
}
