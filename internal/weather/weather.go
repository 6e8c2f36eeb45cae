// Package weather provides the seasonal weather roll and its mapping to
// simulation modifiers, plus an optional OpenWeatherMap override that
// lets the homestead mirror real-world conditions.
package weather

import "github.com/quillback/homestead/internal/entropy"

// Kind is the current sky.
type Kind uint8

const (
	Sun Kind = iota
	Rain
	Snow
	Fog
)

// String returns a human-readable name.
func (k Kind) String() string {
	switch k {
	case Rain:
		return "rain"
	case Snow:
		return "snow"
	case Fog:
		return "fog"
	default:
		return "sun"
	}
}

// Roll picks the next weather uniformly. Called on season boundaries.
func Roll(src *entropy.Source) Kind {
	return Kind(src.Intn(4))
}

// SimWeather holds weather-derived simulation modifiers.
type SimWeather struct {
	GrowthMod   float64 // multiplier on tree regrowth
	SpeedMod    float64 // multiplier on worker movement
	Description string
}

// MapToSim converts weather into simulation modifiers: rain feeds the
// soil, snow and fog slow everything down.
func MapToSim(k Kind) SimWeather {
	switch k {
	case Rain:
		return SimWeather{GrowthMod: 1.25, SpeedMod: 0.9, Description: "steady rain"}
	case Snow:
		return SimWeather{GrowthMod: 0.5, SpeedMod: 0.75, Description: "falling snow"}
	case Fog:
		return SimWeather{GrowthMod: 0.9, SpeedMod: 0.9, Description: "thick fog"}
	default:
		return SimWeather{GrowthMod: 1.0, SpeedMod: 1.0, Description: "clear skies"}
	}
}
