// Package tuning loads operational knobs from a YAML file, with
// compiled-in defaults for anything the file leaves out.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the operational parameters of a run. Balance constants
// live next to the systems they tune; this is the deployment surface.
type Tuning struct {
	Seed            int64   `yaml:"seed"`             // 0 = random
	TickIntervalMs  int     `yaml:"tick_interval_ms"` // real time per tick
	AutosaveSeconds int     `yaml:"autosave_seconds"` // sim-seconds between snapshot writes
	SnapshotPath    string  `yaml:"snapshot_path"`
	DBPath          string  `yaml:"db_path"`
	APIPort         int     `yaml:"api_port"`
	WeatherAPIKey   string  `yaml:"weather_api_key"` // OpenWeatherMap override, optional
	WeatherLocation string  `yaml:"weather_location"`
	InitialGrid     int     `yaml:"initial_grid"`
	InitialTreeProb float64 `yaml:"initial_tree_prob"`
}

// Default returns the standard run configuration.
func Default() Tuning {
	return Tuning{
		Seed:            0,
		TickIntervalMs:  250,
		AutosaveSeconds: 60,
		SnapshotPath:    "data/homestead.save",
		DBPath:          "data/homestead.db",
		APIPort:         8080,
		InitialGrid:     6,
		InitialTreeProb: 0.12,
	}
}

// Load reads a YAML tuning file over the defaults. A missing path is
// not an error — the defaults stand.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
