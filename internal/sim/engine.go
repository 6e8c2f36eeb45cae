// The tick loop driving the simulation at a fixed real-time cadence.
package sim

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// Engine drives the simulation forward on a fixed interval. Speed
// scales how much sim-time each tick covers and may be adjusted from
// other goroutines while the loop runs.
type Engine struct {
	Interval time.Duration // Base tick interval

	// OnTick runs every tick with the sim-seconds to advance.
	OnTick func(dt float64)

	speed   atomic.Uint64 // float64 bits
	running atomic.Bool
}

// NewEngine creates an engine with default settings.
func NewEngine(interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	e := &Engine{Interval: interval}
	e.SetSpeed(1.0)
	return e
}

// Speed returns the current time multiplier: 1.0 = real-time, 0 = paused.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the time multiplier. Takes effect on the next tick.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(v))
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the tick loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("engine started", "interval", e.Interval, "speed", e.Speed())

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		if e.OnTick != nil {
			e.OnTick(e.Interval.Seconds() * speed)
		}

		// Sleep out the remainder of the interval.
		if elapsed := time.Since(start); elapsed < e.Interval {
			time.Sleep(e.Interval - elapsed)
		}
	}

	slog.Info("engine stopped")
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.running.Store(false)
}
