package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngineTicksAndStops(t *testing.T) {
	eng := NewEngine(time.Millisecond)

	var ticks atomic.Int64
	var lastDT atomic.Value
	eng.OnTick = func(dt float64) {
		ticks.Add(1)
		lastDT.Store(dt)
	}

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 },
		time.Second, time.Millisecond)
	assert.True(t, eng.Running())

	eng.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
	assert.False(t, eng.Running())

	// dt = interval scaled by speed.
	assert.InDelta(t, 0.001, lastDT.Load().(float64), 1e-9)
}

func TestEngineDefaultsInterval(t *testing.T) {
	eng := NewEngine(0)
	assert.Equal(t, 250*time.Millisecond, eng.Interval)
	assert.Equal(t, 1.0, eng.Speed())
}

func TestSpeedAdjustableWhileRunning(t *testing.T) {
	eng := NewEngine(time.Millisecond)

	var ticks atomic.Int64
	eng.OnTick = func(dt float64) { ticks.Add(1) }

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()

	// Hammer the speed knob from another goroutine while the loop reads
	// it. The race detector is the real assertion here.
	for i := 0; i < 100; i++ {
		eng.SetSpeed(float64(i%4) + 1)
	}
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 },
		time.Second, time.Millisecond)

	eng.SetSpeed(7.5)
	assert.Equal(t, 7.5, eng.Speed())

	eng.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}
