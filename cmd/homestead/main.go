// Command homestead runs the autonomous homestead simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quillback/homestead/internal/api"
	"github.com/quillback/homestead/internal/persistence"
	"github.com/quillback/homestead/internal/sim"
	"github.com/quillback/homestead/internal/tuning"
	"github.com/quillback/homestead/internal/weather"
)

func main() {
	configPath := flag.String("config", "tuning.yaml", "path to the tuning file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	tun, err := tuning.Load(*configPath)
	if err != nil {
		slog.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(tun.DBPath), 0o755)
	db, err := persistence.OpenDB(tun.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", tun.DBPath)

	// ── World ─────────────────────────────────────────────────────────
	world := persistence.LoadOrGenerate(tun.SnapshotPath, tun)

	if tun.WeatherAPIKey != "" {
		world.SkyClient = weather.NewClient(tun.WeatherAPIKey, tun.WeatherLocation)
		slog.Info("live weather enabled", "location", tun.WeatherLocation)
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := sim.NewEngine(time.Duration(tun.TickIntervalMs) * time.Millisecond)

	save := func() error {
		world.Lock()
		snap := persistence.Capture(world)
		world.Unlock()
		return persistence.Save(tun.SnapshotPath, snap)
	}

	var sinceSave, sinceSample float64
	eng.OnTick = func(dt float64) {
		world.Lock()
		world.Tick(dt)

		// Drain the event ring into the log so restarts lose nothing.
		events := append([]sim.Event(nil), world.Events...)
		world.Events = world.Events[:0]
		world.Unlock()

		if err := db.SaveEvents(events); err != nil {
			slog.Error("event log write failed", "error", err)
		}

		sinceSample += dt
		if sinceSample >= sim.DayLengthSeconds/24 {
			sinceSample = 0
			world.Lock()
			err := db.SampleStats(world)
			world.Unlock()
			if err != nil {
				slog.Error("stats sample failed", "error", err)
			}
		}

		sinceSave += dt
		if sinceSave >= float64(tun.AutosaveSeconds) {
			sinceSave = 0
			if err := save(); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("HOMESTEAD_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HOMESTEAD_ADMIN_KEY not set, control endpoints disabled")
	}

	apiServer := &api.Server{
		Sim:      world,
		Eng:      eng,
		DB:       db,
		Port:     tun.APIPort,
		AdminKey: adminKey,
		Save:     save,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("Homestead is alive: %d tiles, %d workers.\n",
		len(world.Grid.Tiles), len(world.Workers))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", tun.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final save...")
	if err := save(); err != nil {
		slog.Error("final save failed", "error", err)
	}
	if err := db.SetMeta("last_tick", fmt.Sprintf("%d", world.Ticks)); err != nil {
		slog.Error("meta write failed", "error", err)
	}

	fmt.Println("Simulation stopped. World state saved.")
}
