// Package api serves the homestead over HTTP. GET endpoints are public
// read-only observation; POST endpoints are the player control plane and
// require a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/quillback/homestead/internal/econ"
	"github.com/quillback/homestead/internal/persistence"
	"github.com/quillback/homestead/internal/sim"
	"github.com/quillback/homestead/internal/world"
)

// streamInterval is how often the websocket stream pushes a status frame.
const streamInterval = time.Second

// Server serves the world state over HTTP.
type Server struct {
	Sim      *sim.Simulation
	Eng      *sim.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Save, when set, writes a snapshot on demand. Wired by main so the
	// snapshot path stays out of the handlers.
	Save func() error

	upgrader websocket.Upgrader
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public observation.
		r.Get("/status", s.handleStatus)
		r.Get("/tiles", s.handleTiles)
		r.Get("/workers", s.handleWorkers)
		r.Get("/economy", s.handleEconomy)
		r.Get("/board", s.handleBoard)
		r.Get("/quests", s.handleQuests)
		r.Get("/events", s.handleEvents)
		r.Get("/stats/history", s.handleStatsHistory)
		r.Get("/stream", s.handleStream)

		// Control plane.
		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/speed", s.handleSpeed)
			r.Post("/snapshot", s.handleSnapshot)
			r.Post("/tiles/buy", s.handleBuyTile)
			r.Post("/tiles/chop", s.handleChopTree)
			r.Post("/tiles/clean", s.handleCleanTile)
			r.Post("/buildings/place", s.handlePlaceBuilding)
			r.Post("/buildings/upgrade", s.handleUpgradeBuilding)
			r.Post("/buildings/destroy", s.handleDestroyBuilding)
			r.Post("/sell", s.handleSell)
			r.Post("/sleep", s.handleSleep)
		})
	})

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, r); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires a bearer token on the control plane.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "control endpoints disabled (no HOMESTEAD_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// coordRequest is the shared body of every tile-targeted action.
type coordRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func decodeCoord(w http.ResponseWriter, r *http.Request) (coordRequest, bool) {
	var req coordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) statusPayload() map[string]any {
	friendly, hostile := 0, 0
	for _, w := range s.Sim.Workers {
		if w.Friendly {
			friendly++
		} else {
			hostile++
		}
	}
	return map[string]any{
		"name":    "Homestead",
		"tick":    s.Sim.Ticks,
		"clock":   s.Sim.Clock.String(),
		"season":  sim.SeasonName(s.Sim.Clock.Season()),
		"weather": s.Sim.Sky.String(),
		"speed":   s.Eng.Speed(),
		"running": s.Eng.Running(),
		"gold":    s.Sim.Inv.Gold,
		"gold_max": s.Sim.Inv.GoldMax,
		"wood":    s.Sim.Inv.Wood,
		"dust":    s.Sim.Inv.Dust,
		"tiles":   len(s.Sim.Grid.Tiles),
		"owned":   len(s.Sim.Grid.OwnedTiles()),
		"workers": friendly,
		"raiders": hostile,
		"board":   len(s.Sim.Board.Tasks),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	payload := s.statusPayload()
	s.Sim.Unlock()
	writeJSON(w, payload)
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	type tileEntry struct {
		X          int      `json:"x"`
		Y          int      `json:"y"`
		Owned      bool     `json:"owned"`
		HasTree    bool     `json:"has_tree"`
		TreeSize   *string  `json:"tree_size,omitempty"`
		TreeGrowth *float64 `json:"tree_growth,omitempty"` // Omitted when fully grown
		HasDust    bool     `json:"has_dust,omitempty"`
		Special    string   `json:"special,omitempty"`
		Building   *world.Building `json:"building,omitempty"`
		Fertility  float64  `json:"fertility"`
	}

	s.Sim.Lock()
	tiles := s.Sim.Grid.SortedTiles()
	entries := make([]tileEntry, 0, len(tiles))
	for _, t := range tiles {
		e := tileEntry{
			X:         t.Coord.X,
			Y:         t.Coord.Y,
			Owned:     t.Owned,
			HasTree:   t.HasTree,
			HasDust:   t.HasDust,
			Fertility: t.Fertility,
		}
		if t.HasTree {
			size := t.TreeSize.String()
			e.TreeSize = &size
		}
		if t.TreeGrowth < 1.0 {
			growth := t.TreeGrowth
			e.TreeGrowth = &growth
		}
		if t.Special != world.SpecialNone {
			e.Special = t.Special.String()
		}
		if t.Building != nil {
			b := *t.Building
			e.Building = &b
		}
		entries = append(entries, e)
	}
	s.Sim.Unlock()

	writeJSON(w, entries)
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	type workerEntry struct {
		ID       string  `json:"id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Friendly bool    `json:"friendly"`
		Health   float64 `json:"health"`
		InCombat bool    `json:"in_combat"`
		Task     string  `json:"task,omitempty"`
		Target   *world.Coord `json:"target,omitempty"`
		Chopping float64 `json:"chopping,omitempty"`
		Queued   int     `json:"queued"`
	}

	s.Sim.Lock()
	entries := make([]workerEntry, 0, len(s.Sim.Workers))
	for _, wk := range s.Sim.Workers {
		e := workerEntry{
			ID:       wk.ID.String(),
			X:        wk.X,
			Y:        wk.Y,
			Friendly: wk.Friendly,
			Health:   wk.Health,
			InCombat: wk.InCombat,
			Chopping: wk.Chopping,
			Queued:   len(wk.Queue),
		}
		if wk.Current != nil {
			e.Task = wk.Current.Kind.String()
		}
		if wk.Target != nil {
			c := *wk.Target
			e.Target = &c
		}
		entries = append(entries, e)
	}
	s.Sim.Unlock()

	writeJSON(w, entries)
}

func (s *Server) handleEconomy(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	payload := map[string]any{
		"inventory": s.Sim.Inv,
		"modifiers": s.Sim.Mods,
		"prices": map[string]int{
			"wood":      econ.WoodPrice,
			"dust":      econ.DustPrice,
			"tile_cost": econ.TileCost,
		},
	}
	s.Sim.Unlock()
	writeJSON(w, payload)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	tasks := make([]any, 0, len(s.Sim.Board.Tasks))
	for _, t := range s.Sim.Board.Tasks {
		entry := map[string]any{
			"kind":     t.Kind.String(),
			"weight":   t.Weight,
			"duration": t.Duration,
			"assigned": t.Assigned,
		}
		if t.Target != nil {
			entry["target"] = *t.Target
		}
		tasks = append(tasks, entry)
	}
	s.Sim.Unlock()
	writeJSON(w, tasks)
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	payload := map[string]any{
		"quests": s.Sim.Quests.Quests,
		"active": s.Sim.Quests.ActiveQuest(),
	}
	s.Sim.Unlock()
	writeJSON(w, payload)
}

// handleEvents serves the event history. The in-memory ring is drained
// into SQLite every tick, so the log is the source of record; the ring
// answers only when no database is wired.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if s.DB != nil {
		events, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("event query failed", "error", err)
			http.Error(w, "event query failed", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []sim.Event{}
		}
		writeJSON(w, events)
		return
	}

	s.Sim.Lock()
	events := s.Sim.Events
	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	out := append([]sim.Event(nil), events[start:]...)
	s.Sim.Unlock()

	writeJSON(w, out)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	rows, err := s.DB.RecentStats(limit)
	if err != nil {
		slog.Error("stats history query failed", "error", err)
		rows = []persistence.StatsRow{}
	}
	if rows == nil {
		rows = []persistence.StatsRow{}
	}
	writeJSON(w, rows)
}

// handleStream upgrades to a websocket and pushes a status frame every
// second until the client hangs up.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.Sim.Lock()
		payload := s.statusPayload()
		s.Sim.Unlock()

		if err := conn.WriteJSON(payload); err != nil {
			return
		}
	}
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed must be 0-100", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Save == nil {
		http.Error(w, "snapshots not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.Save(); err != nil {
		slog.Error("on-demand snapshot failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "saved"})
}

func (s *Server) handleBuyTile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCoord(w, r)
	if !ok {
		return
	}
	s.Sim.Lock()
	s.Sim.BuyTile(req.X, req.Y)
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handleChopTree(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCoord(w, r)
	if !ok {
		return
	}
	s.Sim.Lock()
	s.Sim.ChopTree(req.X, req.Y)
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handleCleanTile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCoord(w, r)
	if !ok {
		return
	}
	s.Sim.Lock()
	s.Sim.CleanTile(req.X, req.Y)
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handlePlaceBuilding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X    int    `json:"x"`
		Y    int    `json:"y"`
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	kind, ok := world.ParseBuildingKind(req.Kind)
	if !ok {
		http.Error(w, "unknown building kind", http.StatusBadRequest)
		return
	}
	s.Sim.Lock()
	s.Sim.PlaceBuilding(req.X, req.Y, kind)
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handleUpgradeBuilding(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCoord(w, r)
	if !ok {
		return
	}
	s.Sim.Lock()
	s.Sim.UpgradeBuilding(req.X, req.Y)
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handleDestroyBuilding(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCoord(w, r)
	if !ok {
		return
	}
	s.Sim.Lock()
	s.Sim.DestroyBuilding(req.X, req.Y)
	s.Sim.Unlock()
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	s.Sim.SellResources()
	inv := s.Sim.Inv
	s.Sim.Unlock()
	writeJSON(w, inv)
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	s.Sim.Lock()
	s.Sim.Sleep()
	clock := s.Sim.Clock.String()
	s.Sim.Unlock()
	writeJSON(w, map[string]string{"clock": clock})
}
