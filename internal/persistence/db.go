package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/quillback/homestead/internal/sim"
)

// DB wraps a SQLite connection for the append-only side of persistence:
// the event log, daily economy stats, and run metadata. Whole-state
// saves go through snapshots instead.
type DB struct {
	conn *sqlx.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		gold_max INTEGER NOT NULL,
		wood INTEGER NOT NULL,
		dust INTEGER NOT NULL,
		owned_tiles INTEGER NOT NULL,
		workers INTEGER NOT NULL,
		raiders INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_stats_tick ON stats(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEvents appends events to the log.
func (db *DB) SaveEvents(events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// StatsRow is one sampled point of the economy history.
type StatsRow struct {
	Tick       uint64 `db:"tick" json:"tick"`
	Gold       int    `db:"gold" json:"gold"`
	GoldMax    int    `db:"gold_max" json:"gold_max"`
	Wood       int    `db:"wood" json:"wood"`
	Dust       int    `db:"dust" json:"dust"`
	OwnedTiles int    `db:"owned_tiles" json:"owned_tiles"`
	Workers    int    `db:"workers" json:"workers"`
	Raiders    int    `db:"raiders" json:"raiders"`
}

// SampleStats appends one stats row from the simulation. The caller
// holds the simulation lock.
func (db *DB) SampleStats(s *sim.Simulation) error {
	row := StatsRow{
		Tick:       s.Ticks,
		Gold:       s.Inv.Gold,
		GoldMax:    s.Inv.GoldMax,
		Wood:       s.Inv.Wood,
		Dust:       s.Inv.Dust,
		OwnedTiles: len(s.Grid.OwnedTiles()),
	}
	for _, w := range s.Workers {
		if w.Friendly {
			row.Workers++
		} else {
			row.Raiders++
		}
	}

	_, err := db.conn.Exec(`INSERT INTO stats
		(tick, gold, gold_max, wood, dust, owned_tiles, workers, raiders)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Tick, row.Gold, row.GoldMax, row.Wood, row.Dust,
		row.OwnedTiles, row.Workers, row.Raiders,
	)
	return err
}

// RecentStats returns the most recent N stats rows, newest first.
func (db *DB) RecentStats(limit int) ([]StatsRow, error) {
	var rows []StatsRow
	err := db.conn.Select(&rows, `SELECT
		tick, gold, gold_max, wood, dust, owned_tiles, workers, raiders
		FROM stats ORDER BY id DESC LIMIT ?`, limit)
	return rows, err
}

// SetMeta stores a key-value pair in run metadata.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]sim.Event, error) {
	var events []sim.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
