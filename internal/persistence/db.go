// Package persistence provides SQLite-based storage for placed maps.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/solenne/mapforge/internal/export"
	"github.com/solenne/mapforge/internal/placement"
)

// ErrNotFound is returned when a requested map does not exist.
var ErrNotFound = errors.New("map not found")

// DB wraps a SQLite connection for map storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
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
	CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		seed INTEGER NOT NULL,
		theme TEXT NOT NULL DEFAULT '',
		engine TEXT NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL REFERENCES maps(id),
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		x REAL NOT NULL,
		y REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_locations_map ON locations(map_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMap writes a map document and its locations (full replace by map id).
func (db *DB) SaveMap(doc export.Document) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM locations WHERE map_id = ?", doc.Metadata.MapID); err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO maps
		(id, name, width, height, seed, theme, engine, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Metadata.MapID, doc.Settings.Name, doc.Settings.Width, doc.Settings.Height,
		doc.Settings.Seed, doc.Settings.Theme, doc.Metadata.Engine,
		doc.Metadata.GeneratedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert map %s: %w", doc.Metadata.MapID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO locations
		(id, map_id, type, name, description, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, loc := range doc.Locations {
		_, err := stmt.Exec(loc.ID, doc.Metadata.MapID, loc.Type.String(),
			loc.Name, loc.Description, loc.X, loc.Y)
		if err != nil {
			return fmt.Errorf("insert location %s: %w", loc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("map saved", "id", doc.Metadata.MapID, "locations", len(doc.Locations))
	return nil
}

// LoadMap reads a map document back by id.
func (db *DB) LoadMap(id string) (export.Document, error) {
	var mapRow struct {
		ID          string  `db:"id"`
		Name        string  `db:"name"`
		Width       float64 `db:"width"`
		Height      float64 `db:"height"`
		Seed        int64   `db:"seed"`
		Theme       string  `db:"theme"`
		Engine      string  `db:"engine"`
		GeneratedAt string  `db:"generated_at"`
	}
	err := db.conn.Get(&mapRow, "SELECT * FROM maps WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return export.Document{}, ErrNotFound
	}
	if err != nil {
		return export.Document{}, fmt.Errorf("load map %s: %w", id, err)
	}

	var locRows []struct {
		ID          string  `db:"id"`
		MapID       string  `db:"map_id"`
		Type        string  `db:"type"`
		Name        string  `db:"name"`
		Description string  `db:"description"`
		X           float64 `db:"x"`
		Y           float64 `db:"y"`
	}
	if err := db.conn.Select(&locRows, "SELECT * FROM locations WHERE map_id = ? ORDER BY rowid", id); err != nil {
		return export.Document{}, fmt.Errorf("load locations for %s: %w", id, err)
	}

	locations := make([]placement.PlacedLocation, 0, len(locRows))
	for _, row := range locRows {
		t, err := placement.ParseLocationType(row.Type)
		if err != nil {
			return export.Document{}, fmt.Errorf("location %s: %w", row.ID, err)
		}
		locations = append(locations, placement.PlacedLocation{
			ID:          row.ID,
			Type:        t,
			Name:        row.Name,
			Description: row.Description,
			X:           row.X,
			Y:           row.Y,
		})
	}

	generatedAt, err := time.Parse(time.RFC3339Nano, mapRow.GeneratedAt)
	if err != nil {
		return export.Document{}, fmt.Errorf("parse generated_at for %s: %w", id, err)
	}

	return export.Document{
		Settings: export.Settings{
			Name:   mapRow.Name,
			Width:  mapRow.Width,
			Height: mapRow.Height,
			Seed:   mapRow.Seed,
			Theme:  mapRow.Theme,
		},
		Locations: locations,
		Metadata: export.Metadata{
			MapID:         mapRow.ID,
			GeneratedAt:   generatedAt,
			Engine:        mapRow.Engine,
			LocationCount: len(locations),
		},
	}, nil
}

// MapSummary is a listing row for saved maps.
type MapSummary struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Width       float64 `db:"width" json:"width"`
	Height      float64 `db:"height" json:"height"`
	Locations   int     `db:"location_count" json:"location_count"`
	GeneratedAt string  `db:"generated_at" json:"generated_at"`
}

// ListMaps returns the most recently generated maps.
func (db *DB) ListMaps(limit int) ([]MapSummary, error) {
	var rows []MapSummary
	err := db.conn.Select(&rows, `
		SELECT m.id, m.name, m.width, m.height, m.generated_at,
		       COUNT(l.id) AS location_count
		FROM maps m
		LEFT JOIN locations l ON l.map_id = m.id
		GROUP BY m.id
		ORDER BY m.generated_at DESC
		LIMIT ?`, limit)
	return rows, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
