// Package persistence provides SQLite storage for render history and golden
// engine values.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/anima-libera/noizebra/internal/golden"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// RenderRecord is one row of render history.
type RenderRecord struct {
	ID        string        `json:"id"`
	Recipe    string        `json:"recipe"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Path      string        `json:"path,omitempty"` // empty for renders served over HTTP
	Bytes     int64         `json:"bytes"`
	Checksum  string        `json:"checksum"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

type renderRow struct {
	ID         string `db:"id"`
	Recipe     string `db:"recipe"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	Path       string `db:"path"`
	Bytes      int64  `db:"bytes"`
	Checksum   string `db:"checksum"`
	DurationMS int64  `db:"duration_ms"`
	CreatedAt  string `db:"created_at"`
}

type goldenRow struct {
	Label     string  `db:"label"`
	Kind      string  `db:"kind"`
	InputJSON string  `db:"input_json"`
	Value     float64 `db:"value"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
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
	CREATE TABLE IF NOT EXISTS renders (
		id TEXT PRIMARY KEY,
		recipe TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		path TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		checksum TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS golden (
		label TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		input_json TEXT NOT NULL,
		value REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
	CREATE INDEX IF NOT EXISTS idx_renders_recipe ON renders(recipe);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordRender appends a render to the history. A missing ID or timestamp is
// filled in; the stored record is returned.
func (db *DB) RecordRender(rec RenderRecord) (RenderRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.Exec(`INSERT INTO renders
		(id, recipe, width, height, path, bytes, checksum, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Recipe, rec.Width, rec.Height, rec.Path, rec.Bytes,
		rec.Checksum, rec.Duration.Milliseconds(), rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return rec, fmt.Errorf("insert render %s: %w", rec.ID, err)
	}
	return rec, nil
}

// RecentRenders returns the most recent renders, newest first.
func (db *DB) RecentRenders(limit int) ([]RenderRecord, error) {
	var rows []renderRow
	err := db.conn.Select(&rows,
		`SELECT id, recipe, width, height, path, bytes, checksum, duration_ms, created_at
		 FROM renders ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select renders: %w", err)
	}

	out := make([]RenderRecord, 0, len(rows))
	for _, r := range rows {
		created, err := time.Parse(timeLayout, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("render %s: parse created_at: %w", r.ID, err)
		}
		out = append(out, RenderRecord{
			ID:        r.ID,
			Recipe:    r.Recipe,
			Width:     r.Width,
			Height:    r.Height,
			Path:      r.Path,
			Bytes:     r.Bytes,
			Checksum:  r.Checksum,
			Duration:  time.Duration(r.DurationMS) * time.Millisecond,
			CreatedAt: created,
		})
	}
	return out, nil
}

// SaveGolden replaces the stored golden values.
func (db *DB) SaveGolden(values []golden.Value) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM golden"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO golden (label, kind, input_json, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range values {
		inputJSON, err := json.Marshal(v.Input)
		if err != nil {
			return fmt.Errorf("marshal golden %s: %w", v.Label, err)
		}
		if _, err := stmt.Exec(v.Label, string(v.Kind), string(inputJSON), v.Value); err != nil {
			return fmt.Errorf("insert golden %s: %w", v.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("golden values saved", "count", len(values))
	return nil
}

// LoadGolden returns the stored golden values ordered by label.
func (db *DB) LoadGolden() ([]golden.Value, error) {
	var rows []goldenRow
	if err := db.conn.Select(&rows, "SELECT label, kind, input_json, value FROM golden ORDER BY label"); err != nil {
		return nil, fmt.Errorf("select golden: %w", err)
	}

	out := make([]golden.Value, 0, len(rows))
	for _, r := range rows {
		var in golden.Input
		if err := json.Unmarshal([]byte(r.InputJSON), &in); err != nil {
			return nil, fmt.Errorf("golden %s: %w", r.Label, err)
		}
		out = append(out, golden.Value{
			Case:  golden.Case{Label: r.Label, Kind: golden.Kind(r.Kind), Input: in},
			Value: r.Value,
		})
	}
	return out, nil
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
