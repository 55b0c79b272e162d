// Package store database for app settings and the fetch log
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	DefaultPhotoLimit             = 20
	DefaultRefreshIntervalSeconds = 3600
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS app_settings (
		singleton INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		photo_limit              INTEGER NOT NULL,
		refresh_interval_seconds INTEGER NOT NULL,
		PRIMARY KEY (singleton)
	);
	CREATE TABLE IF NOT EXISTS fetch_log (
		id          TEXT NOT NULL PRIMARY KEY,
		source      TEXT NOT NULL,
		started_at  INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		photo_count INTEGER NOT NULL,
		error       TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_fetch_log_started_at ON fetch_log(started_at);
	`
	_, err := d.db.Exec(query)
	return err
}

func (d *Database) GetAppSettings() (*AppSettings, error) {
	const query = `
		SELECT photo_limit,
		       refresh_interval_seconds
		FROM app_settings
		WHERE singleton = 1
	`

	var settings AppSettings
	err := d.db.QueryRow(query).Scan(&settings.PhotoLimit, &settings.RefreshIntervalSeconds)
	if err == sql.ErrNoRows {
		// Bootstrap defaults if no settings row exists yet
		defaults := &AppSettings{
			PhotoLimit:             DefaultPhotoLimit,
			RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		}
		if err := d.UpsertAppSettings(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}

	return &settings, nil
}

func (d *Database) UpsertAppSettings(s *AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			photo_limit,
			refresh_interval_seconds
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			photo_limit              = excluded.photo_limit,
			refresh_interval_seconds = excluded.refresh_interval_seconds
	`

	_, err := d.db.Exec(stmt, s.PhotoLimit, s.RefreshIntervalSeconds)
	if err != nil {
		return fmt.Errorf("upsert app settings: %w", err)
	}
	return nil
}

// SeedAppSettings stores s only when no settings row exists yet, so settings
// changed through the api survive restarts.
func (d *Database) SeedAppSettings(s *AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			photo_limit,
			refresh_interval_seconds
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO NOTHING
	`

	if _, err := d.db.Exec(stmt, s.PhotoLimit, s.RefreshIntervalSeconds); err != nil {
		return fmt.Errorf("seed app settings: %w", err)
	}
	return nil
}

// InsertFetchRecord stores r, assigning it a new id when it has none.
func (d *Database) InsertFetchRecord(r *FetchRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	query := `INSERT INTO fetch_log (id, source, started_at, duration_ms, photo_count, error) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query, r.ID, r.Source, r.StartedAt.UnixMilli(), r.DurationMs, r.PhotoCount, r.Error)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}
	return nil
}

// GetFetchRecords returns up to limit records, newest first.
func (d *Database) GetFetchRecords(limit int) ([]FetchRecord, error) {
	query := `
		SELECT id, source, started_at, duration_ms, photo_count, error
		FROM fetch_log
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch log: %w", err)
	}
	defer rows.Close()

	records := []FetchRecord{}
	for rows.Next() {
		var r FetchRecord
		var startedAt int64
		if err := rows.Scan(&r.ID, &r.Source, &startedAt, &r.DurationMs, &r.PhotoCount, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func (d *Database) GetFetchCount() (int, error) {
	query := `SELECT COUNT(*) FROM fetch_log`
	var count int
	err := d.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get fetch count: %w", err)
	}
	return count, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
