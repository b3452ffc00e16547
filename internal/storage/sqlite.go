// Package storage provides the durable adapters around the core: a SQLite
// trend log and a read-only Postgres source of day records and profiles.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nutrilog/metacore/internal/models"
)

// SQLiteTrendStore persists the per-type activation log in SQLite. It
// satisfies warning.TrendStore.
type SQLiteTrendStore struct {
	db *sql.DB
}

// NewSQLiteTrendStore opens (and initializes if needed) the trend database.
func NewSQLiteTrendStore(dbPath string) (*SQLiteTrendStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteTrendStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close releases the underlying database handle.
func (s *SQLiteTrendStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteTrendStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS trend_log (
        type TEXT NOT NULL,
        date TEXT NOT NULL,
        active INTEGER NOT NULL,
        PRIMARY KEY (type, date)
    );

    CREATE INDEX IF NOT EXISTS idx_trend_log_date ON trend_log(date);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Get returns the full activation log for one warning type, oldest first.
func (s *SQLiteTrendStore) Get(typ models.WarningType) (models.TrendRecord, error) {
	rows, err := s.db.Query(
		`SELECT date, active FROM trend_log WHERE type = ? ORDER BY date`,
		string(typ))
	if err != nil {
		return models.TrendRecord{}, fmt.Errorf("failed to query trend log: %w", err)
	}
	defer rows.Close()

	rec := models.TrendRecord{Type: typ}
	for rows.Next() {
		var entry models.TrendEntry
		var active int
		if err := rows.Scan(&entry.Date, &active); err != nil {
			return models.TrendRecord{}, fmt.Errorf("failed to scan trend entry: %w", err)
		}
		entry.Active = active != 0
		rec.Entries = append(rec.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return models.TrendRecord{}, fmt.Errorf("failed to read trend log: %w", err)
	}

	return rec, nil
}

// Append upserts one day's activation state for a type.
func (s *SQLiteTrendStore) Append(typ models.WarningType, date string, active bool) error {
	activeInt := 0
	if active {
		activeInt = 1
	}
	_, err := s.db.Exec(`
        INSERT INTO trend_log (type, date, active)
        VALUES (?, ?, ?)
        ON CONFLICT(type, date) DO UPDATE SET active = excluded.active`,
		string(typ), date, activeInt)
	if err != nil {
		return fmt.Errorf("failed to upsert trend entry: %w", err)
	}
	return nil
}

// Prune drops entries older than the given date across all types.
func (s *SQLiteTrendStore) Prune(before string) error {
	if _, err := s.db.Exec(`DELETE FROM trend_log WHERE date < ?`, before); err != nil {
		return fmt.Errorf("failed to prune trend log: %w", err)
	}
	return nil
}
