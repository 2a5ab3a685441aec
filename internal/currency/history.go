package currency

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryStore appends every fetched exchange rate to a small standalone
// SQLite file, kept apart from the journal database.
type HistoryStore struct {
	db *sql.DB
}

// RateRecord is one observed exchange rate.
type RateRecord struct {
	ID        int64     `json:"id"`
	Base      string    `json:"base"`
	Display   string    `json:"display"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}

const historySchema = `
CREATE TABLE IF NOT EXISTS rate_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	base TEXT NOT NULL,
	display TEXT NOT NULL,
	rate REAL NOT NULL,
	fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rate_history_pair ON rate_history(base, display, fetched_at);
`

func NewHistoryStore(path string) (*HistoryStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("rate history path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing rate history schema failed: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (h *HistoryStore) Append(ctx context.Context, base, display string, rate float64, fetchedAt time.Time) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO rate_history (base, display, rate, fetched_at) VALUES (?, ?, ?, ?)`,
		base, display, rate, fetchedAt.UTC().UnixMilli())
	return err
}

// Recent returns the latest observations for a pair, newest first.
func (h *HistoryStore) Recent(ctx context.Context, base, display string, limit int) ([]RateRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, base, display, rate, fetched_at FROM rate_history
		 WHERE base = ? AND display = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`,
		base, display, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []RateRecord
	for rows.Next() {
		var rec RateRecord
		var fetchedAt int64
		if err := rows.Scan(&rec.ID, &rec.Base, &rec.Display, &rec.Rate, &fetchedAt); err != nil {
			return nil, err
		}
		rec.FetchedAt = time.UnixMilli(fetchedAt).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}
