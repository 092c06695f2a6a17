// Package history keeps a local record of dashboard activity so the feed
// survives restarts and recent symbols can seed suggestions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

const dbFile = ".mmtrader/history.db"

// DB wraps the activity history database.
type DB struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS activity (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_ts ON activity(ts DESC);
`

// Open opens (creating if needed) the history database under baseDir.
func Open(baseDir string) (*DB, error) {
	path := filepath.Join(baseDir, dbFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// WAL lets the dashboard read the feed while the stream appends.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	conn.Exec("PRAGMA busy_timeout=500")

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Append records one activity item.
func (db *DB) Append(item models.ActivityItem) error {
	ts := item.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := db.conn.Exec(
		"INSERT INTO activity (ts, kind, symbol, message) VALUES (?, ?, ?, ?)",
		ts.UnixMilli(), item.Kind, item.Symbol, item.Message,
	)
	return err
}

// Recent returns up to limit items, newest first.
func (db *DB) Recent(limit int) ([]models.ActivityItem, error) {
	rows, err := db.conn.Query(
		"SELECT ts, kind, symbol, message FROM activity ORDER BY ts DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		var (
			ts   int64
			item models.ActivityItem
		)
		if err := rows.Scan(&ts, &item.Kind, &item.Symbol, &item.Message); err != nil {
			return nil, err
		}
		item.Timestamp = time.UnixMilli(ts)
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentSymbols returns distinct symbols from recent activity, most
// recently seen first.
func (db *DB) RecentSymbols(limit int) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT symbol FROM activity WHERE symbol != '' GROUP BY symbol ORDER BY MAX(ts) DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Prune deletes everything but the newest keep items.
func (db *DB) Prune(keep int) error {
	_, err := db.conn.Exec(
		"DELETE FROM activity WHERE id NOT IN (SELECT id FROM activity ORDER BY ts DESC, id DESC LIMIT ?)", keep)
	return err
}
