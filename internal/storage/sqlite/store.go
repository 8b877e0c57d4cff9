// Package sqlite is the history store: durable append of classification
// records with descending keyset pagination, bulk delete, and retention
// pruning. All functions operate on a shared *sql.DB; SQLite's own
// transactional guarantees keep writes and deletes atomic with respect
// to each other.
package sqlite

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPageSize is the page size used when callers pass a non-positive one.
const DefaultPageSize = 50

// SentimentRecord is one persisted classification. Text holds the
// tokenized sentence, not the raw user input. Records are never updated,
// only inserted or bulk-deleted.
type SentimentRecord struct {
	ID        int64
	Text      string
	Sentiment string
	Timestamp time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// AUTOINCREMENT keeps the id high-water mark across a DeleteAll, so
	// ids stay strictly increasing in insertion order for the table's
	// whole lifetime.
	schema := `
	CREATE TABLE IF NOT EXISTS sentiments (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		text      TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sentiments_timestamp ON sentiments(timestamp);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InsertSentiment(db *sql.DB, text, sentiment string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO sentiments (text, sentiment) VALUES (?, ?)`,
		text, sentiment,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PageRecords returns up to pageSize records newest-first. A lastID <= 0
// anchors the first page (most recent records); otherwise only records
// with id < lastID are returned. Keyset anchoring keeps already-returned
// pages stable under concurrent inserts.
func PageRecords(db *sql.DB, lastID int64, pageSize int) ([]SentimentRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var rows *sql.Rows
	var err error
	if lastID > 0 {
		rows, err = db.Query(
			`SELECT id, text, sentiment, timestamp FROM sentiments
			 WHERE id < ? ORDER BY id DESC LIMIT ?`,
			lastID, pageSize,
		)
	} else {
		rows, err = db.Query(
			`SELECT id, text, sentiment, timestamp FROM sentiments
			 ORDER BY id DESC LIMIT ?`,
			pageSize,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SentimentRecord
	for rows.Next() {
		var r SentimentRecord
		if err := rows.Scan(&r.ID, &r.Text, &r.Sentiment, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func HasMoreRecords(db *sql.DB, lastID int64) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sentiments WHERE id < ?`, lastID).Scan(&count)
	return count > 0, err
}

func CountRecords(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sentiments`).Scan(&count)
	return count, err
}

// TotalPages reports ceil(count/pageSize), minimum 1 even when empty.
func TotalPages(db *sql.DB, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	count, err := CountRecords(db)
	if err != nil {
		return 0, err
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages, nil
}

func DeleteAllRecords(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM sentiments`)
	return err
}

// DeleteRecordsBefore removes records older than cutoff and reports how
// many were deleted. Used by the retention scheduler.
func DeleteRecordsBefore(db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM sentiments WHERE timestamp < datetime(?)`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
