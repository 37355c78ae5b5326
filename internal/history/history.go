// Package history persists trim runs to a SQLite ledger.
//
// DESIGN: One row per reduction with before/after sizes and token
// savings. The ledger answers two questions: what happened recently, and
// how much has been saved in total. Recording is best-effort from the
// caller's point of view — a failed insert is logged by the caller, never
// fatal to the trim itself.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one persisted trim run.
type Record struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Source           string    `json:"source"` // "api", "body", "stream", "cli"
	Language         string    `json:"language"`
	Stemmer          string    `json:"stemmer"`
	OriginalChars    int       `json:"original_chars"`
	CompressedChars  int       `json:"compressed_chars"`
	OriginalWords    int       `json:"original_words"`
	CompressedWords  int       `json:"compressed_words"`
	OriginalTokens   int       `json:"original_tokens"`
	CompressedTokens int       `json:"compressed_tokens"`
	TokensSaved      int       `json:"tokens_saved"`
}

// Totals aggregates the ledger.
type Totals struct {
	Runs        int64 `json:"runs"`
	CharsSaved  int64 `json:"chars_saved"`
	TokensSaved int64 `json:"tokens_saved"`
}

// Ledger wraps the SQLite database.
type Ledger struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS trim_runs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	ts                TEXT NOT NULL,
	source            TEXT NOT NULL,
	language          TEXT NOT NULL,
	stemmer           TEXT NOT NULL DEFAULT '',
	original_chars    INTEGER NOT NULL,
	compressed_chars  INTEGER NOT NULL,
	original_words    INTEGER NOT NULL,
	compressed_words  INTEGER NOT NULL,
	original_tokens   INTEGER NOT NULL DEFAULT 0,
	compressed_tokens INTEGER NOT NULL DEFAULT 0,
	tokens_saved      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_trim_runs_ts ON trim_runs(ts);
`

// Open opens (or creates) the ledger at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	// Single writer; SQLite locks the file anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record inserts one trim run.
func (l *Ledger) Record(ctx context.Context, r Record) error {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO trim_runs (
			ts, source, language, stemmer,
			original_chars, compressed_chars, original_words, compressed_words,
			original_tokens, compressed_tokens, tokens_saved
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano), r.Source, r.Language, r.Stemmer,
		r.OriginalChars, r.CompressedChars, r.OriginalWords, r.CompressedWords,
		r.OriginalTokens, r.CompressedTokens, r.TokensSaved,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, ts, source, language, stemmer,
			original_chars, compressed_chars, original_words, compressed_words,
			original_tokens, compressed_tokens, tokens_saved
		FROM trim_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Source, &r.Language, &r.Stemmer,
			&r.OriginalChars, &r.CompressedChars, &r.OriginalWords, &r.CompressedWords,
			&r.OriginalTokens, &r.CompressedTokens, &r.TokensSaved); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			r.Timestamp = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals aggregates across the whole ledger.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(MAX(original_chars - compressed_chars, 0)), 0),
			COALESCE(SUM(tokens_saved), 0)
		FROM trim_runs`).Scan(&t.Runs, &t.CharsSaved, &t.TokensSaved)
	if err != nil {
		return Totals{}, fmt.Errorf("history: totals: %w", err)
	}
	return t, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
