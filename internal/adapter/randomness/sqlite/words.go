package sqlitewords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"actionforge/internal/domain/queue"

	_ "modernc.org/sqlite"
)

// Index is a local index of revealed random words keyed by reveal time. A
// word revealed at t serves every draw for an action that ended before t.
type Index struct {
	db *sql.DB
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS random_words (
  revealed_at INTEGER PRIMARY KEY,
  word BLOB NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create random_words: %w", err)
	}
	return &Index{db: db}, nil
}

func (x *Index) Close() error {
	if x == nil || x.db == nil {
		return nil
	}
	return x.db.Close()
}

// Publish records word as revealed at the given second. Publishing the same
// second twice keeps the first word.
func (x *Index) Publish(ctx context.Context, revealedAt int64, word queue.Word) error {
	_, err := x.db.ExecContext(ctx,
		`INSERT INTO random_words(revealed_at, word) VALUES (?, ?) ON CONFLICT(revealed_at) DO NOTHING`,
		revealedAt, word[:])
	if err != nil {
		return fmt.Errorf("publish word at %d: %w", revealedAt, err)
	}
	return nil
}

func (x *Index) WordFor(ctx context.Context, ts int64) (queue.Word, bool, error) {
	var raw []byte
	err := x.db.QueryRowContext(ctx,
		`SELECT word FROM random_words WHERE revealed_at > ? ORDER BY revealed_at ASC LIMIT 1`, ts).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return queue.Word{}, false, nil
	}
	if err != nil {
		return queue.Word{}, false, fmt.Errorf("word after %d: %w", ts, err)
	}
	var w queue.Word
	if len(raw) != len(w) {
		return queue.Word{}, false, fmt.Errorf("word after %d: stored %d bytes", ts, len(raw))
	}
	copy(w[:], raw)
	return w, true, nil
}

// Latest returns the newest reveal time, or false on an empty index.
func (x *Index) Latest(ctx context.Context) (int64, bool, error) {
	var at sql.NullInt64
	if err := x.db.QueryRowContext(ctx, `SELECT MAX(revealed_at) FROM random_words`).Scan(&at); err != nil {
		return 0, false, err
	}
	return at.Int64, at.Valid, nil
}
