// Package journal records executed merges in a local SQLite database so a
// bad merge can be undone later: each entry carries the document ids that
// moved and the source correspondent they came from, which is exactly what
// restore-docs needs to put them back.
//
// Journaling is best-effort by design. A merge that cannot be journaled
// still runs; the caller logs the journal failure and continues, because a
// completed merge with a missing undo record beats an aborted cleanup.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS merges (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMP NOT NULL,
	source_id    INTEGER NOT NULL,
	source_name  TEXT NOT NULL,
	target_id    INTEGER NOT NULL,
	target_name  TEXT NOT NULL,
	document_ids TEXT NOT NULL,
	succeeded    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_merges_created_at ON merges(created_at);
`

// Entry is one recorded merge. DocumentIDs lists the documents that were
// reassigned from the source to the target.
type Entry struct {
	ID          string
	CreatedAt   time.Time
	SourceID    int
	SourceName  string
	TargetID    int
	TargetName  string
	DocumentIDs []int
	Succeeded   bool
}

// Journal is an append-only merge log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// DefaultPath returns the journal location used when neither --journal nor
// PCM_JOURNAL_PATH overrides it: ~/.pcm/journal.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pcm", "journal.db")
	}
	return filepath.Join(home, ".pcm", "journal.db")
}

// Open creates or opens the journal database at path, creating parent
// directories as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one merge to the journal. A missing ID is filled with a
// fresh UUID and a zero CreatedAt with the current time; both are written
// back to e so the caller can report the entry id.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	docIDs, err := json.Marshal(e.DocumentIDs)
	if err != nil {
		return fmt.Errorf("encoding document ids: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO merges (id, created_at, source_id, source_name, target_id, target_name, document_ids, succeeded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CreatedAt, e.SourceID, e.SourceName, e.TargetID, e.TargetName, string(docIDs), e.Succeeded)
	if err != nil {
		return fmt.Errorf("recording merge %s: %w", e.ID, err)
	}
	return nil
}

// List returns recorded merges newest first. A positive limit caps the
// result; zero or negative means no cap.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, created_at, source_id, source_name, target_id, target_name, document_ids, succeeded
		FROM merges
		ORDER BY created_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing merges: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating merges: %w", err)
	}
	return entries, nil
}

// Get returns one entry by id, or sql.ErrNoRows wrapped if it does not
// exist.
func (j *Journal) Get(ctx context.Context, id string) (*Entry, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, created_at, source_id, source_name, target_id, target_name, document_ids, succeeded
		FROM merges
		WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("journal entry %s: %w", id, err)
	}
	return e, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var docIDs string
	err := row.Scan(&e.ID, &e.CreatedAt, &e.SourceID, &e.SourceName, &e.TargetID, &e.TargetName, &docIDs, &e.Succeeded)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(docIDs), &e.DocumentIDs); err != nil {
		return nil, fmt.Errorf("decoding document ids of %s: %w", e.ID, err)
	}
	return &e, nil
}
