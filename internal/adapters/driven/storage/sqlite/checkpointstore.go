// Package sqlite provides a SQLite-backed checkpoint store.
// It is an alternative to the default JSON file backend for deployments
// that already keep pipeline state in a database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// defaultName is the checkpoint row key. A single pipeline keeps one
// checkpoint; the name column leaves room for parallel corpora later.
const defaultName = "rewrite"

// CheckpointStore persists checkpoint state in a SQLite database.
type CheckpointStore struct {
	db   *sql.DB
	name string
}

// NewCheckpointStore opens (and if necessary creates) the database at
// dbPath and ensures the checkpoint table exists.
func NewCheckpointStore(dbPath string) (*CheckpointStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for crash safety of the per-batch flush
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS checkpoints (
		name             TEXT PRIMARY KEY,
		processed_ids    TEXT NOT NULL,
		last_batch_index INTEGER NOT NULL,
		started_at       TEXT NOT NULL,
		last_updated_at  TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating checkpoint table: %w", err)
	}

	return &CheckpointStore{db: db, name: defaultName}, nil
}

// Load reads the checkpoint row. A missing row is a fresh start.
func (s *CheckpointStore) Load(ctx context.Context) (domain.CheckpointState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT processed_ids, last_batch_index, started_at, last_updated_at
		 FROM checkpoints WHERE name = ?`, s.name)

	var (
		idsJSON    string
		batchIndex int
		startedAt  string
		updatedAt  string
	)
	if err := row.Scan(&idsJSON, &batchIndex, &startedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CheckpointState{}, nil
		}
		return domain.CheckpointState{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var state domain.CheckpointState
	if err := json.Unmarshal([]byte(idsJSON), &state.ProcessedIDs); err != nil {
		return domain.CheckpointState{}, fmt.Errorf("decode processed ids: %w", err)
	}
	state.LastBatchIndex = batchIndex

	var err error
	if state.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return domain.CheckpointState{}, fmt.Errorf("parse started_at: %w", err)
	}
	if state.LastUpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.CheckpointState{}, fmt.Errorf("parse last_updated_at: %w", err)
	}
	return state, nil
}

// Persist upserts the checkpoint row. The single-statement upsert is
// atomic; last writer wins.
func (s *CheckpointStore) Persist(ctx context.Context, state domain.CheckpointState) error {
	idsJSON, err := json.Marshal(state.ProcessedIDs)
	if err != nil {
		return fmt.Errorf("encode processed ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (name, processed_ids, last_batch_index, started_at, last_updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			processed_ids = excluded.processed_ids,
			last_batch_index = excluded.last_batch_index,
			last_updated_at = excluded.last_updated_at`,
		s.name,
		string(idsJSON),
		state.LastBatchIndex,
		state.StartedAt.UTC().Format(time.RFC3339Nano),
		state.LastUpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}
