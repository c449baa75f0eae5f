package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore persists checkpoint state as a JSON file.
type CheckpointStore struct {
	path string
}

// NewCheckpointStore creates a checkpoint store at the given file path.
func NewCheckpointStore(path string) *CheckpointStore {
	return &CheckpointStore{path: path}
}

// Load reads the checkpoint file. A missing file is a fresh start, not an
// error.
func (s *CheckpointStore) Load(_ context.Context) (domain.CheckpointState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.CheckpointState{}, nil
		}
		return domain.CheckpointState{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var state domain.CheckpointState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.CheckpointState{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return state, nil
}

// Persist atomically replaces the checkpoint file. Last writer wins; the
// coordinator is single-process per run so no merge logic is needed.
func (s *CheckpointStore) Persist(_ context.Context, state domain.CheckpointState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	return writeAtomic(s.path, data)
}
