package memory

import (
	"context"
	"sync"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu    sync.RWMutex
	state *domain.CheckpointState

	// Persists counts Persist calls, for batch crash-safety tests.
	Persists int
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{}
}

// Load returns the stored state, or a fresh empty state when none exists.
func (s *CheckpointStore) Load(_ context.Context) (domain.CheckpointState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return domain.CheckpointState{}, nil
	}

	copied := *s.state
	copied.ProcessedIDs = append([]string(nil), s.state.ProcessedIDs...)
	return copied, nil
}

// Persist replaces the stored state.
func (s *CheckpointStore) Persist(_ context.Context, state domain.CheckpointState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := state
	copied.ProcessedIDs = append([]string(nil), state.ProcessedIDs...)
	s.state = &copied
	s.Persists++
	return nil
}
