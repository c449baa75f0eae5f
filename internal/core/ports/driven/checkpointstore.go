package driven

import (
	"context"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// CheckpointStore persists rewrite progress. The coordinator is
// single-process per run, so last writer wins and no merge logic exists.
type CheckpointStore interface {
	// Load returns the persisted state, or a fresh empty state when none
	// exists yet. Absence is not an error.
	Load(ctx context.Context) (domain.CheckpointState, error)

	// Persist durably replaces the state, atomically with respect to the
	// artifact it writes.
	Persist(ctx context.Context, state domain.CheckpointState) error
}
