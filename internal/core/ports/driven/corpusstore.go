package driven

import (
	"context"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// CorpusStore persists corpus artifacts.
type CorpusStore interface {
	// LoadRaw reads a raw corpus: an ordered JSON list of raw records.
	LoadRaw(ctx context.Context, path string) ([]domain.RawRecord, error)

	// Load reads a canonical or rewritten corpus artifact.
	// Returns domain.ErrNotFound when no artifact exists at the path.
	Load(ctx context.Context, path string) (*domain.Corpus, error)

	// Save writes a corpus artifact, atomically with respect to the file
	// it replaces.
	Save(ctx context.Context, path string, corpus *domain.Corpus) error
}
