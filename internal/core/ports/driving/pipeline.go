package driving

import (
	"context"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// NormalizeRunner converts a raw corpus into the canonical corpus and
// persists it with aggregate metadata.
type NormalizeRunner interface {
	// Run reads the raw corpus at rawPath, normalises every record and
	// writes the canonical corpus artifact. Returns the written corpus.
	Run(ctx context.Context, rawPath string) (*domain.Corpus, error)
}

// RewriteStatus is a point-in-time snapshot of a running rewrite.
type RewriteStatus struct {
	Running    bool
	BatchIndex int
	BatchCount int
	Attempted  int
	Succeeded  int
	Failed     int
}

// RewriteSummary is the final accounting of one coordinator run.
type RewriteSummary struct {
	// Attempted, Succeeded and Failed count this run's records only.
	Attempted int
	Succeeded int
	Failed    int

	// CompletedTotal is the checkpoint's id count after the run.
	CompletedTotal int

	// EmittedRecords is the number of records in the written artifact.
	EmittedRecords int
}

// RewriteCoordinator runs the concurrent, checkpointed rewriting stage.
// It is re-entrant: repeated invocations converge toward a fully
// rewritten corpus.
type RewriteCoordinator interface {
	// Run attempts every unfinished record once, merges successes and
	// persists the updated corpus and checkpoint.
	Run(ctx context.Context) (*RewriteSummary, error)

	// Status returns a snapshot of the in-flight run for progress display.
	Status() RewriteStatus
}

// Validator gates promotion of a corpus artifact.
type Validator interface {
	// Validate runs all structural and heuristic checks over the corpus.
	// It never mutates its input and never fails the process itself.
	Validate(ctx context.Context, corpus *domain.Corpus) domain.ValidationReport
}
