package driven

import (
	"context"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// RewriteRequest carries everything the backend needs to paraphrase one
// record. Option count and answer kind are included so the backend prompt
// can forbid changes that would break the record's structure.
type RewriteRequest struct {
	RecordID    string
	Question    string
	Explanation string
	AnswerKind  domain.AnswerKind
	OptionCount int
}

// RewriteService is the external text-generation backend invoked once per
// record. Calls are independent; implementations must be safe for
// concurrent use.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI (GPT-4 class models)
type RewriteService interface {
	// Rewrite produces a semantically equivalent paraphrase of the request's
	// question and explanation. An error means this record failed; the
	// caller decides whether and when to retry.
	Rewrite(ctx context.Context, req RewriteRequest) (domain.RewriteResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup before committing to a run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
