package domain

// RewriteResult is the parsed output of one rewriting backend call.
// It is never persisted standalone; the coordinator merges it into the
// matching CanonicalRecord at the end of a run.
type RewriteResult struct {
	// RecordID links the result to its record.
	RecordID string

	// Question is the rewritten plain-text question.
	Question string

	// Explanation is the rewritten plain-text explanation.
	Explanation string
}
