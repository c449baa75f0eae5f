package domain

import "time"

// CheckpointState is the durable record of which record ids have completed
// rewriting. The id set only grows, within and across runs; failed ids are
// indistinguishable from never-attempted ids and are retried identically on
// the next run.
type CheckpointState struct {
	// ProcessedIDs are the record ids whose rewrite completed successfully.
	ProcessedIDs []string `json:"processedIds"`

	// LastBatchIndex is the index of the most recently flushed batch.
	LastBatchIndex int `json:"lastBatchIndex"`

	// StartedAt is when the checkpoint was first created.
	StartedAt time.Time `json:"startedAt"`

	// LastUpdatedAt is bumped on every persist.
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// NewCheckpointState returns a fresh empty state.
func NewCheckpointState(now time.Time) CheckpointState {
	return CheckpointState{
		ProcessedIDs:  []string{},
		StartedAt:     now,
		LastUpdatedAt: now,
	}
}

// IDSet returns the processed ids as a set for membership tests.
func (c *CheckpointState) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ProcessedIDs))
	for _, id := range c.ProcessedIDs {
		set[id] = struct{}{}
	}
	return set
}

// Mark appends an id to the processed set if not already present.
func (c *CheckpointState) Mark(id string) {
	for _, existing := range c.ProcessedIDs {
		if existing == id {
			return
		}
	}
	c.ProcessedIDs = append(c.ProcessedIDs, id)
}
