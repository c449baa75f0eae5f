package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
	"github.com/quizforge/corpus-cli/internal/logger"
)

// Ensure RewriteCoordinator implements the interface.
var _ driving.RewriteCoordinator = (*RewriteCoordinator)(nil)

// Default run parameters.
const (
	DefaultBatchSize   = 25
	DefaultConcurrency = 2

	// Length-ratio bounds for the paraphrase drift check. Outliers are
	// logged for human review, never rejected.
	minLengthRatio = 0.5
	maxLengthRatio = 2.0
)

// RewriteConfig configures one coordinator instance.
type RewriteConfig struct {
	// CanonicalPath is the normalised corpus artifact.
	CanonicalPath string

	// OutputPath is the rewritten corpus artifact. When it already exists
	// it is preferred over CanonicalPath, so repeated runs layer work onto
	// prior partial output.
	OutputPath string

	// BatchSize is the number of records per checkpoint flush.
	BatchSize int

	// Concurrency bounds in-flight backend calls across the whole run.
	Concurrency int

	// SampleSize caps this run to a uniform random sample of the
	// unfinished subset. Zero means no cap.
	SampleSize int

	// OnlyCompleted restricts the emitted artifact to records whose id is
	// in the checkpoint's completed set.
	OnlyCompleted bool

	// Seed fixes the sampling shuffle for reproducible test runs.
	// Zero seeds from the clock.
	Seed int64
}

// withDefaults fills unset parameters.
func (c RewriteConfig) withDefaults() RewriteConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// RewriteCoordinator partitions unfinished records into batches, rewrites
// them through the backend under a global concurrency bound, and persists
// checkpoint and corpus so interrupted runs resume without re-paying cost.
type RewriteCoordinator struct {
	corpusStore driven.CorpusStore
	checkpoints driven.CheckpointStore
	rewriter    driven.RewriteService
	cfg         RewriteConfig

	mu     sync.Mutex
	status driving.RewriteStatus
}

// NewRewriteCoordinator creates a rewrite coordinator.
func NewRewriteCoordinator(
	corpusStore driven.CorpusStore,
	checkpoints driven.CheckpointStore,
	rewriter driven.RewriteService,
	cfg RewriteConfig,
) *RewriteCoordinator {
	return &RewriteCoordinator{
		corpusStore: corpusStore,
		checkpoints: checkpoints,
		rewriter:    rewriter,
		cfg:         cfg.withDefaults(),
	}
}

// Run attempts every unfinished record exactly once, merges successes into
// the corpus and flushes the checkpoint after every batch.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (c *RewriteCoordinator) Run(ctx context.Context) (*driving.RewriteSummary, error) {
	if c.rewriter == nil {
		return nil, domain.ErrRewriterUnavailable
	}

	// 1. Load the most recent artifact: a prior rewritten corpus layers
	// additional work; only its absence falls back to the canonical one.
	corpus, err := c.loadLatest(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Compute the unfinished subset.
	checkpoint, err := c.checkpoints.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if checkpoint.StartedAt.IsZero() {
		checkpoint = domain.NewCheckpointState(time.Now().UTC())
	}

	done := checkpoint.IDSet()
	var unfinished []domain.CanonicalRecord
	for _, rec := range corpus.Data {
		if _, ok := done[rec.ID]; !ok {
			unfinished = append(unfinished, rec)
		}
	}

	// 3. Optional cost-bounding sample.
	unfinished = c.sample(unfinished)

	// 4. Fixed-size batches, original relative order preserved.
	batches := partition(unfinished, c.cfg.BatchSize)

	logger.Section("Rewrite")
	logger.Info("Corpus %d records, %d already complete, %d to attempt in %d batches (concurrency %d)",
		len(corpus.Data), len(done), len(unfinished), len(batches), c.cfg.Concurrency)

	c.setStatus(driving.RewriteStatus{Running: true, BatchCount: len(batches)})
	defer c.finishStatus()

	// 5. The semaphore spans the whole run; batches are checkpoint
	// granularity, not a concurrency unit.
	sem := make(chan struct{}, c.cfg.Concurrency)
	results := make(map[string]domain.RewriteResult)

	for batchIdx, batch := range batches {
		c.runBatch(ctx, batch, sem, results, &checkpoint)

		// 8. Flush progress before the next batch starts. A crash loses at
		// most one batch's worth of completed-but-unflushed ids.
		checkpoint.LastBatchIndex = batchIdx
		checkpoint.LastUpdatedAt = time.Now().UTC()
		if err := c.checkpoints.Persist(ctx, checkpoint); err != nil {
			logger.Error("Persist checkpoint after batch %d: %v", batchIdx, err)
		}

		c.mu.Lock()
		c.status.BatchIndex = batchIdx + 1
		c.mu.Unlock()
	}

	// 9. Merge results into the corpus, keyed by record id.
	merged := mergeResults(corpus, results)

	// 10. Emit the updated artifact.
	emitted := corpus
	if c.cfg.OnlyCompleted {
		emitted = filterCompleted(corpus, checkpoint.IDSet())
	}
	emitted.Metadata.RunID = uuid.New().String()
	emitted.Metadata.RewrittenCount = merged
	emitted.Metadata.EmittedCount = len(emitted.Data)
	emitted.Metadata.TotalRecords = len(emitted.Data)
	emitted.Metadata.GeneratedAt = time.Now().UTC()

	if err := c.corpusStore.Save(ctx, c.cfg.OutputPath, emitted); err != nil {
		return nil, fmt.Errorf("save rewritten corpus: %w", err)
	}

	status := c.Status()
	logger.Info("Rewrite run complete: %d attempted, %d succeeded, %d failed, %d complete overall",
		status.Attempted, status.Succeeded, status.Failed, len(checkpoint.ProcessedIDs))

	return &driving.RewriteSummary{
		Attempted:      status.Attempted,
		Succeeded:      status.Succeeded,
		Failed:         status.Failed,
		CompletedTotal: len(checkpoint.ProcessedIDs),
		EmittedRecords: len(emitted.Data),
	}, nil
}

// Status returns a snapshot of the in-flight run.
func (c *RewriteCoordinator) Status() driving.RewriteStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// loadLatest prefers a previously-rewritten artifact over the canonical one.
func (c *RewriteCoordinator) loadLatest(ctx context.Context) (*domain.Corpus, error) {
	corpus, err := c.corpusStore.Load(ctx, c.cfg.OutputPath)
	if err == nil {
		logger.Info("Resuming from prior artifact %s", c.cfg.OutputPath)
		return corpus, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorpusUnreadable, c.cfg.OutputPath, err)
	}

	corpus, err = c.corpusStore.Load(ctx, c.cfg.CanonicalPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorpusUnreadable, c.cfg.CanonicalPath, err)
	}
	return corpus, nil
}

// sample takes a uniform random subset when a run-size cap is configured.
// Fisher-Yates over the index space, then truncate; original relative order
// is restored afterwards so batching stays order-preserving.
func (c *RewriteCoordinator) sample(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	if c.cfg.SampleSize <= 0 || len(records) <= c.cfg.SampleSize {
		return records
	}

	seed := c.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	indices := make([]int, len(records))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	picked := indices[:c.cfg.SampleSize]
	sort.Ints(picked)

	sampled := make([]domain.CanonicalRecord, len(picked))
	for i, idx := range picked {
		sampled[i] = records[idx]
	}

	logger.Info("Sampled %d of %d unfinished records", len(sampled), len(records))
	return sampled
}

// runBatch dispatches one rewriting call per record and waits for all of
// them to settle. One record's failure never aborts its siblings.
func (c *RewriteCoordinator) runBatch(
	ctx context.Context,
	batch []domain.CanonicalRecord,
	sem chan struct{},
	results map[string]domain.RewriteResult,
	checkpoint *domain.CheckpointState,
) {
	var wg sync.WaitGroup

	for _, rec := range batch {
		wg.Add(1)
		go func(rec domain.CanonicalRecord) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := c.rewriteOne(ctx, rec)

			c.mu.Lock()
			defer c.mu.Unlock()
			c.status.Attempted++
			if err != nil {
				c.status.Failed++
				logger.Warn("Record %s failed: %v", rec.ID, err)
				return
			}
			c.status.Succeeded++
			results[rec.ID] = result
			checkpoint.Mark(rec.ID)
		}(rec)
	}

	wg.Wait()
}

// rewriteOne performs a single backend call and its content-shape checks.
func (c *RewriteCoordinator) rewriteOne(ctx context.Context, rec domain.CanonicalRecord) (domain.RewriteResult, error) {
	result, err := c.rewriter.Rewrite(ctx, driven.RewriteRequest{
		RecordID:    rec.ID,
		Question:    rec.QuestionText,
		Explanation: rec.ExplanationText,
		AnswerKind:  rec.AnswerType,
		OptionCount: len(rec.Options),
	})
	if err != nil {
		return domain.RewriteResult{}, err
	}
	if result.Question == "" || result.Explanation == "" {
		return domain.RewriteResult{}, fmt.Errorf("%w: missing question or explanation", domain.ErrMalformedResponse)
	}

	checkRatio(rec.ID, "question", rec.QuestionText, result.Question)
	checkRatio(rec.ID, "explanation", rec.ExplanationText, result.Explanation)

	result.RecordID = rec.ID
	return result, nil
}

// checkRatio flags gross paraphrase drift. Log-only: the content is still
// merged and left for human review.
func checkRatio(recordID, field, original, rewritten string) {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return
	}
	ratio := float64(utf8.RuneCountInString(rewritten)) / float64(origLen)
	if ratio < minLengthRatio || ratio > maxLengthRatio {
		logger.Warn("Record %s %s length ratio %.2f outside [%.1f, %.1f]",
			recordID, field, ratio, minLengthRatio, maxLengthRatio)
	}
}

// mergeResults folds this run's results into the corpus. The original text
// is preserved only on first rewrite; a second pass never overwrites it.
// Returns the number of records merged.
func mergeResults(corpus *domain.Corpus, results map[string]domain.RewriteResult) int {
	merged := 0
	for i := range corpus.Data {
		rec := &corpus.Data[i]
		result, ok := results[rec.ID]
		if !ok {
			continue
		}

		if rec.QuestionTextOriginal == "" || rec.QuestionTextOriginal == rec.QuestionText {
			rec.QuestionTextOriginal = rec.QuestionText
		}
		if rec.ExplanationTextOriginal == "" || rec.ExplanationTextOriginal == rec.ExplanationText {
			rec.ExplanationTextOriginal = rec.ExplanationText
		}
		rec.QuestionText = result.Question
		rec.ExplanationText = result.Explanation
		merged++
	}
	return merged
}

// filterCompleted restricts the emitted corpus to completed records.
func filterCompleted(corpus *domain.Corpus, done map[string]struct{}) *domain.Corpus {
	filtered := *corpus
	filtered.Data = make([]domain.CanonicalRecord, 0, len(done))
	for _, rec := range corpus.Data {
		if _, ok := done[rec.ID]; ok {
			filtered.Data = append(filtered.Data, rec)
		}
	}
	return &filtered
}

// partition splits records into fixed-size batches, preserving order.
func partition(records []domain.CanonicalRecord, size int) [][]domain.CanonicalRecord {
	var batches [][]domain.CanonicalRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

func (c *RewriteCoordinator) setStatus(status driving.RewriteStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *RewriteCoordinator) finishStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Running = false
}
