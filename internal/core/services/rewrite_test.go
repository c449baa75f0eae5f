package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// --- Mock implementations for rewrite testing ---

// mockRewriter implements driven.RewriteService for testing.
type mockRewriter struct {
	mu      sync.Mutex
	calls   []string
	failIDs map[string]bool

	// inFlight tracks the concurrency bound
	inFlight    int32
	maxInFlight int32

	// respond overrides the default echo response when set
	respond func(req driven.RewriteRequest) (domain.RewriteResult, error)
}

func (m *mockRewriter) Rewrite(_ context.Context, req driven.RewriteRequest) (domain.RewriteResult, error) {
	current := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		max := atomic.LoadInt32(&m.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&m.maxInFlight, max, current) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, req.RecordID)
	fail := m.failIDs[req.RecordID]
	m.mu.Unlock()

	if fail {
		return domain.RewriteResult{}, errors.New("backend unreachable")
	}
	if m.respond != nil {
		return m.respond(req)
	}
	return domain.RewriteResult{
		RecordID:    req.RecordID,
		Question:    "herschreven: " + req.Question,
		Explanation: "herschreven: " + req.Explanation,
	}, nil
}

func (m *mockRewriter) ModelName() string             { return "mock" }
func (m *mockRewriter) Ping(_ context.Context) error  { return nil }
func (m *mockRewriter) Close() error                  { return nil }
func (m *mockRewriter) callCount() int                { m.mu.Lock(); defer m.mu.Unlock(); return len(m.calls) }
func (m *mockRewriter) calledIDs() []string           { m.mu.Lock(); defer m.mu.Unlock(); return append([]string(nil), m.calls...) }

// recordingCheckpointStore snapshots every Persist for crash-safety tests.
type recordingCheckpointStore struct {
	*memory.CheckpointStore
	mu        sync.Mutex
	snapshots []domain.CheckpointState
}

func newRecordingCheckpointStore() *recordingCheckpointStore {
	return &recordingCheckpointStore{CheckpointStore: memory.NewCheckpointStore()}
}

func (s *recordingCheckpointStore) Persist(ctx context.Context, state domain.CheckpointState) error {
	snapshot := state
	snapshot.ProcessedIDs = append([]string(nil), state.ProcessedIDs...)
	s.mu.Lock()
	s.snapshots = append(s.snapshots, snapshot)
	s.mu.Unlock()
	return s.CheckpointStore.Persist(ctx, state)
}

// --- Helpers ---

const (
	canonicalPath = "canonical.json"
	rewrittenPath = "rewritten.json"
)

func testCorpus(n int) *domain.Corpus {
	records := make([]domain.CanonicalRecord, n)
	for i := range records {
		records[i] = domain.CanonicalRecord{
			ID:              fmt.Sprintf("%d", i+1),
			CategorySlug:    "verkeersborden",
			RegionCode:      domain.RegionNational,
			QuestionText:    fmt.Sprintf("Vraag %d over voorrang en borden?", i+1),
			ExplanationText: fmt.Sprintf("Uitleg %d over de wegcode.", i+1),
			AnswerType:      domain.AnswerYesNo,
			Options: []domain.CanonicalOption{
				{Position: 0, Text: "Ja"},
				{Position: 1, Text: "Nee"},
			},
		}
	}
	return &domain.Corpus{
		Metadata:   domain.CorpusMetadata{TotalRecords: n},
		Categories: []string{"verkeersborden"},
		Data:       records,
	}
}

func newTestCoordinator(
	t *testing.T,
	corpus *domain.Corpus,
	rewriter driven.RewriteService,
	cfg RewriteConfig,
) (*RewriteCoordinator, *memory.CorpusStore, *memory.CheckpointStore) {
	t.Helper()

	corpusStore := memory.NewCorpusStore()
	require.NoError(t, corpusStore.Save(context.Background(), canonicalPath, corpus))
	checkpoints := memory.NewCheckpointStore()

	cfg.CanonicalPath = canonicalPath
	cfg.OutputPath = rewrittenPath
	return NewRewriteCoordinator(corpusStore, checkpoints, rewriter, cfg), corpusStore, checkpoints
}

// --- Tests ---

func TestRewriteCoordinator_RewritesEverything(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, corpusStore, checkpoints := newTestCoordinator(t, testCorpus(5), rewriter, RewriteConfig{
		BatchSize:   2,
		Concurrency: 2,
	})

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Attempted)
	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 5, summary.CompletedTotal)

	state, err := checkpoints.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.ProcessedIDs, 5)

	output, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	require.Len(t, output.Data, 5)
	for _, rec := range output.Data {
		assert.Contains(t, rec.QuestionText, "herschreven: ")
		assert.NotEmpty(t, rec.QuestionTextOriginal)
		assert.NotContains(t, rec.QuestionTextOriginal, "herschreven")
		assert.Contains(t, rec.ExplanationText, "herschreven: ")
	}
	assert.Equal(t, 5, output.Metadata.RewrittenCount)
	assert.Equal(t, 5, output.Metadata.EmittedCount)
}

func TestRewriteCoordinator_ResumeAttemptsOnlyUnfinished(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, _, checkpoints := newTestCoordinator(t, testCorpus(6), rewriter, RewriteConfig{
		BatchSize: 3,
	})

	// 2 of 6 already complete from an earlier run
	prior := domain.NewCheckpointState(time.Now().UTC())
	prior.Mark("2")
	prior.Mark("5")
	require.NoError(t, checkpoints.Persist(context.Background(), prior))

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Attempted)
	assert.ElementsMatch(t, []string{"1", "3", "4", "6"}, rewriter.calledIDs())

	state, err := checkpoints.Load(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6"}, state.ProcessedIDs)
}

func TestRewriteCoordinator_SecondRunFindsNothingAndKeepsOriginals(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, corpusStore, _ := newTestCoordinator(t, testCorpus(3), rewriter, RewriteConfig{})

	_, err := coord.Run(context.Background())
	require.NoError(t, err)

	first, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Attempted)
	assert.Equal(t, 3, rewriter.callCount(), "second run must not re-call the backend")

	second, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	for i := range second.Data {
		assert.Equal(t, first.Data[i].QuestionTextOriginal, second.Data[i].QuestionTextOriginal)
		assert.Equal(t, first.Data[i].QuestionText, second.Data[i].QuestionText)
	}
}

func TestRewriteCoordinator_SecondFullPassKeepsFirstOriginal(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, corpusStore, checkpoints := newTestCoordinator(t, testCorpus(2), rewriter, RewriteConfig{})

	_, err := coord.Run(context.Background())
	require.NoError(t, err)

	first, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	firstOriginal := first.Data[0].QuestionTextOriginal

	// Reset the checkpoint to force a second full pass over prior output
	require.NoError(t, checkpoints.Persist(context.Background(), domain.CheckpointState{ProcessedIDs: []string{}}))

	_, err = coord.Run(context.Background())
	require.NoError(t, err)

	second, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	assert.Equal(t, firstOriginal, second.Data[0].QuestionTextOriginal,
		"the audit original must never be overwritten by a later pass")
	assert.Contains(t, second.Data[0].QuestionText, "herschreven: herschreven: ")
}

func TestRewriteCoordinator_FailureIsolatedAndRetriable(t *testing.T) {
	rewriter := &mockRewriter{failIDs: map[string]bool{"2": true}}
	coord, corpusStore, checkpoints := newTestCoordinator(t, testCorpus(4), rewriter, RewriteConfig{
		BatchSize: 2,
	})

	summary, err := coord.Run(context.Background())
	require.NoError(t, err, "a per-record failure must not fail the run")

	assert.Equal(t, 4, summary.Attempted)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	state, err := checkpoints.Load(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, state.ProcessedIDs, "2")

	output, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	rec := output.Record("2")
	require.NotNil(t, rec)
	assert.NotContains(t, rec.QuestionText, "herschreven", "failed record keeps its text")

	// Next invocation retries exactly the failed record
	rewriter.mu.Lock()
	rewriter.failIDs = nil
	rewriter.mu.Unlock()

	summary, err = coord.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 4, summary.CompletedTotal)
}

func TestRewriteCoordinator_ChecksBatchGranularity(t *testing.T) {
	rewriter := &mockRewriter{}
	checkpoints := newRecordingCheckpointStore()
	corpusStore := memory.NewCorpusStore()
	require.NoError(t, corpusStore.Save(context.Background(), canonicalPath, testCorpus(6)))

	coord := NewRewriteCoordinator(corpusStore, checkpoints, rewriter, RewriteConfig{
		CanonicalPath: canonicalPath,
		OutputPath:    rewrittenPath,
		BatchSize:     2,
		Concurrency:   1,
	})

	_, err := coord.Run(context.Background())
	require.NoError(t, err)

	// One flush per batch; a crash between flushes loses at most one batch
	require.Len(t, checkpoints.snapshots, 3)
	assert.ElementsMatch(t, []string{"1", "2"}, checkpoints.snapshots[0].ProcessedIDs)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, checkpoints.snapshots[1].ProcessedIDs)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6"}, checkpoints.snapshots[2].ProcessedIDs)
	assert.Equal(t, 0, checkpoints.snapshots[0].LastBatchIndex)
	assert.Equal(t, 2, checkpoints.snapshots[2].LastBatchIndex)
}

func TestRewriteCoordinator_ConcurrencyBoundSpansRun(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, _, _ := newTestCoordinator(t, testCorpus(12), rewriter, RewriteConfig{
		BatchSize:   4,
		Concurrency: 2,
	})

	_, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&rewriter.maxInFlight), int32(2))
}

func TestRewriteCoordinator_SamplingCapsRun(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, _, _ := newTestCoordinator(t, testCorpus(10), rewriter, RewriteConfig{
		SampleSize:  3,
		Seed:        7,
		Concurrency: 1,
	})

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, rewriter.callCount())
}

func TestRewriteCoordinator_OnlyCompletedFilter(t *testing.T) {
	rewriter := &mockRewriter{failIDs: map[string]bool{"3": true}}
	coord, corpusStore, _ := newTestCoordinator(t, testCorpus(4), rewriter, RewriteConfig{
		OnlyCompleted: true,
	})

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.EmittedRecords)

	output, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	assert.Len(t, output.Data, 3)
	assert.Nil(t, output.Record("3"))
	assert.Equal(t, 3, output.Metadata.EmittedCount)
	assert.Equal(t, 3, output.Metadata.TotalRecords)
}

func TestRewriteCoordinator_PrefersPriorRewrittenArtifact(t *testing.T) {
	rewriter := &mockRewriter{}
	coord, corpusStore, _ := newTestCoordinator(t, testCorpus(2), rewriter, RewriteConfig{})

	// A prior partial run left an output artifact with its own text
	prior := testCorpus(2)
	prior.Data[0].QuestionText = "eerdere run tekst"
	require.NoError(t, corpusStore.Save(context.Background(), rewrittenPath, prior))

	_, err := coord.Run(context.Background())
	require.NoError(t, err)

	output, err := corpusStore.Load(context.Background(), rewrittenPath)
	require.NoError(t, err)
	assert.Equal(t, "herschreven: eerdere run tekst", output.Record("1").QuestionText,
		"the run must layer onto the prior artifact, not the canonical corpus")
}

func TestRewriteCoordinator_MissingResponseFieldIsFailure(t *testing.T) {
	rewriter := &mockRewriter{
		respond: func(req driven.RewriteRequest) (domain.RewriteResult, error) {
			return domain.RewriteResult{RecordID: req.RecordID, Question: "alleen vraag"}, nil
		},
	}
	coord, _, checkpoints := newTestCoordinator(t, testCorpus(1), rewriter, RewriteConfig{})

	summary, err := coord.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	state, err := checkpoints.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.ProcessedIDs)
}

func TestRewriteCoordinator_NoRewriterIsFatal(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, testCorpus(1), nil, RewriteConfig{})

	_, err := coord.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrRewriterUnavailable)
}

func TestRewriteCoordinator_MissingCorpusIsFatal(t *testing.T) {
	corpusStore := memory.NewCorpusStore()
	coord := NewRewriteCoordinator(corpusStore, memory.NewCheckpointStore(), &mockRewriter{}, RewriteConfig{
		CanonicalPath: "does-not-exist.json",
		OutputPath:    rewrittenPath,
	})

	_, err := coord.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrCorpusUnreadable)
}
