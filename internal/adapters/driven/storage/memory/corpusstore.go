package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// Artifacts are stored as marshalled JSON so Load returns independent
// copies, matching the isolation of the file-backed store.
type CorpusStore struct {
	mu      sync.RWMutex
	raw     map[string][]domain.RawRecord
	corpora map[string][]byte
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		raw:     make(map[string][]domain.RawRecord),
		corpora: make(map[string][]byte),
	}
}

// PutRaw seeds a raw corpus under a path.
func (s *CorpusStore) PutRaw(path string, records []domain.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[path] = records
}

// LoadRaw reads a seeded raw corpus.
func (s *CorpusStore) LoadRaw(_ context.Context, path string) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.raw[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return records, nil
}

// Load reads a corpus artifact.
func (s *CorpusStore) Load(_ context.Context, path string) (*domain.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.corpora[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	var corpus domain.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return &corpus, nil
}

// Save stores a corpus artifact.
func (s *CorpusStore) Save(_ context.Context, path string, corpus *domain.Corpus) error {
	data, err := json.Marshal(corpus)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpora[path] = data
	return nil
}
