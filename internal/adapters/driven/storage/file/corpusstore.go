package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore reads and writes corpus artifacts as JSON files.
type CorpusStore struct{}

// NewCorpusStore creates a file-backed corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// LoadRaw reads a raw corpus: a JSON list of raw records.
func (s *CorpusStore) LoadRaw(_ context.Context, path string) ([]domain.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read raw corpus: %w", err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode raw corpus: %w", err)
	}
	return records, nil
}

// Load reads a canonical or rewritten corpus artifact.
func (s *CorpusStore) Load(_ context.Context, path string) (*domain.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var corpus domain.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return &corpus, nil
}

// Save writes a corpus artifact atomically.
func (s *CorpusStore) Save(_ context.Context, path string, corpus *domain.Corpus) error {
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to a temp file in the target directory and renames it
// over the destination, so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
