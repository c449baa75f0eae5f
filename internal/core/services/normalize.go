package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
	"github.com/quizforge/corpus-cli/internal/logger"
	"github.com/quizforge/corpus-cli/internal/normalize"
)

// Ensure NormalizeRunner implements the interface.
var _ driving.NormalizeRunner = (*NormalizeRunner)(nil)

// NormalizeRunner converts the raw corpus into the canonical corpus.
// Record conversion itself is pure (internal/normalize); the runner owns
// the I/O and the corpus-level aggregation.
type NormalizeRunner struct {
	corpusStore   driven.CorpusStore
	outputPath    string
	assetsBaseURL string
}

// NewNormalizeRunner creates a normalise runner writing to outputPath.
func NewNormalizeRunner(corpusStore driven.CorpusStore, outputPath, assetsBaseURL string) *NormalizeRunner {
	return &NormalizeRunner{
		corpusStore:   corpusStore,
		outputPath:    outputPath,
		assetsBaseURL: assetsBaseURL,
	}
}

// Run reads the raw corpus, normalises every record and persists the
// canonical corpus with aggregate metadata.
func (r *NormalizeRunner) Run(ctx context.Context, rawPath string) (*domain.Corpus, error) {
	raws, err := r.corpusStore.LoadRaw(ctx, rawPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnreadable, err)
	}

	logger.Section("Normalise")
	logger.Info("Normalising %d records from %s", len(raws), rawPath)

	records := make([]domain.CanonicalRecord, len(raws))
	categories := make(map[string]struct{})
	assets := make(map[string]struct{})
	regionCounts := make(map[domain.Region]int)

	for i, raw := range raws {
		rec := normalize.Record(raw)
		records[i] = rec

		categories[rec.CategorySlug] = struct{}{}
		regionCounts[rec.RegionCode]++
		collectAssets(assets, rec)
	}

	corpus := &domain.Corpus{
		AssetsBaseURL: r.assetsBaseURL,
		Metadata: domain.CorpusMetadata{
			RunID:         uuid.New().String(),
			TotalRecords:  len(records),
			RegionCounts:  regionCounts,
			CategoryCount: len(categories),
			AssetCount:    len(assets),
			GeneratedAt:   time.Now().UTC(),
		},
		Categories: sortedKeys(categories),
		Data:       records,
	}

	if err := r.corpusStore.Save(ctx, r.outputPath, corpus); err != nil {
		return nil, fmt.Errorf("save canonical corpus: %w", err)
	}

	logger.Info("Canonical corpus written: %d records, %d categories, %d assets",
		len(records), len(corpus.Categories), len(assets))
	return corpus, nil
}

// collectAssets adds every image and video reference of a record to the set.
func collectAssets(assets map[string]struct{}, rec domain.CanonicalRecord) {
	if rec.ImageRef != "" {
		assets[rec.ImageRef] = struct{}{}
	}
	if rec.VideoRef != "" {
		assets[rec.VideoRef] = struct{}{}
	}
	for _, opt := range rec.Options {
		if opt.ImageRef != "" {
			assets[opt.ImageRef] = struct{}{}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
