package domain

import "time"

// CorpusMetadata describes a persisted corpus artifact.
// Aggregates are computed by the normalise runner, not the normaliser itself.
type CorpusMetadata struct {
	// RunID identifies the pipeline run that produced the artifact.
	RunID string `json:"runId,omitempty"`

	// TotalRecords is the number of records in the data list.
	TotalRecords int `json:"totalRecords"`

	// RegionCounts is the per-region record distribution.
	RegionCounts map[Region]int `json:"regionCounts,omitempty"`

	// CategoryCount is the number of distinct category slugs.
	CategoryCount int `json:"categoryCount,omitempty"`

	// AssetCount is the number of distinct image/video references.
	AssetCount int `json:"assetCount,omitempty"`

	// RewrittenCount is the number of records rewritten by the run that
	// produced this artifact. Zero for canonical (pre-rewrite) corpora.
	RewrittenCount int `json:"rewrittenCount,omitempty"`

	// EmittedCount is the number of records in the emitted file when the
	// completed-only output filter is active.
	EmittedCount int `json:"emittedCount,omitempty"`

	// GeneratedAt is when the artifact was written.
	GeneratedAt time.Time `json:"generatedAt"`
}

// Corpus is a persisted corpus artifact: the canonical corpus produced by the
// normaliser, or a (possibly partially) rewritten corpus produced by the
// rewrite coordinator. Both share one file shape.
type Corpus struct {
	// AssetsBaseURL is the base URL image and video references resolve against.
	AssetsBaseURL string `json:"assetsBaseUrl"`

	Metadata CorpusMetadata `json:"metadata"`

	// Categories is the sorted list of distinct category slugs.
	Categories []string `json:"categories"`

	// Data is the ordered record list.
	Data []CanonicalRecord `json:"data"`
}

// Record returns the record with the given id, or nil.
func (c *Corpus) Record(id string) *CanonicalRecord {
	for i := range c.Data {
		if c.Data[i].ID == id {
			return &c.Data[i]
		}
	}
	return nil
}
