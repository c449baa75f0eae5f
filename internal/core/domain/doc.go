// Package domain defines the core business entities for the corpus pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A question record as read from the raw corpus
//   - CanonicalRecord: A normalised, region- and slug-tagged record
//   - Corpus: A persisted corpus artifact with metadata
//   - CheckpointState: Durable rewrite progress
//   - ValidationReport: The validator's aggregate output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
