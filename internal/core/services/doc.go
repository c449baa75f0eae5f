// Package services implements the pipeline's use cases: corpus
// normalisation, the concurrent checkpointed rewrite coordinator, and the
// post-hoc validator. Services depend only on domain types and driven
// ports; all I/O goes through injected stores.
package services
