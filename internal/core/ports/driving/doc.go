// Package driving provides interfaces for the pipeline's use cases
// (primary/inbound ports). The CLI and the progress view drive the
// application exclusively through these interfaces.
package driving
