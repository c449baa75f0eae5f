// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the rewriting backend, corpus and checkpoint
// persistence, and run configuration. Services depend on these interfaces;
// adapters implement them.
package driven
