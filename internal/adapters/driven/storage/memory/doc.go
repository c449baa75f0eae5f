// Package memory provides in-memory store implementations.
// They are used by tests and as lightweight defaults when no file paths
// are configured.
package memory
