// Package file provides JSON file-backed corpus and checkpoint stores.
// These are the pipeline's default persistence: human-inspectable
// artifacts, written atomically via a temp-file rename so a crash never
// leaves a partially-written file behind.
package file
