// Package normalize provides the pure record transformations of the
// pipeline: markup-to-text folding, region classification and category
// slug derivation. Every function here is total and side-effect free;
// malformed input degrades to an empty result, never an error.
package normalize
