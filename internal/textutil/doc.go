// Package textutil provides small text normalization helpers shared across
// the delivery pipeline, primarily filename sanitization for package trees.
package textutil
