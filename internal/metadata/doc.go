// Package metadata defines the golden release record that feeds the delivery
// pipeline: identity, rights splits, release-level commercial fields, and the
// media asset descriptors referenced during package generation. It also
// enforces the canonical identifier hierarchy (ISWC -> ISRC -> UPC) that must
// be linked before a release may be distributed.
package metadata
