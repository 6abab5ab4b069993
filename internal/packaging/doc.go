// Package packaging builds partner upload packages from release metadata and
// assets: one directory per release, audio files renamed to the track-number
// convention, cover art named per partner layout. Missing source files
// degrade the build instead of failing it; the skipped list surfaces later
// during reconciliation.
package packaging
