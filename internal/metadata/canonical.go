package metadata

import "fmt"

// CanonicalResult is the outcome of checking a release against the canonical
// identifier map. Err carries the first failure found; checks run in
// hierarchy order (release -> tracks -> compositions) and stop at the first
// broken link.
type CanonicalResult struct {
	Valid bool
	Err   string
}

// VerifyCanonical checks that the release's identifier chain is fully linked:
// the release carries a product identifier (UPC or catalog number), every
// track carries an ISRC, and every track with linked composition rights
// carries an ISWC. Instrumentals without an ISWC are permitted only when
// explicitly flagged instrumental.
func VerifyCanonical(release *Release) CanonicalResult {
	if release.UPC == "" && release.CatalogNumber == "" {
		return CanonicalResult{Err: "Missing UPC"}
	}
	for _, track := range release.Tracklist() {
		if track.ISRC == "" {
			return CanonicalResult{Err: fmt.Sprintf("Missing ISRC for track %s", track.Title)}
		}
		if track.ISWC == "" && !track.IsInstrumental {
			return CanonicalResult{Err: fmt.Sprintf("Composition rights unlinked for track %s (missing ISWC)", track.Title)}
		}
	}
	return CanonicalResult{Valid: true}
}
