package delivery

import "context"

// Transcoder converts an audio master into a partner delivery format. The
// implementation is an external collaborator; a nil Transcoder means masters
// ship as supplied.
type Transcoder interface {
	// Transcode writes a derived rendition of source into destDir and
	// returns the produced file path.
	Transcode(ctx context.Context, source, destDir string) (string, error)
}
