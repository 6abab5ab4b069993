package metadata

import (
	"path"
	"strings"
)

// AudioFile describes one supplied audio asset. TrackIndex is the zero-based
// position in the tracklist this file belongs to; files without a usable
// index are matched by upload order.
type AudioFile struct {
	URL        string `json:"url"`
	Format     string `json:"format,omitempty"`
	SampleRate int    `json:"sampleRate,omitempty"`
	BitDepth   int    `json:"bitDepth,omitempty"`
	SizeBytes  int64  `json:"fileSize,omitempty"`
	TrackIndex int    `json:"trackIndex"`
}

// CoverArt describes the supplied cover image.
type CoverArt struct {
	URL       string `json:"url"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	MIMEType  string `json:"mimeType,omitempty"`
	SizeBytes int64  `json:"fileSize,omitempty"`
}

// Assets bundles the media files supplied alongside a release's metadata.
type Assets struct {
	AudioFiles []AudioFile `json:"audioFiles,omitempty"`
	CoverArt   *CoverArt   `json:"coverArt,omitempty"`
}

// AudioForTrack returns the audio file for the given zero-based track
// position: an explicit TrackIndex match wins, then the file at the same
// list position. The fallback is unconditional because submissions that
// omit trackIndex decode every file with index zero, so upload order is
// the only signal left. Returns nil when neither exists.
func (a *Assets) AudioForTrack(position int) *AudioFile {
	if a == nil {
		return nil
	}
	for i := range a.AudioFiles {
		if a.AudioFiles[i].TrackIndex == position {
			return &a.AudioFiles[i]
		}
	}
	if position >= 0 && position < len(a.AudioFiles) {
		return &a.AudioFiles[position]
	}
	return nil
}

// Extension returns the lowercased file extension without the dot, preferring
// the declared format over the URL suffix. Defaults to wav.
func (f *AudioFile) Extension() string {
	if f != nil {
		if ext := normalizeExt(f.Format); ext != "" {
			return ext
		}
		if ext := normalizeExt(path.Ext(f.URL)); ext != "" {
			return ext
		}
	}
	return "wav"
}

// Extension returns the lowercased image extension without the dot, derived
// from the MIME type or URL suffix. Defaults to jpg.
func (c *CoverArt) Extension() string {
	if c != nil {
		switch strings.ToLower(c.MIMEType) {
		case "image/jpeg", "image/jpg":
			return "jpg"
		case "image/png":
			return "png"
		}
		if ext := normalizeExt(path.Ext(c.URL)); ext != "" {
			return ext
		}
	}
	return "jpg"
}

func normalizeExt(s string) string {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "jpeg" {
		return "jpg"
	}
	return s
}
