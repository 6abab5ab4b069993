package packaging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
	"tonearm/internal/metadata"
	"tonearm/internal/services"
	"tonearm/internal/textutil"
)

// Layout captures a partner's package naming conventions.
type Layout struct {
	// CoverFileName is the fixed cover art name, e.g. "cover.jpg".
	CoverFileName string
	// CoverMatchesDocumentRef names the cover after its document resource
	// reference (IMG<n>.<ext>) instead of a fixed name.
	CoverMatchesDocumentRef bool
}

// Result reports a completed package build.
type Result struct {
	Dir     string
	Copied  []string
	Skipped []string
}

// Degraded reports whether any expected source file was missing.
func (r *Result) Degraded() bool {
	return len(r.Skipped) > 0
}

// Builder assembles partner packages under a base directory.
type Builder struct {
	baseDir string
	logger  *slog.Logger
}

// NewBuilder returns a package builder rooted at baseDir.
func NewBuilder(baseDir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{baseDir: baseDir, logger: logger}
}

// FolderName derives the package directory name for a release: UPC, then
// catalog number, then a synthesized REL-<uuid> identifier.
func FolderName(release *metadata.Release) string {
	if release.UPC != "" {
		return textutil.SanitizeFileName(release.UPC)
	}
	if release.CatalogNumber != "" {
		return textutil.SanitizeFileName(release.CatalogNumber)
	}
	return "REL-" + uuid.NewString()
}

// Build assembles the package directory for a release. Audio files become
// `{n}_{sanitizedTitle}.{ext}` numbered from 1; the cover follows the
// layout. Sources that do not exist are skipped and recorded, not fatal.
func (b *Builder) Build(ctx context.Context, release *metadata.Release, assets *metadata.Assets, layout Layout) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder := FolderName(release)
	dir := filepath.Join(b.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransport, "packaging", "build", "failed to create package directory", err)
	}

	result := &Result{Dir: dir}
	tracks := release.Tracklist()
	for position, track := range tracks {
		asset := assets.AudioForTrack(position)
		name := fmt.Sprintf("%d_%s", position+1, textutil.SanitizeTrackTitle(track.Title))
		if asset == nil {
			result.Skipped = append(result.Skipped, name)
			b.logger.Warn("no audio asset for track",
				logging.Int("track", position+1),
				logging.String("title", track.Title))
			continue
		}
		name += "." + asset.Extension()
		if err := b.copyInto(asset.URL, dir, name, result); err != nil {
			return nil, err
		}
	}

	if assets != nil && assets.CoverArt != nil {
		coverName := layout.CoverFileName
		if layout.CoverMatchesDocumentRef {
			coverName = fmt.Sprintf("IMG%d.%s", len(tracks)+1, assets.CoverArt.Extension())
		}
		if coverName == "" {
			coverName = "cover." + assets.CoverArt.Extension()
		}
		if err := b.copyInto(assets.CoverArt.URL, dir, coverName, result); err != nil {
			return nil, err
		}
	}

	b.logger.Info("built partner package",
		logging.String("dir", dir),
		logging.Int("copied", len(result.Copied)),
		logging.Int("skipped", len(result.Skipped)))
	return result, nil
}

// copyInto copies a source asset into the package under name. Traversal
// segments in the name are refused; missing sources are skipped.
func (b *Builder) copyInto(sourceURL, dir, name string, result *Result) error {
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return services.Wrap(services.ErrValidation, "packaging", "copy",
			fmt.Sprintf("unsafe package file name %q", name), nil)
	}

	source := LocalPath(sourceURL)
	if source == "" {
		result.Skipped = append(result.Skipped, name)
		return nil
	}
	if _, err := os.Stat(source); err != nil {
		result.Skipped = append(result.Skipped, name)
		b.logger.Warn("skipping missing source file",
			logging.String("source", source),
			logging.String("target", name))
		return nil
	}
	if err := fileutil.CopyFile(source, filepath.Join(dir, name)); err != nil {
		return services.Wrap(services.ErrTransport, "packaging", "copy",
			fmt.Sprintf("failed to copy %s", name), err)
	}
	result.Copied = append(result.Copied, name)
	return nil
}

// LocalPath resolves an asset URL to a filesystem path. Only file:// URLs
// and plain paths are local; anything else returns empty.
func LocalPath(url string) string {
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "file://"):
		return strings.TrimPrefix(url, "file://")
	case strings.Contains(url, "://"):
		return ""
	default:
		return url
	}
}
