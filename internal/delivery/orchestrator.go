package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tonearm/internal/distributor"
	"tonearm/internal/ern"
	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
	"tonearm/internal/metadata"
	"tonearm/internal/packaging"
	"tonearm/internal/services"
	"tonearm/internal/transport"
)

// Package is a generated document package on disk.
type Package struct {
	Dir          string
	DocumentPath string
	// Resource file names written under resources/.
	Resources []string
	// Resource file names whose source material was unavailable.
	Degraded []string
	Message  *ern.Message
}

// Report is the accumulated outcome of package validation. Findings never
// abort validation; only generation failures error.
type Report struct {
	Problems []string
	Package  *Package
}

// Valid reports whether validation found no problems.
func (r *Report) Valid() bool {
	return len(r.Problems) == 0
}

// Result is the outcome of a full delivery.
type Result struct {
	Accepted   bool
	Submission *distributor.ReleaseResult
	Package    *Package
	Problems   []string
}

// Orchestrator drives package generation, validation, and delivery.
type Orchestrator struct {
	documents         *ern.Service
	registry          *distributor.Registry
	transport         transport.Transport
	transcoder        Transcoder
	stagingDir        string
	manifestTolerance int
	logger            *slog.Logger
}

// Options configure an Orchestrator.
type Options struct {
	Documents *ern.Service
	Registry  *distributor.Registry
	Transport transport.Transport
	// Optional; nil ships masters as supplied.
	Transcoder Transcoder
	StagingDir string
	// Allowed difference between document resource count and supplied
	// asset count. Zero means strict equality.
	ManifestTolerance int
	Logger            *slog.Logger
}

// New returns a delivery orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		documents:         opts.Documents,
		registry:          opts.Registry,
		transport:         opts.Transport,
		transcoder:        opts.Transcoder,
		stagingDir:        opts.StagingDir,
		manifestTolerance: opts.ManifestTolerance,
		logger:            logging.NewComponentLogger(opts.Logger, "delivery"),
	}
}

// GeneratePackage writes the release document and its resources tree under
// the staging directory. Unavailable source material degrades the package
// instead of failing generation; the degraded list carries what is missing.
func (o *Orchestrator) GeneratePackage(ctx context.Context, release *metadata.Release, assets *metadata.Assets, recipient ern.Party) (*Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = services.WithStage(ctx, "generate")
	logger := o.logger.With(services.ContextArgs(ctx)...)

	message := o.documents.BuildMessage(release, assets, recipient)
	data, err := o.documents.Serialize(message)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(o.stagingDir, packaging.FolderName(release))
	resourcesDir := filepath.Join(dir, "resources")
	if err := os.MkdirAll(resourcesDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransport, "delivery", "generate", "failed to create package directory", err)
	}

	documentPath := filepath.Join(dir, "ern.xml")
	if err := os.WriteFile(documentPath, data, 0o644); err != nil {
		return nil, services.Wrap(services.ErrTransport, "delivery", "generate", "failed to write release document", err)
	}

	pkg := &Package{Dir: dir, DocumentPath: documentPath, Message: message}
	tracks := release.Tracklist()
	for i, resource := range message.ResourceList {
		fileName := resource.TechnicalDetails.File.FileName
		if fileName == "" {
			continue
		}
		source := ""
		switch resource.ResourceType {
		case ern.ResourceSoundRecording:
			if i < len(tracks) {
				if asset := assets.AudioForTrack(i); asset != nil {
					source = packaging.LocalPath(asset.URL)
				}
			}
		case ern.ResourceImage:
			if assets != nil && assets.CoverArt != nil {
				source = packaging.LocalPath(assets.CoverArt.URL)
			}
		}

		if source == "" {
			pkg.Degraded = append(pkg.Degraded, fileName)
			continue
		}
		if _, statErr := os.Stat(source); statErr != nil {
			pkg.Degraded = append(pkg.Degraded, fileName)
			logger.Warn("resource source unavailable, continuing without it",
				logging.String("resource", fileName),
				logging.String("source", source))
			continue
		}
		dest := filepath.Join(resourcesDir, fileName)
		if err := fileutil.CopyFileVerified(source, dest); err != nil {
			pkg.Degraded = append(pkg.Degraded, fileName)
			logger.Warn("resource copy failed, continuing without it",
				logging.String("resource", fileName),
				logging.Error(err))
			continue
		}
		pkg.Resources = append(pkg.Resources, fileName)

		if o.transcoder != nil && resource.ResourceType == ern.ResourceSoundRecording {
			if out, err := o.transcoder.Transcode(ctx, source, resourcesDir); err != nil {
				logger.Warn("transcode failed, shipping master as supplied",
					logging.String("resource", fileName),
					logging.Error(err))
			} else {
				pkg.Resources = append(pkg.Resources, filepath.Base(out))
			}
		}
	}

	logger.Info("generated document package",
		logging.String("dir", dir),
		logging.Int("resources", len(pkg.Resources)),
		logging.Int("degraded", len(pkg.Degraded)))
	return pkg, nil
}

// lossless audio container extensions; spatial masters must use one.
var losslessFormats = map[string]bool{
	"wav": true, "flac": true, "aiff": true, "alac": true,
}

// ValidatePackage generates the package and checks it end to end: document
// structure, manifest reconciliation against the supplied assets, per-asset
// corruption markers, spatial-audio format rules, and cover art shape. A
// non-nil reqs additionally holds the cover to that partner's minimum
// dimensions. Findings accumulate in the report; only generation failures
// return an error.
func (o *Orchestrator) ValidatePackage(ctx context.Context, release *metadata.Release, assets *metadata.Assets, recipient ern.Party, reqs *distributor.Requirements) (*Report, error) {
	pkg, err := o.GeneratePackage(ctx, release, assets, recipient)
	if err != nil {
		return nil, err
	}
	ctx = services.WithStage(ctx, "validate")
	report := &Report{Package: pkg}

	data, err := os.ReadFile(pkg.DocumentPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "delivery", "validate", "failed to read generated document", err)
	}
	parsed, err := o.documents.Parse(data)
	if err != nil {
		report.Problems = append(report.Problems, fmt.Sprintf("generated document does not parse: %v", err))
		return report, nil
	}
	report.Problems = append(report.Problems, ern.ValidateContent(parsed)...)

	// Manifest reconciliation: every document resource should have supplied
	// source material.
	supplied := 0
	if assets != nil {
		supplied = len(assets.AudioFiles)
		if assets.CoverArt != nil {
			supplied++
		}
	}
	declared := len(parsed.ResourceList)
	if diff := abs(declared - supplied); diff > o.manifestTolerance {
		report.Problems = append(report.Problems,
			fmt.Sprintf("Manifest Mismatch: document declares %d resources, %d supplied", declared, supplied))
	}

	if assets != nil {
		for _, file := range assets.AudioFiles {
			if strings.Contains(strings.ToLower(file.URL), "corrupt") {
				report.Problems = append(report.Problems,
					fmt.Sprintf("corrupt audio source: %s", file.URL))
			}
			if isSpatialMaster(file.URL) && !losslessFormats[file.Extension()] {
				report.Problems = append(report.Problems,
					fmt.Sprintf("spatial audio master %s must be lossless", filepath.Base(file.URL)))
			}
		}
		if cover := assets.CoverArt; cover != nil {
			if strings.Contains(strings.ToLower(cover.URL), "corrupt") {
				report.Problems = append(report.Problems,
					fmt.Sprintf("corrupt cover source: %s", cover.URL))
			}
			if cover.Width <= 0 || cover.Height <= 0 {
				report.Problems = append(report.Problems, "cover art dimensions are unknown")
			} else {
				if cover.Width != cover.Height {
					report.Problems = append(report.Problems,
						fmt.Sprintf("cover art is not square (%dx%d)", cover.Width, cover.Height))
				}
				if reqs != nil && (cover.Width < reqs.CoverArt.MinWidth || cover.Height < reqs.CoverArt.MinHeight) {
					report.Problems = append(report.Problems,
						fmt.Sprintf("cover art %dx%d is below the %s minimum %dx%d",
							cover.Width, cover.Height, reqs.DistributorID,
							reqs.CoverArt.MinWidth, reqs.CoverArt.MinHeight))
				}
			}
			if ext := cover.Extension(); ext != "jpg" && ext != "png" {
				report.Problems = append(report.Problems,
					fmt.Sprintf("cover art format %s is not jpeg or png", ext))
			}
		}
	}

	if !report.Valid() {
		o.logger.With(services.ContextArgs(ctx)...).Warn("package validation found problems",
			logging.String("dir", pkg.Dir),
			logging.Int("problems", len(report.Problems)))
	}
	return report, nil
}

// Deliver verifies the canonical identifier chain, validates the package
// against the partner's requirements, submits through the partner adapter,
// and uploads the document package. The transport session is closed on
// success and failure alike.
func (o *Orchestrator) Deliver(ctx context.Context, release *metadata.Release, assets *metadata.Assets, distributorID string, creds distributor.Credentials) (*Result, error) {
	adapter, err := o.registry.Get(distributorID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithDistributor(ctx, distributorID)
	ctx = services.WithStage(ctx, "deliver")
	logger := o.logger.With(services.ContextArgs(ctx)...)

	// Releases with a broken identifier chain never reach packaging.
	if canonical := metadata.VerifyCanonical(release); !canonical.Valid {
		logger.Warn("rejecting delivery of unlinked release",
			logging.String("problem", canonical.Err))
		return &Result{Accepted: false, Problems: []string{canonical.Err}}, nil
	}

	reqs := adapter.Requirements()
	report, err := o.ValidatePackage(ctx, release, assets, ern.Party{
		PartyID:   adapter.PartyID(),
		PartyName: adapter.Name(),
	}, &reqs)
	if err != nil {
		return nil, err
	}
	if !report.Valid() {
		return &Result{
			Accepted: false,
			Package:  report.Package,
			Problems: report.Problems,
		}, nil
	}

	if err := adapter.Connect(ctx, creds); err != nil {
		return nil, err
	}
	defer func() {
		_ = adapter.Disconnect()
	}()

	submission, err := adapter.CreateRelease(ctx, release, assets)
	if err != nil {
		return &Result{
			Accepted:   false,
			Submission: submission,
			Package:    report.Package,
			Problems:   []string{err.Error()},
		}, err
	}

	if o.transport != nil {
		if err := o.uploadPackage(ctx, report.Package); err != nil {
			logger.Error("document package upload failed", logging.Error(err))
			return &Result{
				Accepted:   false,
				Submission: submission,
				Package:    report.Package,
				Problems:   []string{err.Error()},
			}, err
		}
	}

	return &Result{
		Accepted:   submission.Success,
		Submission: submission,
		Package:    report.Package,
	}, nil
}

// uploadPackage runs one transport session with a guaranteed disconnect.
func (o *Orchestrator) uploadPackage(ctx context.Context, pkg *Package) error {
	if err := o.transport.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		_ = o.transport.Disconnect()
	}()
	return o.transport.UploadDirectory(ctx, pkg.Dir, filepath.Base(pkg.Dir))
}

func isSpatialMaster(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "atmos") || strings.Contains(lower, "spatial")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
