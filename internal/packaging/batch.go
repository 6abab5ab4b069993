package packaging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"tonearm/internal/logging"
	"tonearm/internal/services"
	"tonearm/internal/textutil"
)

// BatchManifestName is the completion marker written after every package in
// a batch has been moved into place.
const BatchManifestName = "BatchComplete.txt"

// Batcher assembles multi-release batches in a shared directory. The
// directory is guarded by a file lock so concurrent deliveries do not
// interleave their moves.
type Batcher struct {
	batchDir string
	logger   *slog.Logger
}

// NewBatcher returns a batcher rooted at batchDir.
func NewBatcher(batchDir string, logger *slog.Logger) *Batcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batcher{batchDir: batchDir, logger: logger}
}

// Assemble moves the given package directories into a new batch directory,
// sequentially, then writes the completion manifest. Caller-supplied batch
// names are reduced to a safe directory token; an empty name gets a
// timestamped one. Returns the batch directory path.
func (b *Batcher) Assemble(ctx context.Context, batchName string, packageDirs []string) (string, error) {
	if len(packageDirs) == 0 {
		return "", services.Wrap(services.ErrValidation, "packaging", "batch", "batch contains no packages", nil)
	}
	if batchName == "" {
		batchName = "batch-" + time.Now().UTC().Format("20060102-150405")
	} else {
		batchName = textutil.SanitizeToken(batchName)
	}
	if err := os.MkdirAll(b.batchDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransport, "packaging", "batch", "failed to create batch directory", err)
	}

	lock := flock.New(filepath.Join(b.batchDir, ".batch.lock"))
	locked, err := lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "packaging", "batch", "failed to acquire batch lock", err)
	}
	if !locked {
		return "", services.Wrap(services.ErrTransient, "packaging", "batch", "batch directory is locked by another delivery", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	batchPath := filepath.Join(b.batchDir, batchName)
	if err := os.MkdirAll(batchPath, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransport, "packaging", "batch", "failed to create batch", err)
	}

	var moved []string
	for _, dir := range packageDirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target := filepath.Join(batchPath, filepath.Base(dir))
		if err := os.Rename(dir, target); err != nil {
			return "", services.Wrap(services.ErrTransport, "packaging", "batch",
				fmt.Sprintf("failed to move package %s into batch", filepath.Base(dir)), err)
		}
		moved = append(moved, filepath.Base(dir))
		b.logger.Debug("moved package into batch",
			logging.String("package", filepath.Base(dir)),
			logging.String("batch", batchName))
	}

	manifest := fmt.Sprintf("Batch: %s\nCompleted: %s\nPackages: %d\n\n%s\n",
		batchName,
		time.Now().UTC().Format(time.RFC3339),
		len(moved),
		strings.Join(moved, "\n"))
	if err := os.WriteFile(filepath.Join(batchPath, BatchManifestName), []byte(manifest), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransport, "packaging", "batch", "failed to write batch manifest", err)
	}

	b.logger.Info("assembled delivery batch",
		logging.String("batch", batchName),
		logging.Int("packages", len(moved)))
	return batchPath, nil
}
