// Package transport defines the delivery transport contract and a local
// filesystem implementation. Real partner endpoints (SFTP and the like) plug
// in behind the same interface; sessions are explicit so callers can
// guarantee disconnection on both success and failure paths.
package transport

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tonearm/internal/fileutil"
	"tonearm/internal/services"
)

// Transport moves a completed package directory to a partner endpoint.
type Transport interface {
	Connect(ctx context.Context) error
	// UploadDirectory mirrors localDir under remoteName at the endpoint.
	UploadDirectory(ctx context.Context, localDir, remoteName string) error
	IsConnected() bool
	Disconnect() error
}

// Local is a Transport that drops packages into a local directory, used for
// watched-folder partner integrations and tests.
type Local struct {
	dropDir   string
	connected bool
}

// NewLocal returns a transport targeting the given drop directory.
func NewLocal(dropDir string) *Local {
	return &Local{dropDir: dropDir}
}

// Connect verifies the drop directory is usable.
func (l *Local) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.dropDir == "" {
		return services.Wrap(services.ErrConfiguration, "transport", "connect", "drop directory not configured", nil)
	}
	if err := os.MkdirAll(l.dropDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransport, "transport", "connect", "failed to prepare drop directory", err)
	}
	l.connected = true
	return nil
}

// IsConnected reports whether Connect succeeded and Disconnect has not been
// called.
func (l *Local) IsConnected() bool {
	return l.connected
}

// UploadDirectory copies the package tree into the drop directory.
func (l *Local) UploadDirectory(ctx context.Context, localDir, remoteName string) error {
	if !l.connected {
		return services.ErrNotConnected
	}
	if remoteName == "" {
		remoteName = filepath.Base(localDir)
	}
	target := filepath.Join(l.dropDir, remoteName)

	err := filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(target, rel)
		if entry.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		return fileutil.CopyFile(path, dest)
	})
	if err != nil {
		return services.Wrap(services.ErrTransport, "transport", "upload",
			fmt.Sprintf("failed to upload %s", remoteName), err)
	}
	return nil
}

// Disconnect ends the session.
func (l *Local) Disconnect() error {
	l.connected = false
	return nil
}
