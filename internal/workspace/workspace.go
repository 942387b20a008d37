// Package workspace manages the scoped temporary directory a render job owns
// for its intermediate artifacts.
//
// Each job run gets a fresh directory guarded by a lock file, so no two runs
// can ever share scratch space. Teardown removes the tree on Close unless the
// workspace was opened with retention enabled, which keeps intermediates
// around for post-run inspection.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Workspace is the exclusively-owned scratch directory for one job run.
type Workspace struct {
	dir    string
	lock   *flock.Flock
	keep   bool
	logger *slog.Logger
	closed bool
}

// Option configures workspace construction.
type Option func(*Workspace)

// WithKeep retains the directory after Close for diagnostics.
func WithKeep(keep bool) Option {
	return func(w *Workspace) { w.keep = keep }
}

// WithLogger attaches a logger for teardown diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Open creates a fresh workspace under parent (or the system temp directory
// when parent is empty) and acquires its ownership lock.
func Open(parent, prefix string, opts ...Option) (*Workspace, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create workspace parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, prefix)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	ws := &Workspace{dir: dir, lock: flock.New(filepath.Join(dir, ".montage.lock"))}
	for _, opt := range opts {
		opt(ws)
	}

	locked, err := ws.lock.TryLock()
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("workspace %s already owned by another run", dir)
	}
	return ws, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins elements inside the workspace.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

// Keep reports whether the workspace is retained after Close.
func (w *Workspace) Keep() bool {
	return w.keep
}

// Close releases ownership and removes the directory unless retention was
// requested. Removal failures are reported but never escalate: the final
// artifact already exists by the time teardown runs.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.lock.Unlock(); err != nil && w.logger != nil {
		w.logger.Warn("release workspace lock", "dir", w.dir, "error", err)
	}

	if w.keep {
		if w.logger != nil {
			w.logger.Info("workspace retained", "dir", w.dir)
		}
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		if w.logger != nil {
			w.logger.Warn("remove workspace", "dir", w.dir, "error", err)
		}
		return err
	}
	return nil
}
