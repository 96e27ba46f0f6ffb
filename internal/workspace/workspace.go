// Package workspace manages the per-run scratch directory and the file locks
// that keep concurrent runs from downloading the same model weights at once.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lyricalign/internal/textutil"
)

const (
	runsDirName    = "runs"
	locksDirName   = "locks"
	lockRetryDelay = 250 * time.Millisecond
)

// Run is a scratch directory owned by one invocation.
type Run struct {
	ID   string
	Dir  string
	root string
}

// NewRun creates <root>/runs/<id>. An empty id gets a fresh UUID.
func NewRun(root, id string) (*Run, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("create run workspace: root required")
	}
	if id == "" {
		id = uuid.NewString()
	}
	dir := filepath.Join(root, runsDirName, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run workspace: %w", err)
	}
	return &Run{ID: id, Dir: dir, root: root}, nil
}

// Path joins name onto the run directory.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// Cleanup removes the run directory and everything in it.
func (r *Run) Cleanup() error {
	if r == nil || r.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(r.Dir); err != nil {
		return fmt.Errorf("remove run workspace: %w", err)
	}
	return nil
}

// ModelLock is a held model lock.
type ModelLock struct {
	lock *flock.Flock
	Path string
}

// LockModel blocks until the exclusive lock for backend/model under the
// run's root is held, or ctx is done.
func (r *Run) LockModel(ctx context.Context, backend, model string) (*ModelLock, error) {
	return LockModel(ctx, r.root, backend, model)
}

// LockModel blocks until the exclusive lock for backend/model under root is
// held, or ctx is done.
func LockModel(ctx context.Context, root, backend, model string) (*ModelLock, error) {
	dir := filepath.Join(root, locksDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	name := textutil.LockName(backend, model)
	path := filepath.Join(dir, name)
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire model lock %s: %w", name, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire model lock %s: not acquired", name)
	}
	return &ModelLock{lock: fl, Path: path}, nil
}

// Release drops the lock.
func (l *ModelLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
