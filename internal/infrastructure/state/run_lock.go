package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
)

// RunLock is an advisory lock that keeps two updater runs from talking to
// the registrar at the same time.
type RunLock struct {
	path  string
	flock *flock.Flock
}

func NewRunLock(path string) *RunLock {
	if path == "" {
		path = constants.DefaultLockPath()
	}
	return &RunLock{
		path:  path,
		flock: flock.New(path, flock.SetPermissions(constants.FilePermissionOwnerRW)),
	}
}

func (l *RunLock) Path() string {
	return l.path
}

// TryAcquire takes the lock without blocking. It returns domain.ErrRunLocked
// when another process holds it.
func (l *RunLock) TryAcquire() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissionLog); err != nil {
			return fmt.Errorf("creating lock directory: %w", err)
		}
	}
	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", l.path, err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", l.path, domain.ErrRunLocked)
	}
	return nil
}

func (l *RunLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("releasing lock %s: %w", l.path, err)
	}
	return nil
}
