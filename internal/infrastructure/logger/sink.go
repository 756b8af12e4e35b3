package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSinks opens the append-only log file at path and tees every line to
// console when it is non-nil. With an empty path only console is used, and
// stderr stands in for a nil console.
func OpenSinks(path string, console io.Writer) (io.Writer, io.Closer, error) {
	if path == "" {
		if console == nil {
			console = os.Stderr
		}
		return console, nopCloser{}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissionLog); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissionLog)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	if console != nil {
		return io.MultiWriter(f, console), f, nil
	}
	return f, f, nil
}
