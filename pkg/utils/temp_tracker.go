package utils

import (
	"fmt"
	"os"
	"sync"

	"github.com/tejocr/tejocr/pkg/logger"
)

// TempTracker records the temporary files one pipeline run creates so every
// exit path can release them. Files the caller owns (user-supplied input)
// are never registered here.
type TempTracker struct {
	prefix    string
	tempFiles []string
	mu        sync.Mutex
	logger    *logger.Logger
	pathUtils *PathUtils
}

// NewTempTracker creates a tracker whose files share the given name prefix.
func NewTempTracker(prefix string, log *logger.Logger) *TempTracker {
	return &TempTracker{
		prefix:    prefix,
		logger:    log,
		pathUtils: DefaultPathUtils,
	}
}

// CreateTempFile creates a tracked temporary file and returns its path.
func (tt *TempTracker) CreateTempFile(suffix string) (string, error) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tempFile, err := tt.pathUtils.CreateTempFile("", tt.prefix, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	tt.tempFiles = append(tt.tempFiles, tempFile)
	tt.logger.Debug("Created temp file: %s", tempFile)
	return tempFile, nil
}

// Track registers an externally created file for cleanup.
func (tt *TempTracker) Track(path string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.tempFiles = append(tt.tempFiles, path)
}

// Release removes a single tracked file immediately and stops tracking it.
// Used for the image handed to the engine, which is deleted as soon as
// recognition returns instead of at end of run.
func (tt *TempTracker) Release(path string) error {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	for i, f := range tt.tempFiles {
		if f == path {
			tt.tempFiles = append(tt.tempFiles[:i], tt.tempFiles[i+1:]...)
			break
		}
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		tt.logger.Warn("Failed to remove temporary file: %s, error: %v", path, err)
		return err
	}
	tt.logger.Debug("Removed temporary file: %s", path)
	return nil
}

// Cleanup removes every tracked file. Safe to call multiple times.
func (tt *TempTracker) Cleanup() error {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	var errs []error
	for _, file := range tt.tempFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp file %s: %w", file, err))
			tt.logger.Warn("Failed to remove temporary file: %s, error: %v", file, err)
		} else {
			tt.logger.Debug("Removed temporary file: %s", file)
		}
	}

	tt.tempFiles = tt.tempFiles[:0]

	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed with %d errors: %v", len(errs), errs)
	}
	return nil
}

// WithCleanup executes fn and removes all tracked files afterwards,
// regardless of outcome.
func (tt *TempTracker) WithCleanup(fn func() error) error {
	defer func() {
		if err := tt.Cleanup(); err != nil {
			tt.logger.Error("Temporary file cleanup failed: %v", err)
		}
	}()
	return fn()
}
