package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tejocr/tejocr/pkg/constants"
)

// PathUtils provides cross-platform path utilities
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a path for the current platform
func (p *PathUtils) NormalizePath(path string) string {
	cleaned := filepath.Clean(path)

	// On Windows, ensure proper drive letter formatting
	if constants.IsWindows() && len(cleaned) >= 2 && cleaned[1] == ':' {
		if cleaned[0] >= 'a' && cleaned[0] <= 'z' {
			cleaned = strings.ToUpper(string(cleaned[0])) + cleaned[1:]
		}
	}

	return cleaned
}

// GetTempDir returns a platform-appropriate temporary directory
func (p *PathUtils) GetTempDir() string {
	return p.NormalizePath(os.TempDir())
}

// CreateTempFile creates a temporary file with appropriate naming
func (p *PathUtils) CreateTempFile(dir, prefix, suffix string) (string, error) {
	if dir == "" {
		dir = p.GetTempDir()
	}

	if err := os.MkdirAll(dir, constants.DefaultDirPermission); err != nil {
		return "", fmt.Errorf("failed to ensure temp directory: %w", err)
	}

	file, err := os.CreateTemp(dir, prefix+"*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	return p.NormalizePath(file.Name()), nil
}

// IsExecutable checks if a file is executable on the current platform
func (p *PathUtils) IsExecutable(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return false
	}

	if constants.IsWindows() {
		ext := strings.ToLower(filepath.Ext(filePath))
		return ext == ".exe" || ext == ".bat" || ext == ".cmd"
	}
	return info.Mode()&0111 != 0
}

// GetExecutableName returns the platform-appropriate executable name
func (p *PathUtils) GetExecutableName(baseName string) string {
	if constants.IsWindows() && !strings.HasSuffix(strings.ToLower(baseName), ".exe") {
		return baseName + ".exe"
	}
	return baseName
}

// ExpandPath expands environment variables and user home directory in path
func (p *PathUtils) ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		if expanded == "~" {
			expanded = homeDir
		} else if strings.HasPrefix(expanded, "~/") {
			expanded = filepath.Join(homeDir, expanded[2:])
		}
	}

	return p.NormalizePath(expanded), nil
}

// Global instance for easy access
var DefaultPathUtils = NewPathUtils()

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(dirPath, constants.DefaultDirPermission)
}
