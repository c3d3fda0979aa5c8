package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/utils"
)

// EngineLocator resolves an installed OCR engine executable. Resolution is
// a fixed precedence: configured path, then the system search path, then
// platform-conventional install directories. The result depends only on
// the arguments and filesystem/PATH state, so repeated calls are stable.
type EngineLocator struct {
	logger    *logger.Logger
	platform  *constants.PlatformConfig
	pathUtils *utils.PathUtils
}

var _ interfaces.Locator = (*EngineLocator)(nil)

// NewEngineLocator creates a locator using the current platform's
// conventional locations.
func NewEngineLocator(log *logger.Logger) *EngineLocator {
	return &EngineLocator{
		logger:    log,
		platform:  constants.GetPlatformConfig(),
		pathUtils: utils.DefaultPathUtils,
	}
}

// Locate resolves the engine executable, first match wins.
func (l *EngineLocator) Locate(configuredPath string) (string, error) {
	if configuredPath != "" {
		expanded, err := l.pathUtils.ExpandPath(configuredPath)
		if err == nil && l.pathUtils.IsExecutable(expanded) {
			l.logger.Debug("Using configured engine path: %s", expanded)
			return expanded, nil
		}
		l.logger.Warn("Configured engine path is not an executable file, falling back to auto-detection: %s", configuredPath)
	}

	for _, name := range l.platform.EngineBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			resolved := l.pathUtils.NormalizePath(path)
			l.logger.Debug("Found engine on PATH: %s", resolved)
			return resolved, nil
		}
	}

	for _, dir := range l.platform.EngineWellKnownDirs {
		for _, name := range l.platform.EngineBinaryNames {
			candidate := filepath.Join(dir, l.pathUtils.GetExecutableName(name))
			if l.pathUtils.IsExecutable(candidate) {
				l.logger.Debug("Found engine at well-known location: %s", candidate)
				return candidate, nil
			}
		}
	}

	return "", utils.NewEngineNotFoundError(
		fmt.Sprintf("tesseract executable not found; install it (e.g. 'brew install tesseract' or 'apt install tesseract-ocr') or set %s in the configuration", constants.CfgKeyEnginePath),
		nil)
}

// Validate runs the engine's version query against path. It distinguishes a
// missing binary from one that is present but failed to execute from one
// that works and reports its version.
func (l *EngineLocator) Validate(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", utils.NewEngineNotFoundError("no engine path provided", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", utils.NewEngineNotFoundError(fmt.Sprintf("engine binary not found: %s", path), err)
	}
	if err != nil || info.IsDir() {
		return "", utils.NewEngineNotFoundError(fmt.Sprintf("engine path is not a file: %s", path), err)
	}

	version, err := queryVersion(ctx, path)
	if err != nil {
		return "", utils.NewEngineInvokeError(
			fmt.Sprintf("engine binary at %s is present but failed to execute; check permissions and that the installation is intact", path),
			err)
	}

	l.logger.Debug("Engine validated: %s (version %s)", path, version)
	return version, nil
}

// DeriveTessdataPrefix infers the trained-data directory adjacent to an
// installed binary (<dir>/../share/tessdata). Returns "" when the
// conventional layout is absent.
func DeriveTessdataPrefix(enginePath string) string {
	binDir := filepath.Dir(enginePath)
	candidate := filepath.Join(binDir, "..", "share", "tessdata")
	candidate = filepath.Clean(candidate)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return ""
}

// parseVersion extracts the bare version from tesseract's --version banner,
// whose first line looks like "tesseract 5.3.1".
func parseVersion(output string) string {
	lines := strings.SplitN(strings.TrimSpace(output), "\n", 2)
	if len(lines) == 0 || lines[0] == "" {
		return ""
	}
	fields := strings.Fields(lines[0])
	if len(fields) >= 2 && strings.EqualFold(fields[0], "tesseract") {
		return strings.TrimPrefix(fields[1], "v")
	}
	return strings.TrimSpace(lines[0])
}
