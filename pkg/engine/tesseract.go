package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// TesseractEngine invokes the tesseract executable located earlier by the
// EngineLocator. Every failure is folded into a typed error; no exec detail
// leaks past Recognize.
type TesseractEngine struct {
	execPath       string
	timeout        time.Duration
	tessdataPrefix string
	logger         *logger.Logger

	mu    sync.Mutex
	langs []string // session language cache, nil until first query
}

var _ interfaces.Engine = (*TesseractEngine)(nil)

// NewTesseractEngine creates an engine bound to the executable at execPath.
// timeoutSeconds bounds each recognition call so the external process can
// never hang a request indefinitely.
func NewTesseractEngine(execPath string, timeoutSeconds int, log *logger.Logger) *TesseractEngine {
	if timeoutSeconds <= 0 {
		timeoutSeconds = constants.DefaultTimeoutSeconds
	}
	return &TesseractEngine{
		execPath:       execPath,
		timeout:        time.Duration(timeoutSeconds) * time.Second,
		tessdataPrefix: DeriveTessdataPrefix(execPath),
		logger:         log,
	}
}

// Name returns the engine's short name.
func (e *TesseractEngine) Name() string {
	return "tesseract"
}

// Path returns the executable this engine invokes.
func (e *TesseractEngine) Path() string {
	return e.execPath
}

// Version runs `tesseract --version` and returns the parsed version string.
func (e *TesseractEngine) Version(ctx context.Context) (string, error) {
	version, err := queryVersion(ctx, e.execPath)
	if err != nil {
		if isNotFound(err) {
			return "", utils.NewEngineNotFoundError(fmt.Sprintf("engine binary not found: %s", e.execPath), err)
		}
		return "", utils.NewEngineInvokeError(fmt.Sprintf("engine at %s failed to report its version", e.execPath), err)
	}
	return version, nil
}

// Recognize runs text recognition and returns the engine output verbatim,
// embedded newlines included; no trimming or normalization is applied.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string, options types.OcrOptions) (string, error) {
	if err := options.Validate(); err != nil {
		return "", utils.NewValidationError(err.Error(), nil)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", utils.NewImageFileError(fmt.Sprintf("image file for recognition not found: %s", imagePath), err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{
		imagePath,
		"stdout",
		"-l", options.Language,
		"--oem", strconv.Itoa(options.OEM),
		"--psm", strconv.Itoa(options.PSM),
	}
	e.logger.Debug("Running engine: %s %s", e.execPath, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, e.execPath, args...)
	cmd.Env = e.childEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		e.logger.Debug("Engine produced %d bytes of text", stdout.Len())
		return stdout.String(), nil
	}

	switch {
	case isNotFound(err):
		// Defensive: the locator should have run first, but a binary can
		// disappear between locate and recognize.
		return "", utils.NewEngineNotFoundError(
			fmt.Sprintf("engine binary disappeared or is not executable: %s", e.execPath), err)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return "", utils.NewError(utils.ErrorTypeTimeout,
			fmt.Sprintf("recognition timed out after %s; try a smaller image or raise the timeout", e.timeout), err)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", utils.NewOcrRuntimeError(
				fmt.Sprintf("engine rejected the request (language %q, psm %d, oem %d): %s",
					options.Language, options.PSM, options.OEM, firstLine(stderr.String())),
				err)
		}
		return "", utils.NewEngineInvokeError("unexpected error invoking the engine", err)
	}
}

// Languages returns the language codes the engine has trained data for.
// The list is cached on the engine for the session; RefreshLanguages
// invalidates it. A failed query falls back to ["eng"].
func (e *TesseractEngine) Languages(ctx context.Context) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.langs != nil {
		return append([]string(nil), e.langs...)
	}

	langs, err := e.queryLanguages(ctx)
	if err != nil {
		e.logger.Warn("Could not detect available languages: %v", err)
		return []string{constants.DefaultOcrLanguage}
	}

	e.langs = langs
	return append([]string(nil), e.langs...)
}

// RefreshLanguages discards the cached language list so the next Languages
// call re-queries the engine.
func (e *TesseractEngine) RefreshLanguages() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.langs = nil
}

func (e *TesseractEngine) queryLanguages(ctx context.Context) ([]string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, constants.VersionProbeTimeoutSeconds*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, e.execPath, "--list-langs")
	cmd.Env = e.childEnv()

	// tesseract historically prints the list to stderr and newer releases
	// to stdout; collect both.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("list-langs failed: %w", err)
	}

	var langs []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "List of available languages") {
			continue
		}
		langs = append(langs, line)
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("engine reported no languages")
	}

	sort.Strings(langs)
	// English leads the list when present; it is the default everywhere.
	for i, l := range langs {
		if l == constants.DefaultOcrLanguage {
			langs = append(langs[:i], langs[i+1:]...)
			langs = append([]string{constants.DefaultOcrLanguage}, langs...)
			break
		}
	}
	return langs, nil
}

// childEnv passes the parent environment through, adding TESSDATA_PREFIX
// when it was derivable from the install layout and not already set.
func (e *TesseractEngine) childEnv() []string {
	env := os.Environ()
	if e.tessdataPrefix == "" || os.Getenv("TESSDATA_PREFIX") != "" {
		return env
	}
	return append(env, "TESSDATA_PREFIX="+e.tessdataPrefix)
}

// queryVersion runs `<path> --version` with a short timeout and parses the
// banner. Shared by the locator's Validate and the engine's Version.
func queryVersion(ctx context.Context, path string) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, constants.VersionProbeTimeoutSeconds*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, path, "--version")
	// tesseract prints the version banner to stderr on some releases.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("version query failed: %w", err)
	}

	version := parseVersion(string(output))
	if version == "" {
		return "", fmt.Errorf("could not parse version output")
	}
	return version, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no diagnostic output"
	}
	return s
}
