package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/utils"
)

// writeFakeEngine drops an executable script that answers --version like
// tesseract does.
func writeFakeEngine(t *testing.T, dir, name, version string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine scripts require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\necho \"tesseract " + version + "\"\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLocatePrefersConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	configured := writeFakeEngine(t, dir, "my-tesseract", "5.3.1")

	// PATH also has a tesseract; the configured path must still win.
	pathDir := t.TempDir()
	writeFakeEngine(t, pathDir, "tesseract", "4.0.0")
	t.Setenv("PATH", pathDir)

	locator := NewEngineLocator(logger.DefaultLogger())
	got, err := locator.Locate(configured)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != configured {
		t.Fatalf("configured path should win, got %s", got)
	}
}

func TestLocateFallsBackToPath(t *testing.T) {
	pathDir := t.TempDir()
	want := writeFakeEngine(t, pathDir, "tesseract", "5.3.1")
	t.Setenv("PATH", pathDir)

	locator := NewEngineLocator(logger.DefaultLogger())

	// Bogus configured path falls through to PATH search.
	got, err := locator.Locate(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("expected PATH hit %s, got %s", want, got)
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	locator := NewEngineLocator(logger.DefaultLogger())
	// Hide the well-known directories so the test machine's real install
	// cannot satisfy the probe.
	locator.platform.EngineWellKnownDirs = []string{t.TempDir()}

	_, err := locator.Locate("")
	if err == nil {
		t.Fatal("expected engine-not-found")
	}
	if utils.GetErrorType(err) != utils.ErrorTypeEngineNotFound {
		t.Fatalf("expected engine_not_found, got %s", utils.GetErrorType(err))
	}
}

func TestLocateIsStable(t *testing.T) {
	pathDir := t.TempDir()
	writeFakeEngine(t, pathDir, "tesseract", "5.3.1")
	t.Setenv("PATH", pathDir)

	locator := NewEngineLocator(logger.DefaultLogger())
	first, err := locator.Locate("")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	second, err := locator.Locate("")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if first != second {
		t.Fatalf("repeated locate should be stable: %s vs %s", first, second)
	}
}

func TestLocateWellKnownDirectory(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	knownDir := t.TempDir()
	want := writeFakeEngine(t, knownDir, "tesseract", "5.3.1")

	locator := NewEngineLocator(logger.DefaultLogger())
	locator.platform.EngineWellKnownDirs = []string{knownDir}

	got, err := locator.Locate("")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("expected well-known hit %s, got %s", want, got)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	enginePath := writeFakeEngine(t, dir, "tesseract", "5.3.1")

	locator := NewEngineLocator(logger.DefaultLogger())
	ctx := context.Background()

	version, err := locator.Validate(ctx, enginePath)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if version != "5.3.1" {
		t.Fatalf("expected version 5.3.1, got %q", version)
	}

	_, err = locator.Validate(ctx, filepath.Join(dir, "missing"))
	if utils.GetErrorType(err) != utils.ErrorTypeEngineNotFound {
		t.Fatalf("missing binary should be engine_not_found, got %v", err)
	}

	// Present but not executable.
	broken := filepath.Join(dir, "broken")
	if err := os.WriteFile(broken, []byte("not a program"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err = locator.Validate(ctx, broken)
	if utils.GetErrorType(err) != utils.ErrorTypeEngineInvoke {
		t.Fatalf("unexecutable binary should be engine_invocation, got %v", err)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"tesseract 5.3.1\n leptonica-1.82.0", "5.3.1"},
		{"tesseract v4.1.1", "4.1.1"},
		{"tesseract 5.0.0-alpha", "5.0.0-alpha"},
		{"something else entirely", "something else entirely"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseVersion(tt.output); got != tt.want {
			t.Fatalf("parseVersion(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestDeriveTessdataPrefix(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	tessdata := filepath.Join(root, "share", "tessdata")
	for _, d := range []string{binDir, tessdata} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	got := DeriveTessdataPrefix(filepath.Join(binDir, "tesseract"))
	if got != tessdata {
		t.Fatalf("expected %s, got %q", tessdata, got)
	}

	// No conventional layout: empty result, engine env untouched.
	if got := DeriveTessdataPrefix(filepath.Join(t.TempDir(), "tesseract")); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
}
