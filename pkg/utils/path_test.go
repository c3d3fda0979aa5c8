package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	p := NewPathUtils()

	got, err := p.ExpandPath("~/bin/tesseract")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "bin", "tesseract") {
		t.Fatalf("tilde expansion failed: %s", got)
	}

	got, err = p.ExpandPath("~")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != home {
		t.Fatalf("bare tilde should expand to home, got %s", got)
	}

	t.Setenv("TEJOCR_TEST_DIR", "/opt/ocr")
	got, err = p.ExpandPath("$TEJOCR_TEST_DIR/bin")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Clean("/opt/ocr/bin") {
		t.Fatalf("env expansion failed: %s", got)
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission-bit semantics are POSIX-specific")
	}
	dir := t.TempDir()
	p := NewPathUtils()

	exe := filepath.Join(dir, "tool")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !p.IsExecutable(exe) {
		t.Fatal("file with exec bit should be executable")
	}

	plain := filepath.Join(dir, "data")
	if err := os.WriteFile(plain, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if p.IsExecutable(plain) {
		t.Fatal("file without exec bit should not be executable")
	}

	if p.IsExecutable(dir) {
		t.Fatal("a directory is never executable in this sense")
	}
}

func TestGetExecutableName(t *testing.T) {
	p := NewPathUtils()
	got := p.GetExecutableName("tesseract")
	if runtime.GOOS == "windows" {
		if got != "tesseract.exe" {
			t.Fatalf("expected tesseract.exe, got %s", got)
		}
	} else if got != "tesseract" {
		t.Fatalf("expected tesseract, got %s", got)
	}
}

func TestCreateTempFile(t *testing.T) {
	p := NewPathUtils()
	path, err := p.CreateTempFile(t.TempDir(), "tejocr-img-", ".png")
	if err != nil {
		t.Fatalf("CreateTempFile: %v", err)
	}
	if filepath.Ext(path) != ".png" {
		t.Fatalf("suffix not applied: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("temp file should exist: %v", err)
	}
}
