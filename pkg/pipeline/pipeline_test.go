package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tejocr/tejocr/pkg/config"
	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// --- test doubles ---

type fakeLocator struct {
	path string
	err  error
}

func (l *fakeLocator) Locate(string) (string, error) { return l.path, l.err }
func (l *fakeLocator) Validate(context.Context, string) (string, error) {
	return "5.3.1", nil
}

// fakeAcquirer hands out a real temp file so the test can verify cleanup.
type fakeAcquirer struct {
	err     error
	created string
	owned   bool
}

func (a *fakeAcquirer) Acquire(types.ImageSource, interfaces.DocumentContext) (string, bool, error) {
	if a.err != nil {
		return "", false, a.err
	}
	f, err := os.CreateTemp("", "tejocr-img-test-*.png")
	if err != nil {
		return "", false, err
	}
	f.Close()
	a.created = f.Name()
	return a.created, a.owned, nil
}

type fakePreprocessor struct {
	err      error
	copyFile bool
	created  string
}

func (p *fakePreprocessor) Process(imagePath string, grayscale, binarize bool) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if !p.copyFile {
		return imagePath, nil
	}
	f, err := os.CreateTemp("", "tejocr-img-test-*.png")
	if err != nil {
		return "", err
	}
	f.Close()
	p.created = f.Name()
	return p.created, nil
}

type fakeEngine struct {
	text string
	err  error
	seen string
}

func (e *fakeEngine) Name() string                            { return "fake" }
func (e *fakeEngine) Version(context.Context) (string, error) { return "5.3.1", nil }
func (e *fakeEngine) Languages(context.Context) []string      { return []string{"eng"} }
func (e *fakeEngine) RefreshLanguages()                       {}
func (e *fakeEngine) Recognize(_ context.Context, imagePath string, _ types.OcrOptions) (string, error) {
	e.seen = imagePath
	return e.text, e.err
}

type memStore struct {
	values map[string]string
}

func (s *memStore) Get(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}
func (s *memStore) Set(key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}
func (s *memStore) Keys() []string { return nil }

// --- helpers ---

func defaultOptions() types.OcrOptions {
	return types.OcrOptions{Language: "eng", PSM: 3, OEM: 3}
}

func testPipeline(t *testing.T, loc *fakeLocator, acq *fakeAcquirer, pre *fakePreprocessor, eng *fakeEngine, opts ...Option) *Pipeline {
	t.Helper()
	all := append([]Option{
		WithLocator(loc),
		WithAcquirer(acq),
		WithPreprocessor(pre),
		WithEngineFactory(func(string, int, *logger.Logger) interfaces.Engine { return eng }),
	}, opts...)
	return New(config.NewConfig(), logger.DefaultLogger(), nil, all...)
}

func mustBeGone(t *testing.T, path string) {
	t.Helper()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file should have been removed: %s", path)
	}
}

// --- tests ---

func TestRunSuccessOwnedSource(t *testing.T) {
	acq := &fakeAcquirer{owned: true}
	pre := &fakePreprocessor{copyFile: true}
	eng := &fakeEngine{text: "  Hello\nWorld\n"}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, pre, eng)

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Text != "  Hello\nWorld\n" {
		t.Fatalf("text must arrive verbatim, got %q", result.Text)
	}
	if eng.seen != pre.created {
		t.Fatalf("engine should receive the preprocessed file, got %s", eng.seen)
	}
	mustBeGone(t, acq.created)
	mustBeGone(t, pre.created)
}

func TestRunSuccessUserFileIsNeverDeleted(t *testing.T) {
	userFile := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(userFile, []byte("image"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Pass-through acquirer and preprocessor: the engine sees the user file.
	acq := &fakeAcquirer{}
	pre := &fakePreprocessor{}
	eng := &fakeEngine{text: "ok"}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, pre, eng)

	result := p.Run(context.Background(), types.FileSource(userFile), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	// The fake acquirer made its own unowned temp standing in for the user
	// file; unowned means the pipeline must leave it alone.
	if _, err := os.Stat(acq.created); err != nil {
		t.Fatalf("unowned input must survive the run: %v", err)
	}
	os.Remove(acq.created)
}

func TestRunEmptyTextIsSuccess(t *testing.T) {
	acq := &fakeAcquirer{owned: true}
	eng := &fakeEngine{text: ""}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, &fakePreprocessor{}, eng)

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("empty recognition output is a valid success, got %+v", result)
	}
	if result.Text != "" {
		t.Fatalf("expected empty text, got %q", result.Text)
	}
	mustBeGone(t, acq.created)
}

func TestRunLocateFailure(t *testing.T) {
	loc := &fakeLocator{err: utils.NewEngineNotFoundError("tesseract executable not found; install it", nil)}
	p := testPipeline(t, loc, &fakeAcquirer{}, &fakePreprocessor{}, &fakeEngine{})

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if result.Success {
		t.Fatal("locate failure must fail the run")
	}
	if !strings.Contains(result.Message, "install it") {
		t.Fatalf("result should carry the actionable message, got %q", result.Message)
	}
}

func TestRunAcquireFailure(t *testing.T) {
	acq := &fakeAcquirer{err: utils.NewAcquisitionError("no image is selected", nil)}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, &fakePreprocessor{}, &fakeEngine{})

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if result.Success {
		t.Fatal("acquire failure must fail the run")
	}
	if result.Message != "no image is selected" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestRunPreprocessFailureCleansUp(t *testing.T) {
	acq := &fakeAcquirer{owned: true}
	pre := &fakePreprocessor{err: utils.NewIOError("failed to write preprocessed image", nil)}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, pre, &fakeEngine{})

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if result.Success {
		t.Fatal("preprocess failure must fail the run")
	}
	mustBeGone(t, acq.created)
}

func TestRunRecognizeFailureCleansUp(t *testing.T) {
	acq := &fakeAcquirer{owned: true}
	pre := &fakePreprocessor{copyFile: true}
	eng := &fakeEngine{err: utils.NewOcrRuntimeError("engine rejected the request", nil)}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, pre, eng)

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if result.Success {
		t.Fatal("recognition failure must fail the run")
	}
	if result.Message != "engine rejected the request" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	mustBeGone(t, acq.created)
	mustBeGone(t, pre.created)
}

func TestRunInvalidOptions(t *testing.T) {
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, &fakeAcquirer{}, &fakePreprocessor{}, &fakeEngine{})

	result := p.Run(context.Background(), types.SelectionSource(), types.OcrOptions{Language: "", PSM: 3, OEM: 3}, nil)
	if result.Success {
		t.Fatal("invalid options must fail the run before any work happens")
	}
}

func TestRunObserverSequence(t *testing.T) {
	var messages []string
	acq := &fakeAcquirer{owned: true}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, &fakePreprocessor{}, &fakeEngine{text: "ok"},
		WithObserver(func(m string) { messages = append(messages, m) }))

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(messages) < 4 {
		t.Fatalf("expected a status per stage, got %v", messages)
	}
	joined := strings.Join(messages, " | ")
	for _, want := range []string{"Locating", "Acquiring", "Preprocessing", "Recognizing"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q stage in %v", want, messages)
		}
	}
}

func TestRunObserverPanicIsIsolated(t *testing.T) {
	acq := &fakeAcquirer{owned: true}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, &fakePreprocessor{}, &fakeEngine{text: "ok"},
		WithObserver(func(string) { panic("observer bug") }))

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("a panicking observer must not affect the run, got %+v", result)
	}
	mustBeGone(t, acq.created)
}

func TestRunCachesEnginePath(t *testing.T) {
	store := &memStore{}
	acq := &fakeAcquirer{owned: true}
	p := testPipeline(t, &fakeLocator{path: "/opt/tesseract/bin/tesseract"}, acq, &fakePreprocessor{}, &fakeEngine{text: "ok"},
		WithSettingsStore(store))

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if got := store.Get(constants.CfgKeyEnginePath, ""); got != "/opt/tesseract/bin/tesseract" {
		t.Fatalf("resolved engine path should be cached, got %q", got)
	}
}

func TestRunFoldsUnexpectedErrors(t *testing.T) {
	eng := &fakeEngine{err: fmt.Errorf("boom")}
	acq := &fakeAcquirer{owned: true}
	p := testPipeline(t, &fakeLocator{path: "/usr/bin/tesseract"}, acq, &fakePreprocessor{}, eng)

	result := p.Run(context.Background(), types.SelectionSource(), defaultOptions(), nil)
	if result.Success {
		t.Fatal("unexpected errors must still fail the run")
	}
	if !strings.Contains(result.Message, "boom") {
		t.Fatalf("message should mention the cause, got %q", result.Message)
	}
}
