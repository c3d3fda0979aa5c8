// Package pipeline sequences one OCR request: locate the engine, acquire
// the image, preprocess it, recognize text. It owns the lifetime of every
// temporary file the run creates and folds all failures into an OcrResult;
// no error escapes Run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tejocr/tejocr/pkg/acquire"
	"github.com/tejocr/tejocr/pkg/config"
	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/engine"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/preprocess"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// StatusFunc receives human-readable progress strings at each state
// transition. It is best-effort: a nil, slow, or panicking observer never
// affects the run's outcome.
type StatusFunc func(message string)

// EngineFactory builds a recognition engine for the executable the locator
// resolved.
type EngineFactory func(execPath string, timeoutSeconds int, log *logger.Logger) interfaces.Engine

// Pipeline executes OCR requests. Each Run is self-contained: fresh temp
// files, fresh run ID, no state shared across requests except the settings
// store the resolved engine path may be cached into.
type Pipeline struct {
	config       *config.Config
	logger       *logger.Logger
	locator      interfaces.Locator
	acquirer     interfaces.Acquirer
	preprocessor interfaces.Preprocessor
	newEngine    EngineFactory
	settings     interfaces.SettingsStore
	observer     StatusFunc
}

// Option customizes pipeline wiring.
type Option func(*Pipeline)

// WithLocator replaces the engine locator.
func WithLocator(l interfaces.Locator) Option {
	return func(p *Pipeline) { p.locator = l }
}

// WithAcquirer replaces the image acquirer.
func WithAcquirer(a interfaces.Acquirer) Option {
	return func(p *Pipeline) { p.acquirer = a }
}

// WithPreprocessor replaces the preprocessor.
func WithPreprocessor(pp interfaces.Preprocessor) Option {
	return func(p *Pipeline) { p.preprocessor = pp }
}

// WithEngineFactory replaces the recognition engine constructor.
func WithEngineFactory(f EngineFactory) Option {
	return func(p *Pipeline) { p.newEngine = f }
}

// WithObserver registers a status observer invoked at each state transition.
func WithObserver(fn StatusFunc) Option {
	return func(p *Pipeline) { p.observer = fn }
}

// WithSettingsStore lets the pipeline cache the resolved engine path.
func WithSettingsStore(s interfaces.SettingsStore) Option {
	return func(p *Pipeline) { p.settings = s }
}

// New creates a pipeline with production wiring: platform engine locator,
// document/file acquirer exporting through exporter, image preprocessor,
// and the tesseract engine.
func New(cfg *config.Config, log *logger.Logger, exporter interfaces.GraphicExporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		config:       cfg,
		logger:       log,
		locator:      engine.NewEngineLocator(log),
		acquirer:     acquire.NewImageAcquirer(exporter, log),
		preprocessor: preprocess.NewImagePreprocessor(log),
		newEngine: func(execPath string, timeoutSeconds int, l *logger.Logger) interfaces.Engine {
			return engine.NewTesseractEngine(execPath, timeoutSeconds, l)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one OCR request. The returned result is the only failure
// channel: Success false with an actionable message, never a raised error.
// Every temporary file the run creates is removed before Run returns, on
// success and failure alike; the file handed to recognition is removed as
// soon as the engine call returns.
func (p *Pipeline) Run(ctx context.Context, source types.ImageSource, options types.OcrOptions, doc interfaces.DocumentContext) types.OcrResult {
	runID := shortRunID()
	tracker := utils.NewTempTracker(constants.TempFilePrefix+runID+"-", p.logger)
	defer func() {
		if err := tracker.Cleanup(); err != nil {
			p.logger.Error("Temporary file cleanup failed: %v", err)
		}
	}()

	p.logger.Debug("OCR run %s started: source=%s lang=%s psm=%d oem=%d",
		runID, source.Kind, options.Language, options.PSM, options.OEM)

	if err := options.Validate(); err != nil {
		return p.fail(runID, utils.NewValidationError(err.Error(), nil))
	}

	// LOCATE_ENGINE
	p.notify("Locating OCR engine...")
	enginePath, err := p.locator.Locate(p.config.EnginePath)
	if err != nil {
		return p.fail(runID, err)
	}
	p.cacheEnginePath(enginePath)

	// ACQUIRE_IMAGE
	p.notify("Acquiring image...")
	imagePath, owned, err := p.acquirer.Acquire(source, doc)
	if err != nil {
		return p.fail(runID, err)
	}
	if owned {
		tracker.Track(imagePath)
	}

	// PREPROCESS
	p.notify("Preprocessing image...")
	preparedPath, err := p.preprocessor.Process(imagePath, options.Grayscale, options.Binarize)
	if err != nil {
		return p.fail(runID, err)
	}
	if preparedPath != imagePath {
		tracker.Track(preparedPath)
		// The exported intermediate is no longer needed once a processed
		// copy exists; drop it early rather than at end of run.
		if owned {
			if relErr := tracker.Release(imagePath); relErr != nil {
				p.logger.Warn("Could not remove intermediate image: %v", relErr)
			}
		}
	}

	// RECOGNIZE
	p.notify(fmt.Sprintf("Recognizing text (language: %s)...", options.Language))
	ocr := p.newEngine(enginePath, p.config.TimeoutSeconds, p.logger)
	text, err := ocr.Recognize(ctx, preparedPath, options)

	// The file fed to the engine is released immediately after the call
	// returns, whether recognition worked or not. User-supplied files were
	// never tracked and survive.
	if preparedPath != imagePath || owned {
		if relErr := tracker.Release(preparedPath); relErr != nil {
			p.logger.Warn("Could not remove recognized image: %v", relErr)
		}
	}

	if err != nil {
		return p.fail(runID, err)
	}

	p.notify("OCR complete.")
	p.logger.Debug("OCR run %s finished: %d characters", runID, len(text))
	return types.OcrResult{Success: true, Text: text}
}

// fail converts a step error into the terminal result and reports it to the
// observer.
func (p *Pipeline) fail(runID string, err error) types.OcrResult {
	message := userMessage(err)
	p.logger.Error("OCR run %s failed: %v", runID, err)
	p.notify("Error: " + message)
	return types.OcrResult{Success: false, Message: message}
}

// notify reports progress, isolating the run from observer misbehavior.
func (p *Pipeline) notify(message string) {
	if p.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("Status observer panicked: %v", r)
		}
	}()
	p.observer(message)
}

// cacheEnginePath persists the resolved engine path so later runs and the
// settings UI start from it. Best-effort, last-writer-wins.
func (p *Pipeline) cacheEnginePath(path string) {
	if p.settings == nil || p.config.EnginePath == path {
		return
	}
	if err := p.settings.Set(constants.CfgKeyEnginePath, path); err != nil {
		p.logger.Warn("Could not cache engine path in settings: %v", err)
	}
}

// userMessage keeps AppError messages, which are written to be actionable,
// and wraps anything else in a generic-but-honest line.
func userMessage(err error) string {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr.Message
	}
	return fmt.Sprintf("unexpected error: %v", err)
}

func shortRunID() string {
	return uuid.NewString()[:8]
}
