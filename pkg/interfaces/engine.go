package interfaces

import (
	"context"

	"github.com/tejocr/tejocr/pkg/types"
)

// Engine is the recognition contract the pipeline invokes. Implementations
// never let engine-specific failures escape: every failure is folded into a
// typed error so callers need no engine-specific handling.
type Engine interface {
	// Name returns the engine's short name, e.g. "tesseract".
	Name() string

	// Version runs the engine's version query and returns the parsed
	// version string. The error distinguishes a missing binary from one
	// that is present but failed to execute.
	Version(ctx context.Context) (string, error)

	// Recognize runs text recognition on the image at imagePath with the
	// given options and returns the recognized text verbatim, embedded
	// newlines included. Empty text is a valid outcome.
	Recognize(ctx context.Context, imagePath string, options types.OcrOptions) (string, error)

	// Languages returns the language codes the engine has trained data
	// for. The result is cached per engine instance; RefreshLanguages
	// discards the cache.
	Languages(ctx context.Context) []string

	// RefreshLanguages invalidates the cached language list.
	RefreshLanguages()
}

// Locator finds and validates an installed engine executable.
type Locator interface {
	// Locate resolves an engine executable: the configured path if usable,
	// then the system search path, then platform well-known directories.
	Locate(configuredPath string) (string, error)

	// Validate runs the engine's version query against path and reports
	// (version, nil) when the binary works.
	Validate(ctx context.Context, path string) (string, error)
}

// Acquirer obtains the source image for a pipeline run.
type Acquirer interface {
	// Acquire resolves source to a readable image file. owned reports
	// whether the pipeline owns the returned file and must delete it;
	// user-supplied files are never owned.
	Acquire(source types.ImageSource, doc DocumentContext) (path string, owned bool, err error)
}

// Preprocessor applies optional image transforms before recognition.
type Preprocessor interface {
	// Process returns the path to the image to recognize. When neither
	// flag is set, or the image cannot be decoded, the input path comes
	// back unchanged; otherwise a new temporary file is created and the
	// caller owns both files.
	Process(imagePath string, grayscale, binarize bool) (string, error)
}
