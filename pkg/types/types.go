package types

import "fmt"

// SourceKind identifies where the pipeline obtains its input image.
type SourceKind string

const (
	SourceFilePath          SourceKind = "file"
	SourceDocumentSelection SourceKind = "selection"
)

// ImageSource is a tagged union: either a caller-supplied file path or the
// graphic currently selected in the host document. Exactly one variant is
// active per pipeline run.
type ImageSource struct {
	Kind SourceKind
	Path string // set only for SourceFilePath
}

// FileSource returns an ImageSource referencing an image file on disk.
func FileSource(path string) ImageSource {
	return ImageSource{Kind: SourceFilePath, Path: path}
}

// SelectionSource returns an ImageSource resolved against the live document
// selection at acquisition time.
func SelectionSource() ImageSource {
	return ImageSource{Kind: SourceDocumentSelection}
}

// OcrOptions is the complete, immutable parameter set for one OCR
// invocation. Callers construct a full set up front; there are no implicit
// defaults past construction.
type OcrOptions struct {
	Language  string // Tesseract language code, e.g. "eng"
	PSM       int    // page segmentation mode, 0-13
	OEM       int    // engine mode, 0-3
	Grayscale bool
	Binarize  bool
}

// Validate checks that the option values are inside the ranges the engine
// accepts.
func (o OcrOptions) Validate() error {
	if o.Language == "" {
		return fmt.Errorf("language code cannot be empty")
	}
	if o.PSM < 0 || o.PSM > 13 {
		return fmt.Errorf("page segmentation mode must be 0-13, got %d", o.PSM)
	}
	if o.OEM < 0 || o.OEM > 3 {
		return fmt.Errorf("engine mode must be 0-3, got %d", o.OEM)
	}
	return nil
}

// OcrResult is the pipeline's terminal value. Text is meaningful only when
// Success is true; an empty Text with Success true is a valid "no text
// found" outcome, distinct from failure. Message carries a human-readable
// failure description when Success is false.
type OcrResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// OutputMode selects exactly one text sink per dispatch.
type OutputMode string

const (
	OutputModeCursor    OutputMode = "at_cursor"
	OutputModeTextbox   OutputMode = "new_textbox"
	OutputModeReplace   OutputMode = "replace_image"
	OutputModeClipboard OutputMode = "to_clipboard"
)

// ValidOutputMode reports whether m names one of the four dispatch sinks.
func ValidOutputMode(m OutputMode) bool {
	switch m {
	case OutputModeCursor, OutputModeTextbox, OutputModeReplace, OutputModeClipboard:
		return true
	}
	return false
}

// SelectionState tags the outcome of resolving the document selection to a
// graphic object.
type SelectionState int

const (
	// SelectionFound means exactly one usable graphic is selected.
	SelectionFound SelectionState = iota
	// SelectionNone means nothing (or no graphic) is selected.
	SelectionNone
	// SelectionUnsupported means something is selected but it is not a
	// recognizable single graphic (grouped/nested shapes, multi-selection).
	SelectionUnsupported
)

// GraphicSelection is the tagged result of selection resolution. Reason is
// populated for SelectionUnsupported so failures stay descriptive instead of
// silently picking a shape.
type GraphicSelection struct {
	State  SelectionState
	Handle GraphicHandle // non-nil only for SelectionFound
	Reason string        // non-empty only for SelectionUnsupported
}

// GraphicHandle is an opaque reference to a graphic object owned by the host
// document. The pipeline never inspects it; it is passed through to the
// export provider and back to the document for removal.
type GraphicHandle interface {
	// ID returns a stable identifier for the graphic within the document,
	// used to verify a REPLACE_IMAGE dispatch still targets the object that
	// was recognized.
	ID() string
}
