// Package output dispatches recognized text to its destination: the edit
// cursor, a new text frame, the place of the source image, or the system
// clipboard.
package output

import (
	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// DispatchResult describes how a successful dispatch should be surfaced.
// Acknowledge asks the caller to confirm completion to the user; clipboard
// dispatch completes silently. Warning carries a non-fatal problem from a
// partially completed dispatch.
type DispatchResult struct {
	Acknowledge bool
	Warning     string
}

// OutputRouter routes recognized text to one of the supported output modes.
// The text is delivered verbatim: no trimming, no newline normalization.
type OutputRouter struct {
	logger *logger.Logger
}

// NewOutputRouter creates an output router.
func NewOutputRouter(log *logger.Logger) *OutputRouter {
	return &OutputRouter{logger: log}
}

// Dispatch delivers text according to mode. Document modes require doc;
// clipboard mode requires clip. An error means nothing (or for replace mode,
// possibly only the insertion half) was delivered; the error message states
// which precondition failed or which document operation refused.
func (r *OutputRouter) Dispatch(text string, mode types.OutputMode, doc interfaces.DocumentContext, clip interfaces.Clipboard) (DispatchResult, error) {
	if !types.ValidOutputMode(mode) {
		return DispatchResult{}, utils.NewValidationError(
			"unknown output mode: "+string(mode), nil)
	}

	r.logger.Debug("Dispatching %d characters via %s", len(text), mode)

	switch mode {
	case types.OutputModeCursor:
		return r.atCursor(text, doc)
	case types.OutputModeTextbox:
		return r.newTextbox(text, doc)
	case types.OutputModeReplace:
		return r.replaceImage(text, doc)
	case types.OutputModeClipboard:
		return r.toClipboard(text, clip)
	}
	// unreachable: ValidOutputMode covers the enum
	return DispatchResult{}, utils.NewValidationError("unknown output mode: "+string(mode), nil)
}

func (r *OutputRouter) atCursor(text string, doc interfaces.DocumentContext) (DispatchResult, error) {
	if err := requireTextDocument(doc); err != nil {
		return DispatchResult{}, err
	}
	// Empty text is a valid recognition outcome; inserting it is a no-op
	// but still a successful dispatch.
	if err := doc.InsertTextAtCursor(text); err != nil {
		return DispatchResult{}, utils.NewOutputDispatchError(
			"could not insert text at the cursor position", err)
	}
	return DispatchResult{Acknowledge: true}, nil
}

func (r *OutputRouter) newTextbox(text string, doc interfaces.DocumentContext) (DispatchResult, error) {
	if err := requireTextDocument(doc); err != nil {
		return DispatchResult{}, err
	}
	if err := doc.CreateTextFrame(text, constants.DefaultTextFrameWidth, constants.DefaultTextFrameHeight); err != nil {
		return DispatchResult{}, utils.NewOutputDispatchError(
			"could not create a text box for the recognized text", err)
	}
	return DispatchResult{Acknowledge: true}, nil
}

// replaceImage inserts the text at the selected image's anchor, then removes
// the image. Removal failing after a successful insert is reported as a
// warning, not a failure: the text is already in the document and rolling it
// back would lose the user's recognition result.
func (r *OutputRouter) replaceImage(text string, doc interfaces.DocumentContext) (DispatchResult, error) {
	if err := requireTextDocument(doc); err != nil {
		return DispatchResult{}, err
	}

	sel := doc.ResolveSelectedGraphic()
	switch sel.State {
	case types.SelectionNone:
		return DispatchResult{}, utils.NewOutputDispatchError(
			"no image is selected to replace; select the source image and try again", nil)
	case types.SelectionUnsupported:
		reason := sel.Reason
		if reason == "" {
			reason = "the current selection cannot be replaced with text"
		}
		return DispatchResult{}, utils.NewOutputDispatchError(reason, nil)
	}

	if err := doc.InsertTextAtAnchor(sel.Handle, text); err != nil {
		return DispatchResult{}, utils.NewOutputDispatchError(
			"could not insert text at the image position", err)
	}

	if err := doc.RemoveGraphic(sel.Handle); err != nil {
		r.logger.Warn("Text inserted but the image could not be removed: %v", err)
		return DispatchResult{
			Acknowledge: true,
			Warning:     "the recognized text was inserted, but the original image could not be removed",
		}, nil
	}
	return DispatchResult{Acknowledge: true}, nil
}

// toClipboard copies text and leaves the document untouched. Success is
// silent per DispatchResult.Acknowledge.
func (r *OutputRouter) toClipboard(text string, clip interfaces.Clipboard) (DispatchResult, error) {
	if clip == nil {
		return DispatchResult{}, utils.NewOutputDispatchError(
			"no clipboard is available in this environment", nil)
	}
	if err := clip.SetText(text); err != nil {
		return DispatchResult{}, utils.NewOutputDispatchError(
			"could not copy the recognized text to the clipboard", err)
	}
	return DispatchResult{}, nil
}

func requireTextDocument(doc interfaces.DocumentContext) error {
	if doc == nil {
		return utils.NewOutputDispatchError(
			"no document is available for text insertion", nil)
	}
	if !doc.IsTextDocument() {
		return utils.NewOutputDispatchError(
			"the active document does not accept text insertion; use clipboard output instead", nil)
	}
	return nil
}
