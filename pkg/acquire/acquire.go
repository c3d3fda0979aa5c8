// Package acquire resolves the pipeline's image source: a user-supplied
// file passed through untouched, or the host document's current selection
// exported to a temporary file.
package acquire

import (
	"fmt"
	"os"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"
)

// ImageAcquirer implements source resolution against a host document and
// its graphic export provider.
type ImageAcquirer struct {
	exporter  interfaces.GraphicExporter
	logger    *logger.Logger
	pathUtils *utils.PathUtils
}

var _ interfaces.Acquirer = (*ImageAcquirer)(nil)

// NewImageAcquirer creates an acquirer that exports selections through the
// given provider.
func NewImageAcquirer(exporter interfaces.GraphicExporter, log *logger.Logger) *ImageAcquirer {
	return &ImageAcquirer{
		exporter:  exporter,
		logger:    log,
		pathUtils: utils.DefaultPathUtils,
	}
}

// Acquire resolves source to a readable image file.
//
// For a file source the user's path is validated and passed through; no
// temp file is created and the returned path is not owned — the pipeline
// must never delete a user-supplied file. For a selection source the
// selected graphic is exported to a fresh temporary file in a lossless
// raster format, which the pipeline owns.
func (a *ImageAcquirer) Acquire(source types.ImageSource, doc interfaces.DocumentContext) (string, bool, error) {
	switch source.Kind {
	case types.SourceFilePath:
		if err := utils.ValidateImageFile(source.Path); err != nil {
			return "", false, err
		}
		a.logger.Debug("Acquired user-supplied image file: %s", source.Path)
		return source.Path, false, nil

	case types.SourceDocumentSelection:
		return a.acquireFromSelection(doc)

	default:
		return "", false, utils.NewValidationError(fmt.Sprintf("unknown image source kind: %s", source.Kind), nil)
	}
}

func (a *ImageAcquirer) acquireFromSelection(doc interfaces.DocumentContext) (string, bool, error) {
	if doc == nil {
		return "", false, utils.NewAcquisitionError("no document available to read the selection from", nil)
	}

	sel := doc.ResolveSelectedGraphic()
	switch sel.State {
	case types.SelectionNone:
		return "", false, utils.NewAcquisitionError(
			"no image is selected; select a single image in the document and try again", nil)
	case types.SelectionUnsupported:
		reason := sel.Reason
		if reason == "" {
			reason = "the selection is not a single image object"
		}
		return "", false, utils.NewAcquisitionError(
			fmt.Sprintf("cannot use the current selection: %s", reason), nil)
	case types.SelectionFound:
		// proceed below
	default:
		return "", false, utils.NewAcquisitionError("selection resolution returned an unknown state", nil)
	}

	tempPath, err := a.pathUtils.CreateTempFile("", constants.TempFilePrefix, ".png")
	if err != nil {
		return "", false, utils.NewIOError("failed to create temporary file for the selected image", err)
	}

	if err := a.exporter.Export(sel.Handle, tempPath, constants.TempImageMimeType); err != nil {
		os.Remove(tempPath)
		return "", false, utils.NewAcquisitionError(
			"the selected image could not be exported; it may have no usable pixel data or use an unsupported embedding", err)
	}

	a.logger.Debug("Exported selected graphic %s to %s", sel.Handle.ID(), tempPath)
	return tempPath, true, nil
}
