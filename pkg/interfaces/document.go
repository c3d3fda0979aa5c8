package interfaces

import "github.com/tejocr/tejocr/pkg/types"

// DocumentContext is the host editor surface the pipeline and the output
// router operate against. Implementations wrap whatever document model the
// host provides; the core never branches on host API details.
type DocumentContext interface {
	// IsTextDocument reports whether the active document accepts text
	// insertion. Text-output modes are refused on non-text documents.
	IsTextDocument() bool

	// ResolveSelectedGraphic inspects the current selection and returns a
	// tagged result: exactly one usable graphic, nothing usable selected,
	// or an unsupported selection with a human-readable reason.
	ResolveSelectedGraphic() types.GraphicSelection

	// InsertTextAtCursor inserts text at the current edit-cursor position
	// without creating any new object or altering selection bounds beyond
	// the insertion.
	InsertTextAtCursor(text string) error

	// CreateTextFrame creates a new floating text container anchored at the
	// cursor, sized width x height in 1/100 mm, containing text.
	CreateTextFrame(text string, width, height int) error

	// InsertTextAtAnchor inserts text at the anchor position of the given
	// graphic.
	InsertTextAtAnchor(handle types.GraphicHandle, text string) error

	// RemoveGraphic removes the graphic object from the document. An error
	// means the object type offers no removal capability or removal failed.
	RemoveGraphic(handle types.GraphicHandle) error
}

// GraphicExporter writes a graphic's pixel data to a file in the requested
// MIME type. It is supplied by the host alongside the DocumentContext.
type GraphicExporter interface {
	Export(handle types.GraphicHandle, destPath, mimeType string) error
}

// Clipboard places plain UTF-8 text on the system clipboard as the sole
// data flavor.
type Clipboard interface {
	SetText(text string) error
}
