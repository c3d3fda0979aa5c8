package constants

import "os"

// Application identity
const (
	AppName = "tejocr"
)

// Configuration keys for the settings store (~/.tejocr/config.json)
const (
	CfgKeyEnginePath       = "engine_path"
	CfgKeyDefaultLang      = "default_language"
	CfgKeyDefaultGrayscale = "default_grayscale"
	CfgKeyDefaultBinarize  = "default_binarize"
	CfgKeyLastLang         = "last_language"
	CfgKeyLastOutputMode   = "last_output_mode"
)

// Default option values
const (
	DefaultOcrLanguage    = "eng"
	DefaultPSM            = 3 // fully automatic page segmentation, no OSD
	DefaultOEM            = 3 // engine mode chosen by tesseract
	DefaultGrayscale      = false
	DefaultBinarize       = false
	DefaultTimeoutSeconds = 120
	DefaultLogLevel       = "info"
	DefaultEnableVerbose  = false
)

// BinarizeThreshold is the fixed global luminance cutoff used by the
// preprocessor. Pixels at or above it become white, below it black. This is
// deliberately a fixed threshold, not Otsu; callers should not expect good
// results on unevenly lit images.
const BinarizeThreshold = 128

// Engine invocation limits
const (
	// VersionProbeTimeoutSeconds bounds the `--version` / `--list-langs`
	// probes so a wedged binary cannot hang validation.
	VersionProbeTimeoutSeconds = 10
	MinTimeoutSeconds          = 1
	MaxTimeoutSeconds          = 3600
)

// Tesseract PSM descriptions, keyed by mode value, for CLI help and
// interactive listings.
var PSMDescriptions = map[int]string{
	0:  "Orientation and script detection (OSD) only",
	1:  "Automatic page segmentation with OSD",
	2:  "Automatic page segmentation, no OSD or OCR",
	3:  "Fully automatic page segmentation, no OSD (default)",
	4:  "Assume a single column of text of variable sizes",
	5:  "Assume a single uniform block of vertically aligned text",
	6:  "Assume a single uniform block of text",
	7:  "Treat the image as a single text line",
	8:  "Treat the image as a single word",
	9:  "Treat the image as a single word in a circle",
	10: "Treat the image as a single character",
	11: "Sparse text, in no particular order",
	12: "Sparse text with OSD",
	13: "Raw line, bypassing tesseract-specific hacks",
}

// Tesseract OEM descriptions, keyed by mode value.
var OEMDescriptions = map[int]string{
	0: "Legacy engine only",
	1: "Neural nets LSTM engine only",
	2: "Legacy + LSTM engines",
	3: "Default, based on what is available",
}

// ImageExtensions lists the file extensions accepted as OCR input.
var ImageExtensions = []string{"png", "jpg", "jpeg", "tiff", "tif", "bmp", "gif", "webp"}

// TempImageMimeType is the lossless raster format used for selection
// exports and preprocessed intermediates.
const TempImageMimeType = "image/png"

// TempFilePrefix namespaces the temp artifacts one pipeline run creates.
const TempFilePrefix = "tejocr-img-"

// File permissions
const (
	DefaultFilePermission os.FileMode = 0644
	DefaultDirPermission  os.FileMode = 0755
)

// Default text frame geometry for the TEXTBOX output mode, in 1/100 mm
// (the host document's unit). No layout negotiation happens; these are the
// fixed defaults.
const (
	DefaultTextFrameWidth  = 10000 // 100 mm
	DefaultTextFrameHeight = 5000  // 50 mm
)
