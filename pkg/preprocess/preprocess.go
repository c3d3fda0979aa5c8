// Package preprocess applies the optional image transforms that run before
// recognition: grayscale conversion and fixed-threshold binarization.
// Preprocessing is best-effort; an image the codecs cannot decode passes
// through untouched rather than failing the run.
package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	// Lossless and common raster codecs accepted as OCR input. GIF, JPEG
	// and PNG come from the standard library; BMP, TIFF and WebP from
	// golang.org/x/image.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/utils"
)

// ImagePreprocessor implements the preprocessing step of the pipeline.
type ImagePreprocessor struct {
	logger    *logger.Logger
	pathUtils *utils.PathUtils
}

var _ interfaces.Preprocessor = (*ImagePreprocessor)(nil)

// NewImagePreprocessor creates a preprocessor.
func NewImagePreprocessor(log *logger.Logger) *ImagePreprocessor {
	return &ImagePreprocessor{
		logger:    log,
		pathUtils: utils.DefaultPathUtils,
	}
}

// Process applies the requested transforms and returns the path of the
// image to recognize.
//
// With neither flag set the input path is returned unchanged and no file is
// created. Binarization always forces grayscale first, regardless of the
// grayscale flag. Any applied transform writes a new temporary PNG; the
// caller owns the lifecycle of both files when they differ. A decode
// failure degrades softly: the input path is returned with a nil error and
// recognition proceeds on the unprocessed image.
func (p *ImagePreprocessor) Process(imagePath string, grayscale, binarize bool) (string, error) {
	if !grayscale && !binarize {
		return imagePath, nil
	}

	img, err := p.decode(imagePath)
	if err != nil {
		p.logger.Warn("Skipping image preprocessing, could not decode %s: %v", imagePath, err)
		return imagePath, nil
	}

	gray := toGray(img)
	if binarize {
		gray = threshold(gray, constants.BinarizeThreshold)
	}

	outPath, err := p.pathUtils.CreateTempFile("", constants.TempFilePrefix, ".png")
	if err != nil {
		return "", utils.NewIOError("failed to create preprocessed image file", err)
	}

	if err := p.encodePNG(outPath, gray); err != nil {
		os.Remove(outPath)
		return "", utils.NewIOError("failed to write preprocessed image", err)
	}

	p.logger.Debug("Preprocessed image written to %s (grayscale=%v binarize=%v)", outPath, grayscale, binarize)
	return outPath, nil
}

func (p *ImagePreprocessor) decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	p.logger.Debug("Decoded %s image: %s", format, path)
	return img, nil
}

func (p *ImagePreprocessor) encodePNG(path string, img image.Image) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermission)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// toGray converts any image to single-channel luminance.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// threshold reduces a grayscale image to strictly black/white pixels using
// a fixed global cutoff.
func threshold(gray *image.Gray, cutoff uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y >= cutoff {
				out.SetGray(x, y, color.Gray{Y: 0xFF})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0x00})
			}
		}
	}
	return out
}
