package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tejocr/tejocr/pkg/constants"
)

// IsImageFile checks whether the extension names a supported raster format.
func IsImageFile(extension string) bool {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	for _, imageExt := range constants.ImageExtensions {
		if ext == imageExt {
			return true
		}
	}
	return false
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ValidateImageFile checks that path points at an existing, readable file
// with a recognized image extension.
func ValidateImageFile(path string) error {
	if path == "" {
		return NewImageFileError("image file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return NewImageFileError(fmt.Sprintf("image file not found: %s", path), err)
	}
	if err != nil {
		return NewImageFileError(fmt.Sprintf("cannot access image file: %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return NewImageFileError(fmt.Sprintf("not a regular file: %s", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return NewImageFileError(fmt.Sprintf("cannot read image file: %s", path), err)
	}
	file.Close()

	if !IsImageFile(filepath.Ext(path)) {
		return NewImageFileError(
			fmt.Sprintf("unsupported image format %q (supported: %s)",
				filepath.Ext(path), strings.Join(constants.ImageExtensions, ", ")), nil)
	}

	return nil
}
