// Package report writes survey outputs: waterfall images, navigation track
// plots and interactive track pages.
package report

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is an image encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

// FormatFor picks the image encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image extension %q (use .png, .tif or .tiff)", filepath.Ext(path))
}

// EncodeImage writes img to w.
func EncodeImage(w io.Writer, f Format, img image.Image) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("unsupported image format %q", f)
}

// SaveImage writes img to path, encoded according to its extension.
func SaveImage(path string, img image.Image) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeImage(out, f, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return out.Close()
}
