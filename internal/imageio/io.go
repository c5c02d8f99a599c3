package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the output format is not supported.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyImage is returned when the image has no pixels.
	ErrEmptyImage = errors.New("imageio: empty image")
)

// Format identifies an output image encoding.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatBMP
	FormatTIFF
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Options tunes lossy or compressed encoders. A nil *Options uses defaults.
type Options struct {
	// JPEGQuality is the JPEG quality, 1-100. Zero means 90.
	JPEGQuality int

	// TIFFDeflate enables deflate compression for TIFF output.
	TIFFDeflate bool
}

func (o *Options) jpegQuality() int {
	if o == nil || o.JPEGQuality == 0 {
		return 90
	}
	return min(max(o.JPEGQuality, 1), 100)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts *Options) error {
	if img.Bounds().Empty() {
		return ErrEmptyImage
	}

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: opts.jpegQuality()})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		to := &tiff.Options{Compression: tiff.Uncompressed}
		if opts != nil && opts.TIFFDeflate {
			to.Compression = tiff.Deflate
		}
		err = tiff.Encode(w, img, to)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %v: %w", format, err)
	}
	return nil
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image, opts *Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := Encode(f, img, format, opts); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
