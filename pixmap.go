package fractal

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap is the output image buffer: opaque RGB pixels stored as RGBA bytes.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel, alpha always 255
}

// NewPixmap creates a new pixmap with the given dimensions.
// All pixels start black and opaque.
func NewPixmap(width, height int) *Pixmap {
	p := &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
	for i := 3; i < len(p.data); i += 4 {
		p.data[i] = 255
	}
	return p
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Stride returns the byte length of one row.
func (p *Pixmap) Stride() int {
	return p.width * 4
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGB) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = 255
}

// GetPixel returns the color of a single pixel.
// Out-of-bounds coordinates return black.
func (p *Pixmap) GetPixel(x, y int) RGB {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return RGB{}
	}
	i := (y*p.width + x) * 4
	return RGB{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2]}
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
