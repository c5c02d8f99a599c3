package imageio

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Downscale shrinks img by an integer factor using Catmull-Rom resampling.
// A factor of 1 returns img unchanged.
func Downscale(img image.Image, factor int) (image.Image, error) {
	if factor < 1 {
		return nil, fmt.Errorf("imageio: downscale factor %d must be >= 1", factor)
	}
	if factor == 1 {
		return img, nil
	}

	sr := img.Bounds()
	w, h := sr.Dx()/factor, sr.Dy()/factor
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("imageio: %dx%d image too small for factor %d: %w",
			sr.Dx(), sr.Dy(), factor, ErrEmptyImage)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, sr, xdraw.Src, nil)
	return dst, nil
}
