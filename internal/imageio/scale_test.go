package imageio

import (
	"image"
	"image/color"
	"testing"
)

func TestDownscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h, factor int
		wantW, wantH int
		wantErr      bool
	}{
		{"identity", 16, 8, 1, 16, 8, false},
		{"half", 16, 8, 2, 8, 4, false},
		{"subsample", 1920, 1080, 8, 240, 135, false},
		{"truncates", 17, 9, 2, 8, 4, false},
		{"zero factor", 16, 8, 0, 0, 0, true},
		{"too small", 4, 4, 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Downscale(testImage(tt.w, tt.h), tt.factor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Downscale error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := img.Bounds().Size(); got.X != tt.wantW || got.Y != tt.wantH {
				t.Errorf("size = %v, want %dx%d", got, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownscale_Uniform(t *testing.T) {
	c := color.RGBA{R: 10, G: 200, B: 30, A: 255}
	src := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := range 32 {
		for x := range 32 {
			src.SetRGBA(x, y, c)
		}
	}

	img, err := Downscale(src, 4)
	if err != nil {
		t.Fatalf("Downscale: %v", err)
	}
	got := color.RGBAModel.Convert(img.At(3, 3)).(color.RGBA)
	if got != c {
		t.Errorf("uniform color changed: got %v, want %v", got, c)
	}
}
