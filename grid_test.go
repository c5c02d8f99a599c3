package fractal

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewGrid_Length(t *testing.T) {
	tests := []struct {
		name       string
		xCol, yCol int
	}{
		{"single block", 1, 1},
		{"row", 7, 1},
		{"column", 1, 5},
		{"non square", 24, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.xCol, tt.yCol, -2.65, 0.1, -1.25, 0.1)
			if err != nil {
				t.Fatalf("NewGrid() error = %v", err)
			}
			want := tt.xCol * tt.yCol
			if g.Len() != want || len(g.Re) != want || len(g.Im) != want {
				t.Errorf("lengths = (%d, %d, %d), want %d", g.Len(), len(g.Re), len(g.Im), want)
			}
		})
	}
}

func TestNewGrid_Coordinates(t *testing.T) {
	const (
		xCol, yCol  = 6, 4
		xLow, xStep = float32(-2.65), float32(0.1)
		yLow, yStep = float32(-1.25), float32(0.125)
		tolerance   = 1e-6
	)

	g, err := NewGrid(xCol, yCol, xLow, xStep, yLow, yStep)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}

	for i := range xCol {
		for j := range yCol {
			for k := range Lanes {
				wantRe := float64(xLow) + float64(xStep)*float64(i) + float64(k%SubSamples)/SubSamples*float64(xStep)
				wantIm := float64(yLow) + float64(yStep)*float64(j) + float64(k/SubSamples)/SubSamples*float64(yStep)

				re, im := g.Point(i, j, k)
				if math.Abs(float64(re)-wantRe) > tolerance {
					t.Fatalf("re(%d,%d,%d) = %v, want %v", i, j, k, re, wantRe)
				}
				if math.Abs(float64(im)-wantIm) > tolerance {
					t.Fatalf("im(%d,%d,%d) = %v, want %v", i, j, k, im, wantIm)
				}
			}
		}
	}
}

func TestNewGrid_RowMajorIndex(t *testing.T) {
	g, err := NewGrid(3, 5, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}

	// Lane 0 of block (i, j) sits exactly at (i, j) with unit steps.
	for i := range 3 {
		for j := range 5 {
			idx := i*5 + j
			if g.Index(i, j) != idx {
				t.Errorf("Index(%d, %d) = %d, want %d", i, j, g.Index(i, j), idx)
			}
			if g.Re[idx][0] != float32(i) || g.Im[idx][0] != float32(j) {
				t.Errorf("block %d origin = (%v, %v), want (%d, %d)", idx, g.Re[idx][0], g.Im[idx][0], i, j)
			}
		}
	}
}

func TestNewGrid_SubSamplePattern(t *testing.T) {
	g, err := NewGrid(1, 1, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}

	// With a unit step, offsets are exactly m/8.
	for k := range Lanes {
		wantRe := float32(k%8) / 8
		wantIm := float32(k/8) / 8
		if g.Re[0][k] != wantRe || g.Im[0][k] != wantIm {
			t.Errorf("lane %d = (%v, %v), want (%v, %v)", k, g.Re[0][k], g.Im[0][k], wantRe, wantIm)
		}
	}
}

func TestNewGrid_Deterministic(t *testing.T) {
	a, err := NewGrid(4, 3, -2.65, 0.0167, -1.25, 0.0185)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	b, _ := NewGrid(4, 3, -2.65, 0.0167, -1.25, 0.0185)

	for idx := range a.Re {
		if a.Re[idx] != b.Re[idx] || a.Im[idx] != b.Im[idx] {
			t.Fatalf("block %d differs between identical builds", idx)
		}
	}
}

func TestNewGrid_Errors(t *testing.T) {
	tests := []struct {
		name       string
		xCol, yCol int
		want       error
	}{
		{"zero columns", 0, 5, ErrInvalidDimensions},
		{"zero rows", 5, 0, ErrInvalidDimensions},
		{"negative", -1, 5, ErrInvalidDimensions},
		{"product overflows", math.MaxInt, 2, ErrOverflow},
		{"both huge", math.MaxInt / 2, math.MaxInt / 2, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.xCol, tt.yCol, 0, 1, 0, 1)
			if g != nil {
				t.Error("NewGrid() returned a partial grid")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewGrid() error = %v, want %v", err, tt.want)
			}

			var dimErr *DimensionError
			if !errors.As(err, &dimErr) {
				t.Fatalf("NewGrid() error type = %T, want *DimensionError", err)
			}
			if dimErr.XCol != tt.xCol || dimErr.YCol != tt.yCol {
				t.Errorf("DimensionError dims = (%d, %d), want (%d, %d)", dimErr.XCol, dimErr.YCol, tt.xCol, tt.yCol)
			}
			if !strings.Contains(err.Error(), "x_col=") || !strings.Contains(err.Error(), "y_col=") {
				t.Errorf("error %q does not name the dimensions", err)
			}
		})
	}
}

func BenchmarkNewGrid(b *testing.B) {
	r := DefaultRegion()
	b.ReportAllocs()
	for b.Loop() {
		_, _ = NewGrid(r.XCol, r.YCol, r.XLow, r.XStep, r.YLow, r.YStep)
	}
}
