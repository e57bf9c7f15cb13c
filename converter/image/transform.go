package image

import (
	"image/color"
	"math"
)

// Background fills the area a contain fit leaves uncovered.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Box is a contain-fit target. A zero dimension is inferred from the source aspect ratio.
type Box struct {
	Width  int
	Height int
}

func (b Box) IsZero() bool {
	return b.Width <= 0 && b.Height <= 0
}

// Padded reports whether the result is a fixed canvas rather than a plain scale.
func (b Box) Padded() bool {
	return b.Width > 0 && b.Height > 0
}

// Canvas returns the output dimensions of fitting a srcW x srcH image into the box.
func (b Box) Canvas(srcW, srcH int) (int, int) {
	if b.Padded() {
		return b.Width, b.Height
	}
	return ContainSize(srcW, srcH, b)
}

// ContainSize returns the size of the source once scaled to fit entirely inside the box
// with its aspect ratio preserved. Both enlarging and shrinking are allowed.
func ContainSize(srcW, srcH int, box Box) (int, int) {
	if srcW <= 0 || srcH <= 0 || box.IsZero() {
		return srcW, srcH
	}

	var scale float64
	switch {
	case box.Width > 0 && box.Height > 0:
		scale = math.Min(float64(box.Width)/float64(srcW), float64(box.Height)/float64(srcH))
	case box.Width > 0:
		scale = float64(box.Width) / float64(srcW)
	default:
		scale = float64(box.Height) / float64(srcH)
	}

	w := clampDim(int(math.Round(float64(srcW)*scale)), box.Width)
	h := clampDim(int(math.Round(float64(srcH)*scale)), box.Height)

	return w, h
}

func clampDim(v, limit int) int {
	if v < 1 {
		v = 1
	}
	if limit > 0 && v > limit {
		v = limit
	}
	return v
}
