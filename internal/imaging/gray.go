package imaging

import "image"

// GrayPlane converts an image to a 2-D grayscale intensity plane.
//
// The plane is indexed [y][x] with samples in [0, 1], computed from ITU-R
// BT.601 luminance weights (0.299*R + 0.587*G + 0.114*B). Correlation
// scanning reads the plane directly, so the conversion happens exactly once
// per image per search regardless of how many windows are evaluated.
//
// An image with zero width or height yields an empty plane.
func GrayPlane(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	plane := make([][]float64, height)
	for y := 0; y < height; y++ {
		plane[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			plane[y][x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}
	return plane
}

// PlaneSize returns the width and height of an intensity plane.
//
// A plane with no rows has both dimensions zero; width is taken from the
// first row (all rows have equal length by construction).
func PlaneSize(plane [][]float64) (width, height int) {
	height = len(plane)
	if height == 0 {
		return 0, 0
	}
	return len(plane[0]), height
}
