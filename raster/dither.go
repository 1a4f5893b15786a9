// Package raster turns an RGBA canvas into the packed monochrome bitmap a
// thermal head can print: ordered dithering to one bit per pixel, then
// MSB-first row packing with byte-boundary padding.
package raster

import (
	"image"
	"math"
)

// bayer8 is the 8x8 ordered-dither threshold matrix. Literal data:
// its periodicity is asserted by tests, never re-derived.
var bayer8 = [8][8]int{
	{0, 48, 12, 60, 3, 51, 15, 63},
	{32, 16, 44, 28, 35, 19, 47, 31},
	{8, 56, 4, 52, 11, 59, 7, 55},
	{40, 24, 36, 20, 43, 27, 39, 23},
	{2, 50, 14, 62, 1, 49, 13, 61},
	{34, 18, 46, 30, 33, 17, 45, 29},
	{10, 58, 6, 54, 9, 57, 5, 53},
	{42, 26, 38, 22, 41, 25, 37, 21},
}

// Threshold returns the dither threshold at a pixel position, scaled from
// the matrix range [0,63] to [1,253]. The half-step scale keeps every
// threshold strictly positive, so luma 0 always marks.
func Threshold(x, y int) int {
	return (2*bayer8[y%8][x%8] + 1) * 255 / 128
}

// Grid is a 1-bit-per-pixel decision grid, row-major.
type Grid struct {
	W, H int
	Bits []bool
}

// At reports whether the pixel at (x, y) is marked.
func (g *Grid) At(x, y int) bool { return g.Bits[y*g.W+x] }

// Dither converts an image to a mark/blank grid. Per pixel the luma
// round(0.299R + 0.587G + 0.114B) is compared against the position's
// threshold; the pixel marks iff luma < threshold. Alpha is ignored. The
// rule is stateless per pixel, so identical input always yields identical
// output regardless of traversal order.
func Dither(img image.Image) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &Grid{W: w, H: h, Bits: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			g.Bits[y*w+x] = Luma(uint8(r>>8), uint8(gr>>8), uint8(b>>8)) < Threshold(x, y)
		}
	}
	return g
}

// Luma computes the weighted grayscale intensity of an RGB triple,
// rounded to the nearest integer.
func Luma(r, g, b uint8) int {
	return int(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}
