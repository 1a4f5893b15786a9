package raster

import "image"

// Bitmap is a packed 1-bit-per-pixel image. The bit for column x of row y
// lives at byte y*BytesPerRow + x/8, bit 7-(x%8); padding bits past W in
// each row's last byte are always zero.
type Bitmap struct {
	W, H        int
	BytesPerRow int
	Pix         []byte
}

// BytesPerRow returns ceil(w/8), the row stride for a w-pixel-wide bitmap.
func BytesPerRow(w int) int { return (w + 7) / 8 }

// Pack folds a decision grid into a Bitmap. The output length is exactly
// BytesPerRow(g.W) * g.H.
func Pack(g *Grid) *Bitmap {
	stride := BytesPerRow(g.W)
	b := &Bitmap{
		W:           g.W,
		H:           g.H,
		BytesPerRow: stride,
		Pix:         make([]byte, stride*g.H),
	}
	for y := 0; y < g.H; y++ {
		row := b.Pix[y*stride : (y+1)*stride]
		for x := 0; x < g.W; x++ {
			if g.Bits[y*g.W+x] {
				row[x/8] |= 1 << (7 - x%8)
			}
		}
	}
	return b
}

// At reports whether the bit at (x, y) is set.
func (b *Bitmap) At(x, y int) bool {
	return b.Pix[y*b.BytesPerRow+x/8]&(1<<(7-x%8)) != 0
}

// Render dithers and packs an image in one step.
func Render(img image.Image) *Bitmap {
	return Pack(Dither(img))
}

// GrayImage expands the bitmap back to an 8-bit grayscale image, marked
// pixels black. Used by previews.
func (b *Bitmap) GrayImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.At(x, y) {
				img.Pix[y*img.Stride+x] = 0x00
			} else {
				img.Pix[y*img.Stride+x] = 0xff
			}
		}
	}
	return img
}
