// Package escpos frames packed bitmaps as ESC/POS raster-image commands and
// writes them to the printer channel with the pacing the device needs.
package escpos

import (
	"fmt"

	"github.com/ByLCY/stylus/raster"
)

// Raster command bytes.
const (
	esc = 0x1b
	gs  = 0x1d

	// modeNormal is the only raster density this pipeline emits.
	modeNormal = 0x00
)

// HeaderSize is the length of Header's output: ESC @ plus GS v 0 m xL xH yL yH.
const HeaderSize = 10

// Header builds the initialization preamble and raster-command header for a
// bitmap of the given row stride (bytes) and height (pixels). Both extents
// are encoded little-endian 16-bit.
func Header(bytesPerRow, height int) ([]byte, error) {
	if bytesPerRow < 0 || bytesPerRow > 0xffff {
		return nil, fmt.Errorf("row stride %d outside 16-bit range", bytesPerRow)
	}
	if height < 0 || height > 0xffff {
		return nil, fmt.Errorf("height %d outside 16-bit range", height)
	}
	return []byte{
		esc, '@', // initialize printer
		gs, 'v', '0', modeNormal,
		byte(bytesPerRow), byte(bytesPerRow >> 8),
		byte(height), byte(height >> 8),
	}, nil
}

// ParseHeader recovers the row stride and height from a header produced by
// Header. Used by tests and diagnostics.
func ParseHeader(b []byte) (bytesPerRow, height int, err error) {
	if len(b) < HeaderSize {
		return 0, 0, fmt.Errorf("header truncated: %d bytes", len(b))
	}
	if b[0] != esc || b[1] != '@' || b[2] != gs || b[3] != 'v' || b[4] != '0' || b[5] != modeNormal {
		return 0, 0, fmt.Errorf("not a raster-image header: % x", b[:6])
	}
	return int(b[6]) | int(b[7])<<8, int(b[8]) | int(b[9])<<8, nil
}

// Encode returns the complete frame for a bitmap: preamble, header, then
// the raw packed rows.
func Encode(b *raster.Bitmap) ([]byte, error) {
	header, err := Header(b.BytesPerRow, b.H)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(header)+len(b.Pix))
	frame = append(frame, header...)
	frame = append(frame, b.Pix...)
	return frame, nil
}
