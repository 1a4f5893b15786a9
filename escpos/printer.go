package escpos

import (
	"fmt"
	"io"
	"time"

	"github.com/ByLCY/stylus/raster"
)

// DefaultWriteDelay is the pause between the three writes of one print.
const DefaultWriteDelay = 20 * time.Millisecond

// Printer writes frames to an append-only sink. The device has no
// backpressure signal, so each print is split into three writes with a
// fixed pause between them: a line feed to clear pending state, then the
// preamble and header, then the bitmap payload.
type Printer struct {
	w     io.Writer
	delay time.Duration
	sleep func(time.Duration)
}

// NewPrinter wraps a sink. A non-positive delay selects DefaultWriteDelay.
func NewPrinter(w io.Writer, delay time.Duration) *Printer {
	if delay <= 0 {
		delay = DefaultWriteDelay
	}
	return &Printer{w: w, delay: delay, sleep: time.Sleep}
}

// Print sends one bitmap to the device. Any short or failed write aborts:
// a partial frame means the record was not printed and the caller decides
// whether to retry.
func (p *Printer) Print(b *raster.Bitmap) error {
	header, err := Header(b.BytesPerRow, b.H)
	if err != nil {
		return err
	}

	if err := p.write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write line feed: %w", err)
	}
	p.sleep(p.delay)

	if err := p.write(header); err != nil {
		return fmt.Errorf("write raster header: %w", err)
	}
	p.sleep(p.delay)

	if err := p.write(b.Pix); err != nil {
		return fmt.Errorf("write bitmap payload: %w", err)
	}
	return nil
}

func (p *Printer) write(data []byte) error {
	n, err := p.w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(data))
	}
	return nil
}
