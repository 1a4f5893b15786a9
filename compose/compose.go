// Package compose lays a record out on a fixed-width RGBA canvas: avatar
// and author label on top, wrapped body text, an optional attachment at
// full width, and the timestamp at the bottom.
package compose

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/stylus/feed"
	"github.com/ByLCY/stylus/layout"
	"github.com/ByLCY/stylus/typeface"
)

// ErrAvatar marks an avatar that could not be loaded. Without the avatar's
// dimensions no valid layout exists, so this aborts the record.
var ErrAvatar = errors.New("avatar unavailable")

// Geometry is the fixed pixel layout of the canvas. The values are
// overridable configuration; the layout algorithm never changes with them.
type Geometry struct {
	Width         int // canvas and printer width
	PaddingTop    int
	PaddingBottom int
	Spacing       int // gap below the avatar block and below the attachment
	LineGap       int // extra advance after each body line
	AvatarHeight  int
	LabelGap      int // horizontal gap between avatar and author label
	DateGap       int // gap above the timestamp
}

// DefaultGeometry returns the stock 384px receipt layout.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:         384,
		PaddingTop:    8,
		PaddingBottom: 40,
		Spacing:       10,
		LineGap:       4,
		AvatarHeight:  40,
		LabelGap:      6,
		DateGap:       10,
	}
}

// Measurers bundles one measurer per text role.
type Measurers struct {
	Author    layout.Measurer
	Body      layout.Measurer
	Timestamp layout.Measurer
}

// Blueprint is the computed vertical layout of one record. All positions
// derive from it; Height exactly bounds the drawn content plus the fixed
// margins.
type Blueprint struct {
	Lines []layout.Line

	AvatarW, AvatarH int
	ProfileH         int // max(AvatarH, author label height)
	ImageW, ImageH   int // zero when there is no attachment
	DateH            int
	Height           int
}

// Plan computes the layout from measured text and image aspect ratios
// (width/height; imageAspect 0 means no attachment). Pure: no I/O, no
// drawing, fully determined by its inputs.
func Plan(rec feed.Record, m Measurers, avatarAspect, imageAspect float64, geo Geometry) Blueprint {
	bp := Blueprint{
		AvatarH: geo.AvatarHeight,
		AvatarW: scaledDim(avatarAspect, geo.AvatarHeight),
		Lines:   layout.Wrap(rec.Text, m.Body, geo.Width),
		DateH:   m.Timestamp.Height(rec.Timestamp),
	}
	bp.ProfileH = max(bp.AvatarH, m.Author.Height(rec.Author))
	if imageAspect > 0 {
		bp.ImageW = geo.Width
		bp.ImageH = scaledDim(1/imageAspect, geo.Width)
	}

	h := geo.PaddingTop + bp.ProfileH + geo.Spacing
	for _, ln := range bp.Lines {
		h += ln.Height + geo.LineGap
	}
	if bp.ImageH > 0 {
		h += bp.ImageH + geo.Spacing
	}
	h += geo.DateGap + bp.DateH + geo.PaddingBottom
	bp.Height = h
	return bp
}

// scaledDim scales the other axis of an image by ratio, never below 1px.
func scaledDim(ratio float64, base int) int {
	d := int(math.Round(ratio * float64(base)))
	if d < 1 {
		return 1
	}
	return d
}

// Compose renders a record into an RGBA canvas of geo.Width and derived
// height. The avatar must load; a failing attachment is dropped and the
// canvas shrinks accordingly.
func Compose(rec feed.Record, faces *typeface.Set, geo Geometry) (*image.RGBA, error) {
	avatar, err := LoadImage(rec.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrAvatar, rec.AvatarPath, err)
	}

	var attach image.Image
	if rec.HasImage() {
		// Recoverable: render without the image block.
		if img, err := LoadImage(rec.ImagePath); err == nil {
			attach = img
		}
	}

	m := Measurers{
		Author:    faces.Measurer(typeface.Author),
		Body:      faces.Measurer(typeface.Body),
		Timestamp: faces.Measurer(typeface.Timestamp),
	}
	bp := Plan(rec, m, aspect(avatar), aspect(attach), geo)

	c := canvas.New(float64(geo.Width), float64(bp.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the raster

	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(geo.Width), float64(bp.Height)))

	y := geo.PaddingTop
	ctx.DrawImage(0, float64(y), scale(avatar, bp.AvatarW, bp.AvatarH), canvas.DPMM(1.0))
	drawText(ctx, faces.Face(typeface.Author), rec.Author, float64(bp.AvatarW+geo.LabelGap), float64(y))
	y += bp.ProfileH + geo.Spacing

	for _, ln := range bp.Lines {
		drawText(ctx, faces.Face(typeface.Body), ln.Text, 0, float64(y))
		y += ln.Height + geo.LineGap
	}

	if attach != nil && bp.ImageH > 0 {
		ctx.DrawImage(0, float64(y), scale(attach, bp.ImageW, bp.ImageH), canvas.DPMM(1.0))
		y += bp.ImageH + geo.Spacing
	}

	y += geo.DateGap
	drawText(ctx, faces.Face(typeface.Timestamp), rec.Timestamp, 0, float64(y))

	// One canvas unit is one pixel, so rasterize at 1 dot per unit.
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

// drawText draws a single line with its top edge at y. The baseline sits
// one ascent below the top.
func drawText(ctx *canvas.Context, face *canvas.FontFace, s string, x, y float64) {
	if s == "" {
		return
	}
	ctx.DrawText(x, y+face.Metrics().Ascent, canvas.NewTextLine(face, s, canvas.Left))
}

// LoadImage opens and decodes a PNG, JPEG, or GIF file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// aspect returns width/height, or 0 for nil or degenerate images.
func aspect(img image.Image) float64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	if b.Dy() <= 0 {
		return 0
	}
	return float64(b.Dx()) / float64(b.Dy())
}

func scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// FitWidth scales src to the given width, preserving its aspect ratio.
// Degenerate images collapse to a single row rather than failing.
func FitWidth(src image.Image, width int) *image.RGBA {
	a := aspect(src)
	if a <= 0 {
		return scale(src, width, 1)
	}
	return scale(src, width, scaledDim(1/a, width))
}
