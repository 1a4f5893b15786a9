package compose_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/stylus/compose"
	"github.com/ByLCY/stylus/feed"
	"github.com/ByLCY/stylus/typeface"
)

// fixedMeasurer reports a constant width per rune and a constant height.
type fixedMeasurer struct {
	charW  int
	height int
}

func (m fixedMeasurer) Width(s string) int { return m.charW * len([]rune(s)) }
func (m fixedMeasurer) Height(string) int  { return m.height }

func testMeasurers() compose.Measurers {
	return compose.Measurers{
		Author:    fixedMeasurer{charW: 12, height: 26},
		Body:      fixedMeasurer{charW: 10, height: 24},
		Timestamp: fixedMeasurer{charW: 8, height: 19},
	}
}

func testRecord() feed.Record {
	return feed.Record{
		ID:         "t1",
		Author:     "@tester",
		Timestamp:  "Mon 10:00",
		Text:       "short",
		AvatarPath: "avatar.png",
	}
}

func TestPlanHeightFormulaNoImage(t *testing.T) {
	geo := compose.DefaultGeometry()
	m := testMeasurers()
	// "short" is 50px wide at 10px per rune: one line.
	bp := compose.Plan(testRecord(), m, 1.0, 0, geo)

	if len(bp.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(bp.Lines))
	}
	profile := geo.AvatarHeight // 40 > author height 26
	want := geo.PaddingTop + profile + geo.Spacing +
		(24 + geo.LineGap) +
		geo.DateGap + 19 + geo.PaddingBottom
	if bp.Height != want {
		t.Errorf("height = %d, want %d", bp.Height, want)
	}
}

func TestPlanHeightGrowsWithImage(t *testing.T) {
	geo := compose.DefaultGeometry()
	m := testMeasurers()
	rec := testRecord()
	rec.ImagePath = "shot.png"

	without := compose.Plan(rec, m, 1.0, 0, geo)
	with := compose.Plan(rec, m, 1.0, 2.0, geo)

	// A 2:1 attachment scales to geo.Width x geo.Width/2.
	if with.ImageW != geo.Width || with.ImageH != geo.Width/2 {
		t.Errorf("image dims = %dx%d", with.ImageW, with.ImageH)
	}
	if with.Height != without.Height+with.ImageH+geo.Spacing {
		t.Errorf("height with image = %d, without = %d, imageH = %d",
			with.Height, without.Height, with.ImageH)
	}
}

func TestPlanTallLabelExtendsProfile(t *testing.T) {
	geo := compose.DefaultGeometry()
	m := testMeasurers()
	m.Author = fixedMeasurer{charW: 12, height: 55}
	bp := compose.Plan(testRecord(), m, 1.0, 0, geo)
	if bp.ProfileH != 55 {
		t.Errorf("profile height = %d, want label height 55", bp.ProfileH)
	}
}

func TestPlanAvatarScaling(t *testing.T) {
	geo := compose.DefaultGeometry()
	m := testMeasurers()

	wide := compose.Plan(testRecord(), m, 1.5, 0, geo)
	if wide.AvatarW != 60 || wide.AvatarH != 40 {
		t.Errorf("1.5 aspect avatar = %dx%d, want 60x40", wide.AvatarW, wide.AvatarH)
	}

	// A degenerate sliver still gets at least one column.
	sliver := compose.Plan(testRecord(), m, 0.01, 0, geo)
	if sliver.AvatarW != 1 {
		t.Errorf("sliver avatar width = %d, want 1", sliver.AvatarW)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestComposeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	avatarPath := filepath.Join(dir, "avatar.png")
	writePNG(t, avatarPath, 80, 80, color.RGBA{30, 30, 30, 255})

	faces, err := typeface.Load(typeface.Options{})
	if err != nil {
		t.Fatalf("load faces: %v", err)
	}
	geo := compose.DefaultGeometry()

	rec := feed.Record{
		ID:         "e2e",
		Author:     "@tester",
		Timestamp:  "Mon 10:00",
		Text:       "hello receipt world",
		AvatarPath: avatarPath,
	}
	img, err := compose.Compose(rec, faces, geo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != geo.Width {
		t.Errorf("canvas width = %d, want %d", img.Bounds().Dx(), geo.Width)
	}

	m := compose.Measurers{
		Author:    faces.Measurer(typeface.Author),
		Body:      faces.Measurer(typeface.Body),
		Timestamp: faces.Measurer(typeface.Timestamp),
	}
	bp := compose.Plan(rec, m, 1.0, 0, geo)
	if img.Bounds().Dy() != bp.Height {
		t.Errorf("canvas height = %d, planned %d", img.Bounds().Dy(), bp.Height)
	}

	// Background is white and the dark avatar landed inside the top block.
	if c := img.RGBAAt(geo.Width-1, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("top-right corner not white: %+v", c)
	}
	if c := img.RGBAAt(5, geo.PaddingTop+5); c.R > 80 {
		t.Errorf("avatar area not dark: %+v", c)
	}
}

func TestComposeMissingAvatarIsFatal(t *testing.T) {
	faces, err := typeface.Load(typeface.Options{})
	if err != nil {
		t.Fatalf("load faces: %v", err)
	}
	rec := testRecord()
	rec.AvatarPath = filepath.Join(t.TempDir(), "nope.png")
	if _, err := compose.Compose(rec, faces, compose.DefaultGeometry()); !errors.Is(err, compose.ErrAvatar) {
		t.Fatalf("expected ErrAvatar, got %v", err)
	}
}

func TestComposeMissingAttachmentDegrades(t *testing.T) {
	dir := t.TempDir()
	avatarPath := filepath.Join(dir, "avatar.png")
	writePNG(t, avatarPath, 40, 40, color.RGBA{0, 0, 0, 255})

	faces, err := typeface.Load(typeface.Options{})
	if err != nil {
		t.Fatalf("load faces: %v", err)
	}
	geo := compose.DefaultGeometry()

	rec := feed.Record{
		ID:         "deg",
		Author:     "@tester",
		Timestamp:  "Mon 10:00",
		Text:       "hi",
		AvatarPath: avatarPath,
		ImagePath:  filepath.Join(dir, "missing.jpg"),
	}
	withMissing, err := compose.Compose(rec, faces, geo)
	if err != nil {
		t.Fatalf("attachment failure should degrade, got %v", err)
	}

	rec.ImagePath = ""
	without, err := compose.Compose(rec, faces, geo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withMissing.Bounds().Dy() != without.Bounds().Dy() {
		t.Errorf("degraded canvas height %d differs from no-image height %d",
			withMissing.Bounds().Dy(), without.Bounds().Dy())
	}
}

func TestFitWidthPreservesAspect(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 768, 100))
	got := compose.FitWidth(wide, 384)
	if got.Bounds().Dx() != 384 || got.Bounds().Dy() != 50 {
		t.Errorf("768x100 fit to 384 = %v, want 384x50", got.Bounds().Size())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 300))
	got = compose.FitWidth(tall, 384)
	if got.Bounds().Dx() != 384 || got.Bounds().Dy() != 1152 {
		t.Errorf("100x300 fit to 384 = %v, want 384x1152", got.Bounds().Size())
	}

	// A sliver never collapses below one row.
	sliver := image.NewRGBA(image.Rect(0, 0, 4000, 1))
	got = compose.FitWidth(sliver, 384)
	if got.Bounds().Dy() < 1 {
		t.Errorf("sliver fit height = %d, want at least 1", got.Bounds().Dy())
	}
}
