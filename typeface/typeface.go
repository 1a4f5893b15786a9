// Package typeface resolves the three text roles of a printed record
// (author label, body, timestamp) to concrete font faces. Built-in faces
// come from the Go fonts; any role can be overridden with a TTF file.
package typeface

import (
	"fmt"
	"math"
	"os"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/stylus/layout"
)

// Role identifies one of the text roles on the canvas.
type Role int

const (
	Author Role = iota
	Body
	Timestamp
)

// Default pixel sizes per role.
const (
	DefaultAuthorSize    = 24
	DefaultBodySize      = 22
	DefaultTimestampSize = 18
)

// Options selects per-role TTF overrides and pixel sizes. Zero values mean
// the built-in face and the default size.
type Options struct {
	AuthorPath    string
	BodyPath      string
	TimestampPath string

	AuthorSize    int
	BodySize      int
	TimestampSize int
}

// Set holds the resolved faces for all roles. Face sizes are in pixels:
// every canvas unit downstream is one device pixel.
type Set struct {
	faces map[Role]*canvas.FontFace
	sizes map[Role]int
}

type roleSpec struct {
	name    string
	path    string
	size    int
	style   canvas.FontStyle
	builtin []byte
}

// Load builds the face set. An override that cannot be read or parsed falls
// back to the built-in face for that role; only a broken built-in is an
// error.
func Load(opts Options) (*Set, error) {
	specs := map[Role]roleSpec{
		Author:    {name: "author", path: opts.AuthorPath, size: sizeOr(opts.AuthorSize, DefaultAuthorSize), style: canvas.FontBold, builtin: gobold.TTF},
		Body:      {name: "body", path: opts.BodyPath, size: sizeOr(opts.BodySize, DefaultBodySize), style: canvas.FontRegular, builtin: goregular.TTF},
		Timestamp: {name: "timestamp", path: opts.TimestampPath, size: sizeOr(opts.TimestampSize, DefaultTimestampSize), style: canvas.FontRegular, builtin: goregular.TTF},
	}

	s := &Set{
		faces: make(map[Role]*canvas.FontFace, len(specs)),
		sizes: make(map[Role]int, len(specs)),
	}
	for role, spec := range specs {
		face, err := loadFace(spec)
		if err != nil {
			return nil, err
		}
		s.faces[role] = face
		s.sizes[role] = spec.size
	}
	return s, nil
}

func sizeOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func loadFace(spec roleSpec) (*canvas.FontFace, error) {
	family := canvas.NewFontFamily(spec.name)
	loaded := false
	if spec.path != "" {
		if data, err := os.ReadFile(spec.path); err == nil {
			if err := family.LoadFont(data, 0, spec.style); err == nil {
				loaded = true
			}
		}
	}
	if !loaded {
		if err := family.LoadFont(spec.builtin, 0, spec.style); err != nil {
			return nil, fmt.Errorf("load built-in %s face: %w", spec.name, err)
		}
	}
	// Face takes points and the canvas works in its own units; one canvas
	// unit is one device pixel here, so convert px -> pt at the boundary.
	// TextWidth and Metrics then report pixels directly.
	return family.Face(float64(spec.size)*ptPerPx, canvas.Black, spec.style, canvas.FontNormal), nil
}

// ptPerPx converts a pixel size to the point size that spans the same
// number of canvas units.
const ptPerPx = 72.0 / 25.4

// Face returns the canvas face for a role.
func (s *Set) Face(role Role) *canvas.FontFace { return s.faces[role] }

// Size returns the nominal pixel size for a role.
func (s *Set) Size(role Role) int { return s.sizes[role] }

// Measurer adapts a role face to the layout measurement interface.
func (s *Set) Measurer(role Role) layout.Measurer {
	return faceMeasurer{face: s.faces[role], nominal: s.sizes[role]}
}

type faceMeasurer struct {
	face    *canvas.FontFace
	nominal int
}

func (m faceMeasurer) Width(s string) int {
	return int(math.Ceil(m.face.TextWidth(s)))
}

func (m faceMeasurer) Height(string) int {
	met := m.face.Metrics()
	h := met.Ascent + met.Descent
	if h <= 0 {
		return m.nominal
	}
	return int(math.Ceil(h))
}
