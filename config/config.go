// Package config loads the YAML profile that wires the pipeline: device
// path, canvas width, fonts per role, and the fixed layout constants.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/stylus/compose"
	"github.com/ByLCY/stylus/typeface"
)

// Config is the top-level profile.
type Config struct {
	Device     string       `yaml:"device"`
	Store      string       `yaml:"store"`
	WriteDelay Duration     `yaml:"write_delay"`
	Fonts      FontsConfig  `yaml:"fonts"`
	Layout     LayoutConfig `yaml:"layout"`
}

// Duration unmarshals from Go duration strings ("20ms") or from a bare
// number of milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ms int64
	if err := value.Decode(&ms); err != nil {
		return err
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// FontsConfig overrides the faces backing the three text roles.
type FontsConfig struct {
	Author    FontConfig `yaml:"author"`
	Body      FontConfig `yaml:"body"`
	Timestamp FontConfig `yaml:"timestamp"`
}

// FontConfig selects a TTF file and a pixel size for one role. Empty path
// means the built-in face; zero size means the role default.
type FontConfig struct {
	Path string `yaml:"path"`
	Size int    `yaml:"size"`
}

// LayoutConfig overrides the canvas geometry. Zero fields keep defaults.
type LayoutConfig struct {
	Width         int `yaml:"width"`
	PaddingTop    int `yaml:"padding_top"`
	PaddingBottom int `yaml:"padding_bottom"`
	Spacing       int `yaml:"spacing"`
	LineGap       int `yaml:"line_gap"`
	AvatarHeight  int `yaml:"avatar_height"`
	LabelGap      int `yaml:"label_gap"`
	DateGap       int `yaml:"date_gap"`
}

// Default returns the stock profile: 384px canvas, /dev/usb/lp0, 20ms
// write pacing.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML profile and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Device == "" {
		c.Device = "/dev/usb/lp0"
	}
	if c.Store == "" {
		c.Store = defaultStorePath()
	}
	if c.WriteDelay <= 0 {
		c.WriteDelay = Duration(20 * time.Millisecond)
	}

	def := compose.DefaultGeometry()
	if c.Layout.Width <= 0 {
		c.Layout.Width = def.Width
	}
	if c.Layout.PaddingTop <= 0 {
		c.Layout.PaddingTop = def.PaddingTop
	}
	if c.Layout.PaddingBottom <= 0 {
		c.Layout.PaddingBottom = def.PaddingBottom
	}
	if c.Layout.Spacing <= 0 {
		c.Layout.Spacing = def.Spacing
	}
	if c.Layout.LineGap <= 0 {
		c.Layout.LineGap = def.LineGap
	}
	if c.Layout.AvatarHeight <= 0 {
		c.Layout.AvatarHeight = def.AvatarHeight
	}
	if c.Layout.LabelGap <= 0 {
		c.Layout.LabelGap = def.LabelGap
	}
	if c.Layout.DateGap <= 0 {
		c.Layout.DateGap = def.DateGap
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "stylus.db"
	}
	return home + "/.stylus/printed.db"
}

// Geometry converts the layout section into compositor geometry.
func (c *Config) Geometry() compose.Geometry {
	return compose.Geometry{
		Width:         c.Layout.Width,
		PaddingTop:    c.Layout.PaddingTop,
		PaddingBottom: c.Layout.PaddingBottom,
		Spacing:       c.Layout.Spacing,
		LineGap:       c.Layout.LineGap,
		AvatarHeight:  c.Layout.AvatarHeight,
		LabelGap:      c.Layout.LabelGap,
		DateGap:       c.Layout.DateGap,
	}
}

// TypefaceOptions converts the fonts section into typeface options.
func (c *Config) TypefaceOptions() typeface.Options {
	return typeface.Options{
		AuthorPath:    c.Fonts.Author.Path,
		BodyPath:      c.Fonts.Body.Path,
		TimestampPath: c.Fonts.Timestamp.Path,
		AuthorSize:    c.Fonts.Author.Size,
		BodySize:      c.Fonts.Body.Size,
		TimestampSize: c.Fonts.Timestamp.Size,
	}
}
