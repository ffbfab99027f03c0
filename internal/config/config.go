package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/termosd/osd"
)

// Backend selects the service that draws the OSD.
type Backend string

const (
	BackendX11  Backend = "x11"  // Pure Go renderer talking to the X server.
	BackendXOSD Backend = "xosd" // libxosd through cgo.
)

// Config is the effective daemon configuration.
type Config struct {
	Display string  `yaml:"display,omitempty"`
	Backend Backend `yaml:"backend"`
	// Font is an X logical font description; empty uses the backend default.
	Font  string `yaml:"font,omitempty"`
	Lines int    `yaml:"lines"`

	Colour        string `yaml:"colour"`
	ShadowColour  string `yaml:"shadow_colour"`
	OutlineColour string `yaml:"outline_colour"`

	Timeout time.Duration `yaml:"timeout"` // 0 keeps the display up until hidden

	Position         string `yaml:"position"`
	Align            string `yaml:"align"`
	VerticalOffset   int    `yaml:"vertical_offset"`
	HorizontalOffset int    `yaml:"horizontal_offset"`
	ShadowOffset     int    `yaml:"shadow_offset"`
	OutlineOffset    int    `yaml:"outline_offset"`
	BarLength        int    `yaml:"bar_length"` // -1 lets the backend decide

	// HideHotkey is an xgbutil key sequence such as "Mod4-Escape" that makes
	// the daemon hide the display. Empty disables it.
	HideHotkey string `yaml:"hide_hotkey,omitempty"`

	LogLevel string `yaml:"log_level"`
}

const (
	DefaultLines   = 2
	DefaultTimeout = 3 * time.Second
	MaxLines       = 32
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendX11,
		Lines:          DefaultLines,
		Colour:         "green",
		ShadowColour:   "black",
		OutlineColour:  "black",
		Timeout:        DefaultTimeout,
		Position:       "bottom",
		Align:          "center",
		VerticalOffset: 48,
		ShadowOffset:   1,
		BarLength:      -1,
		LogLevel:       "info",
	}
}

// Validate checks value ranges. Errors carry the YAML path of the offending
// key so the loader can attach file positions.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendX11, BackendXOSD:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("unknown backend %q (want x11 or xosd)", c.Backend)}
	}

	if c.Lines < 1 || c.Lines > MaxLines {
		return &ValidationError{Path: "lines", Err: fmt.Errorf("must be between 1 and %d", MaxLines)}
	}
	if strings.ContainsRune(c.Font, 0) {
		return &ValidationError{Path: "font", Err: fmt.Errorf("must not contain NUL")}
	}

	for _, colour := range []struct {
		path  string
		value string
	}{
		{"colour", c.Colour},
		{"shadow_colour", c.ShadowColour},
		{"outline_colour", c.OutlineColour},
	} {
		if err := validateColour(colour.value); err != nil {
			return &ValidationError{Path: colour.path, Err: err}
		}
	}

	if c.Timeout < 0 {
		return &ValidationError{Path: "timeout", Err: fmt.Errorf("must be >= 0")}
	}
	if _, err := osd.ParsePosition(c.Position); err != nil {
		return &ValidationError{Path: "position", Err: err}
	}
	if _, err := osd.ParseAlign(c.Align); err != nil {
		return &ValidationError{Path: "align", Err: err}
	}

	for _, offset := range []struct {
		path  string
		value int
	}{
		{"vertical_offset", c.VerticalOffset},
		{"horizontal_offset", c.HorizontalOffset},
		{"shadow_offset", c.ShadowOffset},
		{"outline_offset", c.OutlineOffset},
	} {
		if offset.value < 0 {
			return &ValidationError{Path: offset.path, Err: fmt.Errorf("must be >= 0")}
		}
	}

	if c.BarLength < -1 || c.BarLength > 100 {
		return &ValidationError{Path: "bar_length", Err: fmt.Errorf("must be -1 or between 0 and 100")}
	}

	if strings.ContainsAny(c.HideHotkey, " \t") {
		return &ValidationError{Path: "hide_hotkey", Err: fmt.Errorf("must not contain whitespace")}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("unknown level %q", c.LogLevel)}
	}
	return nil
}

func validateColour(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.HasPrefix(v, "#") {
		if _, _, _, ok := osd.Colour(v).RGB(); !ok {
			return fmt.Errorf("invalid hex colour %q", v)
		}
	}
	return nil
}

// OSD converts the configuration into a session builder.
func (c *Config) OSD() (osd.Config, error) {
	pos, err := osd.ParsePosition(c.Position)
	if err != nil {
		return osd.Config{}, err
	}
	align, err := osd.ParseAlign(c.Align)
	if err != nil {
		return osd.Config{}, err
	}

	return osd.NewConfig().
		WithDisplay(c.Display).
		WithFont(c.Font).
		WithLines(c.Lines).
		WithColour(osd.Colour(c.Colour)).
		WithShadowColour(osd.Colour(c.ShadowColour)).
		WithOutlineColour(osd.Colour(c.OutlineColour)).
		WithShadowOffset(c.ShadowOffset).
		WithOutlineOffset(c.OutlineOffset).
		WithPosition(pos).
		WithAlign(align).
		WithVerticalOffset(c.VerticalOffset).
		WithHorizontalOffset(c.HorizontalOffset).
		WithTimeout(c.Timeout).
		WithBarLength(c.BarLength), nil
}
