package osd

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colour is either an X11 colour name ("LawnGreen") or a "#rrggbb" value.
// It is passed to the service untouched.
type Colour string

// RGB builds a "#rrggbb" colour.
func RGB(r, g, b uint8) Colour {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return Colour(c.Hex())
}

// RGB decodes a "#rgb" or "#rrggbb" colour. ok is false for named colours
// and malformed specs.
func (c Colour) RGB() (r, g, b uint8, ok bool) {
	s := strings.TrimSpace(string(c))
	if !strings.HasPrefix(s, "#") {
		return 0, 0, 0, false
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = col.RGB255()
	return r, g, b, true
}

func (c Colour) String() string { return string(c) }
