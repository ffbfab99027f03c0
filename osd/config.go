package osd

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type opt[T any] struct {
	v   T
	set bool
}

func some[T any](v T) opt[T] { return opt[T]{v: v, set: true} }

// Config stages the initial attributes of a display so that the native open
// happens exactly once with a complete configuration. Config is a value: each
// With method returns a modified copy and never alters the receiver. The zero
// value is ready to use and opens a single-line display with the service's
// default font.
type Config struct {
	display          string
	font             string
	lines            opt[int]
	colour           opt[Colour]
	shadowColour     opt[Colour]
	outlineColour    opt[Colour]
	timeout          opt[time.Duration]
	position         opt[Position]
	align            opt[Align]
	verticalOffset   opt[int]
	horizontalOffset opt[int]
	shadowOffset     opt[int]
	outlineOffset    opt[int]
	barLength        opt[int]
}

// NewConfig returns the default configuration.
func NewConfig() Config { return Config{} }

// WithDisplay selects the X display (e.g. ":1"). Empty means the service
// default, usually $DISPLAY.
func (c Config) WithDisplay(name string) Config { c.display = name; return c }

// WithFont sets the X font description used at open time.
func (c Config) WithFont(name string) Config { c.font = name; return c }

// WithLines sets the number of display lines. It is fixed once opened.
func (c Config) WithLines(n int) Config { c.lines = some(n); return c }

// WithColour sets the text and bar colour.
func (c Config) WithColour(col Colour) Config { c.colour = some(col); return c }

// WithShadowColour sets the drop shadow colour.
func (c Config) WithShadowColour(col Colour) Config { c.shadowColour = some(col); return c }

// WithOutlineColour sets the outline colour.
func (c Config) WithOutlineColour(col Colour) Config { c.outlineColour = some(col); return c }

// WithTimeout sets how long text stays visible. Zero keeps it until replaced.
// Durations are rounded up to whole seconds.
func (c Config) WithTimeout(d time.Duration) Config { c.timeout = some(d); return c }

// WithPosition selects the screen edge the display sits on.
func (c Config) WithPosition(p Position) Config { c.position = some(p); return c }

// WithAlign sets horizontal alignment.
func (c Config) WithAlign(a Align) Config { c.align = some(a); return c }

// WithVerticalOffset moves the display away from its edge, in pixels.
func (c Config) WithVerticalOffset(px int) Config { c.verticalOffset = some(px); return c }

// WithHorizontalOffset moves the display sideways from its alignment, in pixels.
func (c Config) WithHorizontalOffset(px int) Config { c.horizontalOffset = some(px); return c }

// WithShadowOffset sets the drop shadow distance in pixels. Zero disables it.
func (c Config) WithShadowOffset(px int) Config { c.shadowOffset = some(px); return c }

// WithOutlineOffset sets the outline width in pixels. Zero disables it.
func (c Config) WithOutlineOffset(px int) Config { c.outlineOffset = some(px); return c }

// WithBarLength sets the percentage of the display used by bars, or -1 for
// the service's choice.
func (c Config) WithBarLength(percent int) Config { c.barLength = some(percent); return c }

// Lines returns the configured line count, 1 when unset.
func (c Config) Lines() int {
	if !c.lines.set {
		return 1
	}
	return c.lines.v
}

// Settings returns the attributes a session opened from c will record.
func (c Config) Settings() Settings {
	s := Settings{
		Display:          c.display,
		Font:             c.font,
		Lines:            c.Lines(),
		Colour:           c.colour.v,
		ShadowColour:     c.shadowColour.v,
		OutlineColour:    c.outlineColour.v,
		Timeout:          c.timeout.v,
		Position:         c.position.v,
		Align:            c.align.v,
		VerticalOffset:   c.verticalOffset.v,
		HorizontalOffset: c.horizontalOffset.v,
		ShadowOffset:     c.shadowOffset.v,
		OutlineOffset:    c.outlineOffset.v,
		BarLength:        -1,
	}
	if c.barLength.set {
		s.BarLength = c.barLength.v
	}
	return s
}

func (c Config) validate() error {
	invalid := func(format string, args ...any) error {
		return &StateError{Command: KindOpen, State: StateClosed, Reason: fmt.Sprintf(format, args...)}
	}

	if n := c.Lines(); n < 1 || n > math.MaxInt32 {
		return invalid("lines must be at least 1, got %d", n)
	}
	if c.timeout.set {
		if _, err := timeoutSeconds(c.timeout.v); err != nil {
			return invalid("%v", err)
		}
	}
	if c.position.set {
		if _, ok := c.position.v.native(); !ok {
			return invalid("unknown position %d", int(c.position.v))
		}
	}
	if c.align.set {
		if _, ok := c.align.v.native(); !ok {
			return invalid("unknown align %d", int(c.align.v))
		}
	}
	if c.barLength.set {
		if err := checkBarLength(c.barLength.v); err != nil {
			return invalid("%v", err)
		}
	}
	for _, off := range []opt[int]{c.verticalOffset, c.horizontalOffset, c.shadowOffset, c.outlineOffset} {
		if off.set && (off.v < math.MinInt32 || off.v > math.MaxInt32) {
			return invalid("offset %d out of range", off.v)
		}
	}

	colours := []struct {
		field string
		col   opt[Colour]
	}{
		{"colour", c.colour},
		{"shadow colour", c.shadowColour},
		{"outline colour", c.outlineColour},
	}
	for _, entry := range colours {
		if !entry.col.set {
			continue
		}
		if _, err := encodeText(entry.field, string(entry.col.v)); err != nil {
			return err
		}
	}
	return nil
}

// Open validates c, calls the native open exactly once and applies every
// staged attribute to the new handle in a fixed order. If any step fails the
// handle is closed before the error is returned, so no partially configured
// session escapes.
func (c Config) Open(lib Native) (*Session, error) {
	if lib == nil {
		return nil, &OpenError{Reason: "no native service"}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	display, err := encodeOptional("display", c.display)
	if err != nil {
		return nil, err
	}
	font, err := encodeOptional("font", c.font)
	if err != nil {
		return nil, err
	}

	b := boundary{lib: lib}
	lines := c.Lines()
	h, err := b.open(display, font, int32(lines))
	if err != nil {
		return nil, err
	}

	s := newSession(b, h, lines, Settings{
		Display:   c.display,
		Font:      c.font,
		Lines:     lines,
		BarLength: -1,
	})
	for _, step := range c.steps() {
		if err := step(s); err != nil {
			if cerr := s.Close(); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
			return nil, err
		}
	}
	return s, nil
}

// steps lists the staged attributes in application order. Colours must be
// set before the shadow and outline offsets.
func (c Config) steps() []func(*Session) error {
	var steps []func(*Session) error
	add := func(set bool, fn func(*Session) error) {
		if set {
			steps = append(steps, fn)
		}
	}

	add(c.colour.set, func(s *Session) error { return s.SetColour(c.colour.v) })
	add(c.shadowColour.set, func(s *Session) error { return s.SetShadowColour(c.shadowColour.v) })
	add(c.outlineColour.set, func(s *Session) error { return s.SetOutlineColour(c.outlineColour.v) })
	add(c.shadowOffset.set, func(s *Session) error { return s.SetShadowOffset(c.shadowOffset.v) })
	add(c.outlineOffset.set, func(s *Session) error { return s.SetOutlineOffset(c.outlineOffset.v) })
	add(c.position.set, func(s *Session) error { return s.SetPosition(c.position.v) })
	add(c.align.set, func(s *Session) error { return s.SetAlign(c.align.v) })
	add(c.verticalOffset.set, func(s *Session) error { return s.SetVerticalOffset(c.verticalOffset.v) })
	add(c.horizontalOffset.set, func(s *Session) error { return s.SetHorizontalOffset(c.horizontalOffset.v) })
	add(c.timeout.set, func(s *Session) error { return s.SetTimeout(c.timeout.v) })
	add(c.barLength.set, func(s *Session) error { return s.SetBarLength(c.barLength.v) })
	return steps
}

func timeoutSeconds(d time.Duration) (int32, error) {
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", d)
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	if secs > math.MaxInt32 {
		return 0, fmt.Errorf("timeout %s too large", d)
	}
	return int32(secs), nil
}

func checkBarLength(percent int) error {
	if percent != -1 && (percent < 0 || percent > 100) {
		return fmt.Errorf("bar length must be -1 or between 0 and 100, got %d", percent)
	}
	return nil
}
