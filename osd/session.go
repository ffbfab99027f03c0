package osd

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

// Settings is the configuration recorded by a Session. Each field reflects the
// last value that the service accepted.
type Settings struct {
	Display          string
	Font             string
	Lines            int
	Colour           Colour
	ShadowColour     Colour
	OutlineColour    Colour
	Timeout          time.Duration
	Position         Position
	Align            Align
	VerticalOffset   int
	HorizontalOffset int
	ShadowOffset     int
	OutlineOffset    int
	// BarLength is -1 while the service chooses the length.
	BarLength int
}

// noCopy makes go vet flag copies of a Session.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Session owns one open native display. It is obtained from Config.Open and
// released by Close. After Close every operation fails with a *StateError and
// never reaches the service.
//
// A Session must have a single owner; it takes no locks.
type Session struct {
	_ noCopy

	b        boundary
	handle   Handle
	state    State
	lines    int
	settings Settings
	cleanup  runtime.Cleanup
}

type leakedHandle struct {
	lib    Native
	handle Handle
}

func releaseLeaked(l leakedHandle) {
	l.lib.Close(l.handle)
}

func newSession(b boundary, h Handle, lines int, settings Settings) *Session {
	s := &Session{
		b:        b,
		handle:   h,
		state:    StateOpen,
		lines:    lines,
		settings: settings,
	}
	// Releases the handle if the session becomes unreachable while still
	// open. Close stops it.
	s.cleanup = runtime.AddCleanup(s, releaseLeaked, leakedHandle{lib: b.lib, handle: h})
	return s
}

// State returns the lifecycle state.
func (s *Session) State() State {
	if s == nil {
		return StateClosed
	}
	return s.state
}

// Lines returns the line count fixed at open time.
func (s *Session) Lines() int {
	if s == nil {
		return 0
	}
	return s.lines
}

// Settings returns a copy of the recorded configuration.
func (s *Session) Settings() Settings {
	if s == nil {
		return Settings{}
	}
	return s.settings
}

// Close releases the native handle and moves the session to StateClosed. The
// handle counts as released even if the service reports a failure, which is
// returned. Calling Close on a closed session does nothing, so it is safe to
// defer alongside an explicit Close.
func (s *Session) Close() error {
	if s == nil || s.state != StateOpen {
		return nil
	}
	s.state = StateClosed
	s.cleanup.Stop()
	h := s.handle
	s.handle = NullHandle
	return s.b.close(h)
}

func (s *Session) check(kind CommandKind) error {
	if s == nil || s.state != StateOpen {
		return &StateError{Command: kind, State: StateClosed}
	}
	return nil
}

func (s *Session) checkLine(kind CommandKind, line int) error {
	if err := s.check(kind); err != nil {
		return err
	}
	if line < 0 || line >= s.lines {
		return &StateError{
			Command: kind,
			State:   s.state,
			Reason:  fmt.Sprintf("line %d out of range [0,%d)", line, s.lines),
		}
	}
	return nil
}

func (s *Session) invalid(kind CommandKind, format string, args ...any) error {
	return &StateError{Command: kind, State: s.state, Reason: fmt.Sprintf(format, args...)}
}

func (s *Session) checkOffset(kind CommandKind, px int) error {
	if err := s.check(kind); err != nil {
		return err
	}
	if px < math.MinInt32 || px > math.MaxInt32 {
		return s.invalid(kind, "offset %d out of range", px)
	}
	return nil
}

// SetText writes text on the given 0-based line.
func (s *Session) SetText(line int, text string) error {
	if err := s.checkLine(KindSetText, line); err != nil {
		return err
	}
	ctext, err := encodeText("text", text)
	if err != nil {
		return err
	}
	return s.b.call(KindSetText, s.b.lib.DisplayString(s.handle, int32(line), ctext))
}

// SetPercentage draws a percentage bar on the given line.
func (s *Session) SetPercentage(line, percent int) error {
	if err := s.checkLine(KindSetPercentage, line); err != nil {
		return err
	}
	if percent < 0 || percent > 100 {
		return s.invalid(KindSetPercentage, "percentage %d out of range [0,100]", percent)
	}
	return s.b.call(KindSetPercentage, s.b.lib.DisplayPercentage(s.handle, int32(line), int32(percent)))
}

// SetSlider draws a slider on the given line.
func (s *Session) SetSlider(line, percent int) error {
	if err := s.checkLine(KindSetSlider, line); err != nil {
		return err
	}
	if percent < 0 || percent > 100 {
		return s.invalid(KindSetSlider, "slider %d out of range [0,100]", percent)
	}
	return s.b.call(KindSetSlider, s.b.lib.DisplaySlider(s.handle, int32(line), int32(percent)))
}

// SetFont changes the X font description.
func (s *Session) SetFont(name string) error {
	if err := s.check(KindSetFont); err != nil {
		return err
	}
	cfont, err := encodeText("font", name)
	if err != nil {
		return err
	}
	if err := s.b.call(KindSetFont, s.b.lib.SetFont(s.handle, cfont)); err != nil {
		return err
	}
	s.settings.Font = name
	return nil
}

func (s *Session) setColour(kind CommandKind, field string, col Colour, fn func(Handle, CString) Status) error {
	if err := s.check(kind); err != nil {
		return err
	}
	ccol, err := encodeText(field, string(col))
	if err != nil {
		return err
	}
	return s.b.call(kind, fn(s.handle, ccol))
}

// SetColour changes the text colour.
func (s *Session) SetColour(col Colour) error {
	if err := s.setColour(KindSetColour, "colour", col, s.b.lib.SetColour); err != nil {
		return err
	}
	s.settings.Colour = col
	return nil
}

// SetShadowColour changes the colour of the drop shadow.
func (s *Session) SetShadowColour(col Colour) error {
	if err := s.setColour(KindSetShadowColour, "shadow colour", col, s.b.lib.SetShadowColour); err != nil {
		return err
	}
	s.settings.ShadowColour = col
	return nil
}

// SetOutlineColour changes the colour of the text outline.
func (s *Session) SetOutlineColour(col Colour) error {
	if err := s.setColour(KindSetOutlineColour, "outline colour", col, s.b.lib.SetOutlineColour); err != nil {
		return err
	}
	s.settings.OutlineColour = col
	return nil
}

// SetTimeout sets how long text stays on screen; zero keeps it until
// replaced. The duration is rounded up to whole seconds.
func (s *Session) SetTimeout(d time.Duration) error {
	if err := s.check(KindSetTimeout); err != nil {
		return err
	}
	secs, err := timeoutSeconds(d)
	if err != nil {
		return s.invalid(KindSetTimeout, "%v", err)
	}
	if err := s.b.call(KindSetTimeout, s.b.lib.SetTimeout(s.handle, secs)); err != nil {
		return err
	}
	s.settings.Timeout = time.Duration(secs) * time.Second
	return nil
}

// SetPosition changes the vertical placement.
func (s *Session) SetPosition(p Position) error {
	if err := s.check(KindSetPosition); err != nil {
		return err
	}
	pos, ok := p.native()
	if !ok {
		return s.invalid(KindSetPosition, "unknown position %d", int(p))
	}
	if err := s.b.call(KindSetPosition, s.b.lib.SetPos(s.handle, pos)); err != nil {
		return err
	}
	s.settings.Position = p
	return nil
}

// SetAlign changes the horizontal placement.
func (s *Session) SetAlign(a Align) error {
	if err := s.check(KindSetAlign); err != nil {
		return err
	}
	align, ok := a.native()
	if !ok {
		return s.invalid(KindSetAlign, "unknown align %d", int(a))
	}
	if err := s.b.call(KindSetAlign, s.b.lib.SetAlign(s.handle, align)); err != nil {
		return err
	}
	s.settings.Align = a
	return nil
}

// SetVerticalOffset moves the display px pixels away from the top or bottom
// edge.
func (s *Session) SetVerticalOffset(px int) error {
	if err := s.checkOffset(KindSetVerticalOffset, px); err != nil {
		return err
	}
	if err := s.b.call(KindSetVerticalOffset, s.b.lib.SetVerticalOffset(s.handle, int32(px))); err != nil {
		return err
	}
	s.settings.VerticalOffset = px
	return nil
}

// SetHorizontalOffset moves the display px pixels away from the left or right
// edge.
func (s *Session) SetHorizontalOffset(px int) error {
	if err := s.checkOffset(KindSetHorizontalOffset, px); err != nil {
		return err
	}
	if err := s.b.call(KindSetHorizontalOffset, s.b.lib.SetHorizontalOffset(s.handle, int32(px))); err != nil {
		return err
	}
	s.settings.HorizontalOffset = px
	return nil
}

// SetShadowOffset sets how far the drop shadow is offset, in pixels.
func (s *Session) SetShadowOffset(px int) error {
	if err := s.checkOffset(KindSetShadowOffset, px); err != nil {
		return err
	}
	if err := s.b.call(KindSetShadowOffset, s.b.lib.SetShadowOffset(s.handle, int32(px))); err != nil {
		return err
	}
	s.settings.ShadowOffset = px
	return nil
}

// SetOutlineOffset sets the outline thickness, in pixels.
func (s *Session) SetOutlineOffset(px int) error {
	if err := s.checkOffset(KindSetOutlineOffset, px); err != nil {
		return err
	}
	if err := s.b.call(KindSetOutlineOffset, s.b.lib.SetOutlineOffset(s.handle, int32(px))); err != nil {
		return err
	}
	s.settings.OutlineOffset = px
	return nil
}

// SetBarLength sets the share of the display used by percentage bars and
// sliders; -1 restores the service default.
func (s *Session) SetBarLength(percent int) error {
	if err := s.check(KindSetBarLength); err != nil {
		return err
	}
	if err := checkBarLength(percent); err != nil {
		return s.invalid(KindSetBarLength, "%v", err)
	}
	if err := s.b.call(KindSetBarLength, s.b.lib.SetBarLength(s.handle, int32(percent))); err != nil {
		return err
	}
	s.settings.BarLength = percent
	return nil
}

// Scroll moves the displayed lines up by n.
func (s *Session) Scroll(n int) error {
	if err := s.check(KindScroll); err != nil {
		return err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return s.invalid(KindScroll, "scroll %d out of range", n)
	}
	return s.b.call(KindScroll, s.b.lib.Scroll(s.handle, int32(n)))
}

// Show redisplays hidden content.
func (s *Session) Show() error {
	if err := s.check(KindShow); err != nil {
		return err
	}
	return s.b.call(KindShow, s.b.lib.Show(s.handle))
}

// Hide unmaps the display without releasing it.
func (s *Session) Hide() error {
	if err := s.check(KindHide); err != nil {
		return err
	}
	return s.b.call(KindHide, s.b.lib.Hide(s.handle))
}

// Onscreen reports whether the display is currently visible.
func (s *Session) Onscreen() (bool, error) {
	if err := s.check(KindOnscreen); err != nil {
		return false, err
	}
	v, err := s.b.query(KindOnscreen, s.b.lib.IsOnscreen(s.handle))
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// WaitUntilNoDisplay blocks until nothing is displayed, typically when the
// timeout expires.
func (s *Session) WaitUntilNoDisplay() error {
	if err := s.check(KindWaitUntilNoDisplay); err != nil {
		return err
	}
	return s.b.call(KindWaitUntilNoDisplay, s.b.lib.WaitUntilNoDisplay(s.handle))
}

// Colour returns the text colour the service resolved, as 8-bit channels.
func (s *Session) Colour() (r, g, b uint8, err error) {
	if err := s.check(KindGetColour); err != nil {
		return 0, 0, 0, err
	}
	var red, green, blue int32
	if err := s.b.call(KindGetColour, s.b.lib.GetColour(s.handle, &red, &green, &blue)); err != nil {
		return 0, 0, 0, err
	}
	return channel8(red), channel8(green), channel8(blue), nil
}

// NativeLines asks the service for its line count. It matches Lines unless
// the service disagrees with what was requested at open time.
func (s *Session) NativeLines() (int, error) {
	if err := s.check(KindNumberLines); err != nil {
		return 0, err
	}
	n, err := s.b.query(KindNumberLines, s.b.lib.NumberLines(s.handle))
	return int(n), err
}

func channel8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xff
	}
	return uint8(v >> 8)
}
