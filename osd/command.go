package osd

import (
	"fmt"
	"time"
)

// Command is one mutation applied to an open session with Session.Apply.
// The concrete types in this package are the only implementations.
type Command interface {
	Kind() CommandKind
	apply(s *Session) error
}

type (
	SetText struct {
		Line int
		Text string
	}
	SetPercentage struct {
		Line    int
		Percent int
	}
	SetSlider struct {
		Line    int
		Percent int
	}
	SetFont             struct{ Name string }
	SetColour           struct{ Colour Colour }
	SetShadowColour     struct{ Colour Colour }
	SetOutlineColour    struct{ Colour Colour }
	SetTimeout          struct{ Timeout time.Duration }
	SetPosition         struct{ Position Position }
	SetAlign            struct{ Align Align }
	SetVerticalOffset   struct{ Pixels int }
	SetHorizontalOffset struct{ Pixels int }
	SetShadowOffset     struct{ Pixels int }
	SetOutlineOffset    struct{ Pixels int }
	SetBarLength        struct{ Percent int }
	Scroll              struct{ Lines int }
	Show                struct{}
	Hide                struct{}
)

func (SetText) Kind() CommandKind             { return KindSetText }
func (SetPercentage) Kind() CommandKind       { return KindSetPercentage }
func (SetSlider) Kind() CommandKind           { return KindSetSlider }
func (SetFont) Kind() CommandKind             { return KindSetFont }
func (SetColour) Kind() CommandKind           { return KindSetColour }
func (SetShadowColour) Kind() CommandKind     { return KindSetShadowColour }
func (SetOutlineColour) Kind() CommandKind    { return KindSetOutlineColour }
func (SetTimeout) Kind() CommandKind          { return KindSetTimeout }
func (SetPosition) Kind() CommandKind         { return KindSetPosition }
func (SetAlign) Kind() CommandKind            { return KindSetAlign }
func (SetVerticalOffset) Kind() CommandKind   { return KindSetVerticalOffset }
func (SetHorizontalOffset) Kind() CommandKind { return KindSetHorizontalOffset }
func (SetShadowOffset) Kind() CommandKind     { return KindSetShadowOffset }
func (SetOutlineOffset) Kind() CommandKind    { return KindSetOutlineOffset }
func (SetBarLength) Kind() CommandKind        { return KindSetBarLength }
func (Scroll) Kind() CommandKind              { return KindScroll }
func (Show) Kind() CommandKind                { return KindShow }
func (Hide) Kind() CommandKind                { return KindHide }

func (c SetText) apply(s *Session) error             { return s.SetText(c.Line, c.Text) }
func (c SetPercentage) apply(s *Session) error       { return s.SetPercentage(c.Line, c.Percent) }
func (c SetSlider) apply(s *Session) error           { return s.SetSlider(c.Line, c.Percent) }
func (c SetFont) apply(s *Session) error             { return s.SetFont(c.Name) }
func (c SetColour) apply(s *Session) error           { return s.SetColour(c.Colour) }
func (c SetShadowColour) apply(s *Session) error     { return s.SetShadowColour(c.Colour) }
func (c SetOutlineColour) apply(s *Session) error    { return s.SetOutlineColour(c.Colour) }
func (c SetTimeout) apply(s *Session) error          { return s.SetTimeout(c.Timeout) }
func (c SetPosition) apply(s *Session) error         { return s.SetPosition(c.Position) }
func (c SetAlign) apply(s *Session) error            { return s.SetAlign(c.Align) }
func (c SetVerticalOffset) apply(s *Session) error   { return s.SetVerticalOffset(c.Pixels) }
func (c SetHorizontalOffset) apply(s *Session) error { return s.SetHorizontalOffset(c.Pixels) }
func (c SetShadowOffset) apply(s *Session) error     { return s.SetShadowOffset(c.Pixels) }
func (c SetOutlineOffset) apply(s *Session) error    { return s.SetOutlineOffset(c.Pixels) }
func (c SetBarLength) apply(s *Session) error        { return s.SetBarLength(c.Percent) }
func (c Scroll) apply(s *Session) error              { return s.Scroll(c.Lines) }
func (Show) apply(s *Session) error                  { return s.Show() }
func (Hide) apply(s *Session) error                  { return s.Hide() }

// Apply runs cmd against the session. A nil command is rejected with a
// *StateError.
func (s *Session) Apply(cmd Command) error {
	if cmd == nil {
		return &StateError{Command: "apply", State: s.State(), Reason: "nil command"}
	}
	return cmd.apply(s)
}

// ApplyAll runs cmds in order and stops at the first failure. The returned
// error names the failing command's position.
func (s *Session) ApplyAll(cmds ...Command) error {
	for i, cmd := range cmds {
		if err := s.Apply(cmd); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}
