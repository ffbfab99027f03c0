package osd

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CommandKind names a native operation in errors.
type CommandKind string

const (
	KindOpen                CommandKind = "open"
	KindClose               CommandKind = "close"
	KindSetText             CommandKind = "set_text"
	KindSetPercentage       CommandKind = "set_percentage"
	KindSetSlider           CommandKind = "set_slider"
	KindSetFont             CommandKind = "set_font"
	KindSetColour           CommandKind = "set_colour"
	KindSetShadowColour     CommandKind = "set_shadow_colour"
	KindSetOutlineColour    CommandKind = "set_outline_colour"
	KindSetTimeout          CommandKind = "set_timeout"
	KindSetPosition         CommandKind = "set_position"
	KindSetAlign            CommandKind = "set_align"
	KindSetVerticalOffset   CommandKind = "set_vertical_offset"
	KindSetHorizontalOffset CommandKind = "set_horizontal_offset"
	KindSetShadowOffset     CommandKind = "set_shadow_offset"
	KindSetOutlineOffset    CommandKind = "set_outline_offset"
	KindSetBarLength        CommandKind = "set_bar_length"
	KindScroll              CommandKind = "scroll"
	KindShow                CommandKind = "show"
	KindHide                CommandKind = "hide"
	KindOnscreen            CommandKind = "onscreen"
	KindWaitUntilNoDisplay  CommandKind = "wait_until_no_display"
	KindGetColour           CommandKind = "get_colour"
	KindNumberLines         CommandKind = "number_lines"
)

// Position is the vertical placement of the display.
type Position int

const (
	PositionTop Position = iota
	PositionMiddle
	PositionBottom
)

func (p Position) String() string {
	switch p {
	case PositionTop:
		return "top"
	case PositionMiddle:
		return "middle"
	case PositionBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

func (p Position) native() (int32, bool) {
	switch p {
	case PositionTop:
		return NativePosTop, true
	case PositionMiddle:
		return NativePosMiddle, true
	case PositionBottom:
		return NativePosBottom, true
	default:
		return 0, false
	}
}

// ParsePosition accepts "top", "middle" (or "center") and "bottom".
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return PositionTop, nil
	case "middle", "center", "centre":
		return PositionMiddle, nil
	case "bottom":
		return PositionBottom, nil
	default:
		return 0, fmt.Errorf("unknown position %q (want top, middle or bottom)", s)
	}
}

// Align is the horizontal placement of the display.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

func (a Align) native() (int32, bool) {
	switch a {
	case AlignLeft:
		return NativeAlignLeft, true
	case AlignCenter:
		return NativeAlignCenter, true
	case AlignRight:
		return NativeAlignRight, true
	default:
		return 0, false
	}
}

// ParseAlign accepts "left", "center" (or "centre", "middle") and "right".
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return 0, fmt.Errorf("unknown align %q (want left, center or right)", s)
	}
}
