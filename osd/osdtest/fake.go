// Package osdtest provides a recording osd.Native for tests.
package osdtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/termosd/osd"
)

const (
	DefaultFont   = "-misc-fixed-medium-r-semicondensed--*-*-*-*-c-*-*-*"
	DefaultColour = "green"
)

// Call is one recorded native invocation.
type Call struct {
	Op     osd.CommandKind
	Handle osd.Handle
	Args   []any
}

// Display is the state the fake keeps for one open handle.
type Display struct {
	Display          string
	Font             string
	Lines            []string
	Colour           string
	ShadowColour     string
	OutlineColour    string
	Timeout          int32
	Pos              int32
	Align            int32
	VerticalOffset   int32
	HorizontalOffset int32
	ShadowOffset     int32
	OutlineOffset    int32
	BarLength        int32
	Visible          bool
}

// Fake is an in-memory osd.Native. Operations succeed unless a failure was
// injected with FailOpen or Fail. Calls on handles that are not open fail and
// are counted by StaleCalls.
type Fake struct {
	mu        sync.Mutex
	next      osd.Handle
	displays  map[osd.Handle]*Display
	calls     []Call
	lastError string
	openFail  string
	failures  map[osd.CommandKind]string
	stale     int
}

var (
	_ osd.Native   = (*Fake)(nil)
	_ osd.Defaults = (*Fake)(nil)
)

func New() *Fake {
	return &Fake{
		displays: make(map[osd.Handle]*Display),
		failures: make(map[osd.CommandKind]string),
	}
}

// FailOpen makes Open return the null handle with msg as the last error.
func (f *Fake) FailOpen(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openFail = msg
}

// Fail makes every call of kind fail with msg as the last error. An empty
// msg fails without setting the last error.
func (f *Fake) Fail(kind osd.CommandKind, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[kind] = msg
}

// Succeed removes an injected failure.
func (f *Fake) Succeed(kind osd.CommandKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, kind)
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times kind was called.
func (f *Fake) Count(kind osd.CommandKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == kind {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order.
func (f *Fake) Ops() []osd.CommandKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]osd.CommandKind, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// StaleCalls counts calls made with a handle that was not open.
func (f *Fake) StaleCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale
}

// OpenHandles returns how many handles are currently open.
func (f *Fake) OpenHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.displays)
}

// Display returns a snapshot of an open handle's state.
func (f *Fake) Display(h osd.Handle) (Display, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.displays[h]
	if !ok {
		return Display{}, false
	}
	snap := *d
	snap.Lines = append([]string(nil), d.Lines...)
	return snap, true
}

// Last returns the snapshot of the most recently opened handle.
func (f *Fake) Last() (Display, bool) {
	f.mu.Lock()
	h := f.next
	f.mu.Unlock()
	return f.Display(h)
}

func (f *Fake) DefaultFont() string   { return DefaultFont }
func (f *Fake) DefaultColour() string { return DefaultColour }

func (f *Fake) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

func (f *Fake) Open(display, font osd.CString, lines int32) osd.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: osd.KindOpen, Args: []any{display.String(), font.String(), lines}})
	if f.openFail != "" {
		f.lastError = f.openFail
		return osd.NullHandle
	}
	if msg, ok := f.failures[osd.KindOpen]; ok {
		f.lastError = msg
		return osd.NullHandle
	}
	if lines < 1 {
		f.lastError = "xosd_create: lines must be positive"
		return osd.NullHandle
	}
	f.next++
	d := &Display{
		Display:   display.String(),
		Font:      font.String(),
		Lines:     make([]string, lines),
		Colour:    DefaultColour,
		Timeout:   -1,
		BarLength: -1,
	}
	if d.Font == "" {
		d.Font = DefaultFont
	}
	f.displays[f.next] = d
	return f.next
}

func (f *Fake) Close(h osd.Handle) osd.Status {
	return f.do(osd.KindClose, h, nil, func(*Display) osd.Status {
		delete(f.displays, h)
		return 0
	})
}

// do records the call and runs fn with f.mu held when h is open and no
// failure is injected for kind.
func (f *Fake) do(kind osd.CommandKind, h osd.Handle, args []any, fn func(*Display) osd.Status) osd.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: kind, Handle: h, Args: args})
	d, ok := f.displays[h]
	if !ok {
		f.stale++
		f.lastError = fmt.Sprintf("%s: invalid handle %d", kind, h)
		return -1
	}
	if msg, fail := f.failures[kind]; fail {
		f.lastError = msg
		return -1
	}
	return fn(d)
}

func (f *Fake) DisplayString(h osd.Handle, line int32, text osd.CString) osd.Status {
	return f.do(osd.KindSetText, h, []any{line, text.String()}, func(d *Display) osd.Status {
		if int(line) >= len(d.Lines) || line < 0 {
			f.lastError = "xosd_display: invalid line"
			return -1
		}
		d.Lines[line] = text.String()
		d.Visible = true
		return osd.Status(len(text.String()))
	})
}

func (f *Fake) displayBar(kind osd.CommandKind, h osd.Handle, line, percent int32, glyph string) osd.Status {
	return f.do(kind, h, []any{line, percent}, func(d *Display) osd.Status {
		if int(line) >= len(d.Lines) || line < 0 {
			f.lastError = "xosd_display: invalid line"
			return -1
		}
		d.Lines[line] = fmt.Sprintf("%s%d%%", glyph, percent)
		d.Visible = true
		return osd.Status(percent)
	})
}

func (f *Fake) DisplayPercentage(h osd.Handle, line, percent int32) osd.Status {
	return f.displayBar(osd.KindSetPercentage, h, line, percent, "bar:")
}

func (f *Fake) DisplaySlider(h osd.Handle, line, percent int32) osd.Status {
	return f.displayBar(osd.KindSetSlider, h, line, percent, "slider:")
}

func (f *Fake) SetFont(h osd.Handle, font osd.CString) osd.Status {
	return f.do(osd.KindSetFont, h, []any{font.String()}, func(d *Display) osd.Status {
		d.Font = font.String()
		return 0
	})
}

func (f *Fake) SetColour(h osd.Handle, colour osd.CString) osd.Status {
	return f.do(osd.KindSetColour, h, []any{colour.String()}, func(d *Display) osd.Status {
		d.Colour = colour.String()
		return 0
	})
}

func (f *Fake) SetShadowColour(h osd.Handle, colour osd.CString) osd.Status {
	return f.do(osd.KindSetShadowColour, h, []any{colour.String()}, func(d *Display) osd.Status {
		d.ShadowColour = colour.String()
		return 0
	})
}

func (f *Fake) SetOutlineColour(h osd.Handle, colour osd.CString) osd.Status {
	return f.do(osd.KindSetOutlineColour, h, []any{colour.String()}, func(d *Display) osd.Status {
		d.OutlineColour = colour.String()
		return 0
	})
}

func (f *Fake) setInt(kind osd.CommandKind, h osd.Handle, v int32, dst func(*Display) *int32) osd.Status {
	return f.do(kind, h, []any{v}, func(d *Display) osd.Status {
		*dst(d) = v
		return 0
	})
}

func (f *Fake) SetTimeout(h osd.Handle, seconds int32) osd.Status {
	return f.setInt(osd.KindSetTimeout, h, seconds, func(d *Display) *int32 { return &d.Timeout })
}

func (f *Fake) SetPos(h osd.Handle, pos int32) osd.Status {
	return f.setInt(osd.KindSetPosition, h, pos, func(d *Display) *int32 { return &d.Pos })
}

func (f *Fake) SetAlign(h osd.Handle, align int32) osd.Status {
	return f.setInt(osd.KindSetAlign, h, align, func(d *Display) *int32 { return &d.Align })
}

func (f *Fake) SetVerticalOffset(h osd.Handle, offset int32) osd.Status {
	return f.setInt(osd.KindSetVerticalOffset, h, offset, func(d *Display) *int32 { return &d.VerticalOffset })
}

func (f *Fake) SetHorizontalOffset(h osd.Handle, offset int32) osd.Status {
	return f.setInt(osd.KindSetHorizontalOffset, h, offset, func(d *Display) *int32 { return &d.HorizontalOffset })
}

func (f *Fake) SetShadowOffset(h osd.Handle, offset int32) osd.Status {
	return f.setInt(osd.KindSetShadowOffset, h, offset, func(d *Display) *int32 { return &d.ShadowOffset })
}

func (f *Fake) SetOutlineOffset(h osd.Handle, offset int32) osd.Status {
	return f.setInt(osd.KindSetOutlineOffset, h, offset, func(d *Display) *int32 { return &d.OutlineOffset })
}

func (f *Fake) SetBarLength(h osd.Handle, percent int32) osd.Status {
	return f.setInt(osd.KindSetBarLength, h, percent, func(d *Display) *int32 { return &d.BarLength })
}

func (f *Fake) Scroll(h osd.Handle, lines int32) osd.Status {
	return f.do(osd.KindScroll, h, []any{lines}, func(d *Display) osd.Status {
		if lines < 0 || int(lines) > len(d.Lines) {
			f.lastError = "xosd_scroll: invalid number of lines"
			return -1
		}
		n := int(lines)
		copy(d.Lines, d.Lines[n:])
		for i := len(d.Lines) - n; i < len(d.Lines); i++ {
			d.Lines[i] = ""
		}
		return 0
	})
}

func (f *Fake) Show(h osd.Handle) osd.Status {
	return f.do(osd.KindShow, h, nil, func(d *Display) osd.Status {
		d.Visible = true
		return 0
	})
}

func (f *Fake) Hide(h osd.Handle) osd.Status {
	return f.do(osd.KindHide, h, nil, func(d *Display) osd.Status {
		d.Visible = false
		return 0
	})
}

func (f *Fake) IsOnscreen(h osd.Handle) osd.Status {
	return f.do(osd.KindOnscreen, h, nil, func(d *Display) osd.Status {
		if d.Visible {
			return 1
		}
		return 0
	})
}

// WaitUntilNoDisplay returns at once, as if the timeout had just expired.
func (f *Fake) WaitUntilNoDisplay(h osd.Handle) osd.Status {
	return f.do(osd.KindWaitUntilNoDisplay, h, nil, func(d *Display) osd.Status {
		d.Visible = false
		return 0
	})
}

func (f *Fake) GetColour(h osd.Handle, red, green, blue *int32) osd.Status {
	return f.do(osd.KindGetColour, h, nil, func(d *Display) osd.Status {
		r, g, b, ok := osd.Colour(d.Colour).RGB()
		if !ok {
			// Named colours resolve to pure green, the service default.
			r, g, b = 0, 0xff, 0
		}
		*red, *green, *blue = int32(r)<<8|int32(r), int32(g)<<8|int32(g), int32(b)<<8|int32(b)
		return 0
	})
}

func (f *Fake) NumberLines(h osd.Handle) osd.Status {
	return f.do(osd.KindNumberLines, h, nil, func(d *Display) osd.Status {
		return osd.Status(len(d.Lines))
	})
}
