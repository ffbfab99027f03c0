package x11osd

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/termosd/internal/x11"
	"github.com/1broseidon/termosd/osd"
)

const (
	defaultFont    = "-misc-fixed-medium-r-semicondensed--*-*-*-*-c-*-*-*"
	defaultColour  = "green"
	defaultShadow  = "black"
	defaultOutline = "black"
	defaultTimeout = 5 * time.Second
)

var fallbackFonts = []string{defaultFont, "fixed", "9x15", "8x13", "6x13"}

type colour struct {
	name  string
	pixel uint32
	rgb   [3]uint16
}

// window is one OSD: an override-redirect window, its font and GC, and the
// lines shown in it. All fields are guarded by mu.
type window struct {
	mu   sync.Mutex
	idle *sync.Cond

	conn   *x11.Connection
	win    xproto.Window
	gc     xproto.Gcontext
	font   xproto.Font
	shaped bool
	loop   chan struct{}

	metrics metrics
	lines   []line

	colour, shadow, outline colour

	timeout        time.Duration
	timer          *time.Timer
	pos, align     int32
	vOffset        int
	hOffset        int
	shadowOffset   int
	outlineOffset  int
	barLength      int
	mapped, closed bool
}

func newWindow(conn *x11.Connection, fontName string, lines int) (*window, error) {
	w := &window{
		conn:      conn,
		lines:     make([]line, lines),
		timeout:   defaultTimeout,
		pos:       osd.NativePosTop,
		align:     osd.NativeAlignLeft,
		barLength: -1,
		loop:      make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)

	x := conn.XUtil.Conn()
	screen := conn.Screen()

	var err error
	if w.colour, err = w.allocColour(defaultColour); err != nil {
		return nil, err
	}
	if w.shadow, err = w.allocColour(defaultShadow); err != nil {
		return nil, err
	}
	if w.outline, err = w.allocColour(defaultOutline); err != nil {
		return nil, err
	}

	names := fallbackFonts
	if fontName != "" {
		names = []string{fontName}
	}
	if w.font, w.metrics, err = openFont(x, names); err != nil {
		return nil, err
	}

	if w.win, err = xproto.NewWindowId(x); err != nil {
		xproto.CloseFont(x, w.font)
		return nil, err
	}
	// Value list order follows the mask bit order.
	err = xproto.CreateWindowChecked(
		x,
		screen.RootDepth,
		w.win,
		conn.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{w.shadow.pixel, 1, xproto.EventMaskExposure | xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		xproto.CloseFont(x, w.font)
		return nil, fmt.Errorf("create window: %w", err)
	}

	if w.gc, err = xproto.NewGcontextId(x); err == nil {
		err = xproto.CreateGCChecked(
			x,
			w.gc,
			xproto.Drawable(w.win),
			xproto.GcForeground|xproto.GcFont|xproto.GcGraphicsExposures,
			[]uint32{w.colour.pixel, uint32(w.font), 0},
		).Check()
	}
	if err != nil {
		xproto.DestroyWindow(x, w.win)
		xproto.CloseFont(x, w.font)
		return nil, fmt.Errorf("create graphics context: %w", err)
	}

	w.shaped = shape.Init(x) == nil

	// Identity for compositor and picom shadow-exclude rules.
	_ = icccm.WmClassSet(conn.XUtil, w.win, &icccm.WmClass{Instance: "termosd", Class: "Termosd"})
	_ = icccm.WmNameSet(conn.XUtil, w.win, "termosd")
	_ = ewmh.WmWindowTypeSet(conn.XUtil, w.win, []string{"_NET_WM_WINDOW_TYPE_NOTIFICATION"})

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count != 0 {
			return
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed && w.mapped {
			w.redraw()
		}
	}).Connect(conn.XUtil, w.win)

	go func() {
		defer close(w.loop)
		conn.EventLoop()
	}()

	return w, nil
}

func openFont(x *xgb.Conn, names []string) (xproto.Font, metrics, error) {
	font, err := xproto.NewFontId(x)
	if err != nil {
		return 0, metrics{}, err
	}

	var openErr error
	for _, name := range names {
		openErr = xproto.OpenFontChecked(x, font, uint16(len(name)), name).Check()
		if openErr == nil {
			break
		}
	}
	if openErr != nil {
		return 0, metrics{}, fmt.Errorf("cannot open font %q", names[0])
	}

	reply, err := xproto.QueryFont(x, xproto.Fontable(font)).Reply()
	if err != nil {
		xproto.CloseFont(x, font)
		return 0, metrics{}, fmt.Errorf("query font: %w", err)
	}
	return font, metrics{
		ascent:    int(reply.FontAscent),
		descent:   int(reply.FontDescent),
		charWidth: int(reply.MaxBounds.CharacterWidth),
	}, nil
}

func (w *window) allocColour(name string) (colour, error) {
	x := w.conn.XUtil.Conn()
	cmap := w.conn.Screen().DefaultColormap

	if r, g, b, ok := osd.Colour(name).RGB(); ok {
		reply, err := xproto.AllocColor(x, cmap, uint16(r)<<8|uint16(r), uint16(g)<<8|uint16(g), uint16(b)<<8|uint16(b)).Reply()
		if err != nil {
			return colour{}, fmt.Errorf("cannot allocate colour %q: %w", name, err)
		}
		return colour{name: name, pixel: reply.Pixel, rgb: [3]uint16{reply.Red, reply.Green, reply.Blue}}, nil
	}

	reply, err := xproto.AllocNamedColor(x, cmap, uint16(len(name)), name).Reply()
	if err != nil {
		return colour{}, fmt.Errorf("unknown colour %q", name)
	}
	return colour{
		name:  name,
		pixel: reply.Pixel,
		rgb:   [3]uint16{reply.VisualRed, reply.VisualGreen, reply.VisualBlue},
	}, nil
}

func (w *window) setFont(name string) error {
	x := w.conn.XUtil.Conn()
	font, m, err := openFont(x, []string{name})
	if err != nil {
		return err
	}
	xproto.ChangeGC(x, w.gc, xproto.GcFont, []uint32{uint32(font)})
	xproto.CloseFont(x, w.font)
	w.font, w.metrics = font, m
	w.refresh()
	return nil
}

func (w *window) setLine(n int, l line) error {
	if n < 0 || n >= len(w.lines) {
		return fmt.Errorf("line %d out of range", n)
	}
	w.lines[n] = l
	w.show()
	return nil
}

func (w *window) scroll(n int) error {
	if n < 0 || n > len(w.lines) {
		return fmt.Errorf("invalid number of lines %d", n)
	}
	scroll(w.lines, n)
	w.refresh()
	return nil
}

// show maps the window, redraws it and restarts the timeout.
func (w *window) show() {
	x := w.conn.XUtil.Conn()
	if !w.mapped {
		xproto.MapWindow(x, w.win)
		w.mapped = true
	}
	w.redraw()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.timeout > 0 {
		w.timer = time.AfterFunc(w.timeout, w.expire)
	}
}

func (w *window) hide() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.mapped {
		xproto.UnmapWindow(w.conn.XUtil.Conn(), w.win)
		w.conn.XUtil.Sync()
		w.mapped = false
	}
	w.idle.Broadcast()
}

func (w *window) expire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.hide()
	}
}

// refresh redraws the window if it is on screen.
func (w *window) refresh() {
	if w.mapped {
		w.redraw()
	}
}

// waitHidden blocks until the display timeout hides the window.
func (w *window) waitHidden() error {
	if w.mapped && w.timer == nil {
		return fmt.Errorf("display has no timeout")
	}
	for w.mapped && !w.closed {
		w.idle.Wait()
	}
	return nil
}

func (w *window) redraw() {
	x := w.conn.XUtil.Conn()
	mon := w.conn.ActiveMonitor()
	bar := barWidth(mon.Width, w.barLength)

	width, height := contentSize(w.lines, w.metrics, bar, w.shadowOffset, w.outlineOffset)
	px, py := place(mon, width, height, w.pos, w.align, w.vOffset, w.hOffset)

	xproto.ConfigureWindow(
		x,
		w.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(px), uint32(py), uint32(width), uint32(height), xproto.StackModeAbove},
	)

	if w.shaped {
		w.applyShape(width, height, bar)
	}

	xproto.ChangeWindowAttributes(x, w.win, xproto.CwBackPixel, []uint32{w.shadow.pixel})
	xproto.ClearArea(x, false, w.win, 0, 0, 0, 0)

	lead, _ := border(w.shadowOffset, w.outlineOffset)
	d := xproto.Drawable(w.win)
	if w.shadowOffset > 0 {
		xproto.ChangeGC(x, w.gc, xproto.GcForeground, []uint32{w.shadow.pixel})
		w.drawLines(d, w.gc, lead+w.shadowOffset, lead+w.shadowOffset, bar)
	}
	if offs := outlineOffsets(w.outlineOffset); len(offs) > 0 {
		xproto.ChangeGC(x, w.gc, xproto.GcForeground, []uint32{w.outline.pixel})
		for _, o := range offs {
			w.drawLines(d, w.gc, lead+o[0], lead+o[1], bar)
		}
	}
	xproto.ChangeGC(x, w.gc, xproto.GcForeground, []uint32{w.colour.pixel})
	w.drawLines(d, w.gc, lead, lead, bar)

	w.conn.XUtil.Sync()
}

// applyShape clips the window to the pixels that redraw paints.
func (w *window) applyShape(width, height, bar int) {
	x := w.conn.XUtil.Conn()

	pix, err := xproto.NewPixmapId(x)
	if err != nil {
		return
	}
	xproto.CreatePixmap(x, 1, pix, xproto.Drawable(w.win), uint16(width), uint16(height))
	defer xproto.FreePixmap(x, pix)

	gc, err := xproto.NewGcontextId(x)
	if err != nil {
		return
	}
	xproto.CreateGC(x, gc, xproto.Drawable(pix), xproto.GcForeground|xproto.GcFont, []uint32{0, uint32(w.font)})
	defer xproto.FreeGC(x, gc)

	d := xproto.Drawable(pix)
	xproto.PolyFillRectangle(x, d, gc, []xproto.Rectangle{rect(0, 0, width, height)})
	xproto.ChangeGC(x, gc, xproto.GcForeground, []uint32{1})

	lead, _ := border(w.shadowOffset, w.outlineOffset)
	if w.shadowOffset > 0 {
		w.drawLines(d, gc, lead+w.shadowOffset, lead+w.shadowOffset, bar)
	}
	for _, o := range outlineOffsets(w.outlineOffset) {
		w.drawLines(d, gc, lead+o[0], lead+o[1], bar)
	}
	w.drawLines(d, gc, lead, lead, bar)

	shape.Mask(x, shape.SoSet, shape.SkBounding, w.win, 0, 0, pix)
}

func (w *window) drawLines(d xproto.Drawable, gc xproto.Gcontext, ox, oy, bar int) {
	x := w.conn.XUtil.Conn()
	lh := w.metrics.lineHeight()
	for i, l := range w.lines {
		top := oy + i*lh
		switch l.kind {
		case lineText:
			if len(l.text) > 0 {
				xproto.PolyText8(x, d, gc, int16(ox), int16(top+w.metrics.ascent), textItems(l.text))
			}
		case linePercent, lineSlider:
			xproto.PolyFillRectangle(x, d, gc, barRects(l.kind, l.value, ox, top, bar, lh))
		}
	}
}

// destroy releases the X resources and disconnects. The caller must not
// hold mu.
func (w *window) destroy() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.closed = true
	w.mapped = false
	w.idle.Broadcast()

	x := w.conn.XUtil.Conn()
	w.conn.Quit()
	xevent.Detach(w.conn.XUtil, w.win)
	xproto.FreeGC(x, w.gc)
	xproto.CloseFont(x, w.font)
	// DestroyNotify wakes the event loop so it can observe Quit.
	xproto.DestroyWindow(x, w.win)
	w.conn.XUtil.Sync()
	w.mu.Unlock()

	select {
	case <-w.loop:
	case <-time.After(time.Second):
	}
	w.conn.Close()
}
