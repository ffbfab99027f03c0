package x11osd

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/1broseidon/termosd/internal/x11"
	"github.com/1broseidon/termosd/osd"
)

const (
	defaultBarLength = 40 // percent of monitor width
	maxTextItem      = 254
)

type lineKind int

const (
	lineEmpty lineKind = iota
	lineText
	linePercent
	lineSlider
)

type line struct {
	kind  lineKind
	text  []byte // ISO 8859-1, ready for PolyText8
	value int
}

type metrics struct {
	ascent    int
	descent   int
	charWidth int
}

func (m metrics) lineHeight() int {
	if h := m.ascent + m.descent; h > 0 {
		return h
	}
	return 1
}

var latin1 = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

// encodeLatin1 converts UTF-8 text for core X fonts, which are 8-bit.
// Characters outside ISO 8859-1 and invalid UTF-8 bytes become '?'.
func encodeLatin1(s string) ([]byte, error) {
	out, err := latin1.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("cannot encode text as ISO 8859-1: %w", err)
	}
	return bytes.ReplaceAll(out, []byte{0x1a}, []byte{'?'}), nil
}

// textItems encodes s as a TEXTITEM8 list for PolyText8.
func textItems(s []byte) []byte {
	items := make([]byte, 0, len(s)+2*(len(s)/maxTextItem+1))
	for len(s) > 0 {
		n := len(s)
		if n > maxTextItem {
			n = maxTextItem
		}
		items = append(items, byte(n), 0)
		items = append(items, s[:n]...)
		s = s[n:]
	}
	return items
}

// barWidth returns the pixel width of bars for a monitor of the given width.
func barWidth(monitorWidth, barLength int) int {
	if barLength < 0 {
		barLength = defaultBarLength
	}
	w := monitorWidth * barLength / 100
	if w < 1 {
		w = 1
	}
	return w
}

// border is how far shadow and outline extend the text box.
func border(shadowOffset, outlineOffset int) (lead, trail int) {
	lead = max(outlineOffset, 0)
	trail = lead + max(shadowOffset, 0)
	return lead, trail
}

// contentSize returns the window size needed for lines.
func contentSize(lines []line, m metrics, bar, shadowOffset, outlineOffset int) (int, int) {
	width := 0
	for _, l := range lines {
		switch l.kind {
		case lineText:
			width = max(width, len(l.text)*m.charWidth)
		case linePercent, lineSlider:
			width = max(width, bar)
		}
	}
	lead, trail := border(shadowOffset, outlineOffset)
	width += lead + trail
	height := len(lines)*m.lineHeight() + lead + trail
	return max(width, 1), max(height, 1)
}

// place positions a width x height window on mon.
func place(mon x11.Monitor, width, height int, pos, align int32, vOffset, hOffset int) (int, int) {
	x := mon.X + hOffset
	switch align {
	case osd.NativeAlignCenter:
		x = mon.X + (mon.Width-width)/2 + hOffset
	case osd.NativeAlignRight:
		x = mon.X + mon.Width - width - hOffset
	}

	y := mon.Y + vOffset
	switch pos {
	case osd.NativePosMiddle:
		y = mon.Y + (mon.Height-height)/2 + vOffset
	case osd.NativePosBottom:
		y = mon.Y + mon.Height - height - vOffset
	}
	return x, y
}

// barRects returns the rectangles drawing a percentage bar or slider inside
// the box at (x, y).
func barRects(kind lineKind, value, x, y, width, height int) []xproto.Rectangle {
	value = min(max(value, 0), 100)
	track := max(height/4, 1)
	trackY := y + (height-track)/2

	rects := []xproto.Rectangle{rect(x, trackY, width, track)}
	switch kind {
	case linePercent:
		if fill := width * value / 100; fill > 0 {
			rects = append(rects, rect(x, y+height/4, fill, height/2))
		}
	case lineSlider:
		knob := max(height/2, 4)
		pos := x + (width-knob)*value/100
		rects = append(rects, rect(pos, y+height/4, knob, height/2))
	}
	return rects
}

func rect(x, y, w, h int) xproto.Rectangle {
	return xproto.Rectangle{X: int16(x), Y: int16(y), Width: uint16(max(w, 1)), Height: uint16(max(h, 1))}
}

// outlineOffsets lists the copies drawn around the text to form an outline.
func outlineOffsets(outline int) [][2]int {
	if outline <= 0 {
		return nil
	}
	var offs [][2]int
	for _, dx := range []int{-outline, 0, outline} {
		for _, dy := range []int{-outline, 0, outline} {
			if dx != 0 || dy != 0 {
				offs = append(offs, [2]int{dx, dy})
			}
		}
	}
	return offs
}

// scroll drops the first n lines and appends empty ones.
func scroll(lines []line, n int) {
	copy(lines, lines[n:])
	for i := len(lines) - n; i < len(lines); i++ {
		lines[i] = line{}
	}
}
