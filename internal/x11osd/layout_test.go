package x11osd

import (
	"bytes"
	"testing"

	"github.com/1broseidon/termosd/internal/x11"
	"github.com/1broseidon/termosd/osd"
)

func TestEncodeLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"Volume", []byte("Volume")},
		{"Lautstärke", []byte("Lautst\xe4rke")},
		{"snow ☃", []byte("snow ?")},
		{"bad \xff byte", []byte("bad ? byte")},
		{"", []byte{}},
	}
	for _, tt := range tests {
		got, err := encodeLatin1(tt.in)
		if err != nil {
			t.Fatalf("encodeLatin1(%q): %v", tt.in, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("encodeLatin1(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextItemsSplitsLongStrings(t *testing.T) {
	items := textItems(bytes.Repeat([]byte{'a'}, 300))
	if items[0] != 254 || items[1] != 0 {
		t.Fatalf("first item header = %v, want [254 0]", items[:2])
	}
	second := 2 + 254
	if items[second] != 46 {
		t.Fatalf("second item length = %d, want 46", items[second])
	}
	if len(items) != 300+4 {
		t.Fatalf("len(items) = %d, want %d", len(items), 304)
	}
	if len(textItems(nil)) != 0 {
		t.Fatalf("expected no items for empty text")
	}
}

func TestPlace(t *testing.T) {
	mon := x11.Monitor{X: 1920, Y: 0, Width: 1000, Height: 800}

	tests := []struct {
		name       string
		pos, align int32
		vOff, hOff int
		wantX      int
		wantY      int
	}{
		{"top left", osd.NativePosTop, osd.NativeAlignLeft, 10, 20, 1940, 10},
		{"bottom right", osd.NativePosBottom, osd.NativeAlignRight, 48, 5, 1920 + 1000 - 100 - 5, 800 - 50 - 48},
		{"middle center", osd.NativePosMiddle, osd.NativeAlignCenter, 0, 0, 1920 + 450, 375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := place(mon, 100, 50, tt.pos, tt.align, tt.vOff, tt.hOff)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("place = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestContentSize(t *testing.T) {
	m := metrics{ascent: 11, descent: 2, charWidth: 6}
	lines := []line{
		{kind: lineText, text: []byte("Volume")},
		{kind: linePercent, value: 80},
		{},
	}

	w, h := contentSize(lines, m, 200, 2, 1)
	if w != 200+1+3 {
		t.Fatalf("width = %d, want %d", w, 204)
	}
	if h != 3*13+1+3 {
		t.Fatalf("height = %d, want %d", h, 43)
	}

	w, h = contentSize([]line{{}}, metrics{}, 0, 0, 0)
	if w != 1 || h != 1 {
		t.Fatalf("empty content = %dx%d, want 1x1", w, h)
	}
}

func TestBarRects(t *testing.T) {
	rects := barRects(linePercent, 50, 0, 0, 200, 16)
	if len(rects) != 2 {
		t.Fatalf("percentage rects = %d, want 2", len(rects))
	}
	if rects[1].Width != 100 {
		t.Fatalf("fill width = %d, want 100", rects[1].Width)
	}

	if got := barRects(linePercent, 0, 0, 0, 200, 16); len(got) != 1 {
		t.Fatalf("empty percentage should only draw the track, got %d rects", len(got))
	}

	slider := barRects(lineSlider, 100, 10, 0, 200, 16)
	knob := slider[1]
	if int(knob.X)+int(knob.Width) != 210 {
		t.Fatalf("slider at 100%% should end at the track end, got x=%d w=%d", knob.X, knob.Width)
	}

	if bw := barWidth(1000, -1); bw != 400 {
		t.Fatalf("default bar width = %d, want 400", bw)
	}
	if bw := barWidth(1000, 0); bw != 1 {
		t.Fatalf("zero bar width = %d, want 1", bw)
	}
}

func TestOutlineOffsetsAndScroll(t *testing.T) {
	if offs := outlineOffsets(0); offs != nil {
		t.Fatalf("expected no outline copies, got %v", offs)
	}
	if offs := outlineOffsets(2); len(offs) != 8 {
		t.Fatalf("expected 8 outline copies, got %d", len(offs))
	}

	lines := []line{
		{kind: lineText, text: []byte("a")},
		{kind: lineText, text: []byte("b")},
		{kind: lineText, text: []byte("c")},
	}
	scroll(lines, 2)
	if string(lines[0].text) != "c" || lines[1].kind != lineEmpty || lines[2].kind != lineEmpty {
		t.Fatalf("unexpected lines after scroll: %+v", lines)
	}
}
