//go:build cgo && xosd

package xosd

/*
#cgo LDFLAGS: -lxosd
#include <stdlib.h>
#include <xosd.h>

static xosd *termosd_open(const char *display, const char *font, int lines) {
	xosd *osd;
	char *err;

	if (display != NULL && setenv("DISPLAY", display, 1) != 0) {
		xosd_error = "cannot set DISPLAY";
		return NULL;
	}
	osd = xosd_create(lines);
	if (osd == NULL)
		return NULL;
	if (font != NULL && xosd_set_font(osd, font) != 0) {
		err = xosd_error;
		xosd_destroy(osd);
		xosd_error = err;
		return NULL;
	}
	return osd;
}

static int termosd_display_string(xosd *osd, int line, const char *text) {
	return xosd_display(osd, line, XOSD_string, text);
}

static int termosd_display_percentage(xosd *osd, int line, int percent) {
	return xosd_display(osd, line, XOSD_percentage, percent);
}

static int termosd_display_slider(xosd *osd, int line, int percent) {
	return xosd_display(osd, line, XOSD_slider, percent);
}
*/
import "C"

import (
	"unsafe"

	"github.com/1broseidon/termosd/osd"
)

// Library calls into libxosd. Handles are *C.xosd values, which live in C
// memory.
type Library struct{}

var (
	_ osd.Native   = Library{}
	_ osd.Defaults = Library{}
)

// New returns the libxosd binding.
func New() (osd.Native, error) {
	return Library{}, nil
}

// Available reports whether libxosd support was compiled in.
func Available() bool { return true }

func ptr(h osd.Handle) *C.xosd {
	return (*C.xosd)(unsafe.Pointer(h))
}

// cstr copies s into C memory; nil maps to NULL. The result must be freed.
func cstr(s osd.CString) *C.char {
	if s == nil {
		return nil
	}
	return (*C.char)(C.CBytes(s))
}

func free(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

func withString(s osd.CString, fn func(*C.char) C.int) osd.Status {
	p := cstr(s)
	defer free(p)
	return osd.Status(fn(p))
}

func (Library) LastError() string {
	if C.xosd_error == nil {
		return ""
	}
	return C.GoString(C.xosd_error)
}

func (Library) DefaultFont() string   { return C.GoString(C.osd_default_font) }
func (Library) DefaultColour() string { return C.GoString(C.osd_default_colour) }

func (Library) Open(display, font osd.CString, lines int32) osd.Handle {
	d, f := cstr(display), cstr(font)
	defer free(d)
	defer free(f)
	return osd.Handle(unsafe.Pointer(C.termosd_open(d, f, C.int(lines))))
}

func (Library) Close(h osd.Handle) osd.Status {
	return osd.Status(C.xosd_destroy(ptr(h)))
}

func (Library) DisplayString(h osd.Handle, line int32, text osd.CString) osd.Status {
	return withString(text, func(p *C.char) C.int {
		return C.termosd_display_string(ptr(h), C.int(line), p)
	})
}

func (Library) DisplayPercentage(h osd.Handle, line, percent int32) osd.Status {
	return osd.Status(C.termosd_display_percentage(ptr(h), C.int(line), C.int(percent)))
}

func (Library) DisplaySlider(h osd.Handle, line, percent int32) osd.Status {
	return osd.Status(C.termosd_display_slider(ptr(h), C.int(line), C.int(percent)))
}

func (Library) SetFont(h osd.Handle, font osd.CString) osd.Status {
	return withString(font, func(p *C.char) C.int { return C.xosd_set_font(ptr(h), p) })
}

func (Library) SetColour(h osd.Handle, colour osd.CString) osd.Status {
	return withString(colour, func(p *C.char) C.int { return C.xosd_set_colour(ptr(h), p) })
}

func (Library) SetShadowColour(h osd.Handle, colour osd.CString) osd.Status {
	return withString(colour, func(p *C.char) C.int { return C.xosd_set_shadow_colour(ptr(h), p) })
}

func (Library) SetOutlineColour(h osd.Handle, colour osd.CString) osd.Status {
	return withString(colour, func(p *C.char) C.int { return C.xosd_set_outline_colour(ptr(h), p) })
}

func (Library) SetTimeout(h osd.Handle, seconds int32) osd.Status {
	return osd.Status(C.xosd_set_timeout(ptr(h), C.int(seconds)))
}

func (Library) SetPos(h osd.Handle, pos int32) osd.Status {
	return osd.Status(C.xosd_set_pos(ptr(h), C.xosd_pos(pos)))
}

func (Library) SetAlign(h osd.Handle, align int32) osd.Status {
	return osd.Status(C.xosd_set_align(ptr(h), C.xosd_align(align)))
}

func (Library) SetVerticalOffset(h osd.Handle, offset int32) osd.Status {
	return osd.Status(C.xosd_set_vertical_offset(ptr(h), C.int(offset)))
}

func (Library) SetHorizontalOffset(h osd.Handle, offset int32) osd.Status {
	return osd.Status(C.xosd_set_horizontal_offset(ptr(h), C.int(offset)))
}

func (Library) SetShadowOffset(h osd.Handle, offset int32) osd.Status {
	return osd.Status(C.xosd_set_shadow_offset(ptr(h), C.int(offset)))
}

func (Library) SetOutlineOffset(h osd.Handle, offset int32) osd.Status {
	return osd.Status(C.xosd_set_outline_offset(ptr(h), C.int(offset)))
}

func (Library) SetBarLength(h osd.Handle, percent int32) osd.Status {
	return osd.Status(C.xosd_set_bar_length(ptr(h), C.int(percent)))
}

func (Library) Scroll(h osd.Handle, lines int32) osd.Status {
	return osd.Status(C.xosd_scroll(ptr(h), C.int(lines)))
}

func (Library) Show(h osd.Handle) osd.Status { return osd.Status(C.xosd_show(ptr(h))) }
func (Library) Hide(h osd.Handle) osd.Status { return osd.Status(C.xosd_hide(ptr(h))) }

func (Library) IsOnscreen(h osd.Handle) osd.Status {
	return osd.Status(C.xosd_is_onscreen(ptr(h)))
}

func (Library) WaitUntilNoDisplay(h osd.Handle) osd.Status {
	return osd.Status(C.xosd_wait_until_no_display(ptr(h)))
}

func (Library) GetColour(h osd.Handle, red, green, blue *int32) osd.Status {
	var r, g, b C.int
	st := C.xosd_get_colour(ptr(h), &r, &g, &b)
	*red, *green, *blue = int32(r), int32(g), int32(b)
	return osd.Status(st)
}

func (Library) NumberLines(h osd.Handle) osd.Status {
	return osd.Status(C.xosd_get_number_lines(ptr(h)))
}
