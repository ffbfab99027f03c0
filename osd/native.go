package osd

// Handle is an opaque reference to one open display in the native service.
// NullHandle is the failure sentinel returned by Native.Open.
type Handle uintptr

const NullHandle Handle = 0

// Status is the result of a native mutator. Negative values signal failure;
// the reason is then available from Native.LastError.
type Status int32

// Failed reports whether s is the failure sentinel.
func (s Status) Failed() bool { return s < 0 }

// CString is a NUL-terminated byte string in the native text convention.
// A nil CString means "not given" and lets the service pick its default.
type CString []byte

// String returns the text without the terminating NUL.
func (c CString) String() string {
	if len(c) == 0 {
		return ""
	}
	return string(c[:len(c)-1])
}

// Vertical positions understood by the native service.
const (
	NativePosTop    int32 = 0
	NativePosBottom int32 = 1
	NativePosMiddle int32 = 2
)

// Horizontal alignments understood by the native service.
const (
	NativeAlignLeft   int32 = 0
	NativeAlignCenter int32 = 1
	NativeAlignRight  int32 = 2
)

// Native is the C-style call surface of an OSD service.
//
// Implementations follow the service's conventions rather than Go's: failures
// are signalled by NullHandle or a negative Status, and LastError returns the
// text describing the most recent failure. The last-error channel is shared by
// every handle, so it must be read before any other call is made. Only the
// boundary in this package is allowed to call a Native.
type Native interface {
	Open(display, font CString, lines int32) Handle
	Close(h Handle) Status
	LastError() string

	DisplayString(h Handle, line int32, text CString) Status
	DisplayPercentage(h Handle, line, percent int32) Status
	DisplaySlider(h Handle, line, percent int32) Status

	SetFont(h Handle, font CString) Status
	SetColour(h Handle, colour CString) Status
	SetShadowColour(h Handle, colour CString) Status
	SetOutlineColour(h Handle, colour CString) Status
	SetTimeout(h Handle, seconds int32) Status
	SetPos(h Handle, pos int32) Status
	SetAlign(h Handle, align int32) Status
	SetVerticalOffset(h Handle, offset int32) Status
	SetHorizontalOffset(h Handle, offset int32) Status
	SetShadowOffset(h Handle, offset int32) Status
	SetOutlineOffset(h Handle, offset int32) Status
	SetBarLength(h Handle, percent int32) Status

	Scroll(h Handle, lines int32) Status
	Show(h Handle) Status
	Hide(h Handle) Status

	// IsOnscreen returns 1 when visible, 0 when hidden, negative on failure.
	IsOnscreen(h Handle) Status
	WaitUntilNoDisplay(h Handle) Status
	// GetColour reports the text colour as 16-bit channels.
	GetColour(h Handle, red, green, blue *int32) Status
	// NumberLines returns the line count, negative on failure.
	NumberLines(h Handle) Status
}

// Defaults is implemented by services that expose their default font and
// colour.
type Defaults interface {
	DefaultFont() string
	DefaultColour() string
}
