package osd

import (
	"unicode/utf8"
)

// boundary is the only caller of a Native. Every call follows the same
// pattern: invoke, inspect the sentinel, read the last error before anything
// else can overwrite it, wrap.
type boundary struct {
	lib Native
}

// encodeText converts s into a CString. It fails before any native call is
// made when s cannot be represented.
func encodeText(field, s string) (CString, error) {
	if !utf8.ValidString(s) {
		return nil, &EncodingError{Field: field, Err: errInvalidUTF8}
	}
	buf := make(CString, len(s)+1)
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, &EncodingError{Field: field, Err: errNulByte}
		}
		buf[i] = s[i]
	}
	return buf, nil
}

// encodeOptional returns nil for the empty string so the service falls back
// to its default.
func encodeOptional(field, s string) (CString, error) {
	if s == "" {
		return nil, nil
	}
	return encodeText(field, s)
}

func (b boundary) reason(kind CommandKind) string {
	if msg := b.lib.LastError(); msg != "" {
		return msg
	}
	return string(kind) + " failed"
}

func (b boundary) open(display, font CString, lines int32) (Handle, error) {
	h := b.lib.Open(display, font, lines)
	if h == NullHandle {
		return NullHandle, &OpenError{Reason: b.reason(KindOpen)}
	}
	return h, nil
}

func (b boundary) call(kind CommandKind, st Status) error {
	if st.Failed() {
		return &CommandError{Command: kind, Reason: b.reason(kind)}
	}
	return nil
}

// query is call for operations whose non-negative status carries a value.
func (b boundary) query(kind CommandKind, st Status) (int32, error) {
	if st.Failed() {
		return 0, &CommandError{Command: kind, Reason: b.reason(kind)}
	}
	return int32(st), nil
}

func (b boundary) close(h Handle) error {
	return b.call(KindClose, b.lib.Close(h))
}
