// Package x11osd is a pure Go OSD service that draws directly on an X
// server. It implements osd.Native, so sessions opened on it behave like
// sessions opened on libxosd.
package x11osd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/termosd/internal/x11"
	"github.com/1broseidon/termosd/osd"
)

// Service hands out one X connection and window per handle.
type Service struct {
	mu      sync.Mutex
	next    osd.Handle
	windows map[osd.Handle]*window
	lastErr string
}

var (
	_ osd.Native   = (*Service)(nil)
	_ osd.Defaults = (*Service)(nil)
)

// New creates an empty service. No X connection is made until Open.
func New() *Service {
	return &Service{windows: make(map[osd.Handle]*window)}
}

func (s *Service) DefaultFont() string   { return defaultFont }
func (s *Service) DefaultColour() string { return defaultColour }

func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Service) Open(display, font osd.CString, lines int32) osd.Handle {
	if lines < 1 {
		s.setError("invalid number of lines")
		return osd.NullHandle
	}

	conn, err := x11.NewConnection(display.String())
	if err != nil {
		s.setError(fmt.Sprintf("cannot open display: %v", err))
		return osd.NullHandle
	}
	w, err := newWindow(conn, font.String(), int(lines))
	if err != nil {
		conn.Close()
		s.setError(err.Error())
		return osd.NullHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.windows[s.next] = w
	return s.next
}

func (s *Service) Close(h osd.Handle) osd.Status {
	s.mu.Lock()
	w, ok := s.windows[h]
	delete(s.windows, h)
	s.mu.Unlock()

	if !ok {
		s.setError("invalid handle")
		return -1
	}
	w.destroy()
	return 0
}

var errInvalidHandle = errors.New("invalid handle")

// with runs fn on the window behind h while holding its lock.
func (s *Service) with(h osd.Handle, fn func(w *window) (osd.Status, error)) osd.Status {
	s.mu.Lock()
	w, ok := s.windows[h]
	s.mu.Unlock()
	if !ok {
		s.setError(errInvalidHandle.Error())
		return -1
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		s.setError(errInvalidHandle.Error())
		return -1
	}
	st, err := fn(w)
	if err != nil {
		s.setError(err.Error())
		return -1
	}
	return st
}

func (s *Service) do(h osd.Handle, fn func(w *window) error) osd.Status {
	return s.with(h, func(w *window) (osd.Status, error) {
		return 0, fn(w)
	})
}

// DisplayString draws text on line n and returns the number of bytes drawn.
// Text is re-encoded as ISO 8859-1 for the core font, so characters outside
// it are drawn as '?'.
func (s *Service) DisplayString(h osd.Handle, n int32, text osd.CString) osd.Status {
	return s.with(h, func(w *window) (osd.Status, error) {
		encoded, err := encodeLatin1(text.String())
		if err != nil {
			return -1, err
		}
		if err := w.setLine(int(n), line{kind: lineText, text: encoded}); err != nil {
			return -1, err
		}
		return osd.Status(len(encoded)), nil
	})
}

func (s *Service) DisplayPercentage(h osd.Handle, n, percent int32) osd.Status {
	return s.do(h, func(w *window) error {
		return w.setLine(int(n), line{kind: linePercent, value: int(percent)})
	})
}

func (s *Service) DisplaySlider(h osd.Handle, n, percent int32) osd.Status {
	return s.do(h, func(w *window) error {
		return w.setLine(int(n), line{kind: lineSlider, value: int(percent)})
	})
}

func (s *Service) SetFont(h osd.Handle, font osd.CString) osd.Status {
	return s.do(h, func(w *window) error {
		return w.setFont(font.String())
	})
}

func (s *Service) SetColour(h osd.Handle, c osd.CString) osd.Status {
	return s.setColour(h, c, func(w *window) *colour { return &w.colour })
}

func (s *Service) SetShadowColour(h osd.Handle, c osd.CString) osd.Status {
	return s.setColour(h, c, func(w *window) *colour { return &w.shadow })
}

func (s *Service) SetOutlineColour(h osd.Handle, c osd.CString) osd.Status {
	return s.setColour(h, c, func(w *window) *colour { return &w.outline })
}

func (s *Service) setColour(h osd.Handle, c osd.CString, field func(*window) *colour) osd.Status {
	return s.do(h, func(w *window) error {
		allocated, err := w.allocColour(c.String())
		if err != nil {
			return err
		}
		*field(w) = allocated
		w.refresh()
		return nil
	})
}

func (s *Service) SetTimeout(h osd.Handle, seconds int32) osd.Status {
	return s.do(h, func(w *window) error {
		w.timeout = time.Duration(seconds) * time.Second
		return nil
	})
}

func (s *Service) SetPos(h osd.Handle, pos int32) osd.Status {
	return s.do(h, func(w *window) error {
		switch pos {
		case osd.NativePosTop, osd.NativePosMiddle, osd.NativePosBottom:
		default:
			return fmt.Errorf("invalid position %d", pos)
		}
		w.pos = pos
		w.refresh()
		return nil
	})
}

func (s *Service) SetAlign(h osd.Handle, align int32) osd.Status {
	return s.do(h, func(w *window) error {
		switch align {
		case osd.NativeAlignLeft, osd.NativeAlignCenter, osd.NativeAlignRight:
		default:
			return fmt.Errorf("invalid alignment %d", align)
		}
		w.align = align
		w.refresh()
		return nil
	})
}

func (s *Service) SetVerticalOffset(h osd.Handle, offset int32) osd.Status {
	return s.setInt(h, offset, func(w *window) *int { return &w.vOffset })
}

func (s *Service) SetHorizontalOffset(h osd.Handle, offset int32) osd.Status {
	return s.setInt(h, offset, func(w *window) *int { return &w.hOffset })
}

func (s *Service) SetShadowOffset(h osd.Handle, offset int32) osd.Status {
	return s.setInt(h, offset, func(w *window) *int { return &w.shadowOffset })
}

func (s *Service) SetOutlineOffset(h osd.Handle, offset int32) osd.Status {
	return s.setInt(h, offset, func(w *window) *int { return &w.outlineOffset })
}

func (s *Service) SetBarLength(h osd.Handle, percent int32) osd.Status {
	if percent < -1 || percent > 100 {
		s.setError(fmt.Sprintf("invalid bar length %d", percent))
		return -1
	}
	return s.setInt(h, percent, func(w *window) *int { return &w.barLength })
}

func (s *Service) setInt(h osd.Handle, v int32, field func(*window) *int) osd.Status {
	return s.do(h, func(w *window) error {
		*field(w) = int(v)
		w.refresh()
		return nil
	})
}

func (s *Service) Scroll(h osd.Handle, n int32) osd.Status {
	return s.do(h, func(w *window) error {
		return w.scroll(int(n))
	})
}

func (s *Service) Show(h osd.Handle) osd.Status {
	return s.do(h, func(w *window) error {
		w.show()
		return nil
	})
}

func (s *Service) Hide(h osd.Handle) osd.Status {
	return s.do(h, func(w *window) error {
		w.hide()
		return nil
	})
}

func (s *Service) IsOnscreen(h osd.Handle) osd.Status {
	return s.with(h, func(w *window) (osd.Status, error) {
		if w.mapped {
			return 1, nil
		}
		return 0, nil
	})
}

func (s *Service) WaitUntilNoDisplay(h osd.Handle) osd.Status {
	return s.do(h, func(w *window) error {
		return w.waitHidden()
	})
}

func (s *Service) GetColour(h osd.Handle, red, green, blue *int32) osd.Status {
	return s.do(h, func(w *window) error {
		*red, *green, *blue = int32(w.colour.rgb[0]), int32(w.colour.rgb[1]), int32(w.colour.rgb[2])
		return nil
	})
}

func (s *Service) NumberLines(h osd.Handle) osd.Status {
	return s.with(h, func(w *window) (osd.Status, error) {
		return osd.Status(len(w.lines)), nil
	})
}
