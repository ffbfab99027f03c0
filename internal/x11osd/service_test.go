package x11osd

import (
	"testing"

	"github.com/1broseidon/termosd/osd"
)

func TestUnknownHandleSetsLastError(t *testing.T) {
	s := New()

	if st := s.Show(42); !st.Failed() {
		t.Fatalf("Show on unknown handle = %d, want failure", st)
	}
	if got := s.LastError(); got != "invalid handle" {
		t.Fatalf("LastError = %q, want %q", got, "invalid handle")
	}
	if st := s.Close(42); !st.Failed() {
		t.Fatalf("Close on unknown handle = %d, want failure", st)
	}
}

func TestOpenRejectsNonPositiveLines(t *testing.T) {
	s := New()
	if h := s.Open(nil, nil, 0); h != osd.NullHandle {
		t.Fatalf("Open with zero lines = %d, want NullHandle", h)
	}
	if s.LastError() == "" {
		t.Fatalf("expected last error after failed open")
	}
}

func TestSetBarLengthRange(t *testing.T) {
	s := New()
	if st := s.SetBarLength(1, 101); !st.Failed() {
		t.Fatalf("SetBarLength(101) = %d, want failure", st)
	}
	if got := s.LastError(); got != "invalid bar length 101" {
		t.Fatalf("LastError = %q", got)
	}
}

func TestDefaults(t *testing.T) {
	s := New()
	if s.DefaultFont() != fallbackFonts[0] {
		t.Fatalf("DefaultFont = %q", s.DefaultFont())
	}
	if s.DefaultColour() != "green" {
		t.Fatalf("DefaultColour = %q", s.DefaultColour())
	}
}
