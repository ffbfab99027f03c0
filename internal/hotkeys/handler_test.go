package hotkeys

import (
	"sort"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func sorted(m []uint16) []uint16 {
	out := append([]uint16(nil), m...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestIgnoreMasks(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	num := uint16(xproto.ModMask2)
	scroll := uint16(xproto.ModMask5)

	tests := []struct {
		name        string
		num, scroll uint16
		want        []uint16
	}{
		{"caps only", 0, 0, []uint16{0, caps}},
		{"caps and num", num, 0, []uint16{0, caps, num, caps | num}},
		{"num duplicates caps", caps, 0, []uint16{0, caps}},
		{"all three", num, scroll, []uint16{0, caps, num, caps | num, scroll, caps | scroll, num | scroll, caps | num | scroll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorted(ignoreMasks(caps, tt.num, tt.scroll))
			want := sorted(tt.want)
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("got %v, want %v", got, want)
				}
			}
		})
	}
}
