package osd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termosd/osd"
	"github.com/1broseidon/termosd/osd/osdtest"
)

func TestConfig_OpenFailureReportsLastError(t *testing.T) {
	lib := osdtest.New()
	lib.FailOpen("cannot connect to display")

	s, err := osd.NewConfig().WithLines(2).Open(lib)
	require.Nil(t, s)
	require.ErrorIs(t, err, osd.ErrOpenFailed)

	var oe *osd.OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "cannot connect to display", oe.Reason)

	assert.Equal(t, 1, lib.Count(osd.KindOpen))
	assert.Zero(t, lib.Count(osd.KindClose), "nothing was opened")
}

func TestConfig_AttributeFailureClosesHandle(t *testing.T) {
	lib := osdtest.New()
	lib.Fail(osd.KindSetTimeout, "timeout rejected")

	s, err := osd.NewConfig().
		WithColour("red").
		WithShadowOffset(1).
		WithTimeout(3 * time.Second).
		WithVerticalOffset(48).
		Open(lib)
	require.Nil(t, s)
	require.ErrorIs(t, err, osd.ErrCommandFailed)
	assert.Contains(t, err.Error(), "timeout rejected")

	ops := lib.Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, osd.KindClose, ops[len(ops)-1])
	assert.Equal(t, 1, lib.Count(osd.KindClose))
	assert.Zero(t, lib.OpenHandles())
}

func TestConfig_AttributeAndCloseFailureAreJoined(t *testing.T) {
	lib := osdtest.New()
	lib.Fail(osd.KindSetColour, "bad colour")
	lib.Fail(osd.KindClose, "close failed")

	_, err := osd.NewConfig().WithColour("nope").Open(lib)
	require.ErrorIs(t, err, osd.ErrCommandFailed)
	assert.Contains(t, err.Error(), "bad colour")
	assert.Contains(t, err.Error(), "close failed")
	assert.Equal(t, 1, lib.Count(osd.KindClose))
}

func TestConfig_AppliesAttributesInOrder(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().
		WithBarLength(30).
		WithTimeout(5 * time.Second).
		WithHorizontalOffset(10).
		WithVerticalOffset(48).
		WithAlign(osd.AlignRight).
		WithPosition(osd.PositionBottom).
		WithOutlineOffset(1).
		WithShadowOffset(2).
		WithOutlineColour("black").
		WithShadowColour("gray").
		WithColour("LawnGreen").
		WithFont("fixed").
		WithDisplay(":1").
		WithLines(3).
		Open(lib)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []osd.CommandKind{
		osd.KindOpen,
		osd.KindSetColour,
		osd.KindSetShadowColour,
		osd.KindSetOutlineColour,
		osd.KindSetShadowOffset,
		osd.KindSetOutlineOffset,
		osd.KindSetPosition,
		osd.KindSetAlign,
		osd.KindSetVerticalOffset,
		osd.KindSetHorizontalOffset,
		osd.KindSetTimeout,
		osd.KindSetBarLength,
	}, lib.Ops())

	open := lib.Calls()[0]
	assert.Equal(t, []any{":1", "fixed", int32(3)}, open.Args)

	want := osd.Settings{
		Display:          ":1",
		Font:             "fixed",
		Lines:            3,
		Colour:           "LawnGreen",
		ShadowColour:     "gray",
		OutlineColour:    "black",
		Timeout:          5 * time.Second,
		Position:         osd.PositionBottom,
		Align:            osd.AlignRight,
		VerticalOffset:   48,
		HorizontalOffset: 10,
		ShadowOffset:     2,
		OutlineOffset:    1,
		BarLength:        30,
	}
	assert.Equal(t, want, s.Settings())
}

func TestConfig_DefaultsOpenSingleLine(t *testing.T) {
	lib := osdtest.New()
	var zero osd.Config
	s, err := zero.Open(lib)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, s.Lines())
	assert.Equal(t, []osd.CommandKind{osd.KindOpen}, lib.Ops())
	assert.Equal(t, []any{"", "", int32(1)}, lib.Calls()[0].Args)

	d, _ := lib.Last()
	assert.Equal(t, osdtest.DefaultFont, d.Font)
}

func TestConfig_InvalidValuesRejectedBeforeOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  osd.Config
		want error
	}{
		{"zero lines", osd.NewConfig().WithLines(0), osd.ErrInvalidState},
		{"negative lines", osd.NewConfig().WithLines(-3), osd.ErrInvalidState},
		{"negative timeout", osd.NewConfig().WithTimeout(-time.Second), osd.ErrInvalidState},
		{"bar length", osd.NewConfig().WithBarLength(120), osd.ErrInvalidState},
		{"position", osd.NewConfig().WithPosition(osd.Position(7)), osd.ErrInvalidState},
		{"font NUL", osd.NewConfig().WithFont("fi\x00xed"), osd.ErrEncodingFailed},
		{"display UTF-8", osd.NewConfig().WithDisplay("\xc3"), osd.ErrEncodingFailed},
		{"colour NUL", osd.NewConfig().WithColour("re\x00d"), osd.ErrEncodingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := osdtest.New()
			s, err := tt.cfg.Open(lib)
			require.Nil(t, s)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, lib.Calls())
		})
	}
}

func TestConfig_NilNative(t *testing.T) {
	_, err := osd.NewConfig().Open(nil)
	require.ErrorIs(t, err, osd.ErrOpenFailed)
}

func TestConfig_ValueSemantics(t *testing.T) {
	base := osd.NewConfig().WithFont("fixed")
	two := base.WithLines(2).WithColour("red")
	three := base.WithLines(3)

	assert.Equal(t, 1, base.Lines())
	assert.Equal(t, 2, two.Lines())
	assert.Equal(t, 3, three.Lines())
	assert.Empty(t, base.Settings().Colour)
	assert.Empty(t, three.Settings().Colour)
	assert.Equal(t, osd.Colour("red"), two.Settings().Colour)
	assert.Equal(t, -1, base.Settings().BarLength)
}

func TestColour_RGB(t *testing.T) {
	r, g, b, ok := osd.Colour("#ff8000").RGB()
	require.True(t, ok)
	assert.Equal(t, [3]uint8{0xff, 0x80, 0x00}, [3]uint8{r, g, b})

	_, _, _, ok = osd.Colour("LawnGreen").RGB()
	assert.False(t, ok)
	_, _, _, ok = osd.Colour("#zz0000").RGB()
	assert.False(t, ok)

	assert.Equal(t, osd.Colour("#0a141e"), osd.RGB(10, 20, 30))
}

func TestParsePositionAndAlign(t *testing.T) {
	p, err := osd.ParsePosition(" Bottom ")
	require.NoError(t, err)
	assert.Equal(t, osd.PositionBottom, p)
	_, err = osd.ParsePosition("left")
	require.Error(t, err)

	a, err := osd.ParseAlign("centre")
	require.NoError(t, err)
	assert.Equal(t, osd.AlignCenter, a)
	_, err = osd.ParseAlign("top")
	require.Error(t, err)
}
