package osd_test

import (
	"errors"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termosd/osd"
	"github.com/1broseidon/termosd/osd/osdtest"
)

func TestSession_VolumeScenario(t *testing.T) {
	lib := osdtest.New()

	s, err := osd.NewConfig().WithLines(2).WithFont("fixed").Open(lib)
	require.NoError(t, err)
	require.Equal(t, osd.StateOpen, s.State())

	require.NoError(t, s.SetText(0, "Volume"))
	require.NoError(t, s.SetText(1, "80%"))

	err = s.SetText(2, "x")
	require.ErrorIs(t, err, osd.ErrInvalidState)

	d, ok := lib.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"Volume", "80%"}, d.Lines)
	assert.Equal(t, "fixed", d.Font)

	require.NoError(t, s.Close())
	assert.Equal(t, osd.StateClosed, s.State())

	err = s.SetText(0, "x")
	require.ErrorIs(t, err, osd.ErrInvalidState)
	var se *osd.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, osd.KindSetText, se.Command)
	assert.Equal(t, osd.StateClosed, se.State)
}

func TestSession_CommandsAfterCloseNeverReachNative(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().WithLines(3).Open(lib)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	before := len(lib.Calls())

	cmds := []osd.Command{
		osd.SetText{Line: 0, Text: "x"},
		osd.SetPercentage{Line: 0, Percent: 10},
		osd.SetSlider{Line: 0, Percent: 10},
		osd.SetFont{Name: "fixed"},
		osd.SetColour{Colour: "red"},
		osd.SetShadowColour{Colour: "black"},
		osd.SetOutlineColour{Colour: "black"},
		osd.SetTimeout{Timeout: time.Second},
		osd.SetPosition{Position: osd.PositionTop},
		osd.SetAlign{Align: osd.AlignRight},
		osd.SetVerticalOffset{Pixels: 4},
		osd.SetHorizontalOffset{Pixels: 4},
		osd.SetShadowOffset{Pixels: 1},
		osd.SetOutlineOffset{Pixels: 1},
		osd.SetBarLength{Percent: 50},
		osd.Scroll{Lines: 1},
		osd.Show{},
		osd.Hide{},
	}
	for _, cmd := range cmds {
		err := s.Apply(cmd)
		require.ErrorIs(t, err, osd.ErrInvalidState, "command %s", cmd.Kind())
	}

	_, err = s.Onscreen()
	require.ErrorIs(t, err, osd.ErrInvalidState)
	require.ErrorIs(t, s.WaitUntilNoDisplay(), osd.ErrInvalidState)
	_, _, _, err = s.Colour()
	require.ErrorIs(t, err, osd.ErrInvalidState)
	_, err = s.NativeLines()
	require.ErrorIs(t, err, osd.ErrInvalidState)

	assert.Len(t, lib.Calls(), before)
	assert.Zero(t, lib.StaleCalls())
}

func TestSession_LineIndexOutOfRange(t *testing.T) {
	for lines := 1; lines <= 6; lines++ {
		lib := osdtest.New()
		s, err := osd.NewConfig().WithLines(lines).Open(lib)
		require.NoError(t, err)

		for _, line := range []int{lines, lines + 1, lines + 100, -1} {
			require.ErrorIs(t, s.SetText(line, "x"), osd.ErrInvalidState, "lines=%d line=%d", lines, line)
			require.ErrorIs(t, s.SetPercentage(line, 5), osd.ErrInvalidState)
			require.ErrorIs(t, s.SetSlider(line, 5), osd.ErrInvalidState)
		}
		assert.Zero(t, lib.Count(osd.KindSetText))
		assert.Zero(t, lib.Count(osd.KindSetPercentage))
		assert.Zero(t, lib.Count(osd.KindSetSlider))

		require.NoError(t, s.SetText(lines-1, "last"))
		require.NoError(t, s.Close())
	}
}

func TestSession_CloseReleasesExactlyOnce(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)

	func() {
		defer s.Close()
		require.NoError(t, s.Close())
	}()
	require.NoError(t, s.Close())

	assert.Equal(t, 1, lib.Count(osd.KindClose))
	assert.Zero(t, lib.OpenHandles())
	assert.Zero(t, lib.StaleCalls())
}

func TestSession_CloseFailureStillReleases(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)

	lib.Fail(osd.KindClose, "BadWindow")
	err = s.Close()
	require.ErrorIs(t, err, osd.ErrCommandFailed)
	assert.Contains(t, err.Error(), "BadWindow")
	assert.Equal(t, osd.StateClosed, s.State())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, lib.Count(osd.KindClose))
}

func TestSession_CommandFailureCarriesLastError(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)
	defer s.Close()

	lib.Fail(osd.KindSetColour, "cannot allocate colour \"nope\"")
	err = s.SetColour("nope")
	require.ErrorIs(t, err, osd.ErrCommandFailed)

	var ce *osd.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, osd.KindSetColour, ce.Command)
	assert.Equal(t, "cannot allocate colour \"nope\"", ce.Reason)
	assert.Empty(t, s.Settings().Colour, "failed set must not be recorded")
}

func TestSession_EmptyLastErrorGetsGenericReason(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)
	defer s.Close()

	lib.Fail(osd.KindScroll, "")
	err = s.Scroll(1)
	var ce *osd.CommandError
	require.ErrorAs(t, err, &ce)
	assert.NotEmpty(t, ce.Reason)
}

func TestSession_EncodingFailureMakesNoNativeCall(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)
	defer s.Close()

	before := len(lib.Calls())

	err = s.SetText(0, "a\x00b")
	require.ErrorIs(t, err, osd.ErrEncodingFailed)
	var ee *osd.EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "text", ee.Field)

	require.ErrorIs(t, s.SetFont("\xff\xfe"), osd.ErrEncodingFailed)
	require.ErrorIs(t, s.SetColour("re\x00d"), osd.ErrEncodingFailed)

	assert.Len(t, lib.Calls(), before)
}

func TestSession_SettingsRoundTrip(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().WithColour("red").Open(lib)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, osd.Colour("red"), s.Settings().Colour)

	require.NoError(t, s.SetColour("LawnGreen"))
	require.NoError(t, s.SetColour(osd.RGB(0x12, 0x34, 0x56)))
	require.NoError(t, s.SetTimeout(1500*time.Millisecond))
	require.NoError(t, s.SetPosition(osd.PositionBottom))
	require.NoError(t, s.SetAlign(osd.AlignCenter))
	require.NoError(t, s.SetShadowOffset(2))
	require.NoError(t, s.SetBarLength(40))

	got := s.Settings()
	assert.Equal(t, osd.Colour("#123456"), got.Colour)
	assert.Equal(t, 2*time.Second, got.Timeout)
	assert.Equal(t, osd.PositionBottom, got.Position)
	assert.Equal(t, osd.AlignCenter, got.Align)
	assert.Equal(t, 2, got.ShadowOffset)
	assert.Equal(t, 40, got.BarLength)

	d, _ := lib.Last()
	assert.Equal(t, int32(2), d.Timeout)
	assert.Equal(t, osd.NativePosBottom, d.Pos)
	assert.Equal(t, osd.NativeAlignCenter, d.Align)
}

func TestSession_RangeChecks(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)
	defer s.Close()

	require.ErrorIs(t, s.SetPercentage(0, 101), osd.ErrInvalidState)
	require.ErrorIs(t, s.SetSlider(0, -1), osd.ErrInvalidState)
	require.ErrorIs(t, s.SetTimeout(-time.Second), osd.ErrInvalidState)
	require.ErrorIs(t, s.SetBarLength(101), osd.ErrInvalidState)
	require.ErrorIs(t, s.SetPosition(osd.Position(9)), osd.ErrInvalidState)
	require.ErrorIs(t, s.SetAlign(osd.Align(-1)), osd.ErrInvalidState)
	require.ErrorIs(t, s.Apply(nil), osd.ErrInvalidState)

	assert.Zero(t, lib.Count(osd.KindSetPercentage))
	assert.Zero(t, lib.Count(osd.KindSetTimeout))

	require.NoError(t, s.SetBarLength(-1))
	require.NoError(t, s.SetPercentage(0, 100))
}

func TestSession_Queries(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().WithLines(2).WithColour(osd.RGB(50, 205, 50)).Open(lib)
	require.NoError(t, err)
	defer s.Close()

	on, err := s.Onscreen()
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, s.SetText(0, "hello"))
	on, err = s.Onscreen()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, s.Hide())
	on, _ = s.Onscreen()
	assert.False(t, on)
	require.NoError(t, s.Show())
	require.NoError(t, s.WaitUntilNoDisplay())

	r, g, b, err := s.Colour()
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{50, 205, 50}, [3]uint8{r, g, b})

	n, err := s.NativeLines()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSession_ScrollFailureIsCommandFailed(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().WithLines(2).Open(lib)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetText(0, "a"))
	require.NoError(t, s.SetText(1, "b"))
	require.NoError(t, s.Scroll(1))
	d, _ := lib.Last()
	assert.Equal(t, []string{"b", ""}, d.Lines)

	err = s.Scroll(5)
	require.ErrorIs(t, err, osd.ErrCommandFailed)
	assert.Contains(t, err.Error(), "invalid number of lines")
}

func TestSession_ApplyAllStopsAtFirstFailure(t *testing.T) {
	lib := osdtest.New()
	s, err := osd.NewConfig().Open(lib)
	require.NoError(t, err)
	defer s.Close()

	lib.Fail(osd.KindSetFont, "font not found")
	err = s.ApplyAll(
		osd.SetText{Line: 0, Text: "a"},
		osd.SetFont{Name: "missing"},
		osd.SetText{Line: 0, Text: "b"},
	)
	require.ErrorIs(t, err, osd.ErrCommandFailed)
	assert.Contains(t, err.Error(), "command 1")
	assert.Equal(t, 1, lib.Count(osd.KindSetText))
}

func TestSession_RandomCommandsNeverPanic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kinds := []osd.CommandKind{
		osd.KindSetText, osd.KindSetFont, osd.KindSetColour, osd.KindSetTimeout,
		osd.KindScroll, osd.KindShow, osd.KindHide, osd.KindSetShadowOffset,
	}

	for round := 0; round < 20; round++ {
		lib := osdtest.New()
		lines := 1 + rng.Intn(4)
		s, err := osd.NewConfig().WithLines(lines).Open(lib)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			if rng.Intn(4) == 0 {
				lib.Fail(kinds[rng.Intn(len(kinds))], "injected")
			} else {
				lib.Succeed(kinds[rng.Intn(len(kinds))])
			}

			var cmd osd.Command
			switch rng.Intn(8) {
			case 0:
				cmd = osd.SetText{Line: rng.Intn(lines), Text: "t"}
			case 1:
				cmd = osd.SetFont{Name: "fixed"}
			case 2:
				cmd = osd.SetColour{Colour: "white"}
			case 3:
				cmd = osd.SetTimeout{Timeout: time.Duration(rng.Intn(10)) * time.Second}
			case 4:
				cmd = osd.Scroll{Lines: rng.Intn(lines + 1)}
			case 5:
				cmd = osd.Show{}
			case 6:
				cmd = osd.Hide{}
			default:
				cmd = osd.SetShadowOffset{Pixels: rng.Intn(5)}
			}

			err := s.Apply(cmd)
			if err == nil {
				continue
			}
			var ce *osd.CommandError
			require.True(t, errors.As(err, &ce), "unexpected error %v", err)
			assert.NotEmpty(t, ce.Reason)
		}
		require.NoError(t, s.Close())
		assert.Zero(t, lib.StaleCalls())
	}
}

// openAndDrop opens a session and lets it become unreachable while open.
func openAndDrop(t *testing.T, lib *osdtest.Fake) {
	t.Helper()
	s, err := osd.NewConfig().WithLines(1).Open(lib)
	require.NoError(t, err)
	require.NoError(t, s.SetText(0, "dropped"))
}

func collect() {
	for range 5 {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
}

func TestSession_LeakedSessionIsReleasedOnce(t *testing.T) {
	t.Run("unreachable while open", func(t *testing.T) {
		lib := osdtest.New()
		openAndDrop(t, lib)

		require.Eventually(t, func() bool {
			runtime.GC()
			return lib.Count(osd.KindClose) > 0
		}, 5*time.Second, 10*time.Millisecond)

		collect()
		assert.Equal(t, 1, lib.Count(osd.KindClose))
		assert.Zero(t, lib.OpenHandles())
	})

	t.Run("closed explicitly", func(t *testing.T) {
		lib := osdtest.New()
		func() {
			s, err := osd.NewConfig().Open(lib)
			require.NoError(t, err)
			require.NoError(t, s.Close())
		}()

		collect()
		assert.Equal(t, 1, lib.Count(osd.KindClose))
		assert.Zero(t, lib.StaleCalls())
	})

	t.Run("open fails after the handle exists", func(t *testing.T) {
		lib := osdtest.New()
		lib.Fail(osd.KindSetColour, "no such colour")

		_, err := osd.NewConfig().WithColour("nope").Open(lib)
		require.ErrorIs(t, err, osd.ErrCommandFailed)

		collect()
		assert.Equal(t, 1, lib.Count(osd.KindClose))
		assert.Zero(t, lib.OpenHandles())
	})
}
