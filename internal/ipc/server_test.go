package ipc

import (
	"bufio"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/osd"
	"github.com/1broseidon/termosd/osd/osdtest"
)

func fakeOpener(fake *osdtest.Fake) Opener {
	return func(cfg *config.Config) (*osd.Session, error) {
		oc, err := cfg.OSD()
		if err != nil {
			return nil, err
		}
		return oc.Open(fake)
	}
}

type harness struct {
	fake     *osdtest.Fake
	server   *Server
	client   *Client
	reloaded chan *config.Config
}

func startServer(t *testing.T, cfg *config.Config, load func() (*config.Config, error)) *harness {
	t.Helper()

	h := &harness{
		fake:     osdtest.New(),
		reloaded: make(chan *config.Config, 1),
	}
	socket := filepath.Join(t.TempDir(), "termosd.sock")

	srv, err := NewServer(cfg, ServerOptions{
		SocketPath: socket,
		Open:       fakeOpener(h.fake),
		Load:       load,
		Reloaded:   h.reloaded,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	h.server = srv
	h.client = NewClientWithSocket(socket)
	return h
}

func TestServer_StartOpensSession(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	assert.Equal(t, 1, h.fake.OpenHandles())
	d, ok := h.fake.Last()
	require.True(t, ok)
	assert.Len(t, d.Lines, config.DefaultLines)
	assert.Equal(t, "green", d.Colour)
}

func TestServer_StartFailsWhenDisplayCannotOpen(t *testing.T) {
	fake := osdtest.New()
	fake.FailOpen("cannot open display")

	srv, err := NewServer(config.DefaultConfig(), ServerOptions{
		SocketPath: filepath.Join(t.TempDir(), "termosd.sock"),
		Open:       fakeOpener(fake),
	})
	require.NoError(t, err)

	err = srv.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, osd.ErrOpenFailed))
	assert.Contains(t, err.Error(), "cannot open display")
}

func TestServer_ShowWritesLinesAndClearsTheRest(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lines = 3
	h := startServer(t, cfg, nil)

	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"a", "b", "c"}}))
	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"Volume"}}))

	d, ok := h.fake.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"Volume", "", ""}, d.Lines)
	assert.True(t, d.Visible)
}

func TestServer_ShowOverridesAreScopedToOneMessage(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	require.NoError(t, h.client.Show(ShowPayload{
		Lines:         []string{"alert"},
		Colour:        "red",
		TimeoutMillis: 10_000,
	}))
	d, _ := h.fake.Last()
	assert.Equal(t, "red", d.Colour)
	assert.EqualValues(t, 10, d.Timeout)

	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"normal"}}))
	d, _ = h.fake.Last()
	assert.Equal(t, "green", d.Colour)
	assert.EqualValues(t, 3, d.Timeout)
}

func TestServer_ShowRejectsBadPayloads(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	err := h.client.Show(ShowPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lines is required")

	err = h.client.Show(ShowPayload{Lines: []string{"1", "2", "3"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many lines")

	err = h.client.Show(ShowPayload{Lines: []string{"x"}, TimeoutMillis: -1})
	require.Error(t, err)

	err = h.client.Show(ShowPayload{Lines: []string{"bad\x00text"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to show")
}

func TestServer_PercentAndSlider(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	require.NoError(t, h.client.Percent(0, 40, false))
	require.NoError(t, h.client.Percent(1, 75, true))
	assert.Equal(t, 1, h.fake.Count(osd.KindSetPercentage))
	assert.Equal(t, 1, h.fake.Count(osd.KindSetSlider))

	err := h.client.Percent(0, 101, false)
	require.Error(t, err)
	assert.Equal(t, 1, h.fake.Count(osd.KindSetPercentage), "invalid percent must not reach the service")
}

func TestServer_HideAndStatus(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"hello"}}))
	status, err := h.client.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.True(t, status.SessionOpen)
	assert.True(t, status.Onscreen)
	assert.Equal(t, "x11", status.Backend)
	assert.Equal(t, "bottom", status.Position)
	assert.Equal(t, "center", status.Align)
	assert.Equal(t, 3, status.TimeoutSeconds)

	require.NoError(t, h.client.Hide())
	status, err = h.client.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Onscreen)

	require.NoError(t, h.server.Hide())
}

func TestServer_Scroll(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"one", "two"}}))
	require.NoError(t, h.client.Scroll(1))

	d, _ := h.fake.Last()
	assert.Equal(t, []string{"two", ""}, d.Lines)

	require.Error(t, h.client.Scroll(5))
}

func TestServer_ReloadReplacesSession(t *testing.T) {
	next := config.DefaultConfig()
	next.Lines = 4
	next.Colour = "yellow"

	h := startServer(t, config.DefaultConfig(), func() (*config.Config, error) {
		return next, nil
	})

	require.NoError(t, h.client.Reload())

	assert.Equal(t, 1, h.fake.OpenHandles(), "old session must be closed")
	assert.Equal(t, 1, h.fake.Count(osd.KindClose))
	d, ok := h.fake.Last()
	require.True(t, ok)
	assert.Len(t, d.Lines, 4)
	assert.Equal(t, "yellow", d.Colour)
	assert.Zero(t, h.fake.StaleCalls())

	select {
	case got := <-h.reloaded:
		assert.Same(t, next, got)
	case <-time.After(time.Second):
		t.Fatal("reload notification not delivered")
	}
	assert.Same(t, next, h.server.GetConfig())
}

func TestServer_ReloadLoadFailureKeepsSession(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), func() (*config.Config, error) {
		return nil, errors.New("bad yaml")
	})

	err := h.client.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad yaml")
	assert.Equal(t, 0, h.fake.Count(osd.KindClose))

	require.NoError(t, h.client.Show(ShowPayload{Lines: []string{"still here"}}))
}

func TestServer_StopClosesSession(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	h.server.Stop()
	assert.Equal(t, 0, h.fake.OpenHandles())
	require.Error(t, h.client.Ping())

	// A second Stop (from t.Cleanup) is harmless.
	h.server.Stop()
	assert.Equal(t, 1, h.fake.Count(osd.KindClose))
}

func TestServer_UnknownCommand(t *testing.T) {
	h := startServer(t, config.DefaultConfig(), nil)

	conn, err := net.Dial("unix", h.server.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"command":"DANCE"}` + "\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)
	assert.Contains(t, string(line), "Unknown command: DANCE")
}

func TestNewServer_RequiresOpener(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), ServerOptions{SocketPath: filepath.Join(t.TempDir(), "s.sock")})
	require.Error(t, err)
}
