package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/ipc"
)

type fakeDaemon struct {
	pingErr  error
	shows    []ipc.ShowPayload
	percents []int
	sliders  []bool
	hides    int
	reloads  int
}

func (d *fakeDaemon) Ping() error { return d.pingErr }

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Backend: "x11", SessionOpen: true, DaemonRunning: true}, nil
}

func (d *fakeDaemon) Show(p ipc.ShowPayload) error {
	d.shows = append(d.shows, p)
	return nil
}

func (d *fakeDaemon) Percent(_, value int, slider bool) error {
	d.percents = append(d.percents, value)
	d.sliders = append(d.sliders, slider)
	return nil
}

func (d *fakeDaemon) Hide() error {
	d.hides++
	return nil
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDiffConfigsListsChangedKeysWithOrigin(t *testing.T) {
	orig := config.DefaultConfig()
	curr := config.DefaultConfig()
	assert.Empty(t, diffConfigs(orig, curr, nil))

	curr.Colour = "red"
	curr.Timeout = 1500 * time.Millisecond
	curr.Font = "fixed"
	sources := map[string]config.Source{
		"colour": {Kind: config.SourceFile, File: "/home/u/.config/termosd/config.yaml", Line: 4},
	}

	changes := diffConfigs(orig, curr, sources)
	assert.Equal(t, []change{
		{key: "font", old: `""`, new: "fixed", origin: "default"},
		{key: "colour", old: "green", new: "red", origin: "config.yaml:4"},
		{key: "timeout", old: "3s", new: "1.5s", origin: "default"},
	}, changes)
}

func TestSaveOverlayViewShowsChanges(t *testing.T) {
	orig := config.DefaultConfig()
	curr := config.DefaultConfig()
	curr.Position = "top"

	var s SaveOverlay
	s.Show(orig, curr, nil)
	view := s.View(100, 30)
	assert.Contains(t, view, "position")
	assert.Contains(t, view, "bottom")
	assert.Contains(t, view, "top")
	assert.Contains(t, view, "(default)")

	s = s.Update(key("esc"), curr, "", nil)
	assert.False(t, s.Active())
}

func TestCloneConfigIsIndependent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timeout = 250 * time.Millisecond

	clone := cloneConfig(cfg)
	require.NotNil(t, clone)
	assert.Equal(t, *cfg, *clone)

	clone.Lines = 7
	assert.Equal(t, config.DefaultLines, cfg.Lines)
}

func TestSettingsApplyForm(t *testing.T) {
	cfg := config.DefaultConfig()
	tab := NewSettingsTab(cfg)
	tab.loadForm()

	tab.fBackend = "xosd"
	tab.fLines = "4"
	tab.fColour = " #00ff00 "
	tab.fTimeout = "750ms"
	tab.fPosition = "top"
	tab.fBarLength = "60"
	tab.fVOffset = "not a number"
	tab.fHideHotkey = "Mod4-Escape"
	tab.applyForm()

	assert.Equal(t, config.BackendXOSD, cfg.Backend)
	assert.Equal(t, 4, cfg.Lines)
	assert.Equal(t, "#00ff00", cfg.Colour)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "top", cfg.Position)
	assert.Equal(t, 60, cfg.BarLength)
	assert.Equal(t, 48, cfg.VerticalOffset, "unparsable values keep the previous setting")
	assert.Equal(t, "Mod4-Escape", cfg.HideHotkey)
	require.NoError(t, cfg.Validate())
}

func TestSettingsFormValidators(t *testing.T) {
	check := intInRange(-1, 100)
	assert.NoError(t, check("-1"))
	assert.NoError(t, check(" 100 "))
	assert.ErrorIs(t, check("x"), errNotANumber)
	assert.Error(t, check("101"))

	assert.NoError(t, validDuration("0"))
	assert.NoError(t, validDuration("1500ms"))
	assert.ErrorIs(t, validDuration("-1s"), errNegativeDuration)
	assert.Error(t, validDuration("soon"))
}

func TestPreviewItemSend(t *testing.T) {
	d := &fakeDaemon{}
	items := previewItems()

	require.NoError(t, items[previewText].(previewItem).send(d, "Volume | 60%"))
	require.Len(t, d.shows, 1)
	assert.Equal(t, []string{"Volume", "60%"}, d.shows[0].Lines)

	require.NoError(t, items[previewSlider].(previewItem).send(d, "42"))
	assert.Equal(t, []int{42}, d.percents)
	assert.Equal(t, []bool{true}, d.sliders)

	assert.Error(t, items[previewPercent].(previewItem).send(d, "120"))
	assert.Error(t, items[previewText].(previewItem).send(d, "   "))

	require.NoError(t, items[previewHide].(previewItem).send(d, ""))
	assert.Equal(t, 1, d.hides)
}

func TestSaveOverlayWritesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d := &fakeDaemon{}

	orig := config.DefaultConfig()
	curr := config.DefaultConfig()
	curr.Lines = 3

	var s SaveOverlay
	s.Show(orig, curr, nil)
	require.True(t, s.Active())

	s = s.Update(key("enter"), curr, path, d)
	require.True(t, s.SaveSucceeded())
	assert.Equal(t, 1, d.reloads)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lines: 3")

	s = s.Update(key("x"), curr, path, d)
	assert.False(t, s.Active())
}

func TestSaveOverlayNoChanges(t *testing.T) {
	var s SaveOverlay
	s.Show(config.DefaultConfig(), config.DefaultConfig(), nil)
	assert.True(t, s.Active())
	assert.False(t, s.SaveSucceeded())
	assert.Contains(t, s.View(80, 20), "no changes")
}

func TestModelTabsAndDaemonDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m := newModel(path, &fakeDaemon{})
	require.NotNil(t, m.status)
	assert.Equal(t, TabSettings, m.activeTab)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(model)
	next, _ = m.Update(key("2"))
	m = next.(model)
	assert.Equal(t, TabPreview, m.activeTab)
	assert.True(t, strings.Contains(m.View(), "daemon connected"))

	offline := newModel(path, &fakeDaemon{pingErr: errors.New("refused")})
	assert.Nil(t, offline.daemon)
	assert.Nil(t, offline.status)
}

func TestModelCtrlSSavesEditedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d := &fakeDaemon{}
	m := newModel(path, d)

	m.result.Config.Colour = "yellow"

	next, _ := m.Update(key("ctrl+s"))
	m = next.(model)
	require.True(t, m.saveOverlay.Active())

	next, _ = m.Update(key("enter"))
	m = next.(model)
	assert.True(t, m.saveOverlay.SaveSucceeded())
	assert.Equal(t, "yellow", m.originalConfig.Colour)
	assert.Equal(t, 1, d.reloads)
	assert.Equal(t, config.SourceFile, m.result.Sources["colour"].Kind)

	res, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "yellow", res.Config.Colour)
}
