package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termosd/internal/config"
)

// SettingsTab shows the effective config and edits it with a huh form.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fBackend       string
	fDisplay       string
	fFont          string
	fLines         string
	fColour        string
	fShadowColour  string
	fOutlineColour string
	fShadowOffset  string
	fOutlineOffset string
	fTimeout       string
	fPosition      string
	fAlign         string
	fVOffset       string
	fHOffset       string
	fBarLength     string
	fHideHotkey    string
	fLogLevel      string
}

// NewSettingsTab creates a SettingsTab from the loaded config.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Update implements tea.Model.
func (g SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	return g.updateDisplay(msg)
}

func (g SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}

	return g, cmd
}

// loadForm copies cfg into the form-bound strings.
func (g *SettingsTab) loadForm() {
	cfg := g.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	g.fBackend = string(cfg.Backend)
	g.fDisplay = cfg.Display
	g.fFont = cfg.Font
	g.fLines = strconv.Itoa(cfg.Lines)
	g.fColour = cfg.Colour
	g.fShadowColour = cfg.ShadowColour
	g.fOutlineColour = cfg.OutlineColour
	g.fShadowOffset = strconv.Itoa(cfg.ShadowOffset)
	g.fOutlineOffset = strconv.Itoa(cfg.OutlineOffset)
	g.fTimeout = cfg.Timeout.String()
	g.fPosition = cfg.Position
	g.fAlign = cfg.Align
	g.fVOffset = strconv.Itoa(cfg.VerticalOffset)
	g.fHOffset = strconv.Itoa(cfg.HorizontalOffset)
	g.fBarLength = strconv.Itoa(cfg.BarLength)
	g.fHideHotkey = cfg.HideHotkey
	g.fLogLevel = cfg.LogLevel
}

func (g *SettingsTab) startEditing() {
	g.loadForm()

	w := g.width - 4
	if w < 40 {
		w = 40
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("backend").
				Title("Backend").
				Description("x11 draws in Go, xosd uses libxosd").
				Options(huh.NewOptions(string(config.BackendX11), string(config.BackendXOSD))...).
				Value(&g.fBackend),
			huh.NewInput().
				Key("display").
				Title("Display").
				Description("X display name (empty uses $DISPLAY)").
				Value(&g.fDisplay),
			huh.NewInput().
				Key("font").
				Title("Font").
				Description("X logical font description (empty uses the backend default)").
				Value(&g.fFont),
			huh.NewInput().
				Key("lines").
				Title("Lines").
				Validate(intInRange(1, config.MaxLines)).
				Value(&g.fLines),
		).Title("Display"),
		huh.NewGroup(
			huh.NewInput().
				Key("colour").
				Title("Colour").
				Description("X colour name or #rrggbb").
				Value(&g.fColour),
			huh.NewInput().
				Key("shadow_colour").
				Title("Shadow Colour").
				Value(&g.fShadowColour),
			huh.NewInput().
				Key("outline_colour").
				Title("Outline Colour").
				Value(&g.fOutlineColour),
			huh.NewInput().
				Key("shadow_offset").
				Title("Shadow Offset").
				Validate(intInRange(0, 1<<15)).
				Value(&g.fShadowOffset),
			huh.NewInput().
				Key("outline_offset").
				Title("Outline Offset").
				Validate(intInRange(0, 1<<15)).
				Value(&g.fOutlineOffset),
		).Title("Appearance"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("position").
				Title("Position").
				Options(huh.NewOptions("top", "middle", "bottom")...).
				Value(&g.fPosition),
			huh.NewSelect[string]().
				Key("align").
				Title("Align").
				Options(huh.NewOptions("left", "center", "right")...).
				Value(&g.fAlign),
			huh.NewInput().
				Key("vertical_offset").
				Title("Vertical Offset").
				Validate(intInRange(0, 1<<15)).
				Value(&g.fVOffset),
			huh.NewInput().
				Key("horizontal_offset").
				Title("Horizontal Offset").
				Validate(intInRange(0, 1<<15)).
				Value(&g.fHOffset),
			huh.NewInput().
				Key("timeout").
				Title("Timeout").
				Description("Duration such as 3s or 1500ms (0 keeps text up)").
				Validate(validDuration).
				Value(&g.fTimeout),
			huh.NewInput().
				Key("bar_length").
				Title("Bar Length").
				Description("Percent of the screen width, -1 for the backend default").
				Validate(intInRange(-1, 100)).
				Value(&g.fBarLength),
		).Title("Placement"),
		huh.NewGroup(
			huh.NewInput().
				Key("hide_hotkey").
				Title("Hide Hotkey").
				Description("X11 keybinding that hides the display, e.g. Mod4-Escape").
				Value(&g.fHideHotkey),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&g.fLogLevel),
		).Title("Daemon"),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

var (
	errNotANumber       = errors.New("must be a whole number")
	errNegativeDuration = errors.New("must not be negative")
)

func errOutOfRange(lo, hi int) error {
	return fmt.Errorf("must be between %d and %d", lo, hi)
}

func intInRange(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errNotANumber
		}
		if v < lo || v > hi {
			return errOutOfRange(lo, hi)
		}
		return nil
	}
}

func validDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if d < 0 {
		return errNegativeDuration
	}
	return nil
}

// applyForm writes form values back into cfg. Values that do not parse keep
// the previous setting.
func (g *SettingsTab) applyForm() {
	if g.cfg == nil {
		return
	}

	if g.fBackend != "" {
		g.cfg.Backend = config.Backend(g.fBackend)
	}
	g.cfg.Display = strings.TrimSpace(g.fDisplay)
	g.cfg.Font = strings.TrimSpace(g.fFont)
	if v, err := strconv.Atoi(strings.TrimSpace(g.fLines)); err == nil && v >= 1 && v <= config.MaxLines {
		g.cfg.Lines = v
	}
	if s := strings.TrimSpace(g.fColour); s != "" {
		g.cfg.Colour = s
	}
	if s := strings.TrimSpace(g.fShadowColour); s != "" {
		g.cfg.ShadowColour = s
	}
	if s := strings.TrimSpace(g.fOutlineColour); s != "" {
		g.cfg.OutlineColour = s
	}
	setNonNegative(&g.cfg.ShadowOffset, g.fShadowOffset)
	setNonNegative(&g.cfg.OutlineOffset, g.fOutlineOffset)
	if d, err := time.ParseDuration(strings.TrimSpace(g.fTimeout)); err == nil && d >= 0 {
		g.cfg.Timeout = d
	}
	if g.fPosition != "" {
		g.cfg.Position = g.fPosition
	}
	if g.fAlign != "" {
		g.cfg.Align = g.fAlign
	}
	setNonNegative(&g.cfg.VerticalOffset, g.fVOffset)
	setNonNegative(&g.cfg.HorizontalOffset, g.fHOffset)
	if v, err := strconv.Atoi(strings.TrimSpace(g.fBarLength)); err == nil && v >= -1 && v <= 100 {
		g.cfg.BarLength = v
	}
	g.cfg.HideHotkey = strings.TrimSpace(g.fHideHotkey)
	if g.fLogLevel != "" {
		g.cfg.LogLevel = g.fLogLevel
	}
}

func setNonNegative(dst *int, s string) {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		*dst = v
	}
}

// View implements tea.Model.
func (g SettingsTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g SettingsTab) viewDisplay() string {
	cfg := g.cfg
	if cfg == nil {
		style := lipgloss.NewStyle().
			Width(g.width).
			Height(g.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	swatch := func(colour string) string {
		if strings.HasPrefix(colour, "#") {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(colour)).Render("■ ") + colour
		}
		return colour
	}

	timeout := cfg.Timeout.String()
	if cfg.Timeout == 0 {
		timeout = "none"
	}
	bar := strconv.Itoa(cfg.BarLength) + "%"
	if cfg.BarLength < 0 {
		bar = "(backend default)"
	}

	lines := []string{
		"",
		row("Backend", string(cfg.Backend)),
		row("Display", displayOrDefault(cfg.Display, "($DISPLAY)")),
		row("Font", displayOrDefault(cfg.Font, "(default)")),
		row("Lines", strconv.Itoa(cfg.Lines)),
		"",
		row("Colour", swatch(cfg.Colour)),
		row("Shadow", swatch(cfg.ShadowColour)+"  offset "+strconv.Itoa(cfg.ShadowOffset)),
		row("Outline", swatch(cfg.OutlineColour)+"  offset "+strconv.Itoa(cfg.OutlineOffset)),
		"",
		row("Position", cfg.Position+" / "+cfg.Align),
		row("Offsets", "vertical "+strconv.Itoa(cfg.VerticalOffset)+"  horizontal "+strconv.Itoa(cfg.HorizontalOffset)),
		row("Timeout", timeout),
		row("Bar Length", bar),
		"",
		row("Hide Hotkey", displayOrDefault(cfg.HideHotkey, "(disabled)")),
		row("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	contentStyle := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return contentStyle.Render(strings.Join(lines, "\n"))
}

func (g SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	style := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return style.Render(header + "\n\n" + g.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
