package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termosd/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // listing changes, awaiting confirm
	saveResult            // showing outcome message
)

// change is one setting whose edited value differs from the loaded one.
type change struct {
	key    string
	old    string
	new    string
	origin string // where the loaded value came from
}

// SaveOverlay lists pending setting changes and writes them on confirm.
type SaveOverlay struct {
	phase        savePhase
	changes      []change
	err          error
	reloaded     bool
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show compares the loaded and edited configs and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config, sources map[string]config.Source) {
	s.err = nil
	s.reloaded = false
	s.scrollOffset = 0

	s.changes = diffConfigs(original, current, sources)
	if len(s.changes) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active.
// The daemon, when non-nil, is asked to reload after a successful write.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, d daemonClient) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}

	switch km.String() {
	case "esc":
		s.phase = saveHidden
	case "enter", "y":
		s.err = cfg.SaveTo(path)
		if s.err == nil && d != nil {
			s.reloaded = d.Reload() == nil
		}
		s.phase = saveResult
	case "up", "k":
		s.scrollOffset = max(s.scrollOffset-1, 0)
	case "down", "j":
		s.scrollOffset = min(s.scrollOffset+1, max(len(s.changes)-1, 0))
	}
	return s
}

// View renders the overlay centred in the content area.
func (s SaveOverlay) View(width, height int) string {
	var content string
	boxW := 60
	switch s.phase {
	case savePreview:
		content = s.viewChanges(height)
		boxW = 80
	case saveResult:
		content = s.viewResult()
	default:
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(min(max(width-8, 30), boxW)).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) viewChanges(height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	keyStyle := lipgloss.NewStyle().Bold(true)
	oldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	newStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	keyW := 0
	for _, c := range s.changes {
		keyW = max(keyW, len(c.key))
	}

	// title, blank, blank, footer, border and padding
	rows := max(height-10, 3)
	start := min(s.scrollOffset, max(len(s.changes)-rows, 0))
	end := min(start+rows, len(s.changes))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Save %d change(s)", len(s.changes))))
	b.WriteString("\n\n")
	for _, c := range s.changes[start:end] {
		fmt.Fprintf(&b, "%s  %s -> %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-*s", keyW, c.key)),
			oldStyle.Render(c.old),
			newStyle.Render(c.new),
			dimStyle.Render("("+c.origin+")"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return b.String()
}

func (s SaveOverlay) viewResult() string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		msg = okStyle.Bold(true).Render("Config saved")
		if s.reloaded {
			msg += "\n" + okStyle.Render("Daemon reloaded")
		}
	}
	return msg + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("press any key to dismiss")
}

// diffConfigs compares the two configs setting by setting, in file order.
func diffConfigs(original, current *config.Config, sources map[string]config.Source) []change {
	if original == nil || current == nil {
		return nil
	}
	var out []change
	for _, key := range config.Keys() {
		ov, err := config.Value(original, key)
		if err != nil {
			continue
		}
		nv, err := config.Value(current, key)
		if err != nil {
			continue
		}
		if ov == nv {
			continue
		}
		out = append(out, change{
			key:    key,
			old:    formatValue(ov),
			new:    formatValue(nv),
			origin: formatOrigin(sources[key]),
		})
	}
	return out
}

func formatValue(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return `""`
	}
	return s
}

func formatOrigin(src config.Source) string {
	if src.Kind != config.SourceFile {
		return "default"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line)
}

// cloneConfig copies cfg. Config holds only value fields.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}
