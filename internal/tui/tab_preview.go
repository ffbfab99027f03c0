package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termosd/internal/ipc"
)

type previewKind int

const (
	previewText previewKind = iota
	previewPercent
	previewSlider
	previewHide
)

// previewItem is a list item for one kind of test message.
type previewItem struct {
	kind  previewKind
	title string
	desc  string
}

func (i previewItem) Title() string       { return i.title }
func (i previewItem) Description() string { return i.desc }
func (i previewItem) FilterValue() string { return i.title }

func previewItems() []list.Item {
	return []list.Item{
		previewItem{previewText, "Text", "lines separated by |"},
		previewItem{previewPercent, "Percentage", "bar from 0 to 100"},
		previewItem{previewSlider, "Slider", "marker from 0 to 100"},
		previewItem{previewHide, "Hide", "clear the display now"},
	}
}

// send delivers input to the daemon as the message kind describes.
func (i previewItem) send(d daemonClient, input string) error {
	input = strings.TrimSpace(input)
	switch i.kind {
	case previewText:
		if input == "" {
			return fmt.Errorf("nothing to show")
		}
		parts := strings.Split(input, "|")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		return d.Show(ipc.ShowPayload{Lines: parts})
	case previewPercent, previewSlider:
		v, err := strconv.Atoi(input)
		if err != nil || v < 0 || v > 100 {
			return fmt.Errorf("value must be a number between 0 and 100")
		}
		return d.Percent(0, v, i.kind == previewSlider)
	case previewHide:
		return d.Hide()
	}
	return fmt.Errorf("unknown preview kind %d", i.kind)
}

// PreviewTab sends test messages to the running daemon.
type PreviewTab struct {
	list   list.Model
	width  int
	height int

	entering  bool
	textInput textinput.Model

	lastErr  error
	lastSent string
}

// NewPreviewTab creates the preview tab.
func NewPreviewTab() PreviewTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(previewItems(), delegate, 0, 0)
	l.Title = "Test Message"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.CharLimit = 256

	return PreviewTab{list: l, textInput: ti}
}

// Update handles messages for the preview tab.
func (p PreviewTab) Update(msg tea.Msg, d daemonClient) (PreviewTab, tea.Cmd) {
	if p.entering {
		return p.updateEntering(msg, d)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.list.SetSize(p.listWidth(), p.height)
		return p, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			item, ok := p.list.SelectedItem().(previewItem)
			if !ok {
				return p, nil
			}
			if item.kind == previewHide {
				p.deliver(item, d, "")
				return p, nil
			}
			p.entering = true
			p.textInput.Reset()
			p.textInput.Placeholder = item.desc
			p.textInput.Focus()
			return p, textinput.Blink
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p PreviewTab) updateEntering(msg tea.Msg, d daemonClient) (PreviewTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(previewItem); ok {
				p.deliver(item, d, p.textInput.Value())
			}
			p.entering = false
			p.textInput.Blur()
			return p, nil
		case "esc":
			p.entering = false
			p.textInput.Blur()
			return p, nil
		}
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil
	}

	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	return p, cmd
}

func (p *PreviewTab) deliver(item previewItem, d daemonClient, input string) {
	if d == nil {
		p.lastErr = fmt.Errorf("daemon not running")
		return
	}
	p.lastErr = item.send(d, input)
	if p.lastErr == nil {
		p.lastSent = item.title
		if input != "" {
			p.lastSent += ": " + strings.TrimSpace(input)
		}
	}
}

func (p PreviewTab) listWidth() int {
	w := p.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

// View implements tea.Model.
func (p PreviewTab) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	leftWidth := p.listWidth()
	rightWidth := p.width - leftWidth
	if rightWidth < 10 {
		rightWidth = 10
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(p.height).
		Render(p.list.View())

	var b strings.Builder
	if p.entering {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render("Message:"))
		b.WriteString("\n")
		b.WriteString(p.textInput.View())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("enter: send  esc: cancel"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).
			Render("enter: compose and send to the daemon"))
	}
	b.WriteString("\n\n")

	switch {
	case p.lastErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + p.lastErr.Error()))
	case p.lastSent != "":
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("Sent " + p.lastSent))
	}

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(p.height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		Render(b.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
