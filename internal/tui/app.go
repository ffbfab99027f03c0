package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/ipc"
)

// daemonClient is the part of the IPC client the editor uses.
type daemonClient interface {
	Ping() error
	GetStatus() (*ipc.StatusData, error)
	Show(p ipc.ShowPayload) error
	Percent(line, value int, slider bool) error
	Hide() error
	Reload() error
}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	loadErr    error

	// nil when no daemon answered at startup
	daemon daemonClient
	status *ipc.StatusData

	activeTab Tab

	settingsTab SettingsTab
	previewTab  PreviewTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string, client daemonClient) model {
	m := model{
		configPath: configPath,
		activeTab:  TabSettings,
	}

	m.loadConfig()
	if m.result != nil {
		m.originalConfig = cloneConfig(m.result.Config)
	}

	if client != nil && client.Ping() == nil {
		m.daemon = client
		m.refreshDaemonStatus()
	}

	var cfg *config.Config
	if m.result != nil {
		cfg = m.result.Config
	}
	m.settingsTab = NewSettingsTab(cfg)
	m.previewTab = NewPreviewTab()

	return m
}

func (m *model) loadConfig() {
	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		m.loadErr = err
		return
	}
	m.result = res
}

// refreshSources re-reads where each key comes from after a save. Config
// itself is kept; the settings tab points at it.
func (m *model) refreshSources() {
	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		return
	}
	m.result.Sources = res.Sources
	m.result.Files = res.Files
}

func (m *model) refreshDaemonStatus() {
	if m.daemon == nil {
		return
	}
	st, err := m.daemon.GetStatus()
	if err != nil {
		m.status = nil
		return
	}
	m.status = st
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.settingsTab, _ = m.settingsTab.Update(subMsg)
	m.previewTab, _ = m.previewTab.Update(subMsg, m.daemon)
	return m
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.result.Config, m.configPath, m.daemon)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.result.Config)
				m.refreshSources()
				m.refreshDaemonStatus()
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.result != nil && m.result.Config != nil {
			m.saveOverlay.Show(m.originalConfig, m.result.Config, m.result.Sources)
		}
		return m, nil
	}

	// When a sub-model captures input, delegate all messages to it
	// (the form/input consumes keys; only ctrl+c escapes to quit)
	capturing := (m.activeTab == TabSettings && m.settingsTab.editing) ||
		(m.activeTab == TabPreview && m.previewTab.entering)
	if capturing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			return m.resize(msg), nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case TabSettings:
			m.settingsTab, cmd = m.settingsTab.Update(msg)
		case TabPreview:
			m.previewTab, cmd = m.previewTab.Update(msg, m.daemon)
			if isEnter(msg) {
				m.refreshDaemonStatus()
			}
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabSettings
			return m, nil
		case "2":
			m.activeTab = TabPreview
			return m, nil
		case "r":
			m.refreshDaemonStatus()
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	case TabPreview:
		m.previewTab, cmd = m.previewTab.Update(msg, m.daemon)
		if isEnter(msg) {
			m.refreshDaemonStatus()
		}
	}
	return m, cmd
}

func isEnter(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	return ok && km.String() == "enter"
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Padding(1, 2).
			Foreground(lipgloss.Color("196")).
			Render("Config error: " + m.loadErr.Error())
	case m.activeTab == TabPreview:
		content = m.previewTab.View()
	default:
		content = m.settingsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
