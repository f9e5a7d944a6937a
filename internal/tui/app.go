package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/remmeter/internal/config"
)

// model is the root bubbletea model for the config editor.
type model struct {
	configPath string
	cfg        *config.Config
	loadErr    error

	activeTab Tab
	windowTab WindowTab
	timerTab  TimerTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string, res *config.LoadResult, loadErr error) model {
	m := model{
		configPath: configPath,
		activeTab:  TabWindow,
		loadErr:    loadErr,
	}
	if res != nil {
		m.cfg = res.Config
		m.originalConfig = cloneConfig(res.Config)
	}
	m.windowTab = NewWindowTab(m.cfg)
	m.timerTab = NewTimerTab(m.cfg)
	return m
}

func (m model) dirty() bool {
	return len(diffConfigs(m.originalConfig, m.cfg)) > 0
}

func (m model) capturing() bool {
	return (m.activeTab == TabWindow && m.windowTab.editing) ||
		(m.activeTab == TabTimer && m.timerTab.editing)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windowTab, _ = m.windowTab.Update(sub)
		m.timerTab, _ = m.timerTab.Update(sub)
		return m, nil
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, m.cfg, m.configPath)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
			}
		}
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && km.String() == "ctrl+s" && m.cfg != nil {
		m.saveOverlay.Show(m.originalConfig, m.cfg)
		return m, nil
	}

	if !m.capturing() && isKey {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindow
			return m, nil
		case "2":
			m.activeTab = TabTimer
			return m, nil
		}
	} else if isKey && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindow:
		m.windowTab, cmd = m.windowTab.Update(msg)
	case TabTimer:
		m.timerTab, cmd = m.timerTab.Update(msg)
	}
	return m, cmd
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.configPath, m.dirty(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	switch {
	case m.loadErr != nil:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Foreground(lipgloss.Color("196")).
			Padding(1, 2).
			Render("Config error: " + m.loadErr.Error() + "\n\nFix the file and run `remmeter config edit` again.")
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.activeTab == TabTimer:
		content = m.timerTab.View()
	default:
		content = m.windowTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
