package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabWindow Tab = iota
	TabTimer
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindow:
		return "Window"
	case TabTimer:
		return "Timer"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(22).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	tabs := make([]string, 0, tabCount*2)
	for i := Tab(0); i < tabCount; i++ {
		if i > 0 {
			tabs = append(tabs, tabGap.Render())
		}
		label := string(rune('1'+i)) + ":" + i.String()
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return tabBarStyle.Width(width).Render(row)
}

// renderStatusBar shows which file is being edited and whether it has
// unsaved changes.
func renderStatusBar(path string, dirty bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	state := "saved"
	if dirty {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("●")
		state = "unsaved changes"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(dot + " " + path + "  " + state)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "tab/shift-tab: switch tabs  1-2: jump to tab  e: edit  ctrl-s: save  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
