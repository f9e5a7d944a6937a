package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/remmeter/internal/config"
	"github.com/1broseidon/remmeter/internal/timer"
)

// TimerTab edits the countdown defaults.
type TimerTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	fDuration string
	fWarning  string
	fCritical string
	fNotify   bool
}

func NewTimerTab(cfg *config.Config) TimerTab {
	return TimerTab{cfg: cfg}
}

func (t TimerTab) Update(msg tea.Msg) (TimerTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && t.cfg != nil {
			t.startEditing()
			return t, t.form.Init()
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}
	return t, nil
}

func (t TimerTab) updateEditing(msg tea.Msg) (TimerTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.editing = false
			t.form = nil
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}
	if t.form.State == huh.StateCompleted {
		t.applyForm()
		t.editing = false
		t.form = nil
		return t, nil
	}
	return t, cmd
}

func (t *TimerTab) loadForm() {
	t.fDuration = timer.FormatSeconds(t.cfg.Timer.DefaultSeconds)
	t.fWarning = strconv.FormatFloat(t.cfg.Timer.WarningThreshold, 'f', -1, 64)
	t.fCritical = strconv.FormatFloat(t.cfg.Timer.CriticalThreshold, 'f', -1, 64)
	t.fNotify = t.cfg.Timer.NotifyOnFinish
}

func (t *TimerTab) startEditing() {
	t.loadForm()

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("duration").
				Title("Default Duration").
				Description("MM:SS, or digits: 45 = 0:45, 130 = 1:30").
				Validate(func(s string) error {
					_, err := timer.ParseInput(s)
					return err
				}).
				Value(&t.fDuration),
			huh.NewInput().
				Key("warning").
				Title("Warning At").
				Description("Progress fraction where the bar turns orange").
				Validate(fraction).
				Value(&t.fWarning),
			huh.NewInput().
				Key("critical").
				Title("Critical At").
				Description("Progress fraction where the bar turns red").
				Validate(fraction).
				Value(&t.fCritical),
			huh.NewConfirm().
				Key("notify").
				Title("Notify When Done").
				Value(&t.fNotify),
		),
	).WithWidth(max(t.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	t.editing = true
}

func (t *TimerTab) applyForm() {
	if t.cfg == nil {
		return
	}
	if in, err := timer.ParseInput(t.fDuration); err == nil {
		t.cfg.Timer.DefaultSeconds = int(in.Duration().Seconds())
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(t.fWarning), 64); err == nil {
		t.cfg.Timer.WarningThreshold = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(t.fCritical), 64); err == nil {
		t.cfg.Timer.CriticalThreshold = v
	}
	t.cfg.Timer.NotifyOnFinish = t.fNotify
}

func (t TimerTab) View() string {
	if t.editing && t.form != nil {
		return viewEditing("Editing Timer Settings", t.form, t.width, t.height)
	}
	cfg := t.cfg
	if cfg == nil {
		return dimStyle.Width(t.width).Height(t.height).Align(lipgloss.Center, lipgloss.Center).Render("No config loaded")
	}

	lines := []string{
		"",
		row("Default Duration", timer.FormatSeconds(cfg.Timer.DefaultSeconds)),
		row("Warning At", fmt.Sprintf("%.0f%%", cfg.Timer.WarningThreshold*100)),
		row("Critical At", fmt.Sprintf("%.0f%%", cfg.Timer.CriticalThreshold*100)),
		row("Notify When Done", strconv.FormatBool(cfg.Timer.NotifyOnFinish)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return lipgloss.NewStyle().Width(t.width).Height(t.height).Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func fraction(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v >= 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}
