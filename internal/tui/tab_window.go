package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/remmeter/internal/config"
)

// WindowTab edits the bar window, startup position, and notifications.
type WindowTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTitle         string
	fThickness     string
	fVertical      string
	fHorizontal    string
	fEdge          string
	fStartX        string
	fStartY        string
	fAlwaysOnTop   bool
	fNotifications bool
}

func NewWindowTab(cfg *config.Config) WindowTab {
	return WindowTab{cfg: cfg}
}

func (w WindowTab) Update(msg tea.Msg) (WindowTab, tea.Cmd) {
	if w.editing {
		return w.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && w.cfg != nil {
			w.startEditing()
			return w, w.form.Init()
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

func (w WindowTab) updateEditing(msg tea.Msg) (WindowTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			w.editing = false
			w.form = nil
			return w, nil
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		w.applyForm()
		w.editing = false
		w.form = nil
		return w, nil
	}
	return w, cmd
}

func (w *WindowTab) loadForm() {
	cfg := w.cfg
	w.fTitle = cfg.Window.Title
	w.fThickness = strconv.Itoa(cfg.Window.Thickness)
	w.fVertical = strconv.Itoa(cfg.Window.Expanded.Vertical)
	w.fHorizontal = strconv.Itoa(cfg.Window.Expanded.Horizontal)
	w.fEdge = cfg.Startup.Edge
	w.fStartX, w.fStartY = "", ""
	if cfg.Startup.HasPoint() {
		w.fStartX = strconv.Itoa(*cfg.Startup.X)
		w.fStartY = strconv.Itoa(*cfg.Startup.Y)
	}
	w.fAlwaysOnTop = cfg.Window.AlwaysOnTop
	w.fNotifications = cfg.Notifications.Enabled
}

func (w *WindowTab) startEditing() {
	w.loadForm()

	edgeOpts := []huh.Option[string]{
		huh.NewOption("(none)", ""),
		huh.NewOption("left", "left"),
		huh.NewOption("right", "right"),
		huh.NewOption("top", "top"),
		huh.NewOption("bottom", "bottom"),
	}

	width := max(w.width-4, 40)

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Window Title").
				Description("Also used to find the native window").
				Value(&w.fTitle),
			huh.NewInput().
				Key("thickness").
				Title("Thickness").
				Description("Collapsed strip size in pixels").
				Validate(positiveInt).
				Value(&w.fThickness),
			huh.NewInput().
				Key("vertical").
				Title("Expanded Width").
				Description("Hovered size of a left/right strip").
				Validate(positiveInt).
				Value(&w.fVertical),
			huh.NewInput().
				Key("horizontal").
				Title("Expanded Height").
				Description("Hovered size of a top/bottom strip").
				Validate(positiveInt).
				Value(&w.fHorizontal),
			huh.NewConfirm().
				Key("always_on_top").
				Title("Always On Top").
				Value(&w.fAlwaysOnTop),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("edge").
				Title("Startup Edge").
				Description("Edge to pin to on launch").
				Options(edgeOpts...).
				Value(&w.fEdge),
			huh.NewInput().
				Key("x").
				Title("Startup X").
				Description("Leave X and Y empty to use the edge").
				Validate(optionalInt).
				Value(&w.fStartX),
			huh.NewInput().
				Key("y").
				Title("Startup Y").
				Validate(optionalInt).
				Value(&w.fStartY),
			huh.NewConfirm().
				Key("notifications").
				Title("Desktop Notifications").
				Value(&w.fNotifications),
		),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)

	w.editing = true
}

func (w *WindowTab) applyForm() {
	if w.cfg == nil {
		return
	}
	if t := strings.TrimSpace(w.fTitle); t != "" {
		w.cfg.Window.Title = t
	}
	if v, err := strconv.Atoi(w.fThickness); err == nil && v > 0 {
		w.cfg.Window.Thickness = v
	}
	if v, err := strconv.Atoi(w.fVertical); err == nil && v > 0 {
		w.cfg.Window.Expanded.Vertical = v
	}
	if v, err := strconv.Atoi(w.fHorizontal); err == nil && v > 0 {
		w.cfg.Window.Expanded.Horizontal = v
	}
	w.cfg.Window.AlwaysOnTop = w.fAlwaysOnTop
	w.cfg.Startup.Edge = w.fEdge

	x, errX := strconv.Atoi(strings.TrimSpace(w.fStartX))
	y, errY := strconv.Atoi(strings.TrimSpace(w.fStartY))
	if errX == nil && errY == nil {
		w.cfg.Startup.X, w.cfg.Startup.Y = &x, &y
	} else {
		w.cfg.Startup.X, w.cfg.Startup.Y = nil, nil
	}
	w.cfg.Notifications.Enabled = w.fNotifications
}

func (w WindowTab) View() string {
	if w.editing && w.form != nil {
		return viewEditing("Editing Window Settings", w.form, w.width, w.height)
	}
	cfg := w.cfg
	if cfg == nil {
		return dimStyle.Width(w.width).Height(w.height).Align(lipgloss.Center, lipgloss.Center).Render("No config loaded")
	}

	startup := "(framework default)"
	switch {
	case cfg.Startup.HasPoint():
		startup = fmt.Sprintf("(%d, %d)", *cfg.Startup.X, *cfg.Startup.Y)
	case cfg.Startup.Edge != "":
		startup = "pinned " + cfg.Startup.Edge
	}

	lines := []string{
		"",
		row("Title", cfg.Window.Title),
		row("Thickness", strconv.Itoa(cfg.Window.Thickness)),
		row("Expanded", fmt.Sprintf("vertical:%d horizontal:%d", cfg.Window.Expanded.Vertical, cfg.Window.Expanded.Horizontal)),
		row("Always On Top", strconv.FormatBool(cfg.Window.AlwaysOnTop)),
		"",
		row("Startup", startup),
		row("Fallback Screen", fmt.Sprintf("%dx%d", cfg.Screen.Width, cfg.Screen.Height)),
		row("Notifications", strconv.FormatBool(cfg.Notifications.Enabled)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return lipgloss.NewStyle().Width(w.width).Height(w.height).Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func viewEditing(title string, form *huh.Form, width, height int) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render(title) +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(header + "\n\n" + form.View())
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func optionalInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}
