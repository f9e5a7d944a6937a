package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/remmeter/internal/config"
)

var errNoChanges = errors.New("no changes to save")

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// diffContextLines is how many unchanged YAML lines surround each change.
const diffContextLines = 2

// SaveOverlay previews the YAML that ctrl+s would write and writes it on
// confirm. The running bar only reads its config at launch.
type SaveOverlay struct {
	phase savePhase
	diff  []diffLine
	top   int // first visible diff line
	err   error
}

func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// SaveSucceeded reports whether the overlay is showing a successful write.
func (s SaveOverlay) SaveSucceeded() bool { return s.phase == saveResult && s.err == nil }

// Show opens the preview, or a "no changes" notice when the configs render
// to the same YAML.
func (s *SaveOverlay) Show(saved, edited *config.Config) {
	*s = SaveOverlay{diff: diffConfigs(saved, edited)}
	if len(s.diff) == 0 {
		s.phase, s.err = saveResult, errNoChanges
		return
	}
	s.phase = savePreview
}

func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}
	if s.phase != savePreview {
		return s
	}

	switch km.String() {
	case "enter", "y":
		s.err = cfg.SaveTo(path)
		s.phase = saveResult
	case "esc", "n":
		s.phase = saveHidden
	case "down", "j":
		s.top++
	case "up", "k":
		s.top = max(s.top-1, 0)
	}
	return s
}

var (
	overlayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	overlayTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	saveOK       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	saveFailed   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	diffMarks = map[diffKind]struct {
		prefix string
		style  lipgloss.Style
	}{
		diffContext: {"  ", lipgloss.NewStyle().Foreground(lipgloss.Color("245"))},
		diffRemoved: {"- ", lipgloss.NewStyle().Foreground(lipgloss.Color("196"))},
		diffAdded:   {"+ ", lipgloss.NewStyle().Foreground(lipgloss.Color("42"))},
	}
)

// View renders the overlay centred in a width x height content area.
func (s SaveOverlay) View(width, height int) string {
	var body string
	boxW := min(max(width-8, 30), 80)

	switch s.phase {
	case savePreview:
		// Rows taken by the title, footer, blank lines, border and padding.
		rows := max(height-10, 3)
		first := min(s.top, max(len(s.diff)-rows, 0))
		last := min(first+rows, len(s.diff))
		textW := max(boxW-8, 8)

		var b strings.Builder
		b.WriteString(overlayTitle.Render("Save config: pending changes") + "\n\n")
		for _, dl := range s.diff[first:last] {
			mark := diffMarks[dl.kind]
			text := dl.text
			if len(text) > textW {
				text = text[:textW]
			}
			b.WriteString(mark.style.Render(mark.prefix+text) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter: save  esc: cancel  j/k: scroll"))
		body = b.String()

	case saveResult:
		boxW = min(boxW, 60)
		if s.err != nil {
			body = saveFailed.Render("Error: " + s.err.Error())
		} else {
			body = saveOK.Render("Config saved; restart remmeter to apply")
		}
		body += "\n\n" + dimStyle.Render("press any key to dismiss")

	default:
		return ""
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlayBox.Width(boxW).Render(body))
}

// diffConfigs returns the changed YAML lines between two configs, grouped
// into hunks with a "..." line between them. It is empty when nothing changed.
func diffConfigs(saved, edited *config.Config) []diffLine {
	a, err := yamlLines(saved)
	if err != nil {
		return nil
	}
	b, err := yamlLines(edited)
	if err != nil {
		return nil
	}

	var out []diffLine
	changed := false
	emit := func(kind diffKind, lines []string) {
		for _, l := range lines {
			out = append(out, diffLine{kind: kind, text: l})
		}
	}
	for i, hunk := range difflib.NewMatcher(a, b).GetGroupedOpCodes(diffContextLines) {
		if i > 0 {
			out = append(out, diffLine{kind: diffContext, text: "..."})
		}
		for _, op := range hunk {
			switch op.Tag {
			case 'e':
				emit(diffContext, a[op.I1:op.I2])
				continue
			case 'd', 'r':
				emit(diffRemoved, a[op.I1:op.I2])
			}
			if op.Tag == 'i' || op.Tag == 'r' {
				emit(diffAdded, b[op.J1:op.J2])
			}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return out
}

func yamlLines(cfg *config.Config) ([]string, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

// cloneConfig deep-copies cfg through YAML, the same form that is diffed
// and saved.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
