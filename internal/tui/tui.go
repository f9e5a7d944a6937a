// Package tui is the interactive config editor behind `remmeter config edit`.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/remmeter/internal/config"
)

// Run opens the editor on the config file at configPath (the default path
// when empty) and blocks until the user quits.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config editor requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	// A broken file is shown inline rather than refusing to start.
	res, err := config.LoadFromPath(configPath)

	p := tea.NewProgram(newModel(configPath, res, err), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("config editor: %w", err)
	}
	return nil
}
