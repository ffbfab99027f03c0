// Package tui is the interactive config editor behind "termosd config edit".
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/ipc"
)

// Run opens the editor for the config at path (the default location when
// empty) and blocks until the user quits.
func Run(path string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	p := tea.NewProgram(newModel(path, ipc.NewClient()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
