package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/desertthunder/shrtx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/shrtx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.session, r.urls, r.google)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Any 401 anywhere forces the TUI back to the login view.
	r.api.SetSessionExpiredHook(func() {
		p.Send(ui.SessionExpiredMsg{})
	})
	defer r.api.SetSessionExpiredHook(nil)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
