package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/renato-scuola/musicflow/internal/player"
	"github.com/renato-scuola/musicflow/internal/services"
	"github.com/renato-scuola/musicflow/internal/shared"
	"github.com/renato-scuola/musicflow/internal/tasks"
	"github.com/renato-scuola/musicflow/internal/ui"
)

// Play launches the interactive terminal player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	cache, err := r.openCache()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/musicflow-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	session := tasks.NewSession(
		player.NewEngine(),
		services.NewTimerWidget(),
		store,
		r.acquisition,
		cache,
		fileLogger,
		r.config.Player.PollInterval(),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(ctx)
	defer session.Close()

	model := ui.NewModel(ctx, session, store)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "play",
		Usage:  "Open the interactive player",
		Action: r.Play,
	}
}
