package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/repositories"
	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/desertthunder/photoyarn/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI on the intake screen.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.runTUI(ctx, cmd, models.IntakeRoute)
}

// tuiSessionID behaves like opening a new tab: the intake screen gets a fresh session unless one is named.
func (r *Runner) tuiSessionID(cmd *cli.Command, start models.Route) string {
	if start == models.IntakeRoute && cmd.String("session") == "" && r.config.Session.ID == "" {
		return shared.GenerateID()
	}
	return r.sessionID(cmd)
}

func (r *Runner) runTUI(ctx context.Context, cmd *cli.Command, start models.Route) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	sessionID := r.tuiSessionID(cmd, start)
	logger := shared.WithLogger(fileLogger, "session", sessionID)

	var storage models.Storage
	if cmd.Bool("ephemeral") {
		storage = repositories.NewMemoryStorage()
	} else {
		s, closeDB, err := r.openStorage(sessionID)
		if err != nil {
			return err
		}
		defer closeDB()
		storage = s
	}

	model := ui.NewModel(ctx, ui.Deps{
		Uploader:   r.uploader,
		Storage:    storage,
		Policy:     intake.NewPolicy(r.config.Upload.AllowedExtensions...),
		StorageKey: r.storageKey(),
		BaseURL:    r.config.Backend.BaseURL,
		Logger:     logger,
		Start:      start,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if !cmd.Bool("ephemeral") {
		r.writePlain("Session: %s\n", sessionID)
	}
	return nil
}
