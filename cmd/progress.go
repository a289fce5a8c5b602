package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmigrate/internal/formatter"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/desertthunder/ytmigrate/internal/tasks"
	"github.com/desertthunder/ytmigrate/internal/ui"
	"github.com/urfave/cli/v3"
)

// ProgressShow prints the progress file, or opens the dashboard with --tui.
func (r *Runner) ProgressShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.loadStore()
	if err != nil {
		return err
	}

	if cmd.Bool("tui") {
		return r.progressTUI(ctx, store.State())
	}

	if cmd.Bool("json") {
		return r.writeJSON(store.State(), cmd.Bool("pretty"))
	}

	r.writePlain("Progress file: %s\n\n", store.Path())
	return r.writeBytes(formatter.ProgressText(store.State()))
}

// progressTUI launches the interactive dashboard over state.
func (r *Runner) progressTUI(ctx context.Context, state progress.State) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = filepath.Join("tmp", "ytmigrate-tui.log")
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, state, ui.Options{
		Reload: func() (progress.State, error) {
			store, err := r.loadStore()
			if err != nil {
				return progress.State{}, err
			}
			return store.State(), nil
		},
		Migrate: func(ctx context.Context, prog chan<- tasks.ProgressUpdate) (*tasks.RunSummary, error) {
			opts, err := r.migrateOpts(0, nil)
			if err != nil {
				return nil, err
			}
			summary, _, err := r.migrate(ctx, prog, opts)
			return summary, err
		},
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
