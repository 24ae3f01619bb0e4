package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/apx/internal/formatter"
	"github.com/desertthunder/apx/internal/shared"
	"github.com/desertthunder/apx/internal/tasks"
	"github.com/desertthunder/apx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI over a parsed export file.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	inPath := cmd.String("in")
	if inPath == "" {
		return fmt.Errorf("%w: --in is required (path to the Apple Music export)", shared.ErrMissingArgument)
	}
	playlistName := cmd.String("playlist")
	if playlistName == "" {
		return fmt.Errorf("%w: --playlist is required (destination playlist name)", shared.ErrMissingArgument)
	}
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("%w: export file not found: %s", shared.ErrInvalidInput, inPath)
	}

	tracks, err := r.parser.ReadFile(inPath)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %s has no usable rows", shared.ErrEmptyExport, inPath)
	}

	if err := r.ensureAuthenticated(ctx, cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/apx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := tasks.NewMigrationEngine(tasks.EngineOpts{
		Service:  r.spotify,
		Reporter: formatter.NewMissReporter(cmd.String("report")),
	})

	model := ui.NewModel(ctx, engine, tracks, playlistName, cmd.Bool("public"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
