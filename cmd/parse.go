package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/apx/internal/formatter"
	"github.com/desertthunder/apx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Parse previews an export file without touching the network.
//
// Useful for checking what the dialect sniffer and header matching make of a
// file before running a migration.
func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	inPath := cmd.StringArg("path")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if inPath == "" {
		return fmt.Errorf("%w: path to an export file is required", shared.ErrMissingArgument)
	}
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("%w: export file not found: %s", shared.ErrInvalidInput, inPath)
	}

	tracks, err := r.parser.ReadFile(inPath)
	if err != nil {
		return err
	}

	r.logger.Infof("parsed %v tracks from %v", len(tracks), inPath)

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	if len(tracks) == 0 {
		return r.writePlain("No usable tracks found in %s\n", inPath)
	}

	r.writePlain("Parsed %d tracks from %s:\n\n", len(tracks), inPath)
	r.writePlain("%s", formatter.TracksText(tracks))

	return nil
}
