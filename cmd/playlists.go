package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/apx/internal/formatter"
	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the authenticated account's Spotify playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureAuthenticated(ctx, cmd); err != nil {
		return err
	}

	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := r.collectPlaylists(ctx)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if playlists, err = r.collectPlaylists(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s", i+1, formatter.PlaylistText(p))
	}

	return nil
}

// collectPlaylists walks every page of the account's playlists.
func (r *Runner) collectPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist

	offset := 0
	for {
		page, err := r.spotify.UserPlaylists(ctx, 50, offset)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, page.Items...)
		if !page.HasMore || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	return playlists, nil
}
