package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/apx/internal/repositories"
	"github.com/desertthunder/apx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheList shows cached track matches, optionally filtered by artist.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.String("artist")

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewMatchRepository(db)

	criteria := map[string]any{}
	if artist != "" {
		criteria["artist"] = artist
	}

	matches, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached matches: %w", err)
	}

	if len(matches) == 0 {
		return r.writePlain("No cached matches.\n")
	}

	r.writePlain("Cached matches: %d\n\n", len(matches))
	for i, m := range matches {
		record := m.Track()
		r.writePlain("%d. %s - %s", i+1, record.Artist, record.Title)
		if record.HasAlbum() {
			r.writePlain(" (%s)", record.Album)
		}
		r.writePlain("\n   Track ID: %s (level %d)\n", m.TrackID(), m.Level())
	}

	return nil
}

// CacheClear soft deletes all cached matches.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewMatchRepository(db)

	count, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear match cache: %w", err)
	}

	r.logger.Infof("cleared %v cached matches", count)
	return r.writePlain("✓ Cleared %d cached matches\n", count)
}
