package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/apx/internal/formatter"
	"github.com/desertthunder/apx/internal/repositories"
	"github.com/desertthunder/apx/internal/shared"
	"github.com/desertthunder/apx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Migrate runs the full export → Spotify playlist pipeline.
//
// Parses the file named by --in, resolves each track through the fallback
// search ladder, appends matches to the playlist named by --playlist, and
// writes unmatched tracks to a CSV report.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	inPath := cmd.String("in")
	if inPath == "" {
		return fmt.Errorf("%w: --in is required (path to the Apple Music export)", shared.ErrMissingArgument)
	}
	playlistName := cmd.String("playlist")
	if playlistName == "" {
		return fmt.Errorf("%w: --playlist is required (destination playlist name)", shared.ErrMissingArgument)
	}
	public := cmd.Bool("public")
	reportPath := cmd.String("report")

	identity, err := r.config.Identity()
	if err != nil {
		return err
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

	r.logger.Info("export parsed", "path", inPath, "tracks", len(tracks), "user", identity)
	r.writePlain("Parsed %d tracks from %s\n", len(tracks), inPath)

	if err := r.ensureAuthenticated(ctx, cmd); err != nil {
		return err
	}

	cache, closeCache, err := r.openMatchCache(cmd)
	if err != nil {
		return err
	}
	if closeCache != nil {
		defer closeCache()
	}

	engine := tasks.NewMigrationEngine(tasks.EngineOpts{
		Service:  r.spotify,
		Reporter: formatter.NewMissReporter(reportPath),
		Cache:    cache,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolveIdentity:
				r.writePlain("→ %s\n", update.Message)
			case tasks.EnsurePlaylist:
				r.writePlain("→ %s\n", update.Message)
			case tasks.ResolveTracks:
				r.writePlain("  %s\n", update.Message)
			case tasks.AppendTracks:
				r.writePlain("→ %s\n", update.Message)
			case tasks.WriteReport:
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, tasks.RunOpts{
		Tracks:       tracks,
		PlaylistName: playlistName,
		Public:       public,
	})
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Migration Complete")
	r.writePlain("%s", formatter.SummaryText(result.Playlist.Name, result.AddedCount, result.MissedCount, result.ReportPath))

	return nil
}

// ensureAuthenticated authenticates the Spotify service with stored tokens.
func (r *Runner) ensureAuthenticated(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized (set client credentials in config.toml)", shared.ErrServiceUnavailable)
	}

	token := r.config.Credentials.Spotify.Token()
	if token["access_token"] == "" {
		return fmt.Errorf("%w: no stored tokens, run 'apx auth' first", shared.ErrNotAuthenticated)
	}

	if err := r.spotify.Authenticate(ctx, token); err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
				return authErr
			}
		}
		return err
	}
	return nil
}

// openMatchCache opens the local match cache when --cache is set.
//
// Returns a nil cache when caching is disabled; the engine treats that as
// a no-op and resolves every track against the API.
func (r *Runner) openMatchCache(cmd *cli.Command) (tasks.MatchCacher, func(), error) {
	if !cmd.Bool("cache") {
		return nil, nil, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open match cache: %w", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate match cache: %w", err)
	}

	repo := repositories.NewMatchRepository(db)
	return repositories.NewMatchCacheAdapter(repo), func() { db.Close() }, nil
}
