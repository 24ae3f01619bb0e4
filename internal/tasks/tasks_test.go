package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
	tu "github.com/desertthunder/apx/internal/testing"
)

// recordingReporter captures the misses the engine hands off.
type recordingReporter struct {
	path   string
	misses []models.Track
	err    error
	calls  int
}

func (r *recordingReporter) Write(misses []models.Track) (string, error) {
	r.calls++
	r.misses = misses
	if r.err != nil {
		return "", r.err
	}
	return r.path, nil
}

func newTestEngine(catalog *tu.StubCatalog, reporter MissReporter) *MigrationEngine {
	return NewMigrationEngine(EngineOpts{
		Service:  catalog,
		Resolver: NewResolver(ResolverOpts{Search: catalog, Courtesy: -1}),
		Reporter: reporter,
	})
}

func TestMigrationEngine_Run(t *testing.T) {
	tracks := []models.Track{
		{Title: "Song A", Artist: "Artist A", Album: "Album A"},
		{Title: "Song B", Artist: "Artist B", Album: "Album B"},
		{Title: "Song C", Artist: "Artist C"},
	}

	// Song A hits at the strictest level, Song C only via free text, Song B
	// never matches.
	searchFn := func(query string, limit int) ([]models.CatalogTrack, error) {
		switch {
		case strings.Contains(query, "Song A") && strings.Contains(query, "album"):
			return []models.CatalogTrack{{ID: "sp-a"}}, nil
		case query == "Song C Artist C":
			return []models.CatalogTrack{{ID: "sp-c"}}, nil
		default:
			return nil, nil
		}
	}

	t.Run("full pipeline with partial misses", func(t *testing.T) {
		catalog := &tu.StubCatalog{SearchFn: searchFn}
		reporter := &recordingReporter{path: "misses.csv"}
		engine := newTestEngine(catalog, reporter)

		result, err := engine.Run(context.Background(), nil, RunOpts{
			Tracks:       tracks,
			PlaylistName: "Road Trip",
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if result.TotalTracks != 3 {
			t.Errorf("TotalTracks = %d, want 3", result.TotalTracks)
		}
		if result.AddedCount != 2 {
			t.Errorf("AddedCount = %d, want 2", result.AddedCount)
		}
		if result.MissedCount != 1 {
			t.Errorf("MissedCount = %d, want 1", result.MissedCount)
		}
		if !result.CreatedPlaylist {
			t.Error("expected playlist creation")
		}
		if result.Batches != 1 {
			t.Errorf("Batches = %d, want 1", result.Batches)
		}
		if result.ReportPath != "misses.csv" {
			t.Errorf("ReportPath = %q, want misses.csv", result.ReportPath)
		}

		// Matched IDs append in source order.
		appended := catalog.Appends[result.Playlist.ID]
		if len(appended) != 1 {
			t.Fatalf("append calls = %d, want 1", len(appended))
		}
		if appended[0][0] != "sp-a" || appended[0][1] != "sp-c" {
			t.Errorf("appended batch = %v, want [sp-a sp-c]", appended[0])
		}

		if reporter.calls != 1 {
			t.Fatalf("reporter calls = %d, want 1", reporter.calls)
		}
		if len(reporter.misses) != 1 || reporter.misses[0].Title != "Song B" {
			t.Errorf("reported misses = %v, want [Song B]", reporter.misses)
		}
	})

	t.Run("no misses skips the report", func(t *testing.T) {
		catalog := &tu.StubCatalog{
			SearchFn: func(query string, limit int) ([]models.CatalogTrack, error) {
				return []models.CatalogTrack{{ID: "sp-x"}}, nil
			},
		}
		reporter := &recordingReporter{path: "misses.csv"}
		engine := newTestEngine(catalog, reporter)

		result, err := engine.Run(context.Background(), nil, RunOpts{
			Tracks:       tracks,
			PlaylistName: "Road Trip",
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if reporter.calls != 0 {
			t.Errorf("reporter calls = %d, want 0", reporter.calls)
		}
		if result.ReportPath != "" {
			t.Errorf("ReportPath = %q, want empty", result.ReportPath)
		}
	})

	t.Run("reuses an existing playlist", func(t *testing.T) {
		catalog := &tu.StubCatalog{
			User: models.User{ID: "user-1"},
			Pages: []models.PlaylistPage{
				{
					Items:  []models.Playlist{{ID: "pl-existing", Name: "Road Trip", OwnerID: "user-1"}},
					Offset: 0,
				},
			},
			SearchFn: searchFn,
		}
		engine := newTestEngine(catalog, nil)

		result, err := engine.Run(context.Background(), nil, RunOpts{
			Tracks:       tracks,
			PlaylistName: "Road Trip",
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.CreatedPlaylist {
			t.Error("expected existing playlist reuse")
		}
		if result.Playlist.ID != "pl-existing" {
			t.Errorf("playlist ID = %q, want pl-existing", result.Playlist.ID)
		}
		if len(catalog.Created) != 0 {
			t.Errorf("created %d playlists, want 0", len(catalog.Created))
		}
	})

	t.Run("re-running appends duplicates to the reused playlist", func(t *testing.T) {
		catalog := &tu.StubCatalog{
			User: models.User{ID: "user-1"},
			Pages: []models.PlaylistPage{
				{
					Items:  []models.Playlist{{ID: "pl-existing", Name: "Road Trip", OwnerID: "user-1"}},
					Offset: 0,
				},
			},
			SearchFn: func(query string, limit int) ([]models.CatalogTrack, error) {
				return []models.CatalogTrack{{ID: "sp-dup"}}, nil
			},
		}
		engine := newTestEngine(catalog, nil)

		opts := RunOpts{
			Tracks:       []models.Track{{Title: "Song A", Artist: "Artist A"}},
			PlaylistName: "Road Trip",
		}
		for run := 0; run < 2; run++ {
			if _, err := engine.Run(context.Background(), nil, opts); err != nil {
				t.Fatalf("Run() error on run %d = %v", run+1, err)
			}
		}

		batches := catalog.Appends["pl-existing"]
		if len(batches) != 2 {
			t.Fatalf("append batches = %d, want 2", len(batches))
		}
		for run, batch := range batches {
			if len(batch) != 1 || batch[0] != "sp-dup" {
				t.Errorf("run %d appended %v, want [sp-dup]", run+1, batch)
			}
		}
	})

	t.Run("empty export errors", func(t *testing.T) {
		engine := newTestEngine(&tu.StubCatalog{}, nil)

		_, err := engine.Run(context.Background(), nil, RunOpts{PlaylistName: "Road Trip"})
		if !errors.Is(err, shared.ErrEmptyExport) {
			t.Errorf("error = %v, want ErrEmptyExport", err)
		}
	})

	t.Run("missing playlist name errors", func(t *testing.T) {
		engine := newTestEngine(&tu.StubCatalog{}, nil)

		_, err := engine.Run(context.Background(), nil, RunOpts{Tracks: tracks})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("error = %v, want ErrMissingArgument", err)
		}
	})

	t.Run("nil service errors", func(t *testing.T) {
		engine := NewMigrationEngine(EngineOpts{})

		_, err := engine.Run(context.Background(), nil, RunOpts{Tracks: tracks, PlaylistName: "Road Trip"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("error = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("identity failure aborts", func(t *testing.T) {
		userErr := errors.New("401")
		engine := newTestEngine(&tu.StubCatalog{UserErr: userErr}, nil)

		_, err := engine.Run(context.Background(), nil, RunOpts{Tracks: tracks, PlaylistName: "Road Trip"})
		if !errors.Is(err, userErr) {
			t.Errorf("error = %v, want wrapped %v", err, userErr)
		}
	})

	t.Run("search failure aborts", func(t *testing.T) {
		searchErr := errors.New("rate limited")
		catalog := &tu.StubCatalog{
			SearchFn: func(query string, limit int) ([]models.CatalogTrack, error) {
				return nil, searchErr
			},
		}
		engine := newTestEngine(catalog, nil)

		_, err := engine.Run(context.Background(), nil, RunOpts{Tracks: tracks, PlaylistName: "Road Trip"})
		if !errors.Is(err, searchErr) {
			t.Errorf("error = %v, want wrapped %v", err, searchErr)
		}
	})

	t.Run("progress reports every 25 tracks", func(t *testing.T) {
		many := make([]models.Track, 60)
		for i := range many {
			many[i] = models.Track{Title: "Song", Artist: "Artist"}
		}
		catalog := &tu.StubCatalog{
			SearchFn: func(query string, limit int) ([]models.CatalogTrack, error) {
				return []models.CatalogTrack{{ID: "sp-x"}}, nil
			},
		}
		engine := newTestEngine(catalog, nil)

		progressCh := make(chan ProgressUpdate, 200)
		if _, err := engine.Run(context.Background(), progressCh, RunOpts{
			Tracks:       many,
			PlaylistName: "Road Trip",
		}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		close(progressCh)

		resolveUpdates := 0
		var phases []Phase
		for update := range progressCh {
			phases = append(phases, update.Phase)
			if update.Phase == ResolveTracks {
				resolveUpdates++
			}
		}

		// 60 tracks report at 25 and 50 only.
		if resolveUpdates != 2 {
			t.Errorf("resolve updates = %d, want 2", resolveUpdates)
		}
		if phases[len(phases)-1] != Done {
			t.Errorf("last phase = %v, want Done", phases[len(phases)-1])
		}
	})
}
