package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newMatch(title, artist, album, trackID string, level int) *models.PersistedMatch {
	return models.NewPersistedMatch(0, models.Track{Title: title, Artist: artist, Album: album}, trackID, level)
}

func TestMatchRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		match := newMatch("Song A", "Artist A", "Album A", "sp-a", 1)
		if err := repo.Create(match); err != nil {
			t.Fatalf("failed to create match: %v", err)
		}

		if match.ID() == "" {
			t.Error("match ID should be set after creation")
		}
	})

	t.Run("Create assigns increasing sequences", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		first := newMatch("Song A", "Artist A", "", "sp-a", 2)
		second := newMatch("Song B", "Artist B", "", "sp-b", 3)
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first match: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second match: %v", err)
		}

		got, err := repo.Get(second.ID())
		if err != nil {
			t.Fatalf("failed to get match: %v", err)
		}
		if got.Sequence() <= 0 {
			t.Errorf("sequence = %d, want positive", got.Sequence())
		}
	})

	t.Run("Create rejects duplicate records", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		if err := repo.Create(newMatch("Song A", "Artist A", "Album A", "sp-a", 1)); err != nil {
			t.Fatalf("failed to create match: %v", err)
		}
		if err := repo.Create(newMatch("Song A", "Artist A", "Album A", "sp-other", 2)); err == nil {
			t.Error("expected unique constraint violation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		match := newMatch("Song A", "Artist A", "Album A", "sp-a", 1)
		if err := repo.Create(match); err != nil {
			t.Fatalf("failed to create match: %v", err)
		}

		got, err := repo.Get(match.ID())
		if err != nil {
			t.Fatalf("failed to get match: %v", err)
		}
		if got.TrackID() != "sp-a" {
			t.Errorf("TrackID = %q, want sp-a", got.TrackID())
		}
		if got.Track().Title != "Song A" {
			t.Errorf("Title = %q, want Song A", got.Track().Title)
		}
		if got.Level() != 1 {
			t.Errorf("Level = %d, want 1", got.Level())
		}
	})

	t.Run("Get missing ID", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected error for missing match")
		}
	})

	t.Run("GetByRecord", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		track := models.Track{Title: "Song A", Artist: "Artist A", Album: "Album A"}
		if err := repo.Create(models.NewPersistedMatch(0, track, "sp-a", 1)); err != nil {
			t.Fatalf("failed to create match: %v", err)
		}

		got, err := repo.GetByRecord(track)
		if err != nil {
			t.Fatalf("failed to get by record: %v", err)
		}
		if got.TrackID() != "sp-a" {
			t.Errorf("TrackID = %q, want sp-a", got.TrackID())
		}

		// Album is part of the key.
		if _, err := repo.GetByRecord(models.Track{Title: "Song A", Artist: "Artist A"}); err == nil {
			t.Error("expected no match for a different album")
		}
	})

	t.Run("Delete soft deletes", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		match := newMatch("Song A", "Artist A", "", "sp-a", 1)
		if err := repo.Create(match); err != nil {
			t.Fatalf("failed to create match: %v", err)
		}
		if err := repo.Delete(match.ID()); err != nil {
			t.Fatalf("failed to delete match: %v", err)
		}

		if _, err := repo.Get(match.ID()); err == nil {
			t.Error("expected deleted match to be invisible")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		for _, m := range []*models.PersistedMatch{
			newMatch("Song A", "Artist A", "", "sp-a", 1),
			newMatch("Song B", "Artist B", "", "sp-b", 2),
		} {
			if err := repo.Create(m); err != nil {
				t.Fatalf("failed to create match: %v", err)
			}
		}

		count, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if count != 2 {
			t.Errorf("cleared %d, want 2", count)
		}

		matches, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("listed %d matches after clear, want 0", len(matches))
		}
	})

	t.Run("List filters by artist", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		for _, m := range []*models.PersistedMatch{
			newMatch("Song A", "Artist A", "", "sp-a", 1),
			newMatch("Song B", "Artist B", "", "sp-b", 2),
			newMatch("Song C", "Artist A", "Album C", "sp-c", 1),
		} {
			if err := repo.Create(m); err != nil {
				t.Fatalf("failed to create match: %v", err)
			}
		}

		matches, err := repo.List(map[string]any{"artist": "Artist A"})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(matches) != 2 {
			t.Errorf("listed %d matches, want 2", len(matches))
		}
	})
}

func TestMatchCacheAdapter(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cache := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))

		track := models.Track{Title: "Song A", Artist: "Artist A", Album: "Album A"}
		if _, ok := cache.Lookup(track); ok {
			t.Fatal("expected empty cache")
		}

		if err := cache.Store(track, "sp-a", 1); err != nil {
			t.Fatalf("failed to store: %v", err)
		}

		id, ok := cache.Lookup(track)
		if !ok || id != "sp-a" {
			t.Errorf("Lookup = (%q, %v), want (sp-a, true)", id, ok)
		}
	})

	t.Run("storing a duplicate record is not an error", func(t *testing.T) {
		cache := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))

		track := models.Track{Title: "Song A", Artist: "Artist A"}
		if err := cache.Store(track, "sp-a", 1); err != nil {
			t.Fatalf("failed to store: %v", err)
		}
		if err := cache.Store(track, "sp-a", 1); err != nil {
			t.Errorf("duplicate store errored: %v", err)
		}
	})
}
