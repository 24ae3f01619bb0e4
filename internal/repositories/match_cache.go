package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/apx/internal/models"
)

// MatchCacheAdapter implements tasks.MatchCacher using MatchRepository.
//
// Cache writes are best effort: a record that already has a cached
// resolution is silently left alone (UNIQUE constraint on the record fields).
type MatchCacheAdapter struct {
	repo *MatchRepository
}

// NewMatchCacheAdapter creates a new MatchCacheAdapter with the given repository
func NewMatchCacheAdapter(repo *MatchRepository) *MatchCacheAdapter {
	return &MatchCacheAdapter{repo: repo}
}

// Lookup returns the cached catalog track ID for a record, or "" when the
// record has never been resolved.
func (a *MatchCacheAdapter) Lookup(track models.Track) (string, bool) {
	match, err := a.repo.GetByRecord(track)
	if err != nil || match == nil {
		return "", false
	}
	return match.TrackID(), true
}

// Store caches a resolved record. Duplicates are not an error.
func (a *MatchCacheAdapter) Store(track models.Track, trackID string, level int) error {
	if existing, err := a.repo.GetByRecord(track); err == nil && existing != nil {
		return nil
	}

	match := models.NewPersistedMatch(0, track, trackID, level)

	if err := a.repo.Create(match); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache match: %w", err)
	}

	return nil
}
