package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/services"
	"github.com/desertthunder/apx/internal/shared"
)

const (
	// Page size while scanning the account's playlists for a name match.
	playlistPageSize = 50

	// Track IDs per append call; the Spotify API cap.
	appendBatchSize = 100

	// Description attached to playlists this tool creates.
	playlistDescription = "Imported from Apple Music export"
)

// Synchronizer finds or creates the destination playlist and appends resolved
// track IDs in bounded batches. It is the only component mutating remote state.
type Synchronizer struct {
	library services.LibraryClient
}

// NewSynchronizer creates a Synchronizer over the given library capability.
func NewSynchronizer(library services.LibraryClient) *Synchronizer {
	return &Synchronizer{library: library}
}

// EnsurePlaylist scans the account's playlists page by page for one matching
// name and owner, creating it when absent. The first match in listing order
// wins when several playlists share the name. The second return reports
// whether a playlist was created.
func (s *Synchronizer) EnsurePlaylist(ctx context.Context, user *models.User, name string, public bool) (*models.Playlist, bool, error) {
	if user == nil || user.ID == "" {
		return nil, false, fmt.Errorf("%w: no account identity", shared.ErrNotAuthenticated)
	}

	offset := 0
	for {
		page, err := s.library.UserPlaylists(ctx, playlistPageSize, offset)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list playlists: %w", err)
		}

		for _, pl := range page.Items {
			if pl.Name == name && pl.OwnerID == user.ID {
				found := pl
				return &found, false, nil
			}
		}

		if !page.HasMore {
			break
		}
		offset += playlistPageSize
	}

	created, err := s.library.CreatePlaylist(ctx, user.ID, name, public, playlistDescription)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create playlist: %w", err)
	}

	return created, true, nil
}

// AppendTracks issues one append call per batch of at most appendBatchSize
// IDs, preserving order across batch boundaries. Returns the number of calls
// issued; zero IDs issue zero calls.
//
// No deduplication is performed against tracks already in the playlist;
// re-running against a reused playlist appends duplicates.
func (s *Synchronizer) AppendTracks(ctx context.Context, playlistID string, trackIDs []string) (int, error) {
	batches := chunk(trackIDs, appendBatchSize)
	for i, batch := range batches {
		if err := s.library.AddTracks(ctx, playlistID, batch); err != nil {
			return i, fmt.Errorf("failed to append batch %d/%d: %w", i+1, len(batches), err)
		}
	}
	return len(batches), nil
}

// chunk partitions ids into slices of at most size elements, in order.
func chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}

	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
