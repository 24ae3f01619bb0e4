package tasks

import (
	"fmt"

	"github.com/desertthunder/apx/internal/models"
)

// ProgressUpdate represents a progress event during a migration run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveIdentity Phase = iota
	EnsurePlaylist
	ResolveTracks
	AppendTracks
	WriteReport
	Done
)

func (p Phase) String() string {
	switch p {
	case ResolveIdentity:
		return "resolve_identity"
	case EnsurePlaylist:
		return "ensure_playlist"
	case ResolveTracks:
		return "resolve_tracks"
	case AppendTracks:
		return "append_tracks"
	case WriteReport:
		return "write_report"
	case Done:
		return "done"
	default:
		return ""
	}
}

func identityUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveIdentity,
		Step:    1,
		Total:   1,
		Message: "Resolving account identity...",
	}
}

func ensurePlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsurePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking for playlist '%s'...", name),
	}
}

func playlistReadyUpdate(pl *models.Playlist, created bool) ProgressUpdate {
	msg := fmt.Sprintf("Adding to existing playlist: %s", pl.Name)
	if created {
		msg = fmt.Sprintf("Created playlist: %s", pl.Name)
	}
	return ProgressUpdate{
		Phase:   EnsurePlaylist,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    pl,
	}
}

func resolveUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Matched %d/%d…", step, total),
	}
}

func appendUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Appending %d tracks...", count),
	}
}

func reportUpdate(count int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d misses to %s", count, path),
	}
}

func doneUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d tracks, missed %d", result.AddedCount, result.MissedCount),
		Data:    result,
	}
}
