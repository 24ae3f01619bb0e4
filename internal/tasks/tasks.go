// package tasks implements the migration pipeline from a parsed export to a
// populated destination playlist.
//
// The core abstraction is MigrationEngine, which runs the strictly linear
// pipeline and emits progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/services"
	"github.com/desertthunder/apx/internal/shared"
)

// Progress cadence during track resolution.
const progressInterval = 25

// RunOpts describes one migration run.
type RunOpts struct {
	Tracks       []models.Track // parsed export records, in file order
	PlaylistName string         // destination playlist name
	Public       bool           // created-playlist visibility; default private
}

// RunResult contains all data from a completed migration run.
type RunResult struct {
	Playlist        *models.Playlist     // Destination playlist (found or created)
	CreatedPlaylist bool                 // Whether the playlist was created this run
	TotalTracks     int                  // Records processed
	AddedCount      int                  // Track IDs appended
	MissedCount     int                  // Records no fallback level resolved
	Batches         int                  // Append calls issued
	Matches         []models.MatchResult // Per-record outcomes, in source order
	Misses          []models.Track       // Missed records, in source order
	ReportPath      string               // Miss report location, "" when no misses
}

// MissReporter persists missed records for manual follow-up.
type MissReporter interface {
	// Write overwrites the report with the given records and returns its path.
	Write(misses []models.Track) (string, error)
}

// Engine defines the migration pipeline operation.
type Engine interface {
	// Run executes Parse → identify playlist → resolve all → append batches →
	// report misses. The pipeline is strictly linear: the first error aborts
	// the remainder with no rollback of remote state already mutated.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error)
}

// MigrationEngine implements [Engine] against a remote catalog service.
type MigrationEngine struct {
	service  services.Service
	resolver *Resolver
	sync     *Synchronizer
	reporter MissReporter
}

// EngineOpts contains dependencies for creating a MigrationEngine.
type EngineOpts struct {
	Service  services.Service
	Resolver *Resolver    // default: resolver over Service with default ladder settings
	Reporter MissReporter // optional; nil skips report writing
	Cache    MatchCacher  // optional; used only when Resolver is nil
}

// NewMigrationEngine creates a MigrationEngine with the provided dependencies.
func NewMigrationEngine(opts EngineOpts) *MigrationEngine {
	resolver := opts.Resolver
	if resolver == nil && opts.Service != nil {
		resolver = NewResolver(ResolverOpts{Search: opts.Service, Cache: opts.Cache})
	}

	return &MigrationEngine{
		service:  opts.Service,
		resolver: resolver,
		sync:     NewSynchronizer(opts.Service),
		reporter: opts.Reporter,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never blocks execution.
func (e *MigrationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the full migration pipeline.
func (e *MigrationEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	total := len(opts.Tracks)
	if total == 0 {
		return nil, fmt.Errorf("%w: no usable tracks in export", shared.ErrEmptyExport)
	}
	if opts.PlaylistName == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	result := &RunResult{TotalTracks: total}

	e.sendProgress(progress, identityUpdate())
	user, err := e.service.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account identity: %w", err)
	}

	e.sendProgress(progress, ensurePlaylistUpdate(opts.PlaylistName))
	playlist, created, err := e.sync.EnsurePlaylist(ctx, user, opts.PlaylistName, opts.Public)
	if err != nil {
		return nil, err
	}
	result.Playlist = playlist
	result.CreatedPlaylist = created
	e.sendProgress(progress, playlistReadyUpdate(playlist, created))

	matches := make([]models.MatchResult, 0, total)
	trackIDs := make([]string, 0, total)
	var misses []models.Track

	for i, track := range opts.Tracks {
		match, err := e.resolver.Resolve(ctx, track)
		if err != nil {
			return nil, err
		}

		matches = append(matches, match)
		if match.Matched() {
			trackIDs = append(trackIDs, match.TrackID)
		} else {
			misses = append(misses, track)
		}

		if (i+1)%progressInterval == 0 {
			e.sendProgress(progress, resolveUpdate(i+1, total))
		}
	}

	result.Matches = matches
	result.Misses = misses
	result.MissedCount = len(misses)
	result.AddedCount = len(trackIDs)

	e.sendProgress(progress, appendUpdate(len(trackIDs)))
	batches, err := e.sync.AppendTracks(ctx, playlist.ID, trackIDs)
	if err != nil {
		return nil, err
	}
	result.Batches = batches

	if len(misses) > 0 && e.reporter != nil {
		path, err := e.reporter.Write(misses)
		if err != nil {
			return nil, fmt.Errorf("failed to write miss report: %w", err)
		}
		result.ReportPath = path
		e.sendProgress(progress, reportUpdate(len(misses), path))
	}

	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}
