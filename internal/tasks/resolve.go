package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/services"
)

const (
	// Ranked results requested per search query.
	searchLimit = 5

	// Courtesy pause between fallback levels after an empty result.
	courtesyDelay = 50 * time.Millisecond
)

// queryBuilder builds one search query for a record. An empty return means
// the level does not apply to this record and is skipped.
type queryBuilder func(t models.Track) string

// queryLadder is the ordered fallback sequence, strict to loose. Each level
// is tried until one yields a non-empty result set.
var queryLadder = []queryBuilder{
	func(t models.Track) string {
		if !t.HasAlbum() {
			return ""
		}
		return fmt.Sprintf(`track:"%s" artist:"%s" album:"%s"`, t.Title, t.Artist, t.Album)
	},
	func(t models.Track) string {
		return fmt.Sprintf(`track:"%s" artist:"%s"`, t.Title, t.Artist)
	},
	func(t models.Track) string {
		return fmt.Sprintf("%s %s", t.Title, t.Artist)
	},
	func(t models.Track) string {
		return t.Title
	},
}

// MatchCacher persists resolved matches across runs. Implementations must
// treat both operations as best effort; a cache failure never fails a run.
type MatchCacher interface {
	// Lookup returns the cached catalog track ID for a record, if any.
	Lookup(track models.Track) (string, bool)

	// Store caches a resolved record.
	Store(track models.Track, trackID string, level int) error
}

// Resolver resolves parsed records to catalog track IDs via the fallback
// search ladder. Matching quality is bounded by the remote ranking; the
// resolver itself performs no scoring, it takes the first hit of the first
// level that returns anything.
type Resolver struct {
	search   services.SearchClient
	limit    int
	courtesy time.Duration
	cache    MatchCacher
}

// ResolverOpts contains configuration options for creating a Resolver.
type ResolverOpts struct {
	Search   services.SearchClient
	Limit    int           // results per query, default 5
	Courtesy time.Duration // delay between levels, default 50ms; negative disables
	Cache    MatchCacher   // optional
}

// NewResolver creates a Resolver with the provided options.
func NewResolver(opts ResolverOpts) *Resolver {
	if opts.Limit <= 0 {
		opts.Limit = searchLimit
	}
	if opts.Courtesy == 0 {
		opts.Courtesy = courtesyDelay
	}
	if opts.Courtesy < 0 {
		opts.Courtesy = 0
	}

	return &Resolver{
		search:   opts.Search,
		limit:    opts.Limit,
		courtesy: opts.Courtesy,
		cache:    opts.Cache,
	}
}

// Resolve runs the fallback ladder for one record. A nil error with an
// unmatched result is a miss; search errors propagate immediately and abort
// the run upstream.
func (r *Resolver) Resolve(ctx context.Context, track models.Track) (models.MatchResult, error) {
	miss := models.MatchResult{Source: track}

	if r.cache != nil {
		if id, ok := r.cache.Lookup(track); ok {
			return models.MatchResult{Source: track, TrackID: id}, nil
		}
	}

	for i, build := range queryLadder {
		query := build(track)
		if query == "" {
			continue
		}

		results, err := r.search.SearchTracks(ctx, query, r.limit)
		if err != nil {
			return miss, fmt.Errorf("search failed for %q: %w", track.String(), err)
		}

		if len(results) > 0 {
			matched := models.MatchResult{Source: track, TrackID: results[0].ID, Level: i + 1}
			if r.cache != nil {
				// Best effort; cache failures never disrupt a run.
				_ = r.cache.Store(track, matched.TrackID, matched.Level)
			}
			return matched, nil
		}

		if r.courtesy > 0 {
			time.Sleep(r.courtesy)
		}
	}

	return miss, nil
}
