// package models defines the data model for the playlist migration tool
package models

import (
	"fmt"
	"strings"
	"time"
)

// Track is a single entry parsed from a library export file.
//
// Title and Artist are always non-empty after parsing. Album is the empty
// string when the export carried no album (or only whitespace) for the row.
type Track struct {
	Title  string
	Artist string
	Album  string
}

// HasAlbum reports whether the source row carried an album value.
func (t Track) HasAlbum() bool {
	return t.Album != ""
}

func (t Track) String() string {
	if t.HasAlbum() {
		return fmt.Sprintf("%s - %s (%s)", t.Artist, t.Title, t.Album)
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// CatalogTrack is a ranked search hit from the remote catalog. The ID is the
// opaque catalog track identifier appended to playlists.
type CatalogTrack struct {
	ID     string
	Title  string
	Artist string
	Album  string
	URI    string
}

// PlaylistPage is one page of the account's playlists.
type PlaylistPage struct {
	Items   []Playlist
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// MatchResult is the outcome of resolving one Track against the remote
// catalog: either an opaque catalog track ID or a miss carrying the original.
type MatchResult struct {
	Source  Track
	TrackID string // empty on a miss
	Level   int    // 1-based ladder level that produced the match, 0 on a miss
}

// Matched reports whether the record resolved to a catalog track.
func (m MatchResult) Matched() bool {
	return m.TrackID != ""
}

// Playlist represents a playlist on the destination service.
type Playlist struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	TrackCount  int
	Public      bool
}

// User represents the authenticated account identity.
type User struct {
	ID          string
	DisplayName string
}

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// PersistedMatch is a cached search resolution stored in the match database.
type PersistedMatch struct {
	id        string
	sequence  int
	track     Track
	trackID   string
	level     int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedMatch builds a PersistedMatch for a freshly resolved record.
func NewPersistedMatch(sequence int, track Track, trackID string, level int) *PersistedMatch {
	now := time.Now()
	return &PersistedMatch{
		sequence:  sequence,
		track:     track,
		trackID:   trackID,
		level:     level,
		createdAt: now,
		updatedAt: now,
	}
}

// RestorePersistedMatch rebuilds a PersistedMatch from database columns.
func RestorePersistedMatch(id string, sequence int, track Track, trackID string, level int, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedMatch {
	return &PersistedMatch{
		id:        id,
		sequence:  sequence,
		track:     track,
		trackID:   trackID,
		level:     level,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (m *PersistedMatch) ID() string            { return m.id }
func (m *PersistedMatch) Sequence() int         { return m.sequence }
func (m *PersistedMatch) Track() Track          { return m.track }
func (m *PersistedMatch) TrackID() string       { return m.trackID }
func (m *PersistedMatch) Level() int            { return m.level }
func (m *PersistedMatch) CreatedAt() time.Time  { return m.createdAt }
func (m *PersistedMatch) UpdatedAt() time.Time  { return m.updatedAt }
func (m *PersistedMatch) DeletedAt() *time.Time { return m.deletedAt }

func (m *PersistedMatch) SetID(id string)           { m.id = id }
func (m *PersistedMatch) SetUpdatedAt(ts time.Time) { m.updatedAt = ts }

// Validate checks the cached match carries the fields the schema requires.
func (m *PersistedMatch) Validate() error {
	if m.id == "" {
		return fmt.Errorf("match ID is required")
	}
	if strings.TrimSpace(m.track.Title) == "" {
		return fmt.Errorf("match title is required")
	}
	if strings.TrimSpace(m.track.Artist) == "" {
		return fmt.Errorf("match artist is required")
	}
	if m.trackID == "" {
		return fmt.Errorf("match track ID is required")
	}
	return nil
}
