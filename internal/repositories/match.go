package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
)

// MatchRepository implements models.Repository[*models.PersistedMatch] for the
// search-resolution cache.
//
// A cached match maps a parsed (title, artist, album) record to the catalog
// track ID a previous run resolved it to, keyed uniquely on the record fields.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a new [models.PersistedMatch] into the database with generated ID and sequence
func (r *MatchRepository) Create(match *models.PersistedMatch) error {
	sequence, err := NextSequence(r.db, "matches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	match.SetID(id)

	if err := match.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO matches (id, sequence, title, artist, album, track_id, query_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	track := match.Track()
	_, err = r.db.Exec(query,
		id,
		sequence,
		track.Title,
		track.Artist,
		track.Album,
		match.TrackID(),
		match.Level(),
		match.CreatedAt(),
		match.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

// Get retrieves a match by ID, excluding soft-deleted matches
func (r *MatchRepository) Get(id string) (*models.PersistedMatch, error) {
	query := `
		SELECT id, sequence, title, artist, album, track_id, query_level, created_at, updated_at, deleted_at
		FROM matches
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRecord retrieves a cached match for a parsed source record.
func (r *MatchRepository) GetByRecord(track models.Track) (*models.PersistedMatch, error) {
	query := `
		SELECT id, sequence, title, artist, album, track_id, query_level, created_at, updated_at, deleted_at
		FROM matches
		WHERE title = ? AND artist = ? AND album = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, track.Title, track.Artist, track.Album))
}

// Update modifies an existing match in the database
func (r *MatchRepository) Update(match *models.PersistedMatch) error {
	if err := match.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	match.SetUpdatedAt(now)

	query := `
		UPDATE matches
		SET track_id = ?, query_level = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, match.TrackID(), match.Level(), now, match.ID())
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("match not found or already deleted: %s", match.ID())
	}

	return nil
}

// Delete soft-deletes a match by ID
func (r *MatchRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE matches
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("match not found or already deleted: %s", id)
	}

	return nil
}

// Clear soft-deletes every cached match and returns the number removed.
func (r *MatchRepository) Clear() (int, error) {
	result, err := r.db.Exec("UPDATE matches SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear matches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// List retrieves all matches matching the given criteria, excluding soft-deleted matches
func (r *MatchRepository) List(criteria map[string]any) ([]*models.PersistedMatch, error) {
	query := `
		SELECT id, sequence, title, artist, album, track_id, query_level, created_at, updated_at, deleted_at
		FROM matches
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if trackID, ok := criteria["track_id"].(string); ok && trackID != "" {
		query += " AND track_id = ?"
		args = append(args, trackID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.PersistedMatch
	for rows.Next() {
		match, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return matches, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedMatch]
func (r *MatchRepository) scanOne(row *sql.Row) (*models.PersistedMatch, error) {
	var (
		id        string
		sequence  int
		title     string
		artist    string
		album     string
		trackID   string
		level     int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &title, &artist, &album, &trackID, &level, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	return restore(id, sequence, title, artist, album, trackID, level, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedMatch]
func (r *MatchRepository) scanRow(rows *sql.Rows) (*models.PersistedMatch, error) {
	var (
		id        string
		sequence  int
		title     string
		artist    string
		album     string
		trackID   string
		level     int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &title, &artist, &album, &trackID, &level, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	return restore(id, sequence, title, artist, album, trackID, level, createdAt, updatedAt, deletedAt), nil
}

func restore(id string, sequence int, title, artist, album, trackID string, level int, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.PersistedMatch {
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	track := models.Track{Title: title, Artist: artist, Album: album}
	return models.RestorePersistedMatch(id, sequence, track, trackID, level, createdAt, updatedAt, deleted)
}
