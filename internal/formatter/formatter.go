// package formatter renders run artifacts: the miss report CSV and text summaries
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
)

// MissReportPath is the fixed, well-known report location in the working directory.
const MissReportPath = "misses.csv"

// MissesToCSV renders missed records as CSV with columns: Title, Artist, Album.
// The album column is blank for records without one.
func MissesToCSV(misses []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range misses {
		record := []string{track.Title, track.Artist, track.Album}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MissReporter writes the miss report to a fixed path, overwriting any prior
// report. Implements tasks.MissReporter.
type MissReporter struct {
	Path string
}

// NewMissReporter creates a reporter targeting path, or [MissReportPath] when empty.
func NewMissReporter(path string) *MissReporter {
	if path == "" {
		path = MissReportPath
	}
	return &MissReporter{Path: path}
}

// Write persists the missed records and returns the report path.
func (r *MissReporter) Write(misses []models.Track) (string, error) {
	data, err := MissesToCSV(misses)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(r.Path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write miss report: %w", err)
	}

	return r.Path, nil
}

// SummaryText renders the end-of-run summary shown after a migration.
func SummaryText(playlistName string, added, missed int, reportPath string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Added %d tracks to '%s'.\n", added, playlistName)
	if missed > 0 {
		fmt.Fprintf(&buf, "Could not match %d tracks. See '%s'.\n", missed, reportPath)
	}

	return buf.String()
}

// PlaylistText renders a playlist description block for CLI output.
func PlaylistText(pl models.Playlist) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", pl.Name)
	if pl.Description != "" {
		fmt.Fprintf(&buf, "   Description: %s\n", pl.Description)
	}
	fmt.Fprintf(&buf, "   ID: %s\n", pl.ID)
	fmt.Fprintf(&buf, "   Tracks: %d\n", pl.TrackCount)
	fmt.Fprintf(&buf, "   Visibility: %s\n", shared.VisibilityString(pl.Public))

	return buf.String()
}

// TracksText renders parsed export records as a numbered list.
func TracksText(tracks []models.Track) string {
	var buf bytes.Buffer

	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
		if track.HasAlbum() {
			fmt.Fprintf(&buf, "   Album: %s\n", track.Album)
		}
	}

	return buf.String()
}
