package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/apx/internal/models"
)

func TestMissesToCSV(t *testing.T) {
	t.Run("renders header and records", func(t *testing.T) {
		misses := []models.Track{
			{Title: "Song B", Artist: "Artist B", Album: ""},
			{Title: "Song D", Artist: "Artist D", Album: "Album D"},
		}

		data, err := MissesToCSV(misses)
		if err != nil {
			t.Fatalf("MissesToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
		}
		if lines[0] != "Title,Artist,Album" {
			t.Errorf("header = %q, want Title,Artist,Album", lines[0])
		}
		if lines[1] != "Song B,Artist B," {
			t.Errorf("record = %q, want blank album column", lines[1])
		}
		if lines[2] != "Song D,Artist D,Album D" {
			t.Errorf("record = %q", lines[2])
		}
	})

	t.Run("empty misses render header only", func(t *testing.T) {
		data, err := MissesToCSV(nil)
		if err != nil {
			t.Fatalf("MissesToCSV failed: %v", err)
		}
		if strings.TrimRight(string(data), "\n") != "Title,Artist,Album" {
			t.Errorf("output = %q, want bare header", string(data))
		}
	})

	t.Run("quotes fields containing the delimiter", func(t *testing.T) {
		data, err := MissesToCSV([]models.Track{
			{Title: "Song, Pt. 2", Artist: "Artist"},
		})
		if err != nil {
			t.Fatalf("MissesToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Song, Pt. 2"`) {
			t.Errorf("expected quoted title, got: %s", string(data))
		}
	})
}

func TestMissReporter(t *testing.T) {
	t.Run("writes report to disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "misses.csv")
		reporter := NewMissReporter(path)

		got, err := reporter.Write([]models.Track{
			{Title: "Song B", Artist: "Artist B"},
		})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if got != path {
			t.Errorf("returned path = %q, want %q", got, path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "Song B,Artist B,") {
			t.Errorf("report missing record, got: %s", string(content))
		}
	})

	t.Run("overwrites a prior report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "misses.csv")
		if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		reporter := NewMissReporter(path)
		if _, err := reporter.Write(nil); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		content, _ := os.ReadFile(path)
		if strings.Contains(string(content), "stale") {
			t.Error("expected stale content to be replaced")
		}
	})

	t.Run("defaults to the well known path", func(t *testing.T) {
		reporter := NewMissReporter("")
		if reporter.Path != MissReportPath {
			t.Errorf("Path = %q, want %q", reporter.Path, MissReportPath)
		}
	})
}

func TestSummaryText(t *testing.T) {
	t.Run("with misses", func(t *testing.T) {
		got := SummaryText("Road Trip", 12, 3, "misses.csv")
		if !strings.Contains(got, "Added 12 tracks to 'Road Trip'.") {
			t.Errorf("summary missing added line: %q", got)
		}
		if !strings.Contains(got, "Could not match 3 tracks. See 'misses.csv'.") {
			t.Errorf("summary missing miss line: %q", got)
		}
	})

	t.Run("without misses", func(t *testing.T) {
		got := SummaryText("Road Trip", 12, 0, "")
		if strings.Contains(got, "Could not match") {
			t.Errorf("summary should omit miss line: %q", got)
		}
	})
}

func TestTracksText(t *testing.T) {
	got := TracksText([]models.Track{
		{Title: "Song A", Artist: "Artist A", Album: "Album A"},
		{Title: "Song B", Artist: "Artist B"},
	})

	if !strings.Contains(got, "1. Artist A - Song A") {
		t.Errorf("missing first entry: %q", got)
	}
	if !strings.Contains(got, "Album: Album A") {
		t.Errorf("missing album line: %q", got)
	}
	if strings.Contains(got, "Album: \n") {
		t.Errorf("blank album should not render: %q", got)
	}
}

func TestPlaylistText(t *testing.T) {
	got := PlaylistText(models.Playlist{
		ID:         "pl-1",
		Name:       "Road Trip",
		TrackCount: 42,
		Public:     false,
	})

	for _, want := range []string{"Road Trip", "ID: pl-1", "Tracks: 42", "Visibility: Private"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}
