package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/apx/internal/models"
	"github.com/desertthunder/apx/internal/shared"
	tu "github.com/desertthunder/apx/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			spotify := &tu.StubCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Spotify:    spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.parser == nil {
				t.Error("expected a default parser")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != `{"key":"value"}`+"\n" {
				t.Errorf("got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("got %q", output.String())
		}
	})
}

// migrateCommand builds a root command wired to the runner, mirroring main.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name: "apx",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}},
			&cli.StringFlag{Name: "playlist", Aliases: []string{"p"}},
			&cli.BoolFlag{Name: "public"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.toml"},
			&cli.StringFlag{Name: "report", Value: "misses.csv"},
			&cli.BoolFlag{Name: "cache"},
		},
		Action: r.Migrate,
	}
}

func newMigrateRunner(output *bytes.Buffer, catalog *tu.StubCatalog) *Runner {
	config := shared.DefaultConfig()
	config.Credentials.Spotify.AccessToken = "stored-token"

	return NewRunner(RunnerOpts{
		Config:  config,
		Spotify: catalog,
		Output:  output,
	})
}

func TestRunner_Migrate(t *testing.T) {
	writeExport := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "export.txt")
		tu.MustWriteFile(t, path, []byte(content))
		return path
	}

	t.Run("end to end with misses", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")

		export := "Name\tArtist\tAlbum\n" +
			"Song A\tArtist A\tAlbum A\n" +
			"Song B\tArtist B\t\n" +
			"Song C\tArtist C\tAlbum C\n"
		exportPath := writeExport(t, export)
		reportPath := filepath.Join(t.TempDir(), "misses.csv")

		catalog := &tu.StubCatalog{
			SearchFn: func(query string, limit int) ([]models.CatalogTrack, error) {
				if strings.Contains(query, "Song B") {
					return nil, nil
				}
				if strings.Contains(query, "Song A") {
					return []models.CatalogTrack{{ID: "sp-a"}}, nil
				}
				if strings.Contains(query, "Song C") {
					return []models.CatalogTrack{{ID: "sp-c"}}, nil
				}
				return nil, nil
			},
		}

		output := &bytes.Buffer{}
		runner := newMigrateRunner(output, catalog)

		cmd := migrateCommand(runner)
		err := cmd.Run(context.Background(), []string{
			"apx", "--in", exportPath, "--playlist", "Road Trip", "--report", reportPath,
		})
		if err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}

		if !strings.Contains(output.String(), "Added 2 tracks to 'Road Trip'.") {
			t.Errorf("missing summary, got: %s", output.String())
		}
		// Progress lines must all be flushed before the summary block.
		if last, summary := strings.LastIndex(output.String(), "→"), strings.Index(output.String(), "Migration Complete"); last > summary {
			t.Errorf("progress line printed after the summary:\n%s", output.String())
		}

		tu.AssertFileExists(t, reportPath)
		if report := tu.MustReadFile(t, reportPath); !strings.Contains(report, "Song B,Artist B,") {
			t.Errorf("report missing Song B: %s", report)
		}

		if len(catalog.Created) != 1 {
			t.Errorf("created %d playlists, want 1", len(catalog.Created))
		}
	})

	t.Run("writes report to the working directory by default", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")

		origDir := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, origDir)

		exportPath := writeExport(t, "Name\tArtist\nSong B\tArtist B\n")
		runner := newMigrateRunner(&bytes.Buffer{}, &tu.StubCatalog{})

		err := migrateCommand(runner).Run(context.Background(), []string{
			"apx", "--in", exportPath, "--playlist", "Road Trip",
		})
		if err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}

		tu.AssertFileExists(t, "misses.csv")
	})

	t.Run("missing playlist flag", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")
		exportPath := writeExport(t, "Name\tArtist\nSong A\tArtist A\n")
		catalog := &tu.StubCatalog{}
		runner := newMigrateRunner(&bytes.Buffer{}, catalog)

		err := migrateCommand(runner).Run(context.Background(), []string{"apx", "--in", exportPath})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("error = %v, want ErrMissingArgument", err)
		}
		if len(catalog.Created) != 0 {
			t.Errorf("created %d playlists, want none", len(catalog.Created))
		}
	})

	t.Run("missing input flag", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")
		runner := newMigrateRunner(&bytes.Buffer{}, &tu.StubCatalog{})

		err := migrateCommand(runner).Run(context.Background(), []string{"apx"})
		if err == nil {
			t.Fatal("expected error without --in")
		}
	})

	t.Run("missing export file", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")
		runner := newMigrateRunner(&bytes.Buffer{}, &tu.StubCatalog{})

		err := migrateCommand(runner).Run(context.Background(), []string{
			"apx", "--in", filepath.Join(t.TempDir(), "nope.txt"), "--playlist", "Road Trip",
		})
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "")
		exportPath := writeExport(t, "Name\tArtist\nSong A\tArtist A\n")
		runner := newMigrateRunner(&bytes.Buffer{}, &tu.StubCatalog{})
		runner.config.Credentials.Spotify.Username = ""

		err := migrateCommand(runner).Run(context.Background(), []string{"apx", "--in", exportPath, "--playlist", "Road Trip"})
		if err == nil {
			t.Fatal("expected error without identity")
		}
	})

	t.Run("empty export", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")
		exportPath := writeExport(t, "Name\tArtist\tAlbum\n")
		runner := newMigrateRunner(&bytes.Buffer{}, &tu.StubCatalog{})

		err := migrateCommand(runner).Run(context.Background(), []string{"apx", "--in", exportPath, "--playlist", "Road Trip"})
		if err == nil {
			t.Fatal("expected error for empty export")
		}
	})

	t.Run("unauthenticated without stored tokens", func(t *testing.T) {
		t.Setenv("SPOTIFY_USERNAME", "tester")
		exportPath := writeExport(t, "Name\tArtist\nSong A\tArtist A\n")

		runner := NewRunner(RunnerOpts{
			Config:  shared.DefaultConfig(),
			Spotify: &tu.StubCatalog{},
			Output:  &bytes.Buffer{},
		})

		err := migrateCommand(runner).Run(context.Background(), []string{"apx", "--in", exportPath, "--playlist", "Road Trip"})
		if err == nil {
			t.Fatal("expected error without stored tokens")
		}
	})
}

func TestRunner_Parse(t *testing.T) {
	t.Run("previews tracks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.txt")
		content := "Name\tArtist\tAlbum\nSong A\tArtist A\tAlbum A\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write export: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		cmd := parseCommand(runner)
		if err := cmd.Run(context.Background(), []string{"parse", path}); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if !strings.Contains(output.String(), "Artist A - Song A") {
			t.Errorf("missing track line, got: %s", output.String())
		}
	})

	t.Run("missing path errors", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := parseCommand(runner).Run(context.Background(), []string{"parse"}); err == nil {
			t.Fatal("expected error without a path")
		}
	})
}
