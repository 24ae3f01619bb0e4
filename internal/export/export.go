// package export parses playlist files exported from Apple Music
// (File → Library → Export Playlist, "Text" format)
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/apx/internal/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSample is the number of bytes inspected for delimiter detection.
const sniffSample = 4096

// Column name synonyms per logical field, in priority order. Export column
// naming varies by application version and locale; the first header present
// with a non-blank cell value wins.
var (
	titleColumns  = []string{"Name", "Title", "Track Name"}
	artistColumns = []string{"Artist", "Artist Name"}
	albumColumns  = []string{"Album", "Album Title", "Album Name"}
)

// Dialect describes the delimited-text flavor of an export file.
type Dialect struct {
	Comma rune
}

// DefaultDialect is the fixed fallback when detection fails: tab-delimited
// with double-quote escaping, which is what Music.app writes.
var DefaultDialect = Dialect{Comma: '\t'}

// Sniffer detects the field delimiter from a sample of file content.
// A false return means detection failed and the caller should fall back
// to [DefaultDialect].
type Sniffer interface {
	Detect(sample []byte) (Dialect, bool)
}

// DelimiterSniffer implements [Sniffer] by counting candidate delimiters
// across the sampled lines. Candidates are tab, comma, and semicolon.
type DelimiterSniffer struct{}

// Detect picks the candidate with the most occurrences in the sample.
// Empty samples and ties between the top candidates are ambiguous.
func (DelimiterSniffer) Detect(sample []byte) (Dialect, bool) {
	candidates := []rune{'\t', ',', ';'}

	counts := make(map[rune]int, len(candidates))
	for _, line := range bytes.Split(sample, []byte("\n")) {
		for _, c := range candidates {
			counts[c] += bytes.Count(line, []byte(string(c)))
		}
	}

	best, runnerUp := rune(0), 0
	bestCount := 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			best, bestCount, runnerUp = c, counts[c], bestCount
		} else if counts[c] > runnerUp {
			runnerUp = counts[c]
		}
	}

	if bestCount == 0 || bestCount == runnerUp {
		return Dialect{}, false
	}

	return Dialect{Comma: best}, true
}

// Parser reads export files into [models.Track] records.
type Parser struct {
	sniffer Sniffer
}

// NewParser creates a Parser with the default [DelimiterSniffer].
func NewParser() *Parser {
	return &Parser{sniffer: DelimiterSniffer{}}
}

// NewParserWithSniffer creates a Parser with a custom [Sniffer].
func NewParserWithSniffer(s Sniffer) *Parser {
	return &Parser{sniffer: s}
}

// ReadFile parses the export file at path into a fully materialized record
// slice. Rows missing a title or artist are dropped; a zero-length result is
// not an error here (the caller treats it as an input error).
func (p *Parser) ReadFile(path string) ([]models.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	return p.Parse(data)
}

// Parse decodes and parses raw export file content.
func (p *Parser) Parse(data []byte) ([]models.Track, error) {
	text := decode(data)

	dialect, ok := p.sniffer.Detect([]byte(truncate(text, sniffSample)))
	if !ok {
		dialect = DefaultDialect
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = dialect.Comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var tracks []models.Track
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}

		title := pick(columns, row, titleColumns)
		artist := pick(columns, row, artistColumns)
		if title == "" || artist == "" {
			continue
		}

		tracks = append(tracks, models.Track{
			Title:  title,
			Artist: artist,
			Album:  pick(columns, row, albumColumns),
		})
	}

	return tracks, nil
}

// pick returns the first non-blank trimmed cell among the candidate columns.
func pick(columns map[string]int, row []string, keys []string) string {
	for _, key := range keys {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			continue
		}
		if value := strings.TrimSpace(row[idx]); value != "" {
			return value
		}
	}
	return ""
}

// decode converts raw export bytes to clean UTF-8 text. Music.app writes
// UTF-16LE with a BOM; other sources write UTF-8. Undecodable byte sequences
// are dropped rather than surfaced as errors.
func decode(data []byte) string {
	if len(data) >= 2 && (data[0] == 0xFF && data[1] == 0xFE || data[0] == 0xFE && data[1] == 0xFF) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if decoded, _, err := transform.Bytes(decoder, data); err == nil {
			data = decoded
		}
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
