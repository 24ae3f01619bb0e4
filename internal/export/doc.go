// Package export implements tolerant parsing of playlist export files.
//
// # Dialect Detection
//
// The delimiter is auto-detected from the first 4KB of content among tab,
// comma, and semicolon via the [Sniffer] capability. Ambiguous samples fall
// back to the fixed tab-delimited dialect rather than failing, since the
// canonical Music.app "Text" export is tab-separated.
//
// # Header Tolerance
//
// Column names vary across export sources and locales. Each logical field
// resolves through an ordered synonym list (title: Name/Title/Track Name,
// artist: Artist/Artist Name, album: Album/Album Title/Album Name); the first
// header whose cell is non-blank wins.
//
// # Encoding Tolerance
//
// Music.app writes UTF-16LE with a byte order mark; other tools write UTF-8.
// Both are handled, and invalid byte sequences are dropped rather than
// treated as fatal.
//
// Rows without both a title and an artist are filtered out. Duplicate rows
// pass through unchanged. The full record set is materialized in memory.
package export
