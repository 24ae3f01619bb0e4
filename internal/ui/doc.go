// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for export migration:
//  1. [TrackListView] : Preview the tracks parsed from the export file
//  2. [ConfirmView] : Confirm the migration
//  3. [MigrateView] : Monitor real-time progress updates
//  4. [ResultView] : Display the outcome and any unmatched tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the MigrationEngine, providing
// non-blocking status reporting while tracks resolve.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
