// Package tasks orchestrates the migration pipeline with real-time progress reporting.
//
// # Pipeline
//
// [MigrationEngine.Run] executes the stages in a fixed order:
//
//  1. Resolve the account identity once via the authenticated service
//  2. Find or create the destination playlist ([Synchronizer.EnsurePlaylist])
//  3. Resolve every record through the fallback search ladder ([Resolver.Resolve])
//  4. Append resolved IDs in batches of 100 ([Synchronizer.AppendTracks])
//  5. Write the miss report when any record went unresolved
//
// There is no branching back and no partial resume; the first error aborts
// the remainder. Remote state already mutated (a created playlist, appended
// batches) is left as is.
//
// # Fallback Ladder
//
// The resolver tries up to four query forms per record, strict to loose:
// field-filtered title+artist+album (skipped when album absent), field-filtered
// title+artist, free-text "title artist", free-text title. The first level
// returning any result wins; its top-ranked hit is taken without re-ranking.
// Empty levels are separated by a fixed courtesy delay.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking. Track resolution reports every 25 processed records.
//
// # Match Caching
//
// The optional [MatchCacher] interface persists resolutions across runs.
// Cache hits skip the search ladder; cache writes are silent best effort so
// persistence problems never disrupt a migration.
package tasks
