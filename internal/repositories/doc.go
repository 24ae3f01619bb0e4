// Package repositories implements SQLite persistence for the match cache.
//
// [MatchRepository] handles CRUD operations with atomic sequence generation for human-readable ordering.
// It supports soft deletes via deleted_at timestamps and excludes deleted records from queries by default.
//
// [MatchCacheAdapter] adapts the repository to the narrow lookup/store
// interface the migration engine consumes, so the engine never depends on
// database types. The cache is purely an accelerator for repeat runs:
// a hit skips the remote search ladder for that record, nothing more.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
