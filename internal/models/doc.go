// Package models holds the transient entities flowing through a migration run
// (parsed tracks, match results, playlists, the account identity) and the
// persistence interfaces for the optional match cache.
//
// All run entities are value types held in memory for the duration of one
// run. Only [PersistedMatch] outlives a run, via repositories backed by the
// match cache database.
package models
