// Package services defines the remote catalog collaborator interfaces and
// implements them for Spotify.
//
// # Capability Interfaces
//
// The migration pipeline never depends on the concrete client. The resolver
// consumes [SearchClient]; the synchronizer consumes [LibraryClient]. The
// [Service] interface composes both with authentication for wiring in cmd.
//
// # Spotify Implementation
//
// [SpotifyService] is a hand-rolled client against the Spotify Web API using
// [oauth2] for authentication with automatic token refresh. Every request
// passes through a [rate.Limiter] as API courtesy throttling.
//
// # Error Handling
//
// Requests use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request or remote call failed
//
// Remote errors are not retried here; they propagate to the caller, which
// treats them as fatal to the run.
package services
