// Package server hosts the short-lived HTTP endpoint that completes the
// Spotify OAuth authorization code flow.
//
// When the user runs `apx auth`, a server starts on the configured
// host/port, the browser opens the Spotify consent page, and [OAuthHandler]
// receives the redirect. The handler checks the state token, exchanges the
// code for tokens, and delivers the result over [OAuthHandler.Result]; the
// caller then shuts the server down and persists the tokens to config.toml.
//
// [BasicRouter] registers any [Handler] with an optional [Middleware]
// stack. [RequestLogger] is the only middleware apx installs.
package server
