// package services defines the interfaces for the remote catalog collaborator
package services

import (
	"context"

	"github.com/desertthunder/apx/internal/models"
	"golang.org/x/oauth2"
)

// SearchClient is the search capability consumed by the match resolver.
type SearchClient interface {
	// SearchTracks issues one catalog search and returns up to limit ranked results.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.CatalogTrack, error)
}

// LibraryClient covers account identity and playlist operations.
type LibraryClient interface {
	// CurrentUser resolves the authenticated account identity.
	CurrentUser(ctx context.Context) (*models.User, error)

	// UserPlaylists retrieves one page of the account's playlists.
	UserPlaylists(ctx context.Context, limit, offset int) (*models.PlaylistPage, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.Playlist, error)

	// AddTracks appends catalog track IDs to a playlist, in order.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// Service is the full remote catalog collaborator contract.
type Service interface {
	SearchClient
	LibraryClient

	// Authenticate performs OAuth or token-based authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService extends Service for providers using server-side OAuth flows.
type OAuthService interface {
	Service

	// GetAuthURL returns the OAuth2 authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 config for the callback server.
	GetOAuthConfig() *oauth2.Config
}
