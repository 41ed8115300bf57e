// package services defines interface Service for interacting with the Spotify HTTP API
package services

import (
	"context"
)

// Service is the set of Spotify calls the CLI makes. Every call returns the raw, bounded response
// body so callers can run the field extractor over it.
type Service interface {
	// AuthURL returns the URL the user visits to authorize the client.
	AuthURL(state string) string

	// ExchangeCode trades an authorization code for an access/refresh token pair.
	ExchangeCode(ctx context.Context, code string) (*APIResponse, error)

	// RefreshToken requests a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (*APIResponse, error)

	// CurrentlyPlaying fetches the player's current item.
	CurrentlyPlaying(ctx context.Context, accessToken string) (*APIResponse, error)

	// Devices lists available playback devices.
	Devices(ctx context.Context, accessToken string) (*APIResponse, error)

	// Skip changes track on a device.
	Skip(ctx context.Context, accessToken string, dir Direction, deviceID string) (*APIResponse, error)

	// Name returns the name of the service
	Name() string
}

var _ Service = (*SpotifyService)(nil)
