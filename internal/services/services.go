// package services talks to the Spotify Web API
package services

import (
	"context"

	"github.com/desertthunder/spotctl/internal/models"
)

// Player controls the user's remote Spotify player.
type Player interface {
	// CurrentPlayback reads the player state. A nil snapshot means nothing is playing on any device.
	CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error)

	// TogglePlayPause pauses a playing player and resumes a paused one.
	// Returns the snapshot read before acting.
	TogglePlayPause(ctx context.Context) (*models.PlaybackSnapshot, error)

	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// SetVolume sets the device volume. The value is sent as given.
	SetVolume(ctx context.Context, percent int) error

	// PlayTrack starts playback of a single track URI.
	PlayTrack(ctx context.Context, uri string) error

	// Search queries the catalog. An empty type list searches tracks, artists and albums.
	Search(ctx context.Context, query string, types ...models.SearchType) (models.SearchResult, error)
}

// Refresher renews the stored access token.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AppAuthenticator makes sure an app-level token is stored.
type AppAuthenticator interface {
	EnsureAppToken(ctx context.Context) error
}

// TokenReader returns the access token to send, "" when there is none.
type TokenReader func() (string, error)

// Doer executes a single logical API request.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
