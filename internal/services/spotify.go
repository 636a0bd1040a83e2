// Spotify Web API implementation of [Player]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

const searchLimit = 20

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
	URI          string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Images       []SpotifyImage  `json:"images"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	PreviewURL   *string         `json:"preview_url"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyDevice represents a playback device. ID and volume are null for some restricted devices.
type SpotifyDevice struct {
	ID               *string `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	VolumePercent    *int    `json:"volume_percent"`
	IsActive         bool    `json:"is_active"`
	IsPrivateSession bool    `json:"is_private_session"`
	IsRestricted     bool    `json:"is_restricted"`
}

// SpotifyPlaybackState represents the response of GET /me/player.
type SpotifyPlaybackState struct {
	Device               SpotifyDevice `json:"device"`
	RepeatState          string        `json:"repeat_state"`
	ShuffleState         bool          `json:"shuffle_state"`
	Timestamp            int64         `json:"timestamp"`
	ProgressMS           *int          `json:"progress_ms"`
	IsPlaying            bool          `json:"is_playing"`
	Item                 *SpotifyTrack `json:"item"`
	CurrentlyPlayingType string        `json:"currently_playing_type"`
}

type spotifyPage[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// SpotifySearchResponse represents the response of GET /search. Categories not asked for are absent.
type SpotifySearchResponse struct {
	Tracks  *spotifyPage[SpotifyTrack]  `json:"tracks"`
	Artists *spotifyPage[SpotifyArtist] `json:"artists"`
	Albums  *spotifyPage[SpotifyAlbum]  `json:"albums"`
}

// SpotifyPlayer implements [Player] against the Web API.
type SpotifyPlayer struct {
	client Doer
	auth   AppAuthenticator
	logger *log.Logger
}

// NewSpotifyPlayer creates a player. auth is only used by [SpotifyPlayer.Search].
func NewSpotifyPlayer(client Doer, auth AppAuthenticator, logger *log.Logger) *SpotifyPlayer {
	return &SpotifyPlayer{client: client, auth: auth, logger: loggerOrDiscard(logger)}
}

func (p *SpotifyPlayer) CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error) {
	var state SpotifyPlaybackState
	found, err := doJSON(ctx, p.client, Request{Method: http.MethodGet, Path: "/me/player"}, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return state.toSnapshot(), nil
}

func (p *SpotifyPlayer) TogglePlayPause(ctx context.Context) (*models.PlaybackSnapshot, error) {
	snapshot, err := p.CurrentPlayback(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: nothing is playing on any device", shared.ErrNoActiveDevice)
	}

	action := "play"
	if snapshot.IsPlaying {
		action = "pause"
	}

	p.logger.Debug("toggling playback", "action", action, "device", snapshot.Device.Name)
	if _, err := p.client.Do(ctx, Request{Method: http.MethodPut, Path: "/me/player/" + action}); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (p *SpotifyPlayer) Next(ctx context.Context) error {
	_, err := p.client.Do(ctx, Request{Method: http.MethodPost, Path: "/me/player/next"})
	return err
}

func (p *SpotifyPlayer) Previous(ctx context.Context) error {
	_, err := p.client.Do(ctx, Request{Method: http.MethodPost, Path: "/me/player/previous"})
	return err
}

func (p *SpotifyPlayer) SetVolume(ctx context.Context, percent int) error {
	query := url.Values{"volume_percent": {strconv.Itoa(percent)}}
	_, err := p.client.Do(ctx, Request{Method: http.MethodPut, Path: "/me/player/volume", Query: query})
	return err
}

func (p *SpotifyPlayer) PlayTrack(ctx context.Context, uri string) error {
	if strings.TrimSpace(uri) == "" {
		return fmt.Errorf("%w: track uri", shared.ErrMissingArgument)
	}
	body := map[string][]string{"uris": {uri}}
	_, err := p.client.Do(ctx, Request{Method: http.MethodPut, Path: "/me/player/play", Body: body})
	return err
}

func (p *SpotifyPlayer) Search(ctx context.Context, query string, types ...models.SearchType) (models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SearchResult{}, nil
	}

	typeParam, err := searchTypes(types)
	if err != nil {
		return models.SearchResult{}, err
	}

	if p.auth != nil {
		if err := p.auth.EnsureAppToken(ctx); err != nil {
			return models.SearchResult{}, err
		}
	}

	params := url.Values{
		"q":     {query},
		"type":  {typeParam},
		"limit": {strconv.Itoa(searchLimit)},
	}

	var resp SpotifySearchResponse
	if _, err := doJSON(ctx, p.client, Request{Method: http.MethodGet, Path: "/search", Query: params}, &resp); err != nil {
		return models.SearchResult{}, err
	}
	return resp.toResult(), nil
}

func searchTypes(types []models.SearchType) (string, error) {
	if len(types) == 0 {
		types = models.AllSearchTypes
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		switch t {
		case models.SearchTrack, models.SearchArtist, models.SearchAlbum:
			names = append(names, string(t))
		default:
			return "", fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidArgument, t)
		}
	}
	return strings.Join(names, ","), nil
}

func (s SpotifyPlaybackState) toSnapshot() *models.PlaybackSnapshot {
	snapshot := &models.PlaybackSnapshot{
		IsPlaying: s.IsPlaying,
		Device:    s.Device.toModel(),
		Shuffle:   s.ShuffleState,
		Repeat:    models.ParseRepeatMode(s.RepeatState),
		Timestamp: s.Timestamp,
	}
	if s.ProgressMS != nil {
		snapshot.ProgressMs = *s.ProgressMS
	}
	if s.Item != nil {
		track := s.Item.toModel()
		snapshot.Track = &track
		snapshot.DurationMs = track.DurationMs
	}
	return snapshot
}

func (d SpotifyDevice) toModel() models.DeviceRef {
	device := models.DeviceRef{
		Name:           d.Name,
		Type:           d.Type,
		Active:         d.IsActive,
		PrivateSession: d.IsPrivateSession,
		Restricted:     d.IsRestricted,
	}
	if d.ID != nil {
		device.ID = *d.ID
	}
	if d.VolumePercent != nil {
		device.VolumePercent = *d.VolumePercent
	}
	return device
}

func (t SpotifyTrack) toModel() models.TrackRef {
	track := models.TrackRef{
		ID:         t.ID,
		Name:       t.Name,
		URL:        t.ExternalURLs.Spotify,
		DurationMs: t.DurationMS,
		Album:      t.Album.toModel(),
	}
	if t.PreviewURL != nil {
		track.PreviewURL = *t.PreviewURL
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, a.toModel())
	}
	return track
}

func (a SpotifyArtist) toModel() models.ArtistRef {
	return models.ArtistRef{ID: a.ID, Name: a.Name, URL: a.ExternalURLs.Spotify, Images: toImages(a.Images)}
}

func (a SpotifyAlbum) toModel() models.AlbumRef {
	return models.AlbumRef{
		ID:          a.ID,
		Name:        a.Name,
		URL:         a.ExternalURLs.Spotify,
		ReleaseDate: a.ReleaseDate,
		Images:      toImages(a.Images),
	}
}

func toImages(images []SpotifyImage) []models.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.Image, len(images))
	for i, img := range images {
		out[i] = models.Image{URL: img.URL, Height: img.Height, Width: img.Width}
	}
	return out
}

func (r SpotifySearchResponse) toResult() models.SearchResult {
	var result models.SearchResult
	if r.Tracks != nil {
		result.Tracks.Total = r.Tracks.Total
		for _, t := range r.Tracks.Items {
			result.Tracks.Items = append(result.Tracks.Items, t.toModel())
		}
	}
	if r.Artists != nil {
		result.Artists.Total = r.Artists.Total
		for _, a := range r.Artists.Items {
			result.Artists.Items = append(result.Artists.Items, a.toModel())
		}
	}
	if r.Albums != nil {
		result.Albums.Total = r.Albums.Total
		for _, a := range r.Albums.Items {
			result.Albums.Items = append(result.Albums.Items, a.toModel())
		}
	}
	return result
}
