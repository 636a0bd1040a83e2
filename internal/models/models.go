// package models defines the data model for the Spotify playback controller
package models

import (
	"fmt"
	"time"
)

// Token is the persisted Spotify credential.
//
// ExpiresAt is epoch milliseconds: issue time plus the lifetime reported by the token endpoint.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Valid reports whether the token has not expired at now.
// The expiry instant itself is already invalid.
func (t Token) Valid(now time.Time) bool {
	return now.UnixMilli() < t.ExpiresAt
}

// Usable reports whether there is an access token and it is still valid at now.
func (t Token) Usable(now time.Time) bool {
	return t.AccessToken != "" && t.Valid(now)
}

// Expiry returns ExpiresAt as a [time.Time].
func (t Token) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// RepeatMode is the player's repeat state.
type RepeatMode string

const (
	RepeatOff     RepeatMode = "off"
	RepeatContext RepeatMode = "context"
	RepeatTrack   RepeatMode = "track"
)

// ParseRepeatMode maps the API's repeat_state onto a [RepeatMode]; unknown values read as off.
func ParseRepeatMode(s string) RepeatMode {
	switch RepeatMode(s) {
	case RepeatContext:
		return RepeatContext
	case RepeatTrack:
		return RepeatTrack
	default:
		return RepeatOff
	}
}

// Image is one rendition of a cover or artist picture.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ArtistRef describes an artist.
type ArtistRef struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Images []Image `json:"images,omitempty"`
}

// AlbumRef describes an album.
type AlbumRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// Cover returns the first (largest) album image URL, or "" when there is none.
func (a AlbumRef) Cover() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

// TrackRef describes a track.
type TrackRef struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	DurationMs int         `json:"duration_ms"`
	PreviewURL string      `json:"preview_url,omitempty"`
	Artists    []ArtistRef `json:"artists"`
	Album      AlbumRef    `json:"album"`
}

// URI returns the spotify:track:<id> form accepted by the player.
func (t TrackRef) URI() string {
	return fmt.Sprintf("spotify:track:%s", t.ID)
}

// ArtistNames joins the artist names with ", ".
func (t TrackRef) ArtistNames() string {
	names := ""
	for i, a := range t.Artists {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}

// DeviceRef describes the device the player is running on.
type DeviceRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	VolumePercent  int    `json:"volume_percent"`
	Active         bool   `json:"is_active"`
	PrivateSession bool   `json:"is_private_session"`
	Restricted     bool   `json:"is_restricted"`
}

// PlaybackSnapshot is a read of the remote player at one point in time.
type PlaybackSnapshot struct {
	IsPlaying  bool       `json:"is_playing"`
	ProgressMs int        `json:"progress_ms"`
	DurationMs int        `json:"duration_ms"`
	Track      *TrackRef  `json:"track"`
	Device     DeviceRef  `json:"device"`
	Shuffle    bool       `json:"shuffle"`
	Repeat     RepeatMode `json:"repeat"`
	Timestamp  int64      `json:"timestamp"`
}

// TrackName returns the current track name or fallback when nothing is loaded.
func (s *PlaybackSnapshot) TrackName(fallback string) string {
	if s == nil || s.Track == nil || s.Track.Name == "" {
		return fallback
	}
	return s.Track.Name
}

// SearchType is a catalog category accepted by the search endpoint.
type SearchType string

const (
	SearchTrack  SearchType = "track"
	SearchArtist SearchType = "artist"
	SearchAlbum  SearchType = "album"
)

// AllSearchTypes is the default category set.
var AllSearchTypes = []SearchType{SearchTrack, SearchArtist, SearchAlbum}

// Page is a single page of results with the server-reported total.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// SearchResult holds one page per category.
type SearchResult struct {
	Tracks  Page[TrackRef]  `json:"tracks"`
	Artists Page[ArtistRef] `json:"artists"`
	Albums  Page[AlbumRef]  `json:"albums"`
}

// Empty reports whether no category returned any item.
func (r SearchResult) Empty() bool {
	return len(r.Tracks.Items) == 0 && len(r.Artists.Items) == 0 && len(r.Albums.Items) == 0
}
