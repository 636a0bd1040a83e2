package models

import (
	"testing"
	"time"
)

func TestToken(t *testing.T) {
	t0 := time.UnixMilli(1_700_000_000_000)
	tok := Token{AccessToken: "T", ExpiresAt: t0.UnixMilli()}

	t.Run("valid strictly before expiry", func(t *testing.T) {
		if !tok.Valid(t0.Add(-time.Millisecond)) {
			t.Error("expected token to be valid one millisecond before expiry")
		}
	})

	t.Run("invalid at the expiry instant", func(t *testing.T) {
		if tok.Valid(t0) {
			t.Error("expected token to be invalid when now == expiresAt")
		}
	})

	t.Run("invalid after expiry", func(t *testing.T) {
		if tok.Valid(t0.Add(time.Millisecond)) {
			t.Error("expected token to be invalid after expiry")
		}
	})

	t.Run("Usable requires an access token", func(t *testing.T) {
		empty := Token{ExpiresAt: t0.UnixMilli()}
		if !empty.Valid(t0.Add(-time.Hour)) {
			t.Error("validity only depends on the expiry")
		}
		if empty.Usable(t0.Add(-time.Hour)) {
			t.Error("expected token without access token to be unusable")
		}
		if !tok.Usable(t0.Add(-time.Hour)) {
			t.Error("expected unexpired token to be usable")
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		if !tok.Expiry().Equal(t0) {
			t.Errorf("expected %v, got %v", t0, tok.Expiry())
		}
	})
}

func TestParseRepeatMode(t *testing.T) {
	tc := map[string]RepeatMode{
		"off":     RepeatOff,
		"context": RepeatContext,
		"track":   RepeatTrack,
		"":        RepeatOff,
		"weird":   RepeatOff,
	}
	for in, want := range tc {
		if got := ParseRepeatMode(in); got != want {
			t.Errorf("ParseRepeatMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrackRef(t *testing.T) {
	track := TrackRef{
		ID:      "4iV5W9uYEdYUVa79Axb7Rh",
		Name:    "Song",
		Artists: []ArtistRef{{Name: "A"}, {Name: "B"}},
		Album:   AlbumRef{Images: []Image{{URL: "https://i.scdn.co/large"}, {URL: "https://i.scdn.co/small"}}},
	}

	if track.URI() != "spotify:track:4iV5W9uYEdYUVa79Axb7Rh" {
		t.Errorf("unexpected URI %s", track.URI())
	}
	if track.ArtistNames() != "A, B" {
		t.Errorf("unexpected artist names %q", track.ArtistNames())
	}
	if track.Album.Cover() != "https://i.scdn.co/large" {
		t.Errorf("unexpected cover %q", track.Album.Cover())
	}
	if (AlbumRef{}).Cover() != "" {
		t.Error("expected empty cover for album without images")
	}
}

func TestPlaybackSnapshot(t *testing.T) {
	var nilSnap *PlaybackSnapshot
	if nilSnap.TrackName("Unknown track") != "Unknown track" {
		t.Error("expected fallback for nil snapshot")
	}
	snap := &PlaybackSnapshot{Track: &TrackRef{Name: "Now"}}
	if snap.TrackName("x") != "Now" {
		t.Error("expected track name")
	}
}

func TestSearchResult(t *testing.T) {
	if !(SearchResult{}).Empty() {
		t.Error("zero result should be empty")
	}
	r := SearchResult{Albums: Page[AlbumRef]{Items: []AlbumRef{{ID: "a"}}, Total: 1}}
	if r.Empty() {
		t.Error("result with an album should not be empty")
	}
}
