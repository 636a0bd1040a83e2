package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

var (
	_ list.Item = resultItem{}
	_ list.Item = presetItem{}
)

// resultItem is one search hit of any category.
type resultItem struct {
	kind models.SearchType
	name string
	desc string
	uri  string
	url  string
}

func (i resultItem) FilterValue() string { return i.name }
func (i resultItem) Title() string       { return i.name }
func (i resultItem) Description() string {
	label := map[models.SearchType]string{
		models.SearchTrack:  "Track",
		models.SearchArtist: "Artist",
		models.SearchAlbum:  "Album",
	}[i.kind]
	if i.desc == "" {
		return label
	}
	return fmt.Sprintf("%s • %s", label, i.desc)
}

func trackResult(t models.TrackRef) resultItem {
	desc := t.ArtistNames()
	if t.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, t.Album.Name)
	}
	return resultItem{
		kind: models.SearchTrack,
		name: t.Name,
		desc: fmt.Sprintf("%s • %s", desc, shared.FormatDuration(t.DurationMs)),
		uri:  t.URI(),
		url:  t.URL,
	}
}

func artistResult(a models.ArtistRef) resultItem {
	return resultItem{kind: models.SearchArtist, name: a.Name, uri: "spotify:artist:" + a.ID, url: a.URL}
}

func albumResult(a models.AlbumRef) resultItem {
	var desc string
	if len(a.ReleaseDate) >= 4 {
		desc = a.ReleaseDate[:4]
	}
	return resultItem{kind: models.SearchAlbum, name: a.Name, desc: desc, uri: "spotify:album:" + a.ID, url: a.URL}
}

// resultItems lists tracks, then artists, then albums.
func resultItems(r models.SearchResult) []list.Item {
	items := make([]list.Item, 0, len(r.Tracks.Items)+len(r.Artists.Items)+len(r.Albums.Items))
	for _, t := range r.Tracks.Items {
		items = append(items, trackResult(t))
	}
	for _, a := range r.Artists.Items {
		items = append(items, artistResult(a))
	}
	for _, a := range r.Albums.Items {
		items = append(items, albumResult(a))
	}
	return items
}

// VolumePreset is a named volume level offered by the picker.
type VolumePreset struct {
	Label   string
	Percent int
}

// VolumePresets returns the named levels followed by every step of ten.
func VolumePresets() []VolumePreset {
	presets := []VolumePreset{
		{"Mute", 0},
		{"Low", 25},
		{"Medium", 50},
		{"High", 75},
		{"Max", 100},
	}
	for p := 0; p <= 100; p += 10 {
		presets = append(presets, VolumePreset{Label: fmt.Sprintf("%d%%", p), Percent: p})
	}
	return presets
}

// presetItem wraps [VolumePreset] to implement [list.Item].
type presetItem struct {
	preset VolumePreset
}

func (i presetItem) FilterValue() string { return i.preset.Label }
func (i presetItem) Title() string       { return i.preset.Label }
func (i presetItem) Description() string { return fmt.Sprintf("%d%%", i.preset.Percent) }
