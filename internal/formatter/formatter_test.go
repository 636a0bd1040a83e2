package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
	th "github.com/desertthunder/spotctl/internal/testing"
)

func testSnapshot() *models.PlaybackSnapshot {
	return &models.PlaybackSnapshot{
		IsPlaying:  true,
		ProgressMs: 61_000,
		DurationMs: 200_000,
		Track: &models.TrackRef{
			ID:      "t1",
			Name:    "Song One",
			URL:     "https://open.spotify.com/track/t1",
			Artists: []models.ArtistRef{{Name: "Artist One"}, {Name: "Artist Two"}},
			Album: models.AlbumRef{
				Name:   "Album One",
				Images: []models.Image{{URL: "https://i.scdn.co/image/cover", Height: 640, Width: 640}},
			},
		},
		Device:  models.DeviceRef{Name: "Laptop", Type: "Computer", VolumePercent: 70, Active: true},
		Shuffle: true,
		Repeat:  models.RepeatTrack,
	}
}

func testResult() models.SearchResult {
	return models.SearchResult{
		Tracks: models.Page[models.TrackRef]{
			Total: 12345,
			Items: []models.TrackRef{
				{ID: "t1", Name: "Song, One", URL: "https://open.spotify.com/track/t1", DurationMs: 185_000, Artists: []models.ArtistRef{{Name: "Artist One"}}, Album: models.AlbumRef{Name: "Album One"}},
			},
		},
		Artists: models.Page[models.ArtistRef]{
			Total: 2,
			Items: []models.ArtistRef{{ID: "a1", Name: "Artist One", URL: "https://open.spotify.com/artist/a1"}},
		},
		Albums: models.Page[models.AlbumRef]{
			Total: 1,
			Items: []models.AlbumRef{{ID: "al1", Name: "Album One", ReleaseDate: "1997-01-20"}},
		},
	}
}

func TestVolumeBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "○○○○○○○○○○"},
		{45, "●●●●○○○○○○"},
		{100, "●●●●●●●●●●"},
		{150, "●●●●●●●●●●"},
		{-5, "○○○○○○○○○○"},
	}
	for _, tt := range tests {
		if got := VolumeBar(tt.percent); got != tt.want {
			t.Errorf("VolumeBar(%d) = %s, want %s", tt.percent, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(61_000, 200_000); got != "1:01 / 3:20 (31%)" {
		t.Errorf("unexpected progress %q", got)
	}
	if got := Progress(0, 0); got != "0:00 / 0:00 (0%)" {
		t.Errorf("unexpected progress %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"md", Markdown, false},
		{"Markdown", Markdown, false},
		{"csv", CSV, false},
		{"json", JSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %s, got %s err=%v", tt.want, got, err)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("SnapshotToText", func(t *testing.T) {
		data, err := SnapshotToText(testSnapshot())
		if err != nil {
			t.Fatalf("SnapshotToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"Playing: Song One",
			"Artist: Artist One, Artist Two",
			"Album: Album One",
			"Progress: 1:01 / 3:20 (31%)",
			"Device: Laptop (Computer)",
			"Volume: ●●●●●●●○○○ 70%",
			"Shuffle: on  Repeat: track",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("SnapshotToText nothing playing", func(t *testing.T) {
		data, _ := SnapshotToText(nil)
		if string(data) != "Nothing playing\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("SnapshotToText paused without track", func(t *testing.T) {
		s := &models.PlaybackSnapshot{Device: models.DeviceRef{Name: "Phone", Type: "Smartphone"}}
		data, _ := SnapshotToText(s)
		if !strings.HasPrefix(string(data), "Paused: Unknown track\n") {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("SnapshotToMarkdown", func(t *testing.T) {
		data, err := SnapshotToMarkdown(testSnapshot())
		if err != nil {
			t.Fatalf("SnapshotToMarkdown failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "# Song One\n") {
			t.Errorf("markdown missing title, got:\n%s", output)
		}
		if !strings.Contains(output, "![Cover](https://i.scdn.co/image/cover)") {
			t.Error("markdown missing cover")
		}
		if !strings.Contains(output, "**Link**: <https://open.spotify.com/track/t1>") {
			t.Error("markdown missing link")
		}
	})

	t.Run("RenderSnapshot JSON", func(t *testing.T) {
		data, err := RenderSnapshot(testSnapshot(), JSON)
		if err != nil {
			t.Fatalf("RenderSnapshot failed: %v", err)
		}
		var decoded models.PlaybackSnapshot
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Track == nil || decoded.Track.Name != "Song One" {
			t.Errorf("unexpected decoded snapshot %+v", decoded)
		}
	})

	t.Run("RenderSnapshot CSV", func(t *testing.T) {
		if _, err := RenderSnapshot(testSnapshot(), CSV); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("SearchToText", func(t *testing.T) {
		data, err := SearchToText(testResult())
		if err != nil {
			t.Fatalf("SearchToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"Tracks (12,345 total)",
			" 1. Artist One - Song, One [3:05] spotify:track:t1",
			"Artists (2 total)",
			"Albums (1 total)",
			" 1. Album One (1997)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
		if strings.HasSuffix(output, "\n\n") {
			t.Error("text should end with a single newline")
		}
	})

	t.Run("SearchToText empty", func(t *testing.T) {
		data, _ := SearchToText(models.SearchResult{})
		if string(data) != "No results\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("SearchToMarkdown", func(t *testing.T) {
		data, err := SearchToMarkdown("one", testResult())
		if err != nil {
			t.Fatalf("SearchToMarkdown failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "# Search: one\n") {
			t.Errorf("markdown missing heading, got:\n%s", output)
		}
		if !strings.Contains(output, "[Song, One](https://open.spotify.com/track/t1)") {
			t.Error("markdown missing track link")
		}
		if !strings.Contains(output, "1. Album One (1997)") {
			t.Error("album without URL should render without a link")
		}
	})

	t.Run("SearchToCSV", func(t *testing.T) {
		data, err := SearchToCSV(testResult())
		if err != nil {
			t.Fatalf("SearchToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header and 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Type,ID,Name,Artists,Album,Duration,URI,URL" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][2] != "Song, One" || records[1][6] != "spotify:track:t1" {
			t.Errorf("unexpected track row %v", records[1])
		}
		if records[2][6] != "spotify:artist:a1" || records[3][6] != "spotify:album:al1" {
			t.Errorf("unexpected URIs %v %v", records[2], records[3])
		}
	})

	t.Run("WriteSearchExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.csv")
		if err := WriteSearchExport("one", testResult(), CSV, path); err != nil {
			t.Fatalf("WriteSearchExport failed: %v", err)
		}
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Type,ID") {
			t.Errorf("unexpected file content %q", content)
		}
	})

	t.Run("WriteSearchExport bad path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "results.csv")
		if err := WriteSearchExport("one", testResult(), Text, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
