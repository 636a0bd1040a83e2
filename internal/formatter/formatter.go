// package formatter renders playback state and search results as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/dustin/go-humanize"
)

// Format is an output format name accepted by --format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat validates a --format value. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

const volumeSegments = 10

// VolumeBar draws percent as ten filled or empty dots. Out of range values are drawn clamped.
func VolumeBar(percent int) string {
	filled := min(max(percent, 0), 100) / volumeSegments
	return strings.Repeat("●", filled) + strings.Repeat("○", volumeSegments-filled)
}

// Progress renders "m:ss / m:ss (pct%)".
func Progress(progressMs, durationMs int) string {
	return fmt.Sprintf("%s / %s (%d%%)",
		shared.FormatDuration(progressMs),
		shared.FormatDuration(durationMs),
		shared.ProgressPercent(progressMs, durationMs))
}

func state(s *models.PlaybackSnapshot) string {
	if s.IsPlaying {
		return "Playing"
	}
	return "Paused"
}

// SnapshotToText renders the now playing view.
func SnapshotToText(s *models.PlaybackSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	if s == nil {
		buf.WriteString("Nothing playing\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("%s: %s\n", state(s), s.TrackName("Unknown track")))
	if s.Track != nil {
		if artists := s.Track.ArtistNames(); artists != "" {
			buf.WriteString(fmt.Sprintf("Artist: %s\n", artists))
		}
		if s.Track.Album.Name != "" {
			buf.WriteString(fmt.Sprintf("Album: %s\n", s.Track.Album.Name))
		}
	}
	buf.WriteString(fmt.Sprintf("Progress: %s\n", Progress(s.ProgressMs, s.DurationMs)))
	if s.Device.Name != "" {
		buf.WriteString(fmt.Sprintf("Device: %s (%s)\n", s.Device.Name, s.Device.Type))
	}
	buf.WriteString(fmt.Sprintf("Volume: %s %d%%\n", VolumeBar(s.Device.VolumePercent), s.Device.VolumePercent))
	buf.WriteString(fmt.Sprintf("Shuffle: %s  Repeat: %s\n", onOff(s.Shuffle), s.Repeat))

	return buf.Bytes(), nil
}

// SnapshotToMarkdown renders the now playing view with the album cover when one is known.
func SnapshotToMarkdown(s *models.PlaybackSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	if s == nil {
		buf.WriteString("# Nothing playing\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", s.TrackName("Unknown track")))

	if s.Track != nil {
		if cover := s.Track.Album.Cover(); cover != "" {
			buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", cover))
		}
		if artists := s.Track.ArtistNames(); artists != "" {
			buf.WriteString(fmt.Sprintf("**Artist**: %s\n", artists))
		}
		if s.Track.Album.Name != "" {
			buf.WriteString(fmt.Sprintf("**Album**: %s\n", s.Track.Album.Name))
		}
		if s.Track.URL != "" {
			buf.WriteString(fmt.Sprintf("**Link**: <%s>\n", s.Track.URL))
		}
	}

	buf.WriteString(fmt.Sprintf("**State**: %s\n", state(s)))
	buf.WriteString(fmt.Sprintf("**Progress**: %s\n", Progress(s.ProgressMs, s.DurationMs)))
	if s.Device.Name != "" {
		buf.WriteString(fmt.Sprintf("**Device**: %s (%s)\n", s.Device.Name, s.Device.Type))
	}
	buf.WriteString(fmt.Sprintf("**Volume**: %s %d%%\n", VolumeBar(s.Device.VolumePercent), s.Device.VolumePercent))

	return buf.Bytes(), nil
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderSnapshot renders s in format. CSV is not supported for a single snapshot.
func RenderSnapshot(s *models.PlaybackSnapshot, format Format) ([]byte, error) {
	switch format {
	case Text:
		return SnapshotToText(s)
	case Markdown:
		return SnapshotToMarkdown(s)
	case JSON:
		return ToJSON(s)
	default:
		return nil, fmt.Errorf("%w: %s is not available for playback state", shared.ErrInvalidArgument, format)
	}
}

// SearchToText lists each non-empty category with its server total.
func SearchToText(r models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer

	if r.Empty() {
		buf.WriteString("No results\n")
		return buf.Bytes(), nil
	}

	if len(r.Tracks.Items) > 0 {
		buf.WriteString(fmt.Sprintf("Tracks (%s total)\n", humanize.Comma(int64(r.Tracks.Total))))
		for i, t := range r.Tracks.Items {
			buf.WriteString(fmt.Sprintf("%2d. %s - %s [%s] %s\n", i+1, t.ArtistNames(), t.Name, shared.FormatDuration(t.DurationMs), t.URI()))
		}
		buf.WriteString("\n")
	}

	if len(r.Artists.Items) > 0 {
		buf.WriteString(fmt.Sprintf("Artists (%s total)\n", humanize.Comma(int64(r.Artists.Total))))
		for i, a := range r.Artists.Items {
			buf.WriteString(fmt.Sprintf("%2d. %s\n", i+1, a.Name))
		}
		buf.WriteString("\n")
	}

	if len(r.Albums.Items) > 0 {
		buf.WriteString(fmt.Sprintf("Albums (%s total)\n", humanize.Comma(int64(r.Albums.Total))))
		for i, a := range r.Albums.Items {
			buf.WriteString(fmt.Sprintf("%2d. %s%s\n", i+1, a.Name, year(a.ReleaseDate)))
		}
		buf.WriteString("\n")
	}

	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n'), nil
}

// SearchToMarkdown renders results as Markdown sections with links.
func SearchToMarkdown(query string, r models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Search: %s\n\n", query))

	if r.Empty() {
		buf.WriteString("No results\n")
		return buf.Bytes(), nil
	}

	if len(r.Tracks.Items) > 0 {
		buf.WriteString(fmt.Sprintf("## Tracks (%s)\n\n", humanize.Comma(int64(r.Tracks.Total))))
		for i, t := range r.Tracks.Items {
			buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, t.ArtistNames(), link(t.Name, t.URL), shared.FormatDuration(t.DurationMs)))
		}
		buf.WriteString("\n")
	}

	if len(r.Artists.Items) > 0 {
		buf.WriteString(fmt.Sprintf("## Artists (%s)\n\n", humanize.Comma(int64(r.Artists.Total))))
		for i, a := range r.Artists.Items {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, link(a.Name, a.URL)))
		}
		buf.WriteString("\n")
	}

	if len(r.Albums.Items) > 0 {
		buf.WriteString(fmt.Sprintf("## Albums (%s)\n\n", humanize.Comma(int64(r.Albums.Total))))
		for i, a := range r.Albums.Items {
			buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, link(a.Name, a.URL), year(a.ReleaseDate)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// SearchToCSV renders results with columns: Type, ID, Name, Artists, Album, Duration, URI, URL
func SearchToCSV(r models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Type", "ID", "Name", "Artists", "Album", "Duration", "URI", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for _, t := range r.Tracks.Items {
		records = append(records, []string{"track", t.ID, t.Name, t.ArtistNames(), t.Album.Name, shared.FormatDuration(t.DurationMs), t.URI(), t.URL})
	}
	for _, a := range r.Artists.Items {
		records = append(records, []string{"artist", a.ID, a.Name, "", "", "", "spotify:artist:" + a.ID, a.URL})
	}
	for _, a := range r.Albums.Items {
		records = append(records, []string{"album", a.ID, a.Name, "", "", "", "spotify:album:" + a.ID, a.URL})
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderSearch renders r in format.
func RenderSearch(query string, r models.SearchResult, format Format) ([]byte, error) {
	switch format {
	case Text:
		return SearchToText(r)
	case Markdown:
		return SearchToMarkdown(query, r)
	case CSV:
		return SearchToCSV(r)
	case JSON:
		return ToJSON(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteSearchExport renders r in format and writes it to path.
func WriteSearchExport(query string, r models.SearchResult, format Format, path string) error {
	data, err := RenderSearch(query, r, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func link(name, url string) string {
	if url == "" {
		return name
	}
	return fmt.Sprintf("[%s](%s)", name, url)
}

func year(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	return fmt.Sprintf(" (%s)", releaseDate[:4])
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
