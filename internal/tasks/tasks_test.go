package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

type mockPlayer struct {
	snapshots   []*models.PlaybackSnapshot
	currentErr  error
	toggleErr   error
	skipErr     error
	volumeErr   error
	playErr     error
	searchErr   error
	calls       []string
	volume      int
	playedURI   string
	searchQuery string
}

func (m *mockPlayer) CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error) {
	m.calls = append(m.calls, "current")
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	s := m.snapshots[0]
	if len(m.snapshots) > 1 {
		m.snapshots = m.snapshots[1:]
	}
	return s, nil
}

func (m *mockPlayer) TogglePlayPause(ctx context.Context) (*models.PlaybackSnapshot, error) {
	m.calls = append(m.calls, "toggle")
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}
	return m.snapshots[0], nil
}

func (m *mockPlayer) Next(ctx context.Context) error {
	m.calls = append(m.calls, "next")
	return m.skipErr
}

func (m *mockPlayer) Previous(ctx context.Context) error {
	m.calls = append(m.calls, "previous")
	return m.skipErr
}

func (m *mockPlayer) SetVolume(ctx context.Context, percent int) error {
	m.calls = append(m.calls, "volume")
	m.volume = percent
	return m.volumeErr
}

func (m *mockPlayer) PlayTrack(ctx context.Context, uri string) error {
	m.calls = append(m.calls, "play")
	m.playedURI = uri
	return m.playErr
}

func (m *mockPlayer) Search(ctx context.Context, query string, types ...models.SearchType) (models.SearchResult, error) {
	m.calls = append(m.calls, "search")
	m.searchQuery = query
	return models.SearchResult{}, m.searchErr
}

type mockSession struct {
	err   error
	calls int
}

func (m *mockSession) EnsureUserSession(ctx context.Context) error {
	m.calls++
	return m.err
}

func snapshot(playing bool, name string) *models.PlaybackSnapshot {
	s := &models.PlaybackSnapshot{IsPlaying: playing}
	if name != "" {
		s.Track = &models.TrackRef{ID: "id", Name: name}
	}
	return s
}

// recordSleep records requested delays without waiting.
type recordSleep struct {
	delays []time.Duration
	err    error
}

func (r *recordSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}

func newTestCommands(player *mockPlayer, session Session, sleeper *recordSleep) *Commands {
	return NewCommands(player, session, Options{Sleep: sleeper.sleep})
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  *models.PlaybackSnapshot
		wantTitle string
		wantMsg   string
	}{
		{"was playing", snapshot(true, "Song"), "Paused", "Song"},
		{"was paused", snapshot(false, "Song"), "Playing", "Song"},
		{"no track", snapshot(false, ""), "Playing", "Unknown track"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &mockPlayer{snapshots: []*models.PlaybackSnapshot{tt.snapshot}}
			out, err := newTestCommands(player, &mockSession{}, &recordSleep{}).Toggle(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Title != tt.wantTitle || out.Message != tt.wantMsg {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantTitle, tt.wantMsg, out.Title, out.Message)
			}
		})
	}

	t.Run("no active device", func(t *testing.T) {
		player := &mockPlayer{toggleErr: shared.ErrNoActiveDevice}
		_, err := newTestCommands(player, &mockSession{}, &recordSleep{}).Toggle(context.Background())
		if !errors.Is(err, shared.ErrNoActiveDevice) {
			t.Fatalf("expected ErrNoActiveDevice, got %v", err)
		}

		out := Failure(err)
		if out.Title != "No Active Device" || out.Message != "Please open Spotify on your device first" {
			t.Errorf("unexpected failure outcome %+v", out)
		}
	})

	t.Run("session failure stops before the player", func(t *testing.T) {
		player := &mockPlayer{}
		_, err := newTestCommands(player, &mockSession{err: shared.ErrAuth}, &recordSleep{}).Toggle(context.Background())
		if !errors.Is(err, shared.ErrAuth) {
			t.Errorf("expected ErrAuth, got %v", err)
		}
		if len(player.calls) != 0 {
			t.Errorf("expected no player calls, got %v", player.calls)
		}
	})
}

func TestSkip(t *testing.T) {
	t.Run("reports the new track after settling", func(t *testing.T) {
		player := &mockPlayer{snapshots: []*models.PlaybackSnapshot{snapshot(true, "Next Song")}}
		sleeper := &recordSleep{}

		out, err := newTestCommands(player, &mockSession{}, sleeper).Next(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Message != "Next Song" {
			t.Errorf("expected Next Song, got %q", out.Message)
		}
		if len(sleeper.delays) != 1 || sleeper.delays[0] != DefaultSettleDelay {
			t.Errorf("expected one settle of %v, got %v", DefaultSettleDelay, sleeper.delays)
		}
		if len(player.calls) != 2 || player.calls[0] != "next" || player.calls[1] != "current" {
			t.Errorf("expected next then current, got %v", player.calls)
		}
	})

	t.Run("falls back when the read fails", func(t *testing.T) {
		player := &mockPlayer{currentErr: shared.ErrNetwork}
		out, err := newTestCommands(player, &mockSession{}, &recordSleep{}).Next(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Message != "Skipped to next track" {
			t.Errorf("expected fallback, got %q", out.Message)
		}
	})

	t.Run("falls back when nothing is playing", func(t *testing.T) {
		player := &mockPlayer{}
		out, _ := newTestCommands(player, &mockSession{}, &recordSleep{}).Previous(context.Background())
		if out.Title != "Previous Track" || out.Message != "Skipped to previous track" {
			t.Errorf("unexpected outcome %+v", out)
		}
	})

	t.Run("interrupted settle skips the read", func(t *testing.T) {
		player := &mockPlayer{}
		out, err := newTestCommands(player, &mockSession{}, &recordSleep{err: context.Canceled}).Next(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Message != "Skipped to next track" || len(player.calls) != 1 {
			t.Errorf("unexpected outcome %+v calls %v", out, player.calls)
		}
	})

	t.Run("negative settle delay disables waiting", func(t *testing.T) {
		player := &mockPlayer{snapshots: []*models.PlaybackSnapshot{snapshot(true, "X")}}
		sleeper := &recordSleep{}
		c := NewCommands(player, nil, Options{SettleDelay: -1, Sleep: sleeper.sleep})

		if _, err := c.Next(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sleeper.delays) != 0 {
			t.Errorf("expected no sleep, got %v", sleeper.delays)
		}
	})

	t.Run("skip error is returned", func(t *testing.T) {
		player := &mockPlayer{skipErr: shared.ErrNoActiveDevice}
		_, err := newTestCommands(player, &mockSession{}, &recordSleep{}).Next(context.Background())
		if !errors.Is(err, shared.ErrNoActiveDevice) {
			t.Errorf("expected ErrNoActiveDevice, got %v", err)
		}
	})
}

func TestSetVolumeAndPlay(t *testing.T) {
	t.Run("volume is passed through", func(t *testing.T) {
		player := &mockPlayer{}
		out, err := newTestCommands(player, &mockSession{}, &recordSleep{}).SetVolume(context.Background(), 150)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if player.volume != 150 || out.Message != "Set to 150%" {
			t.Errorf("unexpected volume %d outcome %+v", player.volume, out)
		}
	})

	t.Run("volume error", func(t *testing.T) {
		player := &mockPlayer{volumeErr: shared.ErrAPIRequest}
		if _, err := newTestCommands(player, &mockSession{}, &recordSleep{}).SetVolume(context.Background(), 150); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("play", func(t *testing.T) {
		player := &mockPlayer{}
		out, err := newTestCommands(player, &mockSession{}, &recordSleep{}).Play(context.Background(), "spotify:track:1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if player.playedURI != "spotify:track:1" || out.String() != "Playing: spotify:track:1" {
			t.Errorf("unexpected play %q outcome %q", player.playedURI, out.String())
		}
	})
}

func TestSearchSkipsSession(t *testing.T) {
	player := &mockPlayer{}
	session := &mockSession{err: shared.ErrAuth}

	if _, err := newTestCommands(player, session, &recordSleep{}).Search(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.calls != 0 {
		t.Error("search must not require a user session")
	}
	if player.searchQuery != "query" {
		t.Errorf("expected query to be forwarded, got %q", player.searchQuery)
	}
}

func TestProgress(t *testing.T) {
	progress := make(chan ProgressUpdate, 10)
	player := &mockPlayer{snapshots: []*models.PlaybackSnapshot{snapshot(true, "Song")}}
	c := NewCommands(player, &mockSession{}, Options{Progress: progress, Sleep: (&recordSleep{}).sleep})

	if _, err := c.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(progress)

	var phases []Phase
	for u := range progress {
		phases = append(phases, u.Phase)
	}
	want := []Phase{CheckSession, SendCommand, Settle, ReadState}
	if len(phases) != len(want) {
		t.Fatalf("expected %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d: expected %s, got %s", i, want[i], phases[i])
		}
	}

	t.Run("full channel does not block", func(t *testing.T) {
		full := make(chan ProgressUpdate)
		c := NewCommands(&mockPlayer{}, nil, Options{Progress: full})
		done := make(chan struct{})
		go func() {
			c.NowPlaying(context.Background())
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("progress send blocked")
		}
	})
}

func TestFailure(t *testing.T) {
	tests := []struct {
		err   error
		title string
	}{
		{shared.ErrNoActiveDevice, "No Active Device"},
		{shared.ErrAuth, "Authentication Failed"},
		{shared.ErrTimeout, "Failed"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Failure(tt.err).Title; got != tt.title {
				t.Errorf("expected %s, got %s", tt.title, got)
			}
		})
	}
}
