package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/services"
	"github.com/desertthunder/spotctl/internal/shared"
)

// DefaultSettleDelay is how long next/previous wait before reading the new track.
const DefaultSettleDelay = time.Second

const unknownTrack = "Unknown track"

// Session verifies that a user session is available.
type Session interface {
	EnsureUserSession(ctx context.Context) error
}

// Outcome is the displayable result of a command.
type Outcome struct {
	Title    string
	Message  string
	Snapshot *models.PlaybackSnapshot
}

func (o Outcome) String() string {
	if o.Message == "" {
		return o.Title
	}
	return o.Title + ": " + o.Message
}

// Options configures [Commands].
type Options struct {
	// SettleDelay defaults to [DefaultSettleDelay]; a negative value disables waiting.
	SettleDelay time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep    func(ctx context.Context, d time.Duration) error
	Progress chan<- ProgressUpdate
	Logger   *log.Logger
}

// Commands runs playback intents against a player.
type Commands struct {
	player      services.Player
	session     Session
	settleDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	progress    chan<- ProgressUpdate
	logger      *log.Logger
}

// NewCommands creates [Commands]. A nil session skips the session check.
func NewCommands(player services.Player, session Session, opts Options) *Commands {
	c := &Commands{
		player:      player,
		session:     session,
		settleDelay: opts.SettleDelay,
		sleep:       opts.Sleep,
		progress:    opts.Progress,
		logger:      opts.Logger,
	}
	if c.settleDelay == 0 {
		c.settleDelay = DefaultSettleDelay
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// NowPlaying returns the current snapshot, nil when nothing is playing.
func (c *Commands) NowPlaying(ctx context.Context) (*models.PlaybackSnapshot, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	sendProgress(c.progress, ReadState, "Reading playback state...")
	return c.player.CurrentPlayback(ctx)
}

// Toggle pauses or resumes playback.
func (c *Commands) Toggle(ctx context.Context) (Outcome, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Outcome{}, err
	}

	sendProgress(c.progress, SendCommand, "Toggling playback...")
	before, err := c.player.TogglePlayPause(ctx)
	if err != nil {
		return Outcome{}, err
	}

	title := "Playing"
	if before.IsPlaying {
		title = "Paused"
	}
	return Outcome{Title: title, Message: before.TrackName(unknownTrack), Snapshot: before}, nil
}

// Next skips to the next track and reports what is playing afterwards.
func (c *Commands) Next(ctx context.Context) (Outcome, error) {
	return c.skip(ctx, "Next Track", "Skipped to next track", c.player.Next)
}

// Previous returns to the previous track and reports what is playing afterwards.
func (c *Commands) Previous(ctx context.Context) (Outcome, error) {
	return c.skip(ctx, "Previous Track", "Skipped to previous track", c.player.Previous)
}

func (c *Commands) skip(ctx context.Context, title, fallback string, action func(context.Context) error) (Outcome, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Outcome{}, err
	}

	sendProgress(c.progress, SendCommand, title+"...")
	if err := action(ctx); err != nil {
		return Outcome{}, err
	}

	if c.settleDelay > 0 {
		sendProgress(c.progress, Settle, "Waiting for the player...")
		if err := c.sleep(ctx, c.settleDelay); err != nil {
			return Outcome{Title: title, Message: fallback}, nil
		}
	}

	sendProgress(c.progress, ReadState, "Reading new track...")
	after, err := c.player.CurrentPlayback(ctx)
	if err != nil {
		c.logger.Warn("could not read track after skip", "err", err)
		return Outcome{Title: title, Message: fallback}, nil
	}
	if after == nil || after.Track == nil {
		return Outcome{Title: title, Message: fallback, Snapshot: after}, nil
	}
	return Outcome{Title: title, Message: after.Track.Name, Snapshot: after}, nil
}

// SetVolume sets the device volume. The percent is not clamped.
func (c *Commands) SetVolume(ctx context.Context, percent int) (Outcome, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Outcome{}, err
	}

	sendProgress(c.progress, SendCommand, "Setting volume...")
	if err := c.player.SetVolume(ctx, percent); err != nil {
		return Outcome{}, err
	}
	return Outcome{Title: "Volume", Message: fmt.Sprintf("Set to %d%%", percent)}, nil
}

// Play starts a single track.
func (c *Commands) Play(ctx context.Context, uri string) (Outcome, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Outcome{}, err
	}

	sendProgress(c.progress, SendCommand, "Starting playback...")
	if err := c.player.PlayTrack(ctx, uri); err != nil {
		return Outcome{}, err
	}
	return Outcome{Title: "Playing", Message: uri}, nil
}

// Search queries the catalog with an app token.
func (c *Commands) Search(ctx context.Context, query string, types ...models.SearchType) (models.SearchResult, error) {
	sendProgress(c.progress, SearchCatalog, fmt.Sprintf("Searching for %q...", query))
	return c.player.Search(ctx, query, types...)
}

func (c *Commands) ensureSession(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	sendProgress(c.progress, CheckSession, "Checking session...")
	return c.session.EnsureUserSession(ctx)
}

// Failure returns the outcome displayed for err.
func Failure(err error) Outcome {
	switch {
	case errors.Is(err, shared.ErrNoActiveDevice):
		return Outcome{Title: "No Active Device", Message: shared.Describe(err)}
	case errors.Is(err, shared.ErrAuth), errors.Is(err, shared.ErrMissingCredentials):
		return Outcome{Title: "Authentication Failed", Message: shared.Describe(err)}
	default:
		return Outcome{Title: "Failed", Message: shared.Describe(err)}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
