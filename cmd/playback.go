package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tasks"
	"github.com/desertthunder/spotctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// NowPlaying prints the current playback snapshot.
func (r *Runner) NowPlaying(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.JSON
	}

	snapshot, err := r.commands.NowPlaying(ctx)
	if err != nil {
		return err
	}

	data, err := formatter.RenderSnapshot(snapshot, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Toggle pauses or resumes playback on the active device.
func (r *Runner) Toggle(ctx context.Context, cmd *cli.Command) error {
	return r.printOutcome(r.commands.Toggle(ctx))
}

// Next skips to the next track and reports what is playing after the skip settles.
func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	return r.printOutcome(r.commands.Next(ctx))
}

// Previous returns to the previous track.
func (r *Runner) Previous(ctx context.Context, cmd *cli.Command) error {
	return r.printOutcome(r.commands.Previous(ctx))
}

// Volume sets the device volume, or opens the preset picker with --pick.
func (r *Runner) Volume(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("pick") {
		return r.pickVolume(ctx)
	}

	arg := strings.TrimSuffix(strings.TrimSpace(cmd.StringArg("percent")), "%")
	if arg == "" {
		return fmt.Errorf("%w: volume percent (or --pick)", shared.ErrMissingArgument)
	}
	percent, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: volume must be a whole number, got %q", shared.ErrInvalidArgument, arg)
	}

	return r.printOutcome(r.commands.SetVolume(ctx, percent))
}

func (r *Runner) pickVolume(ctx context.Context) error {
	current := -1
	if snapshot, err := r.commands.NowPlaying(ctx); err != nil {
		r.logger.Debug("could not read current volume", "error", err)
	} else if snapshot != nil {
		current = snapshot.Device.VolumePercent
	}

	r.quietLogs()
	model := ui.NewVolumeModel(ctx, r.commands, current)
	if _, err := r.runProgram(model); err != nil {
		return fmt.Errorf("error running volume picker: %w", err)
	}

	outcome, err := model.Result()
	if err != nil {
		return err
	}
	if outcome.Title == "" {
		r.logger.Debug("volume picker closed without a selection")
	}
	return nil
}

// Play starts playback of a track URI on the active device.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	return r.printOutcome(r.commands.Play(ctx, cmd.StringArg("uri")))
}

func (r *Runner) printOutcome(outcome tasks.Outcome, err error) error {
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", outcome)
}
