package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/spotctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive search browser, optionally seeded with a query.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.browse(ctx, strings.Join(cmd.Args().Slice(), " "))
}

func (r *Runner) browse(ctx context.Context, query string) error {
	r.quietLogs()

	model := ui.NewSearchModel(ctx, r.commands, strings.TrimSpace(query))
	if _, err := r.runProgram(model); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// quietLogs stops terminal logging while a bubbletea program owns the screen.
func (r *Runner) quietLogs() {
	if r.config.Log.File == "" {
		r.logger.SetOutput(io.Discard)
	}
}
