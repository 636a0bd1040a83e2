package main

import (
	"context"
	"strings"

	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and prints or exports the results.
//
// With --browse the results open in the interactive picker instead.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))

	if cmd.Bool("browse") {
		return r.browse(ctx, query)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.JSON
	}

	types := make([]models.SearchType, 0, len(cmd.StringSlice("type")))
	for _, t := range cmd.StringSlice("type") {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				types = append(types, models.SearchType(strings.ToLower(part)))
			}
		}
	}

	r.logger.Debug("searching catalog", "query", query, "types", types)

	result, err := r.commands.Search(ctx, query, types...)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteSearchExport(query, result, format, path); err != nil {
			return err
		}
		r.logger.Info("search results exported", "path", path, "format", format)
		return r.writePlain("✓ Results saved to %s\n", path)
	}

	data, err := formatter.RenderSearch(query, result, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
