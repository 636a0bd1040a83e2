package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tokens"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file from the template, checks the token store and prints the steps for creating a Spotify app.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			r.logger.Info("config file already exists", "path", configPath)
		} else {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
			}
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if _, _, err := r.flow.Store().Get(tokens.KeyAccessToken); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	r.logger.Info("token store ready", "driver", r.config.Storage.Driver, "path", r.storePath)

	r.writePlainHeader("spotctl setup")
	if configPath != "" {
		r.writePlain("Config file: %s\n", configPath)
	}
	if r.storePath != "" {
		r.writePlain("Token store: %s\n", r.storePath)
	}
	r.writePlain("\nNext steps:\n")
	r.writePlain("1. Open %s and create an app\n", shared.DashboardURL)
	r.writePlain("2. Copy its client id and secret into the config file\n")
	r.writePlain("   (or export %s and %s)\n", shared.EnvClientID, shared.EnvClientSecret)
	r.writePlain("3. Run 'spotctl auth login' to check the credentials\n")
	r.writePlain("4. Run 'spotctl auth import' with tokens from a signed-in client for playback control\n")

	if r.config.Credentials.Spotify.Complete() {
		r.writePlain("\n✓ Client credentials already configured\n")
	}

	if cmd.Bool("open") {
		if err := r.openURL(shared.DashboardURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
			return r.writePlain("\nOpen %s in your browser to continue\n", shared.DashboardURL)
		}
	}

	return nil
}
