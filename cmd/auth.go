package main

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// AuthLogin acquires an app token with the configured client credentials.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("requesting app token")

	tok, err := r.flow.AcquireClientCredentials(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ App token acquired\n")
	return r.writePlain("Expires: %s\n", humanize.Time(tok.Expiry()))
}

// AuthSession checks that the stored token belongs to a signed-in user.
func (r *Runner) AuthSession(ctx context.Context, cmd *cli.Command) error {
	if err := r.flow.EnsureUserSession(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ User session active\n")
}

// AuthStatus reports what the token store holds without calling Spotify.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	tok, ok, err := r.flow.Token()
	if err != nil {
		return err
	}

	creds := "✗ missing"
	if r.config.Credentials.Spotify.Complete() {
		creds = "✓ configured"
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"credentials":    r.config.Credentials.Spotify.Complete(),
			"access_token":   ok,
			"refresh_token":  tok.RefreshToken != "",
			"expires_at":     tok.ExpiresAt,
			"valid":          ok && tok.Valid(time.Now()),
			"storage_driver": r.config.Storage.Driver,
			"storage_path":   r.storePath,
		}, true)
	}

	r.writePlainHeader("Spotify Authentication")
	r.writePlain("Client credentials: %s\n", creds)
	if r.storePath != "" {
		r.writePlain("Token store:        %s (%s)\n", r.storePath, r.config.Storage.Driver)
	}

	if !ok {
		return r.writePlain("Access token:       ✗ none stored\n")
	}

	state := "✓ valid"
	if !tok.Valid(time.Now()) {
		state = "✗ expired"
	}
	r.writePlain("Access token:       %s, expires %s\n", state, humanize.Time(tok.Expiry()))

	if tok.RefreshToken != "" {
		return r.writePlain("Refresh token:      ✓ stored\n")
	}
	return r.writePlain("Refresh token:      ✗ none\n")
}

// AuthImport stores tokens obtained elsewhere, such as from another Spotify client.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	lifetime := time.Duration(cmd.Int("expires-in")) * time.Second

	tok, err := r.flow.Import(cmd.String("access-token"), cmd.String("refresh-token"), lifetime)
	if err != nil {
		return err
	}

	r.logger.Info("imported tokens", "refresh_token", tok.RefreshToken != "")
	return r.writePlain("✓ Tokens imported, access token expires %s\n", humanize.Time(tok.Expiry()))
}

// AuthLogout clears every stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.flow.Logout(); err != nil {
		return err
	}
	r.logger.Info("tokens cleared")
	return r.writePlain("✓ Logged out\n")
}
