package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/services"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tasks"
	"github.com/desertthunder/spotctl/internal/tokens"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	storePath  string
	flow       *auth.Flow
	commands   *tasks.Commands
	logger     *log.Logger
	output     io.Writer
	openURL    func(string) error
	runProgram func(tea.Model) (tea.Model, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      tokens.Store
	StorePath  string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner wires the auth flow, API client, player and command layer from the provided configuration.
//
// A nil Store falls back to an in-memory store, so tokens do not outlive the process.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = tokens.NewMemoryStore(nil)
	}

	cfg := opts.Config
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = services.DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	flow := auth.NewFlow(auth.Options{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		TokenURL:     cfg.API.TokenURL,
		APIBaseURL:   cfg.API.BaseURL,
		HTTPClient:   opts.HTTPClient,
		Store:        opts.Store,
		Logger:       opts.Logger,
	})

	client := services.NewClient(services.ClientOpts{
		BaseURL:           cfg.API.BaseURL,
		HTTPClient:        opts.HTTPClient,
		Timeout:           timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Store:             opts.Store,
		Refresher:         flow,
		Logger:            opts.Logger,
	})
	player := services.NewSpotifyPlayer(client, flow, opts.Logger)

	commands := tasks.NewCommands(player, flow, tasks.Options{
		SettleDelay: time.Duration(cfg.Playback.SettleDelayMS) * time.Millisecond,
		Logger:      opts.Logger,
	})

	return &Runner{
		config:     cfg,
		configPath: opts.ConfigPath,
		storePath:  opts.StorePath,
		flow:       flow,
		commands:   commands,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    shared.OpenBrowser,
		runProgram: runProgram,
	}
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:     "spotctl",
		Usage:    "Control Spotify playback and search the catalog from the terminal",
		Version:  version,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		nowCommand, toggleCommand, nextCommand, previousCommand, volumeCommand, playCommand,
		searchCommand, authCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func runProgram(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
