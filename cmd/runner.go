package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/encorelabs/encore/internal/services"
	"github.com/encorelabs/encore/internal/shared"
	"github.com/encorelabs/encore/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	platform  services.Platform
	setlistfm services.SetlistProvider
	livefans  services.ScrapeProvider
	publisher *tasks.Publisher
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service fields are optional overrides; when left nil they are built from
// the config's credentials.
type RunnerOpts struct {
	Config    *shared.Config
	Logger    *log.Logger
	Platform  services.Platform
	SetlistFM services.SetlistProvider
	LiveFans  services.ScrapeProvider
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
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

	r := &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		platform:  opts.Platform,
		setlistfm: opts.SetlistFM,
		livefans:  opts.LiveFans,
		output:    opts.Output,
	}

	r.buildServices()

	return r
}

// buildServices constructs any service not supplied explicitly from the
// current config's credentials. Missing credentials leave the service nil;
// actions that need it report the gap.
func (r *Runner) buildServices() {
	creds := r.config.Credentials

	if r.platform == nil {
		if svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     creds.Spotify.ClientID,
			"client_secret": creds.Spotify.ClientSecret,
			"refresh_token": creds.Spotify.RefreshToken,
			"user_id":       creds.Spotify.UserID,
		}); err == nil {
			r.platform = svc
		}
	}

	if r.setlistfm == nil {
		if svc, err := services.NewSetlistFMService(creds.SetlistFM.APIKey, creds.SetlistFM.BaseURL); err == nil {
			r.setlistfm = svc
		}
	}

	if r.livefans == nil {
		if svc, err := services.NewLiveFansService(creds.LiveFans.MainLambdaURL, creds.LiveFans.SearchLambdaURL); err == nil {
			r.livefans = svc
		}
	}

	r.publisher = tasks.NewPublisher(r.platform, r.logger)
}

// configure reloads config from the command's --config flag, if set, and
// rebuilds the services from the new credentials.
func (r *Runner) configure(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" {
		return
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config", "path", path, "err", err)
		return
	}

	r.config = config
	r.platform = nil
	r.setlistfm = nil
	r.livefans = nil
	r.buildServices()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, publishCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

// Init writes the embedded starter config to the given path.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return nil
}
