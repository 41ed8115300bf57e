package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotconnect/internal/services"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/desertthunder/spotconnect/internal/tasks"
	"github.com/desertthunder/spotconnect/internal/tokens"
	"github.com/desertthunder/spotconnect/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Config, services and the engine are resolved in [Runner.configure] once global flags are parsed,
// unless they were supplied through [RunnerOpts].
type Runner struct {
	config      *shared.Config
	configPath  string
	spotify     services.Service
	tokens      *tokens.Store
	engine      *tasks.Engine
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	palette     *ui.Palette
	openBrowser func(string) error
	interactive bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Spotify     services.Service
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		spotify:     opts.Spotify,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		palette:     ui.NewPalette(opts.Output),
		openBrowser: opts.OpenBrowser,
		interactive: ui.IsTerminal(opts.Input) && ui.IsTerminal(opts.Output),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, nowCommand, refreshCommand, changeCommand, devicesCommand,
	} {
		c := fn(r)
		c.OnUsageError = usageError
		commands = append(commands, c)
	}

	return commands
}

// configure loads the config file and wires the service, token store and engine.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := r.loadConfig(cmd.IsSet("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}
	r.config.ApplyEnv()

	if r.spotify == nil {
		r.spotify = services.NewSpotifyService(services.SpotifyOpts{
			ClientID:         r.config.Credentials.Spotify.ClientID,
			ClientSecret:     r.config.Credentials.Spotify.ClientSecret,
			RedirectURI:      r.config.Credentials.Spotify.RedirectURI,
			AccountsURL:      r.config.HTTP.AccountsURL,
			APIURL:           r.config.HTTP.APIURL,
			Timeout:          r.config.Timeout(),
			MaxResponseBytes: r.config.HTTP.MaxResponseBytes,
			RateLimit:        r.config.HTTP.RateLimit,
		})
	}

	r.tokens = tokens.NewStore(r.config.TokenPath())
	r.engine = tasks.NewEngine(tasks.EngineOpts{
		Spotify:    r.spotify,
		Tokens:     r.tokens,
		Reader:     r.config.Player.Reader,
		Logger:     r.logger,
		OnProgress: r.logProgress,
	})

	r.logger.Debug("configured", "config", r.configPath, "tokens", r.tokens.Path(), "reader", r.config.Player.Reader)
	return ctx, nil
}

// loadConfig reads the config file. A missing file is an error only when the path was given explicitly.
func (r *Runner) loadConfig(explicit bool) (*shared.Config, error) {
	if r.configPath == "" {
		r.configPath = shared.DefaultConfigPath()
	}

	if _, err := os.Stat(r.configPath); err != nil {
		if explicit {
			return nil, fmt.Errorf("%w: config file %s: %v", shared.ErrMissingConfig, r.configPath, err)
		}
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return shared.DefaultConfig(), nil
	}

	return shared.LoadConfig(r.configPath)
}

func (r *Runner) logProgress(u tasks.ProgressUpdate) {
	r.logger.Debug(u.Message, "phase", u.Phase, "attempt", u.Attempt)
}

// root handles invocations without a known subcommand.
func (r *Runner) root(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("%w: unknown command %q", shared.ErrInvalidArgument, cmd.Args().First())
	}
	return cli.ShowAppHelp(cmd)
}

func (r *Runner) writeJSON(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
