package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/desertthunder/spotconnect/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Process exit codes.
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps its error to an exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := shared.NewLogger(stderr)

	runner := NewRunner(RunnerOpts{
		Logger: logger,
		Output: stdout,
		Input:  stdin,
	})

	app := newApp(runner)
	app.Writer = stdout
	app.ErrWriter = stderr

	err := app.Run(ctx, args)
	code := exitCode(err)
	if code != exitOK {
		report(logger, err)
	}
	return code
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotconnect",
		Usage:   "Spotify Connect from the command line",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("SPOTCONNECT_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:       r.configure,
		Action:       r.root,
		OnUsageError: usageError,
		Commands:     r.register(),
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return exitUsage
	default:
		return exitFailure
	}
}

func report(logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		logger.Error("usage error", "error", err)
	case tasks.IsAuthError(err):
		logger.Error(err.Error(), "hint", "run 'spotconnect setup'")
	default:
		logger.Error("command failed", "error", err)
	}
}

// usageError tags flag parsing failures so they exit with the usage code.
func usageError(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
	return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
}
