package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/spotconnect/internal/server"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/desertthunder/spotconnect/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup runs the authorization code flow and saves the resulting token pair.
//
// Without credentials it writes the example config file and stops.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if !r.config.HasCredentials() {
		return r.setupConfig()
	}

	state := shared.GenerateState()
	authURL := r.spotify.AuthURL(state)

	var (
		callback *server.CallbackServer
		code     string
		err      error
	)

	if cmd.Bool("listen") {
		callback = server.NewCallbackServer(r.config.CallbackAddr(), r.config.CallbackPath(), state,
			shared.WithLogger(r.logger, "component", "callback"))
		if err := callback.Start(); err != nil {
			return err
		}
	}

	r.writePlain("%s\n", r.palette.Title("Authorize spotconnect"))
	r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	if !cmd.Bool("no-browser") {
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("%s\n", r.palette.Warn("Could not open browser automatically."))
		}
	}

	if callback != nil {
		code, err = r.waitCallback(ctx, callback, cmd.Duration("timeout"))
	} else {
		code, err = r.readCode(ctx, state)
	}
	if err != nil {
		return err
	}

	if _, err := r.engine.Exchange(ctx, code); err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.OK("Tokens saved to "+r.tokens.Path()))
	return nil
}

// waitCallback blocks on the local callback server, behind a spinner on a terminal.
func (r *Runner) waitCallback(ctx context.Context, callback *server.CallbackServer, timeout time.Duration) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	label := fmt.Sprintf("Waiting for authorization on %s...", callback.Addr())
	if !r.interactive {
		r.writePlain("%s\n", r.palette.Step(label))
		return callback.Wait(waitCtx)
	}
	return ui.Wait(ctx, r.input, r.output, label, func() (string, error) {
		return callback.Wait(waitCtx)
	})
}

// readCode reads one line from input, through a text prompt on a terminal.
// A pasted redirect URL has its code extracted and its state checked.
func (r *Runner) readCode(ctx context.Context, state string) (string, error) {
	var (
		line string
		err  error
	)
	if r.interactive {
		line, err = ui.Prompt(ctx, r.input, r.output,
			"Paste the authorization code or the full redirect URL:", r.config.Credentials.Spotify.RedirectURI+"?code=...")
	} else {
		r.writePlain("Paste the authorization code or the full redirect URL: ")
		line, err = r.readLine()
	}
	if err != nil {
		return "", err
	}
	return parseCode(line, state)
}

func (r *Runner) readLine() (string, error) {
	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read authorization code: %w", err)
		}
		return "", fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}
	return scanner.Text(), nil
}

// parseCode returns line as the code, or the code query parameter when line is a redirect URL.
func parseCode(line, state string) (string, error) {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "code=") {
		return line, nil
	}

	u, err := url.Parse(line)
	if err != nil {
		return "", fmt.Errorf("%w: redirect URL: %v", shared.ErrInvalidArgument, err)
	}
	query := u.Query()
	if s := query.Get("state"); s != "" && s != state {
		return "", fmt.Errorf("%w: state mismatch in redirect URL", shared.ErrAuthFailed)
	}
	return query.Get("code"), nil
}

// setupConfig writes the example config so the user can fill in client credentials.
func (r *Runner) setupConfig() error {
	if r.configPath == "" {
		r.configPath = shared.DefaultConfigPath()
	}
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("%s\n", r.palette.OK("Config file created at "+r.configPath))
	}

	r.writePlainln("Next steps:")
	r.writePlain("1. Create an app at https://developer.spotify.com/dashboard\n")
	r.writePlain("2. Add %s as a redirect URI\n", r.config.Credentials.Spotify.RedirectURI)
	r.writePlain("3. Set client_id and client_secret in %s (or SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)\n", r.configPath)
	r.writePlain("4. Run 'spotconnect setup' again\n")

	return fmt.Errorf("%w: Spotify client_id and client_secret are not set", shared.ErrMissingCredentials)
}
