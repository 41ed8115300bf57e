// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// setupCommand runs the authorization code flow
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Authorize with Spotify and save tokens",
		Description: "Prints the authorization URL, then reads the code (or the full redirect URL) from standard input.\n" +
			"With --listen, a local server on the redirect URI receives the code instead.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Receive the code on the local callback server",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Do not open the authorization URL in a browser",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long --listen waits for the redirect",
				Value: 2 * time.Minute,
			},
		},
		Action: r.Setup,
	}
}

// nowCommand prints the current playback
func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Show the currently playing track",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Now,
	}
}

// refreshCommand forces an access token refresh
func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Refresh the access token",
		Action: r.Refresh,
	}
}

// changeCommand skips tracks
func changeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "change",
		Usage:     "Skip to the next or previous track",
		ArgsUsage: "next|prev|previous",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "direction",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "Device ID (defaults to the active device)",
			},
		},
		Action: r.Change,
	}
}

// devicesCommand lists playback devices
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List Spotify Connect devices",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Devices,
	}
}
