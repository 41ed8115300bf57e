package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/spotconnect/internal/formatter"
	"github.com/desertthunder/spotconnect/internal/services"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/urfave/cli/v3"
)

// Now prints the currently playing track, or a notice when the player is idle.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	playback, err := r.engine.NowPlaying(ctx)
	if errors.Is(err, shared.ErrNothingPlaying) {
		r.logger.Debug("player idle")
		if useJSON {
			data, err := formatter.PlaybackToJSON(nil, cmd.Bool("pretty"))
			if err != nil {
				return err
			}
			return r.writeJSON(data)
		}
		return r.writePlain("%s\n", formatter.NothingPlaying)
	}
	if err != nil {
		return err
	}

	if useJSON {
		data, err := formatter.PlaybackToJSON(playback, cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		return r.writeJSON(data)
	}

	return r.writeBytes(formatter.PlaybackToText(playback))
}

// Refresh forces a new access token.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.engine.Refresh(ctx); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.OK("Access token refreshed"))
}

// Change skips to the next or previous track on the given or active device.
func (r *Runner) Change(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("direction")
	if arg == "" {
		return fmt.Errorf("%w: direction (next, prev or previous)", shared.ErrMissingArgument)
	}

	dir, err := services.ParseDirection(arg)
	if err != nil {
		return err
	}

	result, err := r.engine.Change(ctx, dir, cmd.String("device"))
	if err != nil {
		return err
	}

	r.logger.Info("track changed", "direction", result.Direction, "device", result.DeviceID, "looked_up", result.LookedUp)
	return r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Skipped to %s track", result.Direction)))
}

// Devices lists Spotify Connect devices; the active one is marked with *.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	devices, err := r.engine.Devices(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := formatter.DevicesToJSON(devices, cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		return r.writeJSON(data)
	}

	data, err := formatter.DevicesToText(devices)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
