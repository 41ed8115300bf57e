package shared

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors. Everything "not found" wraps ErrNotFound.
	ErrNotFound          = errors.New("not found")
	ErrTokenFileMissing  = fmt.Errorf("%w: token file missing, run setup first", ErrNotFound)
	ErrTokenNotFound     = fmt.Errorf("%w: token", ErrNotFound)
	ErrFieldNotFound     = fmt.Errorf("%w: field", ErrNotFound)
	ErrDeviceNotFound    = fmt.Errorf("%w: no active Spotify device", ErrNotFound)
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrNotFound)

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTokenExpired   = fmt.Errorf("access token expired")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrRetryExhausted = fmt.Errorf("access token still expired after refresh")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// Transport errors
	ErrNetwork          = fmt.Errorf("network request failed")
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrResponseTooLarge = fmt.Errorf("response too large")

	// Playback state
	ErrNothingPlaying = fmt.Errorf("nothing is currently playing")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrCancelled       = fmt.Errorf("cancelled")
)
