// package tasks implements the token lifecycle and player operations.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotconnect/internal/extract"
	"github.com/desertthunder/spotconnect/internal/models"
	"github.com/desertthunder/spotconnect/internal/services"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/tidwall/gjson"
)

const (
	// MaxRefreshRetries caps the refresh-and-retry cycle of an authenticated call.
	MaxRefreshRetries = 1

	// TokenCapacity bounds extracted tokens. Longer values are rejected instead of truncated.
	TokenCapacity = 2048

	// DeviceIDCapacity bounds a device id read by the textual scanner.
	DeviceIDCapacity = 64
)

// TokenStore is the persistence the engine needs.
type TokenStore interface {
	Read(name string) (string, error)
	Write(access, refresh string) error
	Path() string
}

// Engine runs the client's operations. It is not safe for concurrent use.
type Engine struct {
	spotify    services.Service
	tokens     TokenStore
	reader     string
	logger     *log.Logger
	onProgress func(ProgressUpdate)
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Spotify services.Service
	Tokens  TokenStore

	// Reader is shared.ReaderJSON (default) or shared.ReaderScan.
	Reader     string
	Logger     *log.Logger
	OnProgress func(ProgressUpdate)
}

// ChangeResult reports which device a skip was sent to.
type ChangeResult struct {
	Direction services.Direction
	DeviceID  string
	LookedUp  bool
}

// NewEngine creates an [Engine].
func NewEngine(opts EngineOpts) *Engine {
	if opts.Reader == "" {
		opts.Reader = shared.ReaderJSON
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Engine{
		spotify:    opts.Spotify,
		tokens:     opts.Tokens,
		reader:     opts.Reader,
		logger:     opts.Logger,
		onProgress: opts.OnProgress,
	}
}

// Exchange trades an authorization code for a token pair and writes it to the store.
func (e *Engine) Exchange(ctx context.Context, code string) (models.TokenPair, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.TokenPair{}, fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}

	e.sendProgress(requestUpdate(0, "tokens for authorization code"))
	resp, err := e.spotify.ExchangeCode(ctx, code)
	if err != nil {
		return models.TokenPair{}, err
	}

	text := string(resp.Body)
	access, err := tokenField(text, models.KeyAccessToken)
	if err != nil {
		return models.TokenPair{}, exchangeError(resp, err)
	}
	refresh, err := tokenField(text, models.KeyRefreshToken)
	if err != nil {
		return models.TokenPair{}, exchangeError(resp, err)
	}

	pair := models.TokenPair{AccessToken: access, RefreshToken: refresh}
	e.sendProgress(writeTokensUpdate(e.tokens.Path()))
	if err := e.tokens.Write(pair.AccessToken, pair.RefreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to save tokens: %w", err)
	}

	e.logger.Debug("tokens exchanged", "access_token", shared.Redact(access), "path", e.tokens.Path())
	return pair, nil
}

// Refresh requests a new access token and writes it alongside the unchanged refresh token.
//
// A rotated refresh token in the response is ignored.
func (e *Engine) Refresh(ctx context.Context) (models.TokenPair, error) {
	e.sendProgress(ProgressUpdate{Phase: ReadTokens, Message: "Reading refresh token..."})
	refresh, err := e.tokens.Read(models.KeyRefreshToken)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	e.sendProgress(refreshUpdate())
	resp, err := e.spotify.RefreshToken(ctx, refresh)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	access, err := tokenField(string(resp.Body), models.KeyAccessToken)
	if err != nil {
		if apiErr := resp.Err(); apiErr != nil {
			return models.TokenPair{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, apiErr)
		}
		return models.TokenPair{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	e.sendProgress(writeTokensUpdate(e.tokens.Path()))
	if err := e.tokens.Write(access, refresh); err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	e.logger.Info("token refreshed", "access_token", shared.Redact(access))
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// NowPlaying returns the current playback snapshot, or [shared.ErrNothingPlaying].
func (e *Engine) NowPlaying(ctx context.Context) (*models.Playback, error) {
	resp, err := e.authorized(ctx, "currently playing track", func(access string) (*services.APIResponse, error) {
		return e.spotify.CurrentlyPlaying(ctx, access)
	})
	if err != nil {
		return nil, err
	}

	if err := resp.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil, shared.ErrNothingPlaying
	}

	if e.reader == shared.ReaderScan {
		return extract.ScanSnapshot(resp.Body)
	}
	return extract.Snapshot(resp.Body)
}

// Devices lists the user's playback devices.
func (e *Engine) Devices(ctx context.Context) ([]models.Device, error) {
	resp, err := e.authorized(ctx, "devices", func(access string) (*services.APIResponse, error) {
		return e.spotify.Devices(ctx, access)
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return parseDevices(resp.Body), nil
}

// Change skips to the next or previous track. Without a deviceID the active device is looked up first.
func (e *Engine) Change(ctx context.Context, dir services.Direction, deviceID string) (*ChangeResult, error) {
	result := &ChangeResult{Direction: dir, DeviceID: deviceID}

	if deviceID == "" {
		id, err := e.lookupDevice(ctx)
		if err != nil {
			return nil, err
		}
		result.DeviceID, result.LookedUp = id, true
	}

	e.sendProgress(skipUpdate(dir, result.DeviceID))
	resp, err := e.authorized(ctx, "track change", func(access string) (*services.APIResponse, error) {
		return e.spotify.Skip(ctx, access, dir, result.DeviceID)
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) lookupDevice(ctx context.Context) (string, error) {
	e.sendProgress(lookupDeviceUpdate())
	resp, err := e.authorized(ctx, "devices", func(access string) (*services.APIResponse, error) {
		return e.spotify.Devices(ctx, access)
	})
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}

	if e.reader == shared.ReaderScan {
		id, _, err := extract.FieldN(string(resp.Body), "id", DeviceIDCapacity)
		if err != nil || id == "" {
			return "", shared.ErrDeviceNotFound
		}
		return id, nil
	}

	devices := parseDevices(resp.Body)
	for _, d := range devices {
		if d.IsActive && d.ID != "" {
			return d.ID, nil
		}
	}
	for _, d := range devices {
		if d.ID != "" {
			return d.ID, nil
		}
	}
	return "", shared.ErrDeviceNotFound
}

// authorized runs call with the stored access token, refreshing and retrying at most
// MaxRefreshRetries times while the response carries the expiry marker.
func (e *Engine) authorized(ctx context.Context, what string, call func(access string) (*services.APIResponse, error)) (*services.APIResponse, error) {
	for attempt := 0; ; attempt++ {
		e.sendProgress(ProgressUpdate{Phase: ReadTokens, Attempt: attempt, Message: "Reading access token..."})
		access, err := e.tokens.Read(models.KeyAccessToken)
		if err != nil {
			return nil, err
		}

		e.sendProgress(requestUpdate(attempt, what))
		resp, err := call(access)
		if err != nil {
			return nil, err
		}

		if resp.OK() || !extract.IsExpired(resp.Body) {
			return resp, nil
		}
		if attempt >= MaxRefreshRetries {
			return nil, fmt.Errorf("%w: %w: %s", shared.ErrRetryExhausted, shared.ErrTokenExpired, what)
		}

		e.sendProgress(expiredUpdate(attempt))
		e.logger.Warn("access token expired, refreshing", "request", what)
		if _, err := e.Refresh(ctx); err != nil {
			return nil, err
		}
	}
}

func (e *Engine) sendProgress(update ProgressUpdate) {
	if e.onProgress != nil {
		e.onProgress(update)
	}
}

func tokenField(text, key string) (string, error) {
	v, truncated, err := extract.FieldN(text, key, TokenCapacity)
	if err != nil {
		return "", err
	}
	if truncated {
		return "", fmt.Errorf("%w: %s longer than %d bytes", shared.ErrMalformedResponse, key, TokenCapacity-1)
	}
	if v == "" {
		return "", fmt.Errorf("%w: empty %s", shared.ErrFieldNotFound, key)
	}
	return v, nil
}

func exchangeError(resp *services.APIResponse, err error) error {
	if apiErr := resp.Err(); apiErr != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, apiErr)
	}
	return fmt.Errorf("%w: failed to get tokens: %w (response: %s)", shared.ErrAuthFailed, err, truncateForLog(resp.Body))
}

func truncateForLog(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "…"
	}
	return string(body)
}

func parseDevices(body []byte) []models.Device {
	var devices []models.Device
	gjson.GetBytes(body, "devices").ForEach(func(_, d gjson.Result) bool {
		device := models.Device{
			ID:       d.Get("id").String(),
			Name:     d.Get("name").String(),
			Type:     d.Get("type").String(),
			IsActive: d.Get("is_active").Bool(),
		}
		if v := d.Get("volume_percent"); v.Type == gjson.Number {
			n := int(v.Int())
			device.VolumePercent = &n
		}
		devices = append(devices, device)
		return true
	})
	return devices
}

// IsAuthError reports errors that setup can fix.
func IsAuthError(err error) bool {
	return errors.Is(err, shared.ErrTokenFileMissing) ||
		errors.Is(err, shared.ErrTokenNotFound) ||
		errors.Is(err, shared.ErrRetryExhausted) ||
		errors.Is(err, shared.ErrMissingCredentials)
}
