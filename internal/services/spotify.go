// Spotify Web API implementation of [Service]
//
// Endpoints documented at https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/spotconnect/internal/models"
	"github.com/desertthunder/spotconnect/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	spotifyBaseURL      = "https://api.spotify.com/v1"
	defaultRedirectURI  = "http://127.0.0.1:8888/callback"
	formContentType     = "application/x-www-form-urlencoded"
	jsonContentType     = "application/json"
	playerPath          = "/me/player"
	currentlyPlayingKey = "/currently-playing"
)

// Scopes requested during setup.
var Scopes = []string{
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

// Direction is a track skip direction.
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// ParseDirection accepts next, prev and previous.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next":
		return Next, nil
	case "prev", "previous":
		return Previous, nil
	default:
		return "", fmt.Errorf("%w: direction must be next, prev or previous, got %q", shared.ErrInvalidArgument, s)
	}
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AccountsURL and APIURL override the Spotify hosts (for tests and proxies).
	AccountsURL string
	APIURL      string

	HTTPClient       *http.Client
	Timeout          time.Duration
	MaxResponseBytes int
	RateLimit        float64
}

// SpotifyService talks to the Spotify accounts and player endpoints, returning raw bodies.
type SpotifyService struct {
	config  *oauth2.Config
	apiURL  string
	api     *APIService
	timeout time.Duration
}

// NewSpotifyService creates a Spotify service. Client credentials are only needed for
// [SpotifyService.AuthURL], [SpotifyService.ExchangeCode] and [SpotifyService.RefreshToken].
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	redirectURI := opts.RedirectURI
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   spotifyauth.AuthURL,
		TokenURL:  spotifyauth.TokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	if opts.AccountsURL != "" {
		base := strings.TrimRight(opts.AccountsURL, "/")
		endpoint.AuthURL = base + "/authorize"
		endpoint.TokenURL = base + "/api/token"
	}

	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = spotifyBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		apiURL:  apiURL,
		api:     NewAPIService(client, opts.MaxResponseBytes, opts.RateLimit),
		timeout: opts.Timeout,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization URL the user opens to grant access.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for tokens. The body is compact JSON.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*APIResponse, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {s.config.RedirectURL},
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := s.tokenRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)
	return s.api.Do(req)
}

// RefreshToken requests a new access token for refreshToken.
func (s *SpotifyService) RefreshToken(ctx context.Context, refreshToken string) (*APIResponse, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token", shared.ErrMissingArgument)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := s.tokenRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	return s.api.Do(req)
}

// CurrentlyPlaying fetches the player's current item.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context, accessToken string) (*APIResponse, error) {
	return s.doRequest(ctx, http.MethodGet, playerPath+currentlyPlayingKey, nil, accessToken)
}

// Devices lists the user's Spotify Connect devices.
func (s *SpotifyService) Devices(ctx context.Context, accessToken string) (*APIResponse, error) {
	return s.doRequest(ctx, http.MethodGet, playerPath+"/devices", nil, accessToken)
}

// Skip moves playback on deviceID to the next or previous track.
func (s *SpotifyService) Skip(ctx context.Context, accessToken string, dir Direction, deviceID string) (*APIResponse, error) {
	if dir != Next && dir != Previous {
		return nil, fmt.Errorf("%w: direction %q", shared.ErrInvalidArgument, dir)
	}

	query := url.Values{}
	if deviceID != "" {
		query.Set("device_id", deviceID)
	}
	return s.doRequest(ctx, http.MethodPost, playerPath+"/"+string(dir), query, accessToken)
}

// doRequest performs an authenticated request against the Web API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, query url.Values, accessToken string) (*APIResponse, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token", shared.ErrMissingArgument)
	}

	apiURL := s.apiURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	models.TokenPair{AccessToken: accessToken}.OAuth2().SetAuthHeader(req)
	req.Header.Set("Content-Type", jsonContentType)

	return s.api.Do(req)
}

func (s *SpotifyService) tokenRequest(ctx context.Context, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)
	return req, nil
}

func (s *SpotifyService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *SpotifyService) requireCredentials() error {
	if s.config.ClientID == "" || s.config.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set", shared.ErrMissingCredentials)
	}
	return nil
}
