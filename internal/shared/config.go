package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	// MinResponseBytes and MaxResponseBytes bound http.max_response_bytes.
	MinResponseBytes = 8 * 1024
	MaxResponseBytes = 100 * 1024
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Tokens      TokensConfig      `toml:"tokens"`
	HTTP        HTTPConfig        `toml:"http"`
	Player      PlayerConfig      `toml:"player"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// TokensConfig locates the token file.
type TokensConfig struct {
	Path string `toml:"path"`
}

// HTTPConfig tunes outbound requests.
type HTTPConfig struct {
	TimeoutSeconds   int     `toml:"timeout_seconds"`
	MaxResponseBytes int     `toml:"max_response_bytes"`
	RateLimit        float64 `toml:"rate_limit"`
	AccountsURL      string  `toml:"accounts_url"`
	APIURL           string  `toml:"api_url"`
}

// PlayerConfig selects how the currently-playing payload is read.
type PlayerConfig struct {
	Reader string `toml:"reader"`
}

// Player payload readers.
const (
	ReaderJSON = "json"
	ReaderScan = "scan"
)

// ServerConfig contains the local OAuth callback listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials from SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
}

// Validate checks the bounds of numeric settings.
func (c *Config) Validate() error {
	if n := c.HTTP.MaxResponseBytes; n < MinResponseBytes || n > MaxResponseBytes {
		return fmt.Errorf("%w: http.max_response_bytes must be between %d and %d, got %d",
			ErrInvalidConfig, MinResponseBytes, MaxResponseBytes, n)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: http.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if r := c.Player.Reader; r != ReaderJSON && r != ReaderScan {
		return fmt.Errorf("%w: player.reader must be %q or %q, got %q", ErrInvalidConfig, ReaderJSON, ReaderScan, r)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("%w: http.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasCredentials reports whether a client id and secret are configured.
func (c *Config) HasCredentials() bool {
	s := c.Credentials.Spotify
	return s.ClientID != "" && s.ClientSecret != "" && s.ClientID != "your_spotify_client_id"
}

// Timeout returns the request timeout as a [time.Duration].
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// TokenPath returns the configured token file, or the per-user default.
func (c *Config) TokenPath() string {
	if c.Tokens.Path != "" {
		return c.Tokens.Path
	}
	return DefaultTokenPath()
}

// DefaultTokenPath resolves $XDG_STATE_HOME/spotconnect/token, falling back to ~/.local/state.
func DefaultTokenPath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "spotconnect", "token")
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "spotconnect", "token")
}

// DefaultConfigPath resolves the per-user config file, $XDG_CONFIG_HOME/spotconnect/config.toml on Linux.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "spotconnect", "config.toml")
}

// CallbackAddr returns the host:port the local callback server listens on.
func (c *Config) CallbackAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// CallbackPath returns the path component of the redirect URI, "/callback" when unset.
func (c *Config) CallbackPath() string {
	u, err := url.Parse(c.Credentials.Spotify.RedirectURI)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}
