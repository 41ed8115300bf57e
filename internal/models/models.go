// package models defines the data model for the Spotify Connect client
package models

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Token file keys, in the order they are written.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenPair is the access/refresh credential pair issued by the OAuth provider.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Validate checks that neither token is empty or spans lines, since the token file has no escaping.
func (p TokenPair) Validate() error {
	for key, v := range map[string]string{KeyAccessToken: p.AccessToken, KeyRefreshToken: p.RefreshToken} {
		if v == "" {
			return fmt.Errorf("%s is empty", key)
		}
		for _, r := range v {
			if r == '\n' || r == '\r' {
				return fmt.Errorf("%s contains a line break", key)
			}
		}
	}
	return nil
}

// OAuth2 returns the pair as a Bearer [oauth2.Token].
func (p TokenPair) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
	}
}

// Playback is the conceptual player state read from the currently-playing endpoint.
type Playback struct {
	Track      string `json:"track"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS *int   `json:"progress_ms,omitempty"`
	DurationMS *int   `json:"duration_ms,omitempty"`
}

// Status renders IsPlaying as "Playing" or "Paused".
func (p Playback) Status() string {
	if p.IsPlaying {
		return "Playing"
	}
	return "Paused"
}

// HasTiming reports whether both progress and duration are known.
func (p Playback) HasTiming() bool {
	return p.ProgressMS != nil && p.DurationMS != nil
}

// Device is a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent *int   `json:"volume_percent,omitempty"`
}
