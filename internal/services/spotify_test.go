package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/spotconnect/internal/shared"
	tu "github.com/desertthunder/spotconnect/internal/testing"
)

func newTestService(stub *tu.SpotifyStub) *SpotifyService {
	return NewSpotifyService(SpotifyOpts{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://127.0.0.1:8888/callback",
		AccountsURL:  stub.URL(),
		APIURL:       stub.APIURL(),
	})
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{})

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.apiURL != spotifyBaseURL {
				t.Errorf("expected default api url, got %s", srv.apiURL)
			}
			if srv.config.Endpoint.TokenURL != "https://accounts.spotify.com/api/token" {
				t.Errorf("unexpected token url %s", srv.config.Endpoint.TokenURL)
			}
			if srv.config.RedirectURL != defaultRedirectURI {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})

		t.Run("Overrides", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{AccountsURL: "http://accounts.local/", APIURL: "http://api.local/v1/"})

			if srv.config.Endpoint.TokenURL != "http://accounts.local/api/token" {
				t.Errorf("unexpected token url %s", srv.config.Endpoint.TokenURL)
			}
			if srv.config.Endpoint.AuthURL != "http://accounts.local/authorize" {
				t.Errorf("unexpected auth url %s", srv.config.Endpoint.AuthURL)
			}
			if srv.apiURL != "http://api.local/v1" {
				t.Errorf("unexpected api url %s", srv.apiURL)
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv := NewSpotifyService(SpotifyOpts{ClientID: "test_client_id", ClientSecret: "s"})

		authURL := srv.AuthURL("test_state")
		u, err := url.Parse(authURL)
		if err != nil {
			t.Fatalf("invalid auth url: %v", err)
		}

		if u.Host != "accounts.spotify.com" {
			t.Errorf("auth URL should point at Spotify accounts, got %s", u.Host)
		}
		q := u.Query()
		if q.Get("client_id") != "test_client_id" {
			t.Error("auth URL should contain client_id")
		}
		if q.Get("state") != "test_state" {
			t.Error("auth URL should contain state")
		}
		if q.Get("response_type") != "code" {
			t.Error("auth URL should request a code")
		}
		for _, scope := range []string{"user-read-currently-playing", "user-read-playback-state", "user-modify-playback-state"} {
			if !strings.Contains(q.Get("scope"), scope) {
				t.Errorf("auth URL missing scope %s", scope)
			}
		}
	})

	t.Run("ExchangeCode", func(t *testing.T) {
		t.Run("Posts Form With Basic Auth", func(t *testing.T) {
			stub := tu.NewSpotifyStub(t)
			stub.Respond(http.MethodPost, "/api/token", http.StatusOK, `{"access_token":"a","refresh_token":"r"}`)

			resp, err := newTestService(stub).ExchangeCode(context.Background(), "the-code")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(resp.Body) != `{"access_token":"a","refresh_token":"r"}` {
				t.Errorf("expected raw body, got %s", resp.Body)
			}

			req, body := stub.Last()
			user, pass, ok := req.BasicAuth()
			if !ok || user != "test_client_id" || pass != "test_client_secret" {
				t.Errorf("expected basic auth credentials, got %q %q", user, pass)
			}
			if req.Header.Get("Content-Type") != formContentType {
				t.Errorf("unexpected content type %s", req.Header.Get("Content-Type"))
			}

			form, _ := url.ParseQuery(body)
			if form.Get("grant_type") != "authorization_code" || form.Get("code") != "the-code" {
				t.Errorf("unexpected form %v", form)
			}
			if form.Get("redirect_uri") != "http://127.0.0.1:8888/callback" {
				t.Errorf("unexpected redirect_uri %s", form.Get("redirect_uri"))
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{})
			if _, err := srv.ExchangeCode(context.Background(), "code"); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Code", func(t *testing.T) {
			stub := tu.NewSpotifyStub(t)
			if _, err := newTestService(stub).ExchangeCode(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("RefreshToken", func(t *testing.T) {
		stub := tu.NewSpotifyStub(t)
		stub.Respond(http.MethodPost, "/api/token", http.StatusOK, `{"access_token":"new"}`)

		if _, err := newTestService(stub).RefreshToken(context.Background(), "refresh+/="); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, body := stub.Last()
		form, _ := url.ParseQuery(body)
		if form.Get("grant_type") != "refresh_token" {
			t.Errorf("unexpected grant type %s", form.Get("grant_type"))
		}
		if form.Get("refresh_token") != "refresh+/=" {
			t.Errorf("expected refresh token to survive form encoding, got %s", form.Get("refresh_token"))
		}
		if form.Get("client_id") != "test_client_id" || form.Get("client_secret") != "test_client_secret" {
			t.Errorf("expected client credentials in body, got %v", form)
		}
	})

	t.Run("CurrentlyPlaying", func(t *testing.T) {
		stub := tu.NewSpotifyStub(t)
		stub.Handle(http.MethodGet, "/v1/me/player/currently-playing", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access" {
				t.Errorf("expected bearer token, got %s", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusNoContent)
		})

		resp, err := newTestService(stub).CurrentlyPlaying(context.Background(), "access")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusNoContent || len(resp.Body) != 0 {
			t.Errorf("unexpected response %d %q", resp.StatusCode, resp.Body)
		}
	})

	t.Run("Missing Access Token", func(t *testing.T) {
		srv := NewSpotifyService(SpotifyOpts{})
		if _, err := srv.Devices(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Devices", func(t *testing.T) {
		stub := tu.NewSpotifyStub(t)
		stub.Respond(http.MethodGet, "/v1/me/player/devices", http.StatusOK, `{"devices":[]}`)

		resp, err := newTestService(stub).Devices(context.Background(), "access")
		if err != nil || !resp.OK() {
			t.Fatalf("expected ok response, got %v", err)
		}
	})

	t.Run("Skip", func(t *testing.T) {
		tc := []struct {
			dir  Direction
			path string
		}{
			{dir: Next, path: "/v1/me/player/next"},
			{dir: Previous, path: "/v1/me/player/previous"},
		}

		for _, tt := range tc {
			t.Run(string(tt.dir), func(t *testing.T) {
				stub := tu.NewSpotifyStub(t)
				stub.Respond(http.MethodPost, tt.path, http.StatusNoContent, "")

				if _, err := newTestService(stub).Skip(context.Background(), "access", tt.dir, "dev 1"); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				req, _ := stub.Last()
				if req.URL.Query().Get("device_id") != "dev 1" {
					t.Errorf("expected device_id query, got %s", req.URL.RawQuery)
				}
			})
		}

		t.Run("without device", func(t *testing.T) {
			stub := tu.NewSpotifyStub(t)
			stub.Respond(http.MethodPost, "/v1/me/player/next", http.StatusNoContent, "")

			if _, err := newTestService(stub).Skip(context.Background(), "access", Next, ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if req, _ := stub.Last(); req.URL.RawQuery != "" {
				t.Errorf("expected no query, got %s", req.URL.RawQuery)
			}
		})

		t.Run("invalid direction", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{})
			if _, err := srv.Skip(context.Background(), "access", Direction("shuffle"), ""); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}

func TestParseDirection(t *testing.T) {
	tc := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "next", want: Next},
		{in: "NEXT", want: Next},
		{in: "prev", want: Previous},
		{in: "previous", want: Previous},
		{in: " previous ", want: Previous},
		{in: "back", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
