package models

import "testing"

func TestTokenPair(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			pair    TokenPair
			wantErr bool
		}{
			{name: "valid", pair: TokenPair{AccessToken: "a", RefreshToken: "r"}},
			{name: "empty access", pair: TokenPair{RefreshToken: "r"}, wantErr: true},
			{name: "empty refresh", pair: TokenPair{AccessToken: "a"}, wantErr: true},
			{name: "newline in access", pair: TokenPair{AccessToken: "a\nrefresh_token=x", RefreshToken: "r"}, wantErr: true},
			{name: "carriage return in refresh", pair: TokenPair{AccessToken: "a", RefreshToken: "r\r"}, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.pair.Validate()
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("OAuth2", func(t *testing.T) {
		tok := TokenPair{AccessToken: "a", RefreshToken: "r"}.OAuth2()
		if tok.AccessToken != "a" || tok.RefreshToken != "r" {
			t.Errorf("unexpected token %+v", tok)
		}
		if tok.Type() != "Bearer" {
			t.Errorf("expected Bearer token type, got %s", tok.Type())
		}
	})
}

func TestPlayback(t *testing.T) {
	progress, duration := 1, 2

	p := Playback{IsPlaying: true}
	if p.Status() != "Playing" {
		t.Errorf("expected Playing, got %s", p.Status())
	}
	if p.HasTiming() {
		t.Error("expected no timing without progress and duration")
	}

	p = Playback{ProgressMS: &progress, DurationMS: &duration}
	if p.Status() != "Paused" {
		t.Errorf("expected Paused, got %s", p.Status())
	}
	if !p.HasTiming() {
		t.Error("expected timing")
	}
}
