package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/desertthunder/spotconnect/internal/models"
)

func intPtr(v int) *int { return &v }

func TestPlaybackToText(t *testing.T) {
	t.Run("with timing", func(t *testing.T) {
		p := &models.Playback{
			Track: "Song", Artist: "Artist", Album: "Album", IsPlaying: true,
			ProgressMS: intPtr(65000), DurationMS: intPtr(200000),
		}

		want := "Now Playing:\n" +
			"  Track:  Song\n" +
			"  Artist: Artist\n" +
			"  Album:  Album\n" +
			"  Status: Playing\n" +
			"  Time:   1:05 / 3:20\n"

		if got := string(PlaybackToText(p)); got != want {
			t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("paused without timing", func(t *testing.T) {
		p := &models.Playback{Track: "Song", Artist: "Artist", Album: "Album"}
		out := string(PlaybackToText(p))

		if !strings.Contains(out, "  Status: Paused\n") {
			t.Errorf("expected Paused status, got:\n%s", out)
		}
		if strings.Contains(out, "Time:") {
			t.Errorf("expected no Time line, got:\n%s", out)
		}
	})

	t.Run("progress only", func(t *testing.T) {
		p := &models.Playback{Track: "Song", ProgressMS: intPtr(1000)}
		if strings.Contains(string(PlaybackToText(p)), "Time:") {
			t.Error("expected no Time line without duration")
		}
	})
}

func TestPlaybackToJSON(t *testing.T) {
	t.Run("playing", func(t *testing.T) {
		p := &models.Playback{Track: "Song", IsPlaying: true, ProgressMS: intPtr(65000), DurationMS: intPtr(200000)}

		data, err := PlaybackToJSON(p, false)
		if err != nil {
			t.Fatalf("PlaybackToJSON failed: %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON %s: %v", data, err)
		}
		if got["playing"] != true || got["progress"] != "1:05" || got["duration"] != "3:20" {
			t.Errorf("unexpected JSON %s", data)
		}
		if got["playback"].(map[string]any)["track"] != "Song" {
			t.Errorf("missing track in %s", data)
		}
	})

	t.Run("idle", func(t *testing.T) {
		data, err := PlaybackToJSON(nil, false)
		if err != nil {
			t.Fatalf("PlaybackToJSON failed: %v", err)
		}
		if string(data) != `{"playing":false,"playback":null}` {
			t.Errorf("unexpected JSON %s", data)
		}
	})
}

func TestDevices(t *testing.T) {
	devices := []models.Device{
		{ID: "dev-1", Name: "Kitchen", Type: "Speaker", VolumePercent: intPtr(40)},
		{ID: "dev-2", Name: "Laptop", Type: "Computer", IsActive: true},
	}

	t.Run("DevicesToText", func(t *testing.T) {
		data, err := DevicesToText(devices)
		if err != nil {
			t.Fatalf("DevicesToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), data)
		}
		if !strings.Contains(lines[1], "Kitchen") || !strings.Contains(lines[1], "40%") {
			t.Errorf("unexpected row %q", lines[1])
		}
		if !strings.HasPrefix(lines[2], "*") || !strings.HasSuffix(strings.TrimSpace(lines[2]), "-") {
			t.Errorf("expected active marker and no volume, got %q", lines[2])
		}
	})

	t.Run("DevicesToText empty", func(t *testing.T) {
		data, _ := DevicesToText(nil)
		if string(data) != "No devices found\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("DevicesToJSON", func(t *testing.T) {
		data, err := DevicesToJSON(nil, false)
		if err != nil || string(data) != "[]" {
			t.Errorf("expected [], got %s (%v)", data, err)
		}

		data, err = DevicesToJSON(devices, true)
		if err != nil {
			t.Fatalf("DevicesToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), "\n  {") || !strings.Contains(string(data), `"volume_percent": 40`) {
			t.Errorf("unexpected pretty JSON %s", data)
		}
	})
}
