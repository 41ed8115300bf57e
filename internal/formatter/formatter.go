// package formatter renders playback snapshots and device lists as plain text or JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/desertthunder/spotconnect/internal/models"
	"github.com/desertthunder/spotconnect/internal/shared"
)

// NothingPlaying is printed when the player has no active item.
const NothingPlaying = "Nothing is currently playing"

// PlaybackToText renders a snapshot as the "Now Playing" block. The Time line is omitted without timing.
func PlaybackToText(p *models.Playback) []byte {
	var buf bytes.Buffer

	buf.WriteString("Now Playing:\n")
	buf.WriteString(fmt.Sprintf("  Track:  %s\n", p.Track))
	buf.WriteString(fmt.Sprintf("  Artist: %s\n", p.Artist))
	buf.WriteString(fmt.Sprintf("  Album:  %s\n", p.Album))
	buf.WriteString(fmt.Sprintf("  Status: %s\n", p.Status()))

	if p.HasTiming() {
		buf.WriteString(fmt.Sprintf("  Time:   %s / %s\n",
			shared.FormatDuration(*p.ProgressMS), shared.FormatDuration(*p.DurationMS)))
	}

	return buf.Bytes()
}

// PlaybackJSON is the JSON view of a snapshot. Nil p renders as an idle player.
type PlaybackJSON struct {
	Playing  bool             `json:"playing"`
	Playback *models.Playback `json:"playback"`
	Progress string           `json:"progress,omitempty"`
	Duration string           `json:"duration,omitempty"`
}

// PlaybackToJSON renders a snapshot, or the idle state when p is nil.
func PlaybackToJSON(p *models.Playback, pretty bool) ([]byte, error) {
	view := PlaybackJSON{Playback: p}
	if p != nil {
		view.Playing = p.IsPlaying
		if p.HasTiming() {
			view.Progress = shared.FormatDuration(*p.ProgressMS)
			view.Duration = shared.FormatDuration(*p.DurationMS)
		}
	}
	return MarshalJSON(view, pretty)
}

// DevicesToText renders devices as an aligned table with the active device marked.
func DevicesToText(devices []models.Device) ([]byte, error) {
	var buf bytes.Buffer
	if len(devices) == 0 {
		buf.WriteString("No devices found\n")
		return buf.Bytes(), nil
	}

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tTYPE\tVOLUME")
	for _, d := range devices {
		marker := ""
		if d.IsActive {
			marker = "*"
		}
		volume := "-"
		if d.VolumePercent != nil {
			volume = fmt.Sprintf("%d%%", *d.VolumePercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, d.ID, d.Name, d.Type, volume)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render devices: %w", err)
	}
	return buf.Bytes(), nil
}

// DevicesToJSON renders devices as an array, never null.
func DevicesToJSON(devices []models.Device, pretty bool) ([]byte, error) {
	if devices == nil {
		devices = []models.Device{}
	}
	return MarshalJSON(devices, pretty)
}

// MarshalJSON marshals v, indented with two spaces when pretty.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}
