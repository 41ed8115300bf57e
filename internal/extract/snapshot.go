package extract

import (
	"bytes"
	"strings"

	"github.com/desertthunder/spotconnect/internal/models"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/tidwall/gjson"
)

// Field capacities used by [ScanSnapshot].
const (
	ValueCapacity  = 64
	StatusCapacity = 16
	NumberCapacity = 32
)

const expiryMarker = "token expired"

// IsExpired reports whether an error body carries the access-token expiry marker.
// The match is case-sensitive. Other 401 bodies, such as a revoked token, are not retried.
func IsExpired(body []byte) bool {
	return bytes.Contains(body, []byte(expiryMarker))
}

// IsIdle reports whether body describes no active item: empty, or item is null or absent.
func IsIdle(body []byte) bool {
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	item := gjson.GetBytes(body, "item")
	return !item.Exists() || item.Type == gjson.Null
}

// Snapshot reads a currently-playing body by structural path.
//
// Returns [shared.ErrNothingPlaying] for an idle body and [ErrMalformed] for invalid JSON.
func Snapshot(body []byte) (*models.Playback, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, shared.ErrNothingPlaying
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}
	if IsIdle(body) {
		return nil, shared.ErrNothingPlaying
	}

	root := gjson.ParseBytes(body)
	item := root.Get("item")

	p := &models.Playback{
		Track:     item.Get("name").String(),
		Artist:    item.Get("artists.0.name").String(),
		Album:     item.Get("album.name").String(),
		IsPlaying: root.Get("is_playing").Bool(),
	}

	p.ProgressMS = number(root.Get("progress_ms"))
	// The player endpoint nests duration_ms under item; accept either placement.
	if p.DurationMS = number(root.Get("duration_ms")); p.DurationMS == nil {
		p.DurationMS = number(item.Get("duration_ms"))
	}

	return p, nil
}

// ScanSnapshot builds the same snapshot as [Snapshot] with the textual scanner.
//
// It only understands the pretty-printed player payload. Names that cannot be found are left empty.
func ScanSnapshot(body []byte) (*models.Playback, error) {
	text := string(body)
	if strings.TrimSpace(text) == "" || strings.Contains(text, `"item":null`) || strings.Contains(text, `"item" : null`) {
		return nil, shared.ErrNothingPlaying
	}

	p := &models.Playback{
		Album:  scanName(text, PosAlbum),
		Artist: scanName(text, PosArtist),
		Track:  scanName(text, PosTrack),
	}

	if status, _, err := FieldN(text, "is_playing", StatusCapacity); err == nil {
		p.IsPlaying = Bool(status)
	}

	progress, _, perr := FieldN(text, "progress_ms", NumberCapacity)
	duration, _, derr := FieldN(text, "duration_ms", NumberCapacity)
	if perr == nil && derr == nil {
		pv, perr := Int(progress)
		dv, derr := Int(duration)
		if perr == nil && derr == nil {
			p.ProgressMS, p.DurationMS = &pv, &dv
		}
	}

	return p, nil
}

func scanName(text string, pos int) string {
	v, err := Name(text, pos)
	if err != nil {
		return ""
	}
	v, _ = clip(v, ValueCapacity)
	return v
}

func number(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	v := int(r.Int())
	return &v
}
