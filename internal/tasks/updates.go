package tasks

import (
	"fmt"

	"github.com/desertthunder/spotconnect/internal/services"
)

// ProgressUpdate reports one step of an engine operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Attempt int    // Zero for the first try, one after a refresh
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ReadTokens Phase = iota
	Request
	TokenExpired
	Refresh
	WriteTokens
	LookupDevice
	SkipTrack
)

func (p Phase) String() string {
	switch p {
	case ReadTokens:
		return "read_tokens"
	case Request:
		return "request"
	case TokenExpired:
		return "token_expired"
	case Refresh:
		return "refresh"
	case WriteTokens:
		return "write_tokens"
	case LookupDevice:
		return "lookup_device"
	case SkipTrack:
		return "skip_track"
	default:
		return ""
	}
}

func requestUpdate(attempt int, what string) ProgressUpdate {
	return ProgressUpdate{Phase: Request, Attempt: attempt, Message: fmt.Sprintf("Requesting %s...", what)}
}

func expiredUpdate(attempt int) ProgressUpdate {
	return ProgressUpdate{Phase: TokenExpired, Attempt: attempt, Message: "Token expired, refreshing..."}
}

func refreshUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Refresh, Message: "Requesting a new access token..."}
}

func writeTokensUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteTokens, Message: fmt.Sprintf("Saving tokens to %s", path)}
}

func lookupDeviceUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: LookupDevice, Message: "Looking up the active device..."}
}

func skipUpdate(dir services.Direction, deviceID string) ProgressUpdate {
	return ProgressUpdate{Phase: SkipTrack, Message: fmt.Sprintf("Skipping to %s track on %s", dir, deviceID)}
}
