package reveal

import "context"

type EventKind int

const (
	EventReady EventKind = iota + 1
	EventPlaying
	EventPaused
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ParseEventKind maps a wire event name onto an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "ready":
		return EventReady, true
	case "playing":
		return EventPlaying, true
	case "paused":
		return EventPaused, true
	case "ended":
		return EventEnded, true
	}
	return 0, false
}

type Event struct {
	Kind EventKind
}

// Driver is the embedded video player. Events delivers the player's ready
// and state-change callbacks; it is never closed by the driver.
type Driver interface {
	Events() <-chan Event
	Load(mediaID string) error
	Cue(mediaID string) error
	Play() error
	Pause() error
	Mute() error
	Destroy() error
}

// DriverFactory constructs a driver against a visible container.
type DriverFactory func(ctx context.Context, containerID, mediaID string) (Driver, error)
