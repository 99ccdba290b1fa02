// Package playerbridge drives a browser-side video player over a WebSocket.
// The server owns the reveal state machine; the browser renders the player,
// executes the commands it receives and reports player callbacks back.
package playerbridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AnshRaj112/multicrypto-funnel/internal/media"
	"github.com/AnshRaj112/multicrypto-funnel/internal/reveal"
)

const (
	commandBuffer = 16
	eventBuffer   = 16
)

var (
	ErrDestroyed       = errors.New("player destroyed")
	ErrBackpressure    = errors.New("player command queue full")
	ErrAlreadyAttached = errors.New("player already attached to a connection")
)

// Command is a single instruction for the browser-side player.
type Command struct {
	Cmd       string `json:"cmd"`
	Media     string `json:"media,omitempty"`
	Source    string `json:"source,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Container string `json:"container,omitempty"`
}

// ClientEvent is what the browser reports back.
type ClientEvent struct {
	Event string `json:"event"`
}

// Driver implements reveal.Driver by queueing commands for whichever
// connection is attached.
type Driver struct {
	container string
	source    media.Source

	commands chan Command
	events   chan reveal.Event
	done     chan struct{}

	mu        sync.Mutex
	destroyed bool
	attached  bool
}

var _ reveal.Driver = (*Driver)(nil)

func New(container string, source media.Source) *Driver {
	return &Driver{
		container: container,
		source:    source,
		commands:  make(chan Command, commandBuffer),
		events:    make(chan reveal.Event, eventBuffer),
		done:      make(chan struct{}),
	}
}

// CreateCommand is sent first on every attached connection.
func (d *Driver) CreateCommand() Command {
	return Command{
		Cmd:       "create",
		Media:     d.source.MediaID,
		Source:    d.source.URL,
		Provider:  d.source.Provider,
		Container: d.container,
	}
}

func (d *Driver) send(c Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}
	select {
	case d.commands <- c:
		return nil
	default:
		return ErrBackpressure
	}
}

func (d *Driver) Events() <-chan reveal.Event { return d.events }

func (d *Driver) Load(mediaID string) error { return d.send(Command{Cmd: "load", Media: mediaID}) }

func (d *Driver) Cue(mediaID string) error { return d.send(Command{Cmd: "cue", Media: mediaID}) }

func (d *Driver) Play() error { return d.send(Command{Cmd: "play"}) }

func (d *Driver) Pause() error { return d.send(Command{Cmd: "pause"}) }

func (d *Driver) Mute() error { return d.send(Command{Cmd: "mute"}) }

// Destroy queues a final destroy command and releases the connection.
// Calling it again is a no-op.
func (d *Driver) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return nil
	}
	d.destroyed = true
	select {
	case d.commands <- Command{Cmd: "destroy"}:
	default:
	}
	close(d.done)
	return nil
}

// Deliver forwards a browser callback to the reveal controller.
func (d *Driver) Deliver(name string) error {
	kind, ok := reveal.ParseEventKind(name)
	if !ok {
		return fmt.Errorf("unknown player event %q", name)
	}
	select {
	case <-d.done:
		return ErrDestroyed
	default:
	}
	select {
	case d.events <- reveal.Event{Kind: kind}:
		return nil
	default:
		return ErrBackpressure
	}
}

func (d *Driver) Commands() <-chan Command { return d.commands }

func (d *Driver) Done() <-chan struct{} { return d.done }

// Attach claims the driver for one connection.
func (d *Driver) Attach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}
	if d.attached {
		return ErrAlreadyAttached
	}
	d.attached = true
	return nil
}

func (d *Driver) Detach() {
	d.mu.Lock()
	d.attached = false
	d.mu.Unlock()
}
