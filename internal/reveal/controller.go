// Package reveal runs the gated video on the reveal screen: it arbitrates
// autoplay against manual play/pause and latches whether the video has ever
// played, which alone decides if the floating call-to-action is shown.
package reveal

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
)

type State int

const (
	Idle State = iota
	Initializing
	Ready
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// DefaultReadyTimeout is how long to wait for the driver's ready callback
// before nudging it with a reload.
const DefaultReadyTimeout = 1500 * time.Millisecond

type Snapshot struct {
	State         State  `json:"-"`
	StateName     string `json:"state"`
	HasEverPlayed bool   `json:"has_ever_played"`
	Loading       bool   `json:"loading"`
	Autoplay      bool   `json:"autoplay"`
	CTAVisible    bool   `json:"cta_visible"`
}

type Controller struct {
	factory      DriverFactory
	containerID  string
	mediaID      string
	readyTimeout time.Duration
	onCTA        func(visible bool)
	logger       *zap.Logger

	mu            sync.Mutex
	state         State
	autoplay      bool
	hasEverPlayed bool
	loading       bool
	driver        Driver
	destroyed     bool
	readyTimer    *time.Timer
	cancel        context.CancelFunc
	done          chan struct{}
}

type Option func(*Controller)

func WithReadyTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.readyTimeout = d
		}
	}
}

// WithCTAListener is called once, outside the controller lock, when the
// call-to-action becomes visible. It must not call Close.
func WithCTAListener(fn func(visible bool)) Option {
	return func(c *Controller) { c.onCTA = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(factory DriverFactory, containerID, mediaID string, opts ...Option) *Controller {
	c := &Controller{
		factory:      factory,
		containerID:  containerID,
		mediaID:      mediaID,
		readyTimeout: DefaultReadyTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin moves Idle -> Initializing and constructs the driver. If ctx is
// cancelled before the driver exists the setup is undone and Begin is a
// no-op. Driver construction failures are logged and leave the controller
// Idle so Begin can be retried.
func (c *Controller) Begin(ctx context.Context, autoplay bool) {
	c.mu.Lock()
	if c.state != Idle || c.destroyed || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.state = Initializing
	c.autoplay = autoplay
	c.loading = true
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	drv, err := c.factory(loopCtx, c.containerID, c.mediaID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("video player init failed", zap.Error(err))
		c.resetLocked()
		return
	}
	if loopCtx.Err() != nil || c.destroyed {
		c.logger.Debug("video player setup abandoned")
		if derr := drv.Destroy(); derr != nil {
			c.logger.Warn("video player destroy failed", zap.Error(derr))
		}
		c.resetLocked()
		return
	}

	c.driver = drv
	c.done = make(chan struct{})
	c.readyTimer = time.AfterFunc(c.readyTimeout, c.onReadyTimeout)
	go c.loop(loopCtx, drv.Events(), c.done)
}

func (c *Controller) resetLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if !c.destroyed {
		c.state = Idle
	}
	c.loading = false
}

func (c *Controller) loop(ctx context.Context, events <-chan Event, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			c.handle(ev)
		}
	}
}

func (c *Controller) handle(ev Event) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	latched := false
	switch ev.Kind {
	case EventReady:
		c.onReadyLocked()
	case EventPlaying:
		latched = c.enterPlayingLocked()
	case EventPaused, EventEnded:
		if c.state == Playing {
			c.state = Paused
		}
	}
	c.mu.Unlock()

	if latched && c.onCTA != nil {
		c.onCTA(true)
	}
}

func (c *Controller) onReadyLocked() {
	if c.state != Initializing {
		return
	}
	c.stopTimerLocked()
	c.state = Ready
	if c.autoplay {
		// Hosts reject unmuted playback that did not come from a gesture on the player.
		c.call("mute", c.driver.Mute)
		c.call("load", func() error { return c.driver.Load(c.mediaID) })
		c.call("play", c.driver.Play)
		return
	}
	c.call("cue", func() error { return c.driver.Cue(c.mediaID) })
	c.loading = false
}

// enterPlayingLocked reports whether this call set the latch.
func (c *Controller) enterPlayingLocked() bool {
	c.stopTimerLocked()
	c.state = Playing
	c.loading = false
	if c.hasEverPlayed {
		return false
	}
	c.hasEverPlayed = true
	return true
}

func (c *Controller) onReadyTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.state != Initializing || c.driver == nil {
		return
	}
	c.logger.Warn("video player not ready, forcing reload",
		zap.Stringer("kind", apperr.PlayerInitTimeout),
		zap.Duration("after", c.readyTimeout))
	c.call("reload", func() error { return c.driver.Load(c.mediaID) })
}

// Toggle is the user's play/pause button.
func (c *Controller) Toggle() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	latched := false
	switch c.state {
	case Playing:
		c.call("pause", c.driver.Pause)
		c.state = Paused
	case Ready, Paused:
		c.autoplay = true
		c.call("mute", c.driver.Mute)
		c.call("play", c.driver.Play)
		latched = c.enterPlayingLocked()
	default:
		// No driver yet; play as soon as it is ready.
		c.autoplay = true
		c.loading = true
	}
	c.mu.Unlock()

	if latched && c.onCTA != nil {
		c.onCTA(true)
	}
}

// call runs a driver command, absorbing its error.
func (c *Controller) call(name string, fn func() error) {
	if err := fn(); err != nil {
		c.logger.Warn("video player command failed", zap.String("command", name), zap.Error(err))
	}
}

func (c *Controller) stopTimerLocked() {
	if c.readyTimer != nil {
		c.readyTimer.Stop()
		c.readyTimer = nil
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:         c.state,
		StateName:     c.state.String(),
		HasEverPlayed: c.hasEverPlayed,
		Loading:       c.loading,
		Autoplay:      c.autoplay,
		CTAVisible:    c.hasEverPlayed,
	}
}

// HasEverPlayed is the one-way latch behind the floating call-to-action.
func (c *Controller) HasEverPlayed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasEverPlayed
}

// Close tears the player down. The driver is destroyed at most once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
	}
	drv, done := c.driver, c.done
	c.driver = nil
	c.mu.Unlock()

	if drv != nil {
		if err := drv.Destroy(); err != nil {
			c.logger.Warn("video player destroy failed", zap.Error(err))
		}
	}
	if done != nil {
		<-done
	}
}
