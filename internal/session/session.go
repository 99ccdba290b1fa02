// Package session holds one browsing session: its form, its reveal player
// and its countdown, built together and torn down together.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/capture"
	"github.com/AnshRaj112/multicrypto-funnel/internal/countdown"
	"github.com/AnshRaj112/multicrypto-funnel/internal/media"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
	"github.com/AnshRaj112/multicrypto-funnel/internal/playerbridge"
	"github.com/AnshRaj112/multicrypto-funnel/internal/reveal"
)

// PlayerContainerID is the element the browser mounts the player into.
const PlayerContainerID = "video-player"

type Session struct {
	ID        string
	Flow      *capture.Flow
	Reveal    *reveal.Controller
	Countdown *countdown.Engine

	ctx           context.Context
	cancel        context.CancelFunc
	stopCountdown func()
	closeOnce     sync.Once

	mu       sync.Mutex
	driver   *playerbridge.Driver
	lastSeen time.Time
}

func newSession(id string, cfg Config, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        id,
		Countdown: countdown.NewEngine(cfg.LaunchDate),
		ctx:       ctx,
		cancel:    cancel,
		lastSeen:  now,
	}
	logger := cfg.Logger.With(zap.String("session", id))

	s.Reveal = reveal.NewController(s.driverFactory(cfg.Resolver), PlayerContainerID, cfg.MediaID,
		reveal.WithReadyTimeout(cfg.ReadyTimeout),
		reveal.WithLogger(logger),
		reveal.WithCTAListener(func(bool) { logger.Info("reveal call-to-action shown") }),
	)
	s.Flow = capture.New(cfg.Store,
		capture.WithLogger(logger),
		capture.WithActivation(func(context.Context, models.LeadRecord) {
			// The submit request ends long before the player does.
			s.Reveal.Begin(s.ctx, true)
		}),
	)
	s.stopCountdown = s.Countdown.Start(ctx, nil)
	return s
}

func (s *Session) driverFactory(resolver media.Resolver) reveal.DriverFactory {
	return func(ctx context.Context, containerID, mediaID string) (reveal.Driver, error) {
		src, err := resolver.Resolve(mediaID)
		if err != nil {
			return nil, err
		}
		d := playerbridge.New(containerID, src)
		s.mu.Lock()
		s.driver = d
		s.mu.Unlock()
		return d, nil
	}
}

// Driver returns the player bridge once the reveal has begun.
func (s *Session) Driver() (*playerbridge.Driver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver, s.driver != nil
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Close stops the countdown and destroys the player. Safe to call twice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.stopCountdown()
		s.Reveal.Close()
	})
}
