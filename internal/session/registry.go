package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/capture"
	"github.com/AnshRaj112/multicrypto-funnel/internal/media"
	"github.com/AnshRaj112/multicrypto-funnel/internal/reveal"
)

const (
	DefaultTTL         = 2 * time.Hour
	minCleanupInterval = time.Second
)

// Config is shared by every session the registry builds.
type Config struct {
	Store        capture.Submitter
	Resolver     media.Resolver
	LaunchDate   time.Time
	MediaID      string
	ReadyTimeout time.Duration
	TTL          time.Duration
	Logger       *zap.Logger
}

type Registry struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(cfg Config, opts ...Option) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = reveal.DefaultReadyTimeout
	}
	if cfg.Resolver == nil {
		cfg.Resolver = media.YouTube{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := &Registry{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) LaunchDate() time.Time { return r.cfg.LaunchDate }

// Create starts a new session with a fresh id.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.cfg, r.now())
	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()
	r.cfg.Logger.Debug("session created", zap.String("session", s.ID), zap.Int("active", n))
	return s
}

// Get returns a live session and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(r.now())
	return s, true
}

// Resume returns the session for id, creating one when id is unknown.
func (r *Registry) Resume(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := r.Get(id); ok {
			return s, false
		}
	}
	return r.Create(), true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and reports how many.
func (r *Registry) Sweep() int {
	now := r.now()
	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.idleSince(now) > r.cfg.TTL {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		r.cfg.Logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.TTL / 2
	if interval < minCleanupInterval {
		interval = minCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
