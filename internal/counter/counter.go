// Package counter derives the "people already joined" social-proof figure.
// The count only grows: every full Interval of wall-clock time adds Step,
// including time during which nothing was running.
package counter

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/kv"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

const (
	BaseCount = 1000
	Step      = 2
	Interval  = 10 * time.Second
)

type Counter struct {
	store  kv.Store
	now    func() time.Time
	logger *zap.Logger

	mu    sync.Mutex
	state models.CounterState
	ready bool
}

type Option func(*Counter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

func New(store kv.Store, logger *zap.Logger, opts ...Option) *Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Counter{store: store, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize seeds the counter on first run, or reconciles the persisted
// state with the time elapsed since it was last written.
func (c *Counter) Initialize(ctx context.Context) (models.CounterState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLocked(ctx)
}

func (c *Counter) initLocked(ctx context.Context) (models.CounterState, error) {
	persisted, found, err := c.load(ctx)
	if err != nil {
		return models.CounterState{}, err
	}
	c.ready = true
	if !found {
		c.state = models.CounterState{Count: BaseCount, LastUpdate: c.now()}
		c.logger.Info("social proof counter seeded", zap.Int64("count", c.state.Count))
		return c.state, c.persist(ctx)
	}
	c.state = persisted
	return c.tickLocked(ctx)
}

// Tick adds Step for every full Interval since the last persisted update.
// Partial intervals are not counted. When no full interval has passed the
// state is left untouched so the next tick still sees the full gap.
func (c *Counter) Tick(ctx context.Context) (models.CounterState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return c.initLocked(ctx)
	}
	return c.tickLocked(ctx)
}

func (c *Counter) tickLocked(ctx context.Context) (models.CounterState, error) {
	now := c.now()
	intervals := int64(now.Sub(c.state.LastUpdate) / Interval)
	if intervals <= 0 {
		return c.state, nil
	}
	c.state = models.CounterState{
		Count:      c.state.Count + Step*intervals,
		LastUpdate: now,
	}
	return c.state, c.persist(ctx)
}

// Current returns the last computed state without touching the clock.
// Before a successful Initialize it reports BaseCount.
func (c *Counter) Current() models.CounterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return models.CounterState{Count: BaseCount}
	}
	return c.state
}

// Run ticks every Interval until ctx is done. Call Initialize first; if it
// failed, the first successful Tick initializes instead.
func (c *Counter) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Tick(ctx); err != nil {
				c.logger.Warn("social proof counter persist failed", zap.Error(err))
			}
		}
	}
}

func (c *Counter) load(ctx context.Context) (models.CounterState, bool, error) {
	countStr, okCount, err := c.store.Get(ctx, kv.KeyPeopleCount)
	if err != nil {
		return models.CounterState{}, false, err
	}
	tsStr, okTS, err := c.store.Get(ctx, kv.KeyLastUpdate)
	if err != nil {
		return models.CounterState{}, false, err
	}
	if !okCount || !okTS {
		return models.CounterState{}, false, nil
	}

	count, err1 := strconv.ParseInt(countStr, 10, 64)
	millis, err2 := strconv.ParseInt(tsStr, 10, 64)
	if err1 != nil || err2 != nil {
		c.logger.Warn("discarding unreadable counter state",
			zap.String("count", countStr), zap.String("last_update", tsStr))
		return models.CounterState{}, false, nil
	}
	return models.CounterState{Count: count, LastUpdate: time.UnixMilli(millis)}, true, nil
}

func (c *Counter) persist(ctx context.Context) error {
	if err := c.store.Set(ctx, kv.KeyPeopleCount, strconv.FormatInt(c.state.Count, 10)); err != nil {
		return err
	}
	return c.store.Set(ctx, kv.KeyLastUpdate, strconv.FormatInt(c.state.LastUpdate.UnixMilli(), 10))
}
