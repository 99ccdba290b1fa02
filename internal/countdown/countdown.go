// Package countdown computes the time remaining until launch and re-evaluates
// it on a fixed tick, reporting which fields changed since the previous tick.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the tick period.
const DefaultInterval = time.Second

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// TimeLeft is the remaining time split into display fields. Days is unbounded.
type TimeLeft struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Compute returns the breakdown of target-now. At or after target every
// field is zero; the countdown never rolls negative.
func Compute(target, now time.Time) TimeLeft {
	diff := target.Sub(now).Milliseconds()
	if diff <= 0 {
		return TimeLeft{}
	}
	return TimeLeft{
		Days:    diff / msPerDay,
		Hours:   (diff / msPerHour) % 24,
		Minutes: (diff / msPerMinute) % 60,
		Seconds: (diff / msPerSecond) % 60,
	}
}

func (t TimeLeft) IsZero() bool {
	return t == TimeLeft{}
}

// Digits returns the fields zero-padded to two characters.
func (t TimeLeft) Digits() [4]string {
	return [4]string{
		fmt.Sprintf("%02d", t.Days),
		fmt.Sprintf("%02d", t.Hours),
		fmt.Sprintf("%02d", t.Minutes),
		fmt.Sprintf("%02d", t.Seconds),
	}
}

// Changed flags the fields that differ from the previous tick. It drives the
// digit flip animation only.
type Changed struct {
	Days    bool `json:"days"`
	Hours   bool `json:"hours"`
	Minutes bool `json:"minutes"`
	Seconds bool `json:"seconds"`
}

func diffFields(prev, cur TimeLeft) Changed {
	return Changed{
		Days:    prev.Days != cur.Days,
		Hours:   prev.Hours != cur.Hours,
		Minutes: prev.Minutes != cur.Minutes,
		Seconds: prev.Seconds != cur.Seconds,
	}
}

type Tick struct {
	Current  TimeLeft `json:"current"`
	Previous TimeLeft `json:"previous"`
	Changed  Changed  `json:"changed"`
	Finished bool     `json:"finished"`
}

// At is a one-off tick with nothing to compare against.
func At(target, now time.Time) Tick {
	cur := Compute(target, now)
	return Tick{Current: cur, Previous: cur, Finished: cur.IsZero()}
}

// Engine holds the target instant and the last tick.
type Engine struct {
	target   time.Time
	now      func() time.Time
	interval time.Duration

	mu   sync.Mutex
	last Tick
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

func NewEngine(target time.Time, opts ...Option) *Engine {
	e := &Engine{target: target, now: time.Now, interval: DefaultInterval}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Target() time.Time { return e.target }

// Step recomputes the breakdown, keeping the prior one for change detection.
func (e *Engine) Step() Tick {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := Compute(e.target, e.now())
	prev := e.last.Current
	e.last = Tick{
		Current:  cur,
		Previous: prev,
		Changed:  diffFields(prev, cur),
		Finished: cur.IsZero(),
	}
	return e.last
}

// Last returns the most recent tick.
func (e *Engine) Last() Tick {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Start steps once immediately and then every interval on a single
// goroutine, so ticks never overlap. The returned stop func cancels the
// timer and waits for the goroutine; it is safe to call more than once.
func (e *Engine) Start(ctx context.Context, onTick func(Tick)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	first := e.Step()
	if onTick != nil {
		onTick(first)
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t := e.Step()
				if onTick != nil {
					onTick(t)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
