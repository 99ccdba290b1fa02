package reveal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeDriver records commands and lets tests emit synthetic player events.
type fakeDriver struct {
	events chan Event

	mu       sync.Mutex
	calls    []string
	destroys int
	playErr  error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{events: make(chan Event, 8)}
}

func (f *fakeDriver) record(cmd string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
}

func (f *fakeDriver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDriver) Destroys() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroys
}

func (f *fakeDriver) Events() <-chan Event { return f.events }

func (f *fakeDriver) Load(media string) error {
	f.record("load:" + media)
	return nil
}

func (f *fakeDriver) Cue(media string) error {
	f.record("cue:" + media)
	return nil
}

func (f *fakeDriver) Pause() error {
	f.record("pause")
	return nil
}

func (f *fakeDriver) Mute() error {
	f.record("mute")
	return nil
}

func (f *fakeDriver) Play() error {
	f.record("play")
	return f.playErr
}

func (f *fakeDriver) Destroy() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroys++
	return nil
}

func factoryFor(d *fakeDriver) DriverFactory {
	return func(context.Context, string, string) (Driver, error) { return d, nil }
}

func waitState(t *testing.T, c *Controller, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Snapshot().State == want }, time.Second, time.Millisecond,
		"want state %s, have %s", want, c.Snapshot().State)
}

func TestBegin_AutoplayMutesLoadsAndPlays(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	defer c.Close()

	c.Begin(context.Background(), true)
	assert.Equal(t, Initializing, c.Snapshot().State)
	assert.True(t, c.Snapshot().Loading)

	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
	assert.Equal(t, []string{"mute", "load:vid123", "play"}, d.Calls())

	d.events <- Event{Kind: EventPlaying}
	waitState(t, c, Playing)
	snap := c.Snapshot()
	assert.True(t, snap.HasEverPlayed)
	assert.True(t, snap.CTAVisible)
	assert.False(t, snap.Loading)
}

func TestBegin_WithoutAutoplayOnlyCues(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	defer c.Close()

	c.Begin(context.Background(), false)
	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
	assert.Equal(t, []string{"cue:vid123"}, d.Calls())
	assert.False(t, c.HasEverPlayed())
	assert.False(t, c.Snapshot().CTAVisible)
}

func TestLatch_SetOnceAcrossCycles(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	var mu sync.Mutex
	notifications := 0
	c := NewController(factoryFor(d), "player", "vid123",
		WithReadyTimeout(time.Hour),
		WithCTAListener(func(bool) {
			mu.Lock()
			notifications++
			mu.Unlock()
		}))
	defer c.Close()

	c.Begin(context.Background(), true)
	d.events <- Event{Kind: EventReady}
	for i := 0; i < 3; i++ {
		d.events <- Event{Kind: EventPlaying}
		waitState(t, c, Playing)
		d.events <- Event{Kind: EventPaused}
		waitState(t, c, Paused)
		assert.True(t, c.HasEverPlayed())
	}
	d.events <- Event{Kind: EventPlaying}
	waitState(t, c, Playing)
	d.events <- Event{Kind: EventEnded}
	waitState(t, c, Paused)

	assert.True(t, c.Snapshot().CTAVisible)
	mu.Lock()
	assert.Equal(t, 1, notifications)
	mu.Unlock()
}

func TestToggle(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	defer c.Close()

	c.Begin(context.Background(), false)
	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)

	c.Toggle()
	assert.Equal(t, Playing, c.Snapshot().State)
	assert.True(t, c.HasEverPlayed())
	assert.True(t, c.Snapshot().Autoplay)

	c.Toggle()
	assert.Equal(t, Paused, c.Snapshot().State)

	c.Toggle()
	assert.Equal(t, Playing, c.Snapshot().State)

	assert.Equal(t, []string{"cue:vid123", "mute", "play", "pause", "mute", "play"}, d.Calls())
}

func TestToggle_BeforeReadySetsAutoplayIntent(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	defer c.Close()

	c.Begin(context.Background(), false)
	c.Toggle()
	assert.Equal(t, Initializing, c.Snapshot().State)
	assert.True(t, c.Snapshot().Autoplay)

	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
	assert.Equal(t, []string{"mute", "load:vid123", "play"}, d.Calls())
}

func TestPlayFailureIsAbsorbed(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	d.playErr = errors.New("autoplay blocked")
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	defer c.Close()

	c.Begin(context.Background(), true)
	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
	assert.False(t, c.HasEverPlayed())
}

func TestReadyTimeout_ForcesReload(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(10*time.Millisecond))
	defer c.Close()

	c.Begin(context.Background(), true)
	require.Eventually(t, func() bool {
		calls := d.Calls()
		return len(calls) == 1 && calls[0] == "load:vid123"
	}, time.Second, time.Millisecond)
	assert.Equal(t, Initializing, c.Snapshot().State)

	// A late ready still completes the autoplay sequence.
	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
}

func TestReadyBeforeTimeout_NoReload(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(30*time.Millisecond))
	defer c.Close()

	c.Begin(context.Background(), false)
	d.events <- Event{Kind: EventReady}
	waitState(t, c, Ready)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"cue:vid123"}, d.Calls())
}

func TestClose_DestroysExactlyOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDriver()
	c := NewController(factoryFor(d), "player", "vid123", WithReadyTimeout(time.Hour))
	c.Begin(context.Background(), true)

	c.Close()
	c.Close()
	assert.Equal(t, 1, d.Destroys())

	// Commands after teardown are ignored.
	c.Toggle()
	c.Begin(context.Background(), true)
	assert.Empty(t, d.Calls())
}

func TestBegin_CancelledContextIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	built := false
	c := NewController(func(context.Context, string, string) (Driver, error) {
		built = true
		return newFakeDriver(), nil
	}, "player", "vid123")
	defer c.Close()

	c.Begin(ctx, true)
	assert.False(t, built)
	assert.Equal(t, Idle, c.Snapshot().State)
}

func TestBegin_CancelledDuringSetupDestroysDriver(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	d := newFakeDriver()
	c := NewController(func(context.Context, string, string) (Driver, error) {
		cancel()
		return d, nil
	}, "player", "vid123")
	defer c.Close()

	c.Begin(ctx, true)
	assert.Equal(t, Idle, c.Snapshot().State)
	assert.Equal(t, 1, d.Destroys())
}

func TestBegin_FactoryErrorLeavesIdle(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(func(context.Context, string, string) (Driver, error) {
		return nil, errors.New("container not visible")
	}, "player", "vid123")
	defer c.Close()

	c.Begin(context.Background(), true)
	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.False(t, snap.Loading)
}

func TestWhatsAppLink(t *testing.T) {
	got := WhatsAppLink("554399196721", "Olá! meu nome é Maria.")
	assert.Equal(t, "https://wa.me/554399196721?text=Ol%C3%A1%21%20meu%20nome%20%C3%A9%20Maria.", got)
}

func TestParseEventKind(t *testing.T) {
	k, ok := ParseEventKind("ended")
	assert.True(t, ok)
	assert.Equal(t, EventEnded, k)
	assert.Equal(t, "ended", k.String())

	_, ok = ParseEventKind("buffering")
	assert.False(t, ok)
}
