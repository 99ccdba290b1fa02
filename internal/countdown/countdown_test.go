package countdown

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var launch = time.Date(2025, 8, 20, 0, 0, 0, 0, time.FixedZone("BRT", -3*60*60))

func TestCompute_Decomposition(t *testing.T) {
	now := launch.Add(-90061000 * time.Millisecond)
	assert.Equal(t, TimeLeft{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, Compute(launch, now))
}

func TestCompute_ClampsAtAndAfterTarget(t *testing.T) {
	for _, d := range []time.Duration{0, time.Millisecond, time.Hour, 400 * 24 * time.Hour} {
		assert.Equal(t, TimeLeft{}, Compute(launch, launch.Add(d)))
	}
}

func TestCompute_SubSecondRemainder(t *testing.T) {
	got := Compute(launch, launch.Add(-999*time.Millisecond))
	assert.Equal(t, TimeLeft{}, got)

	got = Compute(launch, launch.Add(-1500*time.Millisecond))
	assert.Equal(t, TimeLeft{Seconds: 1}, got)
}

func TestCompute_DaysUnbounded(t *testing.T) {
	got := Compute(launch, launch.Add(-400*24*time.Hour-5*time.Minute))
	assert.Equal(t, int64(400), got.Days)
	assert.Equal(t, int64(5), got.Minutes)
}

func TestCompute_PositiveDaysBeforeLaunch(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	assert.Greater(t, Compute(launch, now).Days, int64(0))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, [4]string{"120", "03", "00", "09"}, TimeLeft{Days: 120, Hours: 3, Seconds: 9}.Digits())
}

func TestStep_TracksChangedFields(t *testing.T) {
	now := launch.Add(-(time.Hour + 2*time.Second))
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	e := NewEngine(launch, WithClock(clock))

	first := e.Step()
	assert.Equal(t, TimeLeft{Hours: 1, Seconds: 2}, first.Current)
	assert.Equal(t, Changed{Hours: true, Seconds: true}, first.Changed)

	mu.Lock()
	now = now.Add(time.Second)
	mu.Unlock()
	second := e.Step()
	assert.Equal(t, first.Current, second.Previous)
	assert.Equal(t, Changed{Seconds: true}, second.Changed)
	assert.False(t, second.Finished)

	mu.Lock()
	now = launch.Add(time.Minute)
	mu.Unlock()
	last := e.Step()
	assert.True(t, last.Finished)
	assert.True(t, last.Current.IsZero())
	assert.Equal(t, last, e.Last())
}

func TestStart_TicksAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEngine(time.Now().Add(time.Hour), WithInterval(5*time.Millisecond))
	var ticks atomic.Int32
	stop := e.Start(context.Background(), func(Tick) { ticks.Add(1) })

	assert.GreaterOrEqual(t, ticks.Load(), int32(1), "first tick is synchronous")
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	stop()
	stop()
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after stop")
}

func TestStart_ParentCancelStopsTicker(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	stop := NewEngine(time.Now().Add(time.Hour), WithInterval(time.Millisecond)).Start(ctx, nil)
	cancel()
	stop()
}

func TestAt_StandsAlone(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := At(now.Add(26*time.Hour+5*time.Second), now)
	assert.Equal(t, TimeLeft{Days: 1, Hours: 2, Seconds: 5}, tick.Current)
	assert.Equal(t, tick.Current, tick.Previous)
	assert.Equal(t, Changed{}, tick.Changed)
	assert.False(t, tick.Finished)

	assert.True(t, At(now, now.Add(time.Minute)).Finished)
}
