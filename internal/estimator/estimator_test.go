package estimator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsInitialAtZero(t *testing.T) {
	est, clock, _ := newTestEstimator()
	defer est.Close()

	snap := est.Snapshot()
	assert.Equal(t, StateInitial, snap.State)
	assert.Equal(t, 0, snap.Value)
	assert.Zero(t, clock.count(), "no ticker before Start")
}

func TestStart_StepsImmediately(t *testing.T) {
	est, clock, _ := newTestEstimator()
	defer est.Close()

	est.Start()
	assert.Equal(t, StateInProgress, est.State())
	assert.Equal(t, 15, est.Value())
	require.Equal(t, 1, clock.count())
	assert.Equal(t, DefaultInterval, clock.last().every)
}

func TestStart_TicksAdvanceValue(t *testing.T) {
	est, clock, r := newTestEstimator(4) // every random increment is 5
	defer est.Close()

	est.Start()
	ticker := clock.last()
	for i := 1; i <= 3; i++ {
		require.True(t, ticker.fire())
		want := int64(i)
		require.Eventually(t, func() bool { return r.calls.Load() == want }, time.Second, time.Millisecond)
	}
	assert.Equal(t, 30, est.Value())
	assert.Equal(t, StateInProgress, est.State())
}

func TestStart_IdempotentWhileInProgress(t *testing.T) {
	est, clock, r := newTestEstimator(0)
	defer est.Close()

	est.Start()
	before := est.Snapshot()
	est.Start()
	est.Start()
	after := est.Snapshot()

	assert.Equal(t, before, after)
	assert.Equal(t, 1, clock.count(), "cadence must not restart")
	assert.Zero(t, r.calls.Load())
}

func TestDone_FromInProgressJumpsToComplete(t *testing.T) {
	est, clock, _ := newTestEstimator()
	defer est.Close()

	rec := &recorder{}
	est.Subscribe(rec.observe)

	est.Start()
	est.Done()

	assert.Equal(t, StateComplete, est.State())
	assert.Equal(t, 100, est.Value())

	snaps := rec.all()
	require.Len(t, snaps, 4)
	assert.Equal(t, Snapshot{State: StateInProgress, Value: 0, Seq: 1}, snaps[0])
	assert.Equal(t, Snapshot{State: StateInProgress, Value: 15, Seq: 2}, snaps[1])
	assert.Equal(t, Snapshot{State: StateCompleting, Value: 100, Seq: 3}, snaps[2])
	assert.Equal(t, Snapshot{State: StateComplete, Value: 100, Seq: 4}, snaps[3])

	ticker := clock.last()
	require.Eventually(t, ticker.stopped.Load, time.Second, time.Millisecond, "ticker must be released")
	assert.False(t, ticker.fire(), "no goroutine may still read the ticker")
}

func TestDone_FromInitialCompletes(t *testing.T) {
	est, clock, _ := newTestEstimator()
	defer est.Close()

	est.Done()
	assert.Equal(t, StateComplete, est.State())
	assert.Equal(t, 100, est.Value())
	assert.Zero(t, clock.count())
}

func TestDone_NoopWhenFinished(t *testing.T) {
	est, _, _ := newTestEstimator()
	defer est.Close()

	est.Start()
	est.Done()
	before := est.Snapshot()

	rec := &recorder{}
	est.Subscribe(rec.observe)
	est.Done()

	assert.Equal(t, before, est.Snapshot())
	assert.Empty(t, rec.all())
}

func TestStart_AfterCompleteResetsToZero(t *testing.T) {
	est, clock, _ := newTestEstimator()
	defer est.Close()

	est.Start()
	est.Done()

	rec := &recorder{}
	est.Subscribe(rec.observe)
	est.Start()

	snaps := rec.all()
	require.Len(t, snaps, 2)
	assert.Equal(t, StateInProgress, snaps[0].State)
	assert.Equal(t, 0, snaps[0].Value, "value resets before the new run climbs")
	assert.Equal(t, 15, snaps[1].Value)
	assert.Equal(t, 2, clock.count(), "a fresh ticker per run")
}

func TestStaleTickIsDiscarded(t *testing.T) {
	est, _, r := newTestEstimator(4)
	defer est.Close()

	est.Start()
	staleRun := est.run
	est.Done()
	est.Start()
	before := est.Snapshot()

	est.tick(staleRun)
	assert.Equal(t, before, est.Snapshot())
	assert.Zero(t, r.calls.Load())
}

func TestReset_ReturnsToInitial(t *testing.T) {
	est, clock, _ := newTestEstimator(4)
	defer est.Close()

	est.Start()
	require.True(t, clock.last().fire())
	require.Eventually(t, func() bool { return est.Value() == 20 }, time.Second, time.Millisecond)

	est.Reset()
	assert.Equal(t, StateInitial, est.State())
	assert.Equal(t, 0, est.Value())
	require.Eventually(t, clock.last().stopped.Load, time.Second, time.Millisecond)
}

func TestClose_ReleasesTickerAndIgnoresLaterCalls(t *testing.T) {
	est, clock, _ := newTestEstimator()

	est.Start()
	require.NoError(t, est.Close())
	assert.True(t, clock.last().stopped.Load(), "Close waits for the ticker goroutine")

	before := est.Snapshot()
	est.Done()
	est.Start()
	est.Reset()
	assert.Equal(t, before, est.Snapshot())
	assert.Equal(t, 1, clock.count())
	require.NoError(t, est.Close(), "Close is idempotent")
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	est, _, _ := newTestEstimator()
	defer est.Close()

	rec := &recorder{}
	cancel := est.Subscribe(rec.observe)
	est.Start()
	cancel()
	est.Done()

	for _, s := range rec.all() {
		assert.Equal(t, StateInProgress, s.State)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	outer, _, _ := newTestEstimator()
	defer outer.Close()
	inner, _, _ := newTestEstimator()
	defer inner.Close()

	outer.Start()
	inner.Done()

	assert.Equal(t, StateInProgress, outer.State())
	assert.Equal(t, 15, outer.Value())
	assert.Equal(t, StateComplete, inner.State())
}

// Any sequence of calls keeps the value in range and monotonic within a run.
func TestRandomCallSequencesHoldInvariants(t *testing.T) {
	est, clock, _ := newTestEstimator(9, 0, 3, 4, 1)
	defer est.Close()

	var mu sync.Mutex
	var violation string
	last := Snapshot{State: StateInitial}
	est.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case s.Value < 0 || s.Value > MaxValue:
			violation = "value out of range"
		case s.State == StateInProgress && s.Value == MaxValue:
			violation = "stepping reached 100"
		case s.State == last.State && s.Value < last.Value:
			violation = "value decreased within a run"
		case s.Value == MaxValue && s.State != StateCompleting && s.State != StateComplete:
			violation = "100 outside completion"
		}
		last = s
	})

	ops := []func(){est.Start, est.Done, est.Start, est.Start, est.Reset, est.Done, est.Start}
	for i := 0; i < 60; i++ {
		ops[i%len(ops)]()
		if tk := clock.last(); tk != nil && est.State() == StateInProgress {
			tk.fire()
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, violation)
}

func TestParseState(t *testing.T) {
	for _, s := range States {
		got, err := ParseState(" " + s.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseState("paused")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown progress state")
}
