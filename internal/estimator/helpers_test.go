package estimator

import (
	"sync"
	"sync/atomic"
	"time"
)

// manualClock hands out tickers that only fire when the test says so.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{every: d, c: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *manualClock) last() *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

type manualTicker struct {
	every   time.Duration
	c       chan time.Time
	stopped atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

// fire delivers one tick and reports whether a reader took it.
func (t *manualTicker) fire() bool {
	select {
	case t.c <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

// scriptedRand returns draws from a fixed list (cycling) and counts calls.
type scriptedRand struct {
	draws []int
	calls atomic.Int64
	last  atomic.Int64
}

func (r *scriptedRand) IntN(n int) int {
	i := int(r.calls.Add(1) - 1)
	v := 0
	if len(r.draws) > 0 {
		v = r.draws[i%len(r.draws)]
	}
	if v >= n {
		v = n - 1
	}
	r.last.Store(int64(n))
	return v
}

// recorder collects published snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func newTestEstimator(draws ...int) (*Estimator, *manualClock, *scriptedRand) {
	clock := &manualClock{}
	r := &scriptedRand{draws: draws}
	return New(Options{Clock: clock, Rand: r}), clock, r
}
