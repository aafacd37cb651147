package estimator

import (
	"sync"
	"time"
)

// DefaultInterval is the stepping cadence.
const DefaultInterval = 750 * time.Millisecond

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the interval needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// interval owns one ticker and the goroutine draining it. The ticker is
// stopped by the goroutine itself on exit, whichever way it exits.
type interval struct {
	stopCh chan struct{}
	once   sync.Once
}

// startInterval calls fn every d until release is called. wg tracks the
// goroutine so owners can wait for it during teardown.
func startInterval(clock Clock, d time.Duration, wg *sync.WaitGroup, fn func()) *interval {
	iv := &interval{stopCh: make(chan struct{})}
	ticker := clock.NewTicker(d)
	wg.Add(1)
	go func(stop <-chan struct{}) {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				// A tick and a stop can be ready together; stop wins.
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}(iv.stopCh)
	return iv
}

// release signals the goroutine to exit. Safe to call more than once.
func (iv *interval) release() {
	if iv == nil {
		return
	}
	iv.once.Do(func() { close(iv.stopCh) })
}
