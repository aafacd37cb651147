package estimator

import (
	"sync"
	"time"

	"github.com/gcstr/progressive/internal/logger"
)

// Options configures an Estimator. The zero value gives the standard behavior.
type Options struct {
	// Interval is the stepping cadence. Default: 750ms.
	Interval time.Duration
	// Rand drives the random increments. Default: math/rand/v2.
	Rand Rand
	// Clock creates the stepping ticker. Default: the wall clock.
	Clock Clock
	// Logger receives debug events for every transition. Default: no-op.
	Logger logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Rand == nil {
		o.Rand = globalRand{}
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// Estimator is a simulated progress value driven by Start and Done.
//
// All methods are safe for concurrent use. Mutations and ticks are
// serialized by one mutex, so a tick always reads, computes and writes the
// value before the next tick or transition can observe it.
type Estimator struct {
	opts Options
	log  logger.Logger

	mu      sync.Mutex
	state   State
	value   int
	seq     uint64
	run     uint64
	ival    *interval
	subs    map[uint64]func(Snapshot)
	nextSub uint64
	closed  bool

	wg sync.WaitGroup
}

// New returns an Estimator in the initial state with value 0.
func New(opts Options) *Estimator {
	opts = opts.withDefaults()
	return &Estimator{
		opts:  opts,
		log:   opts.Logger,
		state: StateInitial,
		subs:  map[uint64]func(Snapshot){},
	}
}

// Start begins, or restarts after completion, the climb toward 99. A run
// that already finished starts again from 0. One step is applied before
// Start returns and further steps follow every Interval. Calling Start while
// in progress does nothing.
func (e *Estimator) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StateInProgress {
		return
	}
	value := e.value
	if e.state == StateComplete {
		value = 0
	}
	e.run++
	e.log.Debug("progress_start", "run", e.run, "from", e.state, "value", value)
	e.commit(StateInProgress, value)

	e.stepLocked()
	run := e.run
	e.ival = startInterval(e.opts.Clock, e.opts.Interval, &e.wg, func() { e.tick(run) })
}

// Done reports that the tracked operation finished. From initial or
// in-progress the value jumps to 100 and the estimator passes through
// completing to complete. Otherwise Done does nothing.
func (e *Estimator) Done() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.state != StateInitial && e.state != StateInProgress {
		return
	}
	e.log.Debug("progress_done", "run", e.run, "from", e.state, "value", e.value)
	e.commit(StateCompleting, e.value)
}

// Reset returns the estimator to the initial state and stops stepping.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.log.Debug("progress_reset", "run", e.run, "from", e.state, "value", e.value)
	e.commit(StateInitial, 0)
}

// State returns the current state.
func (e *Estimator) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Value returns the current value in [0, 100].
func (e *Estimator) Value() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Snapshot returns state and value read together.
func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn to receive every snapshot published from now on,
// in order. fn runs with the estimator locked: it must not call back into
// the Estimator. The returned function unsubscribes.
func (e *Estimator) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Close stops stepping, drops subscribers and waits for the ticker goroutine
// to exit. Later calls to Start, Done and Reset are ignored.
func (e *Estimator) Close() error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		e.ival.release()
		e.ival = nil
		clear(e.subs)
	}
	e.mu.Unlock()
	e.wg.Wait()
	return nil
}

func (e *Estimator) tick(run uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Ticks from a superseded run are dropped.
	if e.closed || e.state != StateInProgress || e.run != run {
		return
	}
	e.stepLocked()
}

func (e *Estimator) stepLocked() {
	next := NextValue(e.value, e.opts.Rand)
	e.log.Debug("progress_step", "run", e.run, "from", e.value, "value", next)
	e.commit(StateInProgress, next)
}

// commit is the only place state and value change. It applies the entry rule
// of the target state, publishes, and then follows value==100 to complete.
func (e *Estimator) commit(state State, value int) {
	for {
		switch state {
		case StateInitial:
			value = 0
		case StateCompleting:
			value = MaxValue
		}
		value = max(0, min(value, MaxValue))
		if state == e.state && value == e.value {
			return
		}
		if e.state == StateInProgress && state != StateInProgress {
			e.ival.release()
			e.ival = nil
		}
		e.state, e.value = state, value
		e.publish()

		if value != MaxValue || state == StateComplete {
			return
		}
		state = StateComplete
	}
}

func (e *Estimator) publish() {
	e.seq++
	snap := e.snapshotLocked()
	for _, fn := range e.subs {
		fn(snap)
	}
}

func (e *Estimator) snapshotLocked() Snapshot {
	return Snapshot{State: e.state, Value: e.value, Seq: e.seq}
}
