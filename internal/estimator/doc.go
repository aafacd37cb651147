// Package estimator simulates progress for operations whose real progress is
// unknown.
//
// An Estimator climbs a value from 0 toward 99 on a fixed cadence while it is
// in progress, decelerating as it approaches the ceiling, and jumps straight
// to 100 when the caller reports that the operation is done.
//
// # Usage
//
//	est := estimator.New(estimator.Options{})
//	defer est.Close()
//
//	est.Start() // value is 15 as soon as Start returns
//	// ... run the operation ...
//	est.Done() // completing → 100 → complete
//
// # States
//
//	initial ──Start──▶ in-progress ──Done──▶ completing ──(value==100)──▶ complete
//	   ▲                                                                   │
//	   └────Reset──── (any)                      complete ──Start──▶ in-progress (value reset to 0)
//
// Every mutation goes through one update path that applies the entry rules of
// the target state, then the value==100 ⇒ complete rule, and then notifies
// subscribers with a Snapshot for each state passed through.
package estimator
