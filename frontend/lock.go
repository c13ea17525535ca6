package frontend

import (
	"context"
	"fmt"
	"time"
)

// LockState is the acquisition phase derived from repeated status
// observations. The hardware has no explicit state machine; this one exists
// so a polling loop's termination condition can be tested without a device.
type LockState int

const (
	// LockIdle: no signal seen yet
	LockIdle LockState = iota
	// LockAcquiring: some progress bits set, no lock
	LockAcquiring
	// LockLocked: the has-lock bit is set
	LockLocked
	// LockTimedOut: the driver reported a lock timeout
	LockTimedOut
)

func (s LockState) String() string {
	switch s {
	case LockIdle:
		return "idle"
	case LockAcquiring:
		return "acquiring"
	case LockLocked:
		return "locked"
	case LockTimedOut:
		return "timed-out"
	}
	return fmt.Sprintf("lockstate(%d)", int(s))
}

// Acquisition folds successive status flag observations into a LockState.
// The zero value starts at LockIdle.
type Acquisition struct {
	state LockState
	polls int
}

// Observe feeds one status read and returns the resulting state. A lock
// that appears and disappears again drops back to acquiring, not idle.
func (a *Acquisition) Observe(flags StatusFlags) LockState {
	a.polls++
	switch {
	case flags.Has(HasLock):
		a.state = LockLocked
	case flags.Has(TimedOut):
		a.state = LockTimedOut
	case flags&(HasSignal|HasCarrier|HasViterbi|HasSync) != 0:
		a.state = LockAcquiring
	case a.state == LockLocked || a.state == LockTimedOut:
		a.state = LockAcquiring
	default:
		a.state = LockIdle
	}
	return a.state
}

// State returns the current phase without feeding an observation.
func (a *Acquisition) State() LockState {
	return a.state
}

// Polls returns how many observations were fed.
func (a *Acquisition) Polls() int {
	return a.polls
}

// WaitLock polls the device until the frontend locks or the context ends.
// The kernel gives no asynchronous lock notification, so polling is the only
// way to observe acquisition; the caller bounds it through ctx. On context
// expiry the last observed record is returned along with the context error,
// abandoning the wait needs no device interaction. A driver-side timeout
// flag does not stop the loop, frontends oscillate while searching.
func WaitLock(ctx context.Context, d *Device, interval time.Duration) (*StatusRecord, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var acq Acquisition
	var last *StatusRecord
	for {
		rec, err := d.ReadStatus()
		if err != nil {
			return last, err
		}
		last = rec
		if acq.Observe(rec.Flags) == LockLocked {
			return rec, nil
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}
