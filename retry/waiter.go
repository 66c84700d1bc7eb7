// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/Faris196/stockhealth/request"
)

// A Waiter specifies how long to wait before retrying a failed request
// attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The robust client will not call the Waiter on a retry policy if the
// policy Decider returned false.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultBaseDelay is the base delay used by DefaultWaiter.
const DefaultBaseDelay = time.Second

// DefaultMaxDelay caps the delay computed by DefaultWaiter.
const DefaultMaxDelay = time.Minute

// DefaultWaiter is the default retry wait policy. It doubles a one
// second base delay on each retry, so the waits before the first three
// retries are 2s, 4s and 8s.
var DefaultWaiter = NewExpWaiter(DefaultBaseDelay, DefaultMaxDelay)

// DelayFor returns the backoff delay before a retry, given the number
// of retries already performed:
//
//	delay := base * 2**(attemptIndex+1)
//
// The result saturates rather than overflowing. DelayFor is a pure
// function and never sleeps.
func DelayFor(base time.Duration, attemptIndex int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attemptIndex < 0 {
		attemptIndex = 0
	}

	d := base
	for i := 0; i <= attemptIndex; i++ {
		if d > maxDuration/2 {
			return maxDuration
		}
		d *= 2
	}

	return d
}

const maxDuration = time.Duration(1<<63 - 1)

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing a deterministic
// exponential backoff. Before the retry following attempt e.Attempt,
// it waits DelayFor(base, e.Attempt), capped at max.
//
// Base and max must be positive values, and max must be at least equal
// to base.
func NewExpWaiter(base, max time.Duration) Waiter {
	if base < 1 {
		panic("stockhealth/retry: base must be positive")
	}
	if max < base {
		panic("stockhealth/retry: max must be at least base")
	}
	return expWaiter{base: base, max: max}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
}

func (w expWaiter) Wait(e *request.Execution) time.Duration {
	d := DelayFor(w.base, e.Attempt)
	if d > w.max {
		return w.max
	}

	return d
}
