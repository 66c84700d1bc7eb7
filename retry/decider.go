// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/Faris196/stockhealth/request"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in decider Retryable, the constructor Before, or
// implement your own Decider. Use DeciderFunc to convert an ordinary
// function into a Decider, and DeciderFunc.And to combine deciders.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition method And.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(e *request.Execution) bool

// Retryable is a decider that indicates a retry if the classifier found
// the most recent attempt's failure retryable.
//
// Retryable does not count attempts. NewPolicy combines it with the
// policy's retry budget.
var Retryable DeciderFunc = retryable

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current plan execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the plan execution.
// Config.Policy uses it to enforce MaxElapsed.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

func retryable(e *request.Execution) bool {
	return e.Failure.Failed() && e.Disposition.Retryable
}
