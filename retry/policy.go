// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/Faris196/stockhealth/request"
)

// A Policy controls if and how retries are done in a plan execution.
// After every failed attempt, a Policy decides whether a retry should
// be done and, if so, how long the wait period should be before the
// next attempt.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// A Policy is composed of the Decider and Waiter interfaces, plus a
// fixed retry budget. Construct policies with NewPolicy or use one of
// the built-in DefaultPolicy.
type Policy interface {
	Decider
	Waiter

	// Retries returns the maximum number of retries the policy allows
	// after the initial attempt. An execution makes at most
	// Retries()+1 attempts.
	Retries() int
}

// DefaultRetries is the number of times DefaultPolicy will retry.
const DefaultRetries = 3

// DefaultPolicy retries retryable failures up to DefaultRetries times
// (4 attempts in total), waiting 2s, 4s and 8s before the retries.
var DefaultPolicy = NewPolicy(DefaultRetries, Retryable, DefaultWaiter)

type policy struct {
	retries int
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a retry budget, a Decider and a Waiter into a retry
// Policy. The policy's Decide returns true only while the attempt index
// is below retries and d also returns true.
func NewPolicy(retries int, d Decider, w Waiter) Policy {
	if retries < 0 {
		panic("stockhealth/retry: retries may not be negative")
	}
	if d == nil {
		panic("stockhealth/retry: nil decider")
	}
	if w == nil {
		panic("stockhealth/retry: nil waiter")
	}
	return policy{retries: retries, decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return e.Attempt < p.retries && p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}

func (p policy) Retries() int {
	return p.retries
}
