// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stockhealth

import "fmt"

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// plan execution starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only fields that have been set are the plan and
	// the maximum number of attempts.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual request attempt during the plan execution.
	//
	// When Client fires BeforeAttempt, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeAttempt
	// handlers have finished, and its status is Loading.
	//
	// BeforeAttempt handlers may modify the execution's request, for
	// example to add an authorization header, but should clone the
	// request's URL before changing it, as it references the plan's.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after a request
	// attempt has resulted in an HTTP response (as opposed to an error)
	// but before the response body is read and decoded.
	//
	// Note that BeforeReadBody fires regardless of the HTTP response
	// status code.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after a
	// request attempt failed because of a timeout.
	//
	// When Client fires AfterAttemptTimeout, the execution's failure is
	// the timeout, and its attempt timeout counter has been
	// incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after a request
	// attempt is concluded, regardless of whether it concluded
	// successfully or not.
	//
	// When Client fires AfterAttempt, either the execution's result is
	// set, or its failure and disposition describe why the attempt
	// failed. AfterAttempt runs before the retry policy is consulted.
	AfterAttempt
	// BeforeRetryWait identifies the event that occurs after the retry
	// policy decided to retry, immediately before the backoff wait.
	//
	// When Client fires BeforeRetryWait, the execution's status is
	// Retrying and its Wait field holds the backoff delay. Its attempt
	// number is still that of the failed attempt.
	BeforeRetryWait
	// AfterExecutionEnd identifies the event that occurs after the plan
	// execution ends.
	//
	// When Client fires AfterExecutionEnd, the execution's status is
	// Succeeded or Failed and its end time is set.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// a plan execution.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		BeforeRetryWait,
		AfterExecutionEnd,
	}
}

func (evt Event) valid() bool {
	return evt >= 0 && evt < eventSentinel
}

// Name returns the name of the event, or "Event(N)" for a value that
// is not one of Events.
func (evt Event) Name() string {
	if !evt.valid() {
		return fmt.Sprintf("Event(%d)", int(evt))
	}
	return eventNames[evt]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
