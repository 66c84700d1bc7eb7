// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/Faris196/stockhealth/classify"
)

// An Execution represents the state of a single Plan execution.
//
// When an analysis plan execution is requested, an Execution is created
// for it. The Execution is updated as the plan execution progresses
// (for example when the HTTP response becomes available, or when a
// retry is needed) and is ultimately returned as return value of the
// plan execution.
//
// Timeout and retry policies, event handlers and the plan's Progress
// function may set values on an Execution using its SetValue method
// and read them back using the Value method. However, they should treat
// the structure's exported field values as immutable, as the execution
// state is vital to the correct functioning of the retry loop.
type Execution struct {
	// Plan specifies the analysis plan being executed. It is never nil.
	Plan *Plan

	// Start is the start time of the plan execution. It is assigned a
	// non-zero value when the plan execution starts, and this value
	// remains constant thereafter.
	Start time.Time

	// End is the end time of the plan execution. It contains the zero
	// value until the plan execution ends, when it is set to the current
	// time.
	End time.Time

	// Attempt is the zero-based number of the current request attempt
	// during the plan execution. It is set to zero on the initial
	// attempt, one on the first retry, and so on.
	//
	// When the execution is ended, Attempt contains the zero-based
	// number of the last attempt made during the execution. So for
	// example an execution that ends after an initial attempt plus two
	// retries will have an attempt number of 2.
	Attempt int

	// MaxAttempts is the total number of attempts the retry policy
	// allows for this execution: one initial attempt plus the policy's
	// retries. It is set when the execution starts.
	MaxAttempts int

	// AttemptTimeouts is the count of the number of times a request
	// attempt timed out during the execution.
	AttemptTimeouts int

	// Status is the lifecycle state of the execution. It moves from
	// Loading to Retrying and back for each retry, and ends either
	// Succeeded or Failed.
	Status Status

	// Wait is the backoff delay before the current retry. It is zero
	// until the first retry is scheduled.
	Wait time.Duration

	// Request specifies the HTTP request to be made in the current
	// attempt, or already made in the last attempt.
	Request *http.Request

	// Response specifies the HTTP response received in the most recent
	// request attempt. It will be nil if the most recent attempt ended
	// in a transport error, or if a current attempt is underway.
	Response *http.Response

	// Body is the complete response body read from the response after
	// the most recent request attempt.
	Body []byte

	// Failure is the normalized failure of the most recent attempt. Its
	// Kind is classify.None if the attempt succeeded or is underway.
	Failure classify.Failure

	// Disposition is the classifier's verdict on Failure. It is the
	// zero value if the attempt succeeded or is underway.
	Disposition classify.Disposition

	// Result is the decoded analysis. It is non-nil only if the
	// execution Succeeded.
	Result *Result

	// Err is nil while the execution is in flight and after it
	// succeeds. Once the execution ends Failed, Err has type *Error and
	// is the same error value returned by the robust client's Do method.
	Err error

	data context.Context
}

// Symbol returns the symbol being analyzed.
func (e *Execution) Symbol() string {
	return e.Plan.Symbol
}

// AttemptsUsed returns the number of attempts started so far.
func (e *Execution) AttemptsUsed() int {
	if e.Request == nil {
		return 0
	}

	return e.Attempt + 1
}

// StatusCode returns the status code of the HTTP response from the
// most recent request attempt in the execution. If there is no HTTP
// response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. Once it returns
// true, there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether the most recent attempt ended in a
// client-side timeout.
func (e *Execution) Timeout() bool {
	return e.Failure.Kind == classify.Timeout
}

// SetValue allows event handlers to store arbitrary data in the plan
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
