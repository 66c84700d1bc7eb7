// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "fmt"

// A Status is the lifecycle state of an analysis request.
type Status int

const (
	// Idle means no analysis has been requested yet.
	Idle Status = iota
	// Loading means a request attempt is in flight.
	Loading
	// Retrying means the previous attempt failed with a retryable
	// failure and the client is waiting out the backoff delay.
	Retrying
	// Succeeded is terminal: the analysis result is available.
	Succeeded
	// Failed is terminal: the analysis could not be obtained.
	Failed
)

var statusNames = []string{
	"Idle",
	"Loading",
	"Retrying",
	"Succeeded",
	"Failed",
}

// String returns the name of the status.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusNames[s]
}

// Terminal reports whether s is Succeeded or Failed.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed
}
