// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/Faris196/stockhealth/request"
)

// A Policy defines a timeout policy which may be plugged into the
// robust client (stockhealth.Client) to direct how to set the request
// timeout for the initial attempt, as well as for any subsequent retries.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next request attempt
	// within the plan execution.
	Timeout(e *request.Execution) time.Duration
}

// DefaultAttemptTimeout is the per-attempt timeout used by
// DefaultPolicy. Generating an analysis can take a long time, so it is
// deliberately generous.
const DefaultAttemptTimeout = 45 * time.Second

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 45 seconds on each attempt.
var DefaultPolicy Policy = Fixed(DefaultAttemptTimeout)

// Fixed constructs a timeout policy that uses the same value to set
// every attempt timeout. The value d must be positive.
func Fixed(d time.Duration) Policy {
	if d <= 0 {
		panic("stockhealth/timeout: timeout must be positive")
	}
	return fixed(d)
}

type fixed time.Duration

func (p fixed) Timeout(_ *request.Execution) time.Duration {
	return time.Duration(p)
}
