// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/timeout"
)

// Config is the declarative form of a client's retry behavior. It is
// what configuration files and flags populate; the client itself works
// with the Policy, Classifier and timeout.Policy built from it.
type Config struct {
	// MaxRetries is the number of retries allowed after the initial
	// attempt.
	MaxRetries int

	// BaseDelay is the backoff base. The wait before retry n (counting
	// from zero) is BaseDelay * 2**(n+1).
	BaseDelay time.Duration

	// PerAttemptTimeout bounds each individual attempt.
	PerAttemptTimeout time.Duration

	// MaxElapsed, if positive, stops retrying once the execution has
	// been running this long, even if retries remain. Zero means no
	// limit beyond MaxRetries.
	MaxElapsed time.Duration

	// RetryableStatusCodes lists the HTTP status codes worth retrying.
	RetryableStatusCodes []int

	// RetryableKinds lists the non-HTTP failure kinds worth retrying.
	RetryableKinds []classify.Kind
}

// DefaultConfig returns the default retry configuration: 3 retries
// with waits of 2s, 4s and 8s, a 45 second attempt timeout, and
// retries for timeouts and the classify.DefaultStatusCodes.
func DefaultConfig() Config {
	return Config{
		MaxRetries:           DefaultRetries,
		BaseDelay:            DefaultBaseDelay,
		PerAttemptTimeout:    timeout.DefaultAttemptTimeout,
		RetryableStatusCodes: append([]int(nil), classify.DefaultStatusCodes...),
		RetryableKinds:       []classify.Kind{classify.Timeout},
	}
}

// Validate reports whether c can be turned into policies.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("stockhealth/retry: max retries may not be negative")
	}
	if c.BaseDelay <= 0 {
		return errors.New("stockhealth/retry: base delay must be positive")
	}
	if c.PerAttemptTimeout <= 0 {
		return errors.New("stockhealth/retry: per-attempt timeout must be positive")
	}
	if c.MaxElapsed < 0 {
		return errors.New("stockhealth/retry: max elapsed may not be negative")
	}
	return nil
}

// Policy builds the retry policy described by c. Its waits are not
// capped, since MaxRetries already bounds them. It panics if c is not
// valid.
func (c Config) Policy() Policy {
	d := Retryable
	if c.MaxElapsed > 0 {
		d = d.And(Before(c.MaxElapsed))
	}
	return NewPolicy(c.MaxRetries, d, NewExpWaiter(c.BaseDelay, maxDuration))
}

// Classifier builds the failure classifier described by c.
func (c Config) Classifier() classify.Classifier {
	return classify.Classifier{
		StatusCodes: append([]int(nil), c.RetryableStatusCodes...),
		Kinds:       append([]classify.Kind(nil), c.RetryableKinds...),
	}
}

// TimeoutPolicy builds the per-attempt timeout policy described by c.
// It panics if c is not valid.
func (c Config) TimeoutPolicy() timeout.Policy {
	return timeout.Fixed(c.PerAttemptTimeout)
}
