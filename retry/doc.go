// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the policies deciding whether a failed
// analysis attempt is retried, and how long to wait before retrying.
//
// The interface Policy defines a retry Policy. A Policy instance can be
// constructed using NewPolicy by providing a retry budget, a
// decision-maker, Decider, and a wait time calculator, Waiter:
//
//	waiter := retry.NewExpWaiter(time.Second, time.Minute)
//	policy := retry.NewPolicy(3, retry.Retryable, waiter)
//
// The backoff is deterministic. DelayFor computes the wait before a
// retry from the number of retries already done, giving 2s, 4s and 8s
// for a one second base. There is no jitter.
//
// Most programs describe their retry behavior with a Config and let it
// build the Policy, the classify.Classifier and the timeout.Policy.
package retry
