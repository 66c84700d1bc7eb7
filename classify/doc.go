// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package classify turns the outcome of a failed analysis attempt into
// a normalized Failure, and decides whether that failure is worth
// retrying and what message a person should see about it.
//
// Normalize converts a transport error or a non-2XX HTTP status code
// into a Failure. A Classifier then maps the Failure to a Disposition:
//
//	f := classify.Normalize(err, statusCode)
//	d := classify.Classify(f)
//	if d.Retryable {
//		...
//	}
//
// Like the rest of the robust client's policy packages, classify only
// depends on the standard library and has no side effects.
package classify
