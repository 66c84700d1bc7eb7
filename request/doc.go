// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes one logical
"analyze symbol X" request) and Execution (describes the state of a
Plan execution), together with the Result and Error values an execution
ends with.

A Plan describes how to ask the remote analysis service for an analysis
of a single stock symbol: a POST of {"symbol": ...} as JSON to the
service's /api/analyze endpoint. Executing a plan may involve several
request attempts if failed attempts are retried.

	p, err := request.NewPlan("https://api.example.com", "RELIANCE.NS")
	...
	e, err := client.Do(p)
	...

A plan may be assigned a context so that the whole execution can be
cancelled, for example because the person asking for the analysis has
moved on to another symbol:

	p, err := request.NewPlanWithContext(ctx, baseURL, "TCS.NS")

The plan context is separate from the deadlines set on individual
request attempts, which are dictated by the client's timeout.Policy. An
attempt timeout is retryable; cancellation of the plan context is not.

Execution is both the output of the robust client's Do method and the
input to the callbacks invoked during plan execution: timeout policies,
retry policies, event handlers and the plan's Progress function. You
will typically not allocate Execution instances yourself.
*/
package request
