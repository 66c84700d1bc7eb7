// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package stockhealth provides a robust client for a remote stock analysis
service. The service is slow and occasionally unreliable, so the client
retries failed attempts with an exponential backoff and reports a
concise, user-facing message when it finally gives up.

Create a Client to begin analyzing symbols.

	client, err := stockhealth.NewClient("https://api.example.com", retry.DefaultConfig())
	...
	e, err := client.Analyze(ctx, "RELIANCE.NS")
	if err != nil {
		fmt.Println(err) // e.g. "Server error. Please try again in a few moments."
		...
	}
	fmt.Println(e.Result.AnalysisText)

By default the client makes up to 4 attempts, each bounded by a 45
second timeout, and waits 2s, 4s and then 8s before the retries. Only
timeouts and the HTTP status codes 429, 500, 502, 503 and 504 are
retried. Everything else fails immediately.

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client.HTTPDoer = doer

For control over the client's retry decisions and timing, set a custom
retry policy using components from package retry, or build one from a
retry.Config:

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 5
	cfg.RetryableKinds = append(cfg.RetryableKinds, classify.Network)
	client, err := stockhealth.NewClient(baseURL, cfg)

To follow an execution as it progresses, set the plan's Progress
function. It is called whenever the execution status changes:

	p, err := request.NewPlanWithContext(ctx, baseURL, "TCS.NS")
	...
	p.Progress = func(e *request.Execution) {
		if e.Status == request.Retrying {
			fmt.Printf("Attempting retry %d...\n", e.Attempt+1)
		}
	}
	e, err := client.Do(p)

To hook into the fine-grained details of the client's execution logic,
install a handler into the appropriate handler chain:

	handlers := &stockhealth.HandlerGroup{}
	handlers.PushBack(stockhealth.BeforeAttempt, stockhealth.HandlerFunc(
		func(_ stockhealth.Event, e *request.Execution) {
			log.Printf("Attempt %d for %s", e.Attempt, e.Symbol())
		}),
	)
	client.Handlers = handlers

Package lifecycle builds on the client to provide a state machine which
tracks one "current" analysis, such as the one a screen is showing, and
discards the results of analyses that have been superseded.
*/
package stockhealth
