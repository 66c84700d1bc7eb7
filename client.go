// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stockhealth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/request"
	"github.com/Faris196/stockhealth/retry"
	"github.com/Faris196/stockhealth/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// fallbackMessage is shown when a failure carries no description.
const fallbackMessage = "Analysis failed."

// A Client is a robust client for the remote stock analysis service.
// Its zero value is a valid configuration, except that Analyze needs a
// BaseURL.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, timeout.DefaultPolicy as the timeout policy,
// retry.DefaultPolicy as the retry policy, classify.Default as the
// failure classifier, and an empty handler group (no event
// handlers/plug-ins).
//
// Client is safe for concurrent use by multiple goroutines. Each call
// to Do runs its own execution with its own attempt counter.
//
// On top of the HTTP features provided by the HTTPDoer, Client adds the
// following features:
//
// • Client reads and decodes the analysis response into a
// request.Result;
//
// • Client sets individual attempt timeouts using a timeout policy;
//
// • Client classifies failed attempts and retries the retryable ones
// using a retry policy, waiting out an exponential backoff between
// attempts; and
//
// • Client invokes user-provided handler functions at designated plug-in
// points within the attempt/retry loop, allowing features such as
// logging and metrics to be mixed in from outside.
type Client struct {
	// BaseURL is the root URL of the analysis service, for example
	// "https://api.example.com". It is only used by Analyze.
	BaseURL string
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// RetryPolicy decides when to retry failed attempts and how long
	// to wait after a failed attempt before retrying.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy specifies how to set timeouts on individual request
	// attempts.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Classifier decides which failures are retryable and which message
	// each failure produces.
	//
	// If Classifier is nil, classify.Default is used.
	Classifier *classify.Classifier
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request plan.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// NewClient returns a Client for the analysis service at baseURL, with
// its retry, classification and timeout behavior built from cfg.
func NewClient(baseURL string, cfg retry.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}
	cl := cfg.Classifier()
	return &Client{
		BaseURL:       baseURL,
		RetryPolicy:   cfg.Policy(),
		TimeoutPolicy: cfg.TimeoutPolicy(),
		Classifier:    &cl,
	}, nil
}

// Do executes an analysis plan and returns the results, following the
// timeout, retry and classification policies set on Client.
//
// Do makes attempts in a loop until one succeeds, one fails with a
// failure that is not retryable, or the retry policy has no retries
// left. Between attempts it waits for the duration set by the retry
// policy. The attempts never overlap, and every attempt sends the
// plan's symbol unchanged.
//
// The returned Execution is never nil. If the execution Succeeded, its
// Result is set and the returned error is nil. Otherwise the returned
// error has type *request.Error, carries the user-facing message, and
// is the same value as the Execution's Err field.
//
// Cancelling the plan's context ends the execution promptly, whether an
// attempt is in flight or the client is waiting to retry. A cancelled
// execution is a terminal failure whose message is the context error,
// except that a passed deadline is reported with the timeout message.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := request.Execution{
		Plan: p,
	}

	doer := c.doer()

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy
	}

	classifier := c.Classifier
	if classifier == nil {
		classifier = &classify.Default
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	e.MaxAttempts = retryPolicy.Retries() + 1
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		e.Status = request.Loading
		sendAndReceive(p, &e, doer, handlers, timeoutPolicy)
		if e.Failure.Failed() {
			e.Disposition = classifier.Classify(e.Failure)
		}
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		if !e.Failure.Failed() {
			e.Status = request.Succeeded
			break
		} else if planCtxErr := p.Context().Err(); planCtxErr != nil {
			abandon(p, &e, planCtxErr)
			break
		} else if retryPolicy.Decide(&e) {
			e.Wait = retryPolicy.Wait(&e)
			e.Status = request.Retrying
			progress(p, &e)
			handlers.run(BeforeRetryWait, &e)
			timer := time.NewTimer(e.Wait)
			select {
			case <-timer.C:
				break
			case <-p.Context().Done():
				timer.Stop()
				abandon(p, &e, p.Context().Err())
				break RetryLoop
			}
			e.Response = nil
			e.Body = nil
			e.Failure = classify.Failure{}
			e.Disposition = classify.Disposition{}
			e.Attempt++
		} else {
			fail(&e)
			break
		}
	}

	e.End = time.Now()
	progress(p, &e)
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

// Analyze creates a plan to analyze symbol using the service at
// c.BaseURL, and executes it with Do. If the plan cannot be created,
// for example because symbol is blank, the returned Execution is nil.
func (c *Client) Analyze(ctx context.Context, symbol string) (*request.Execution, error) {
	p, err := request.NewPlanWithContext(ctx, c.BaseURL, symbol)
	if err != nil {
		return nil, err
	}

	return c.Do(p)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	ctx, cancel := context.WithTimeout(p.Context(), timeoutPolicy.Timeout(e))
	defer cancel()
	e.Request = p.ToRequest(ctx)
	handlers.run(BeforeAttempt, e)
	progress(p, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Response = nil
		e.Failure = classify.Normalize(urlErrorWrap(p, err), 0)
		return
	}

	readBody(p, e, handlers)
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Failure = classify.Normalize(urlErrorWrap(p, err), 0)
		return
	}

	e.Failure = classify.Normalize(nil, e.Response.StatusCode)
	if e.Failure.Failed() {
		return
	}

	r, err := request.DecodeResult(e.Body)
	if err != nil {
		e.Failure = classify.Malformed(err)
		return
	}

	e.Result = r
}

// abandon ends e because the plan context was cancelled or its deadline
// passed. This is never retried.
func abandon(p *request.Plan, e *request.Execution, planCtxErr error) {
	kind, msg := classify.Other, planCtxErr.Error()
	if errors.Is(planCtxErr, context.DeadlineExceeded) {
		kind, msg = classify.Timeout, classify.MsgTimeout
	}
	e.Failure = classify.Failure{
		Kind:        kind,
		Description: planCtxErr.Error(),
		Err:         urlErrorWrap(p, planCtxErr),
	}
	e.Disposition = classify.Disposition{
		UserMessage: msg,
		Cause:       classify.TerminalTransport,
	}
	fail(e)
}

func fail(e *request.Execution) {
	cause := e.Disposition.Cause
	if e.Disposition.Retryable {
		cause = classify.PolicyExhausted
	}

	msg := e.Disposition.UserMessage
	if msg == "" {
		msg = e.Failure.Description
	}
	if msg == "" {
		msg = fallbackMessage
	}

	e.Status = request.Failed
	e.Result = nil
	e.Err = &request.Error{
		UserMessage: msg,
		Cause:       cause,
		Failure:     e.Failure,
	}
}

func progress(p *request.Plan, e *request.Execution) {
	if p.Progress != nil {
		p.Progress(e)
	}
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  "Post",
		URL: p.URL.String(),
		Err: err,
	}
}
