// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/google/uuid"
)

// AnalyzePath is the path of the analysis endpoint, relative to the
// service's base URL.
const AnalyzePath = "/api/analyze"

// RequestIDHeader carries the plan's request ID on every attempt, so
// that all attempts of one logical request can be correlated.
const RequestIDHeader = "X-Request-ID"

var (
	template, _ = http.NewRequest("POST", "", nil)
)

const (
	nilCtxMsg = "stockhealth/request: nil context"
)

// ErrEmptySymbol is returned when a plan is requested for a blank
// symbol.
var ErrEmptySymbol = errors.New("stockhealth/request: empty symbol")

// A Plan contains a logical "analyze symbol" request for execution by
// the robust client.
//
// Executing a Plan typically results in one lower-level http.Request,
// but may result in several request attempts if failed attempts need
// to be retried. Every attempt carries the same symbol, body and
// request ID.
//
// Like the http.Request structure, a Plan has a context which controls
// the overall plan execution and can be used to cancel the in-flight
// execution of a Plan at any time.
type Plan struct {
	// Symbol is the stock symbol to analyze. It is never empty and does
	// not change over the plan's lifetime.
	Symbol string

	// URL is the absolute URL of the analysis endpoint.
	URL *urlpkg.URL

	// Header contains the request header fields sent on every attempt.
	// NewPlan sets Content-Type and the request ID header.
	Header http.Header

	// Body is the pre-buffered JSON request body.
	Body []byte

	// Progress, if not nil, is called by the robust client each time
	// the execution's Status changes: when an attempt starts (Loading),
	// before each backoff wait (Retrying), and once when the execution
	// ends (Succeeded or Failed).
	//
	// Progress runs on the goroutine executing the plan and must not
	// block for long.
	Progress func(e *Execution)

	// ctx allows the entire Plan exec to be cancelled. It is fixed by
	// NewPlanWithContext.
	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(baseURL, symbol string) (*Plan, error) {
	return NewPlanWithContext(context.Background(), baseURL, symbol)
}

// NewPlanWithContext returns a new Plan to analyze symbol using the
// analysis service rooted at baseURL.
//
// Parameter baseURL must be an absolute URL, for example
// "https://stockhealth.example.com". Surrounding whitespace is trimmed
// from symbol, and the result may not be empty.
func NewPlanWithContext(ctx context.Context, baseURL, symbol string) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	base, err := urlpkg.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("stockhealth/request: base URL must be absolute")
	}
	b, err := json.Marshal(struct {
		Symbol string `json:"symbol"`
	}{symbol})
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set(RequestIDHeader, uuid.NewString())
	return &Plan{
		ctx:    ctx,
		Symbol: symbol,
		URL:    analyzeURL(base),
		Header: h,
		Body:   b,
	}, nil
}

// analyzeURL appends AnalyzePath to base, keeping any base path. The
// result always has an absolute path, since JoinPath leaves it
// relative when base has none.
func analyzeURL(base *urlpkg.URL) *urlpkg.URL {
	u := base.JoinPath(AnalyzePath)
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
		if u.RawPath != "" {
			u.RawPath = "/" + u.RawPath
		}
	}
	return u
}

// Context returns the request plan's context. The context controls
// cancellation of the overall request plan.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// RequestID returns the plan's request ID.
func (p *Plan) RequestID() string {
	return p.Header.Get(RequestIDHeader)
}

// ToRequest creates the HTTP request for one attempt of the plan. The
// context of the new request is set to ctx, which may not be nil.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = http.MethodPost
	r.URL = p.URL
	r.Host = p.URL.Host
	r.Header = p.Header.Clone()
	r.Body = io.NopCloser(bytes.NewReader(p.Body))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(p.Body)), nil
	}
	r.ContentLength = int64(len(p.Body))
	return r
}
