// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/internal/stubserver"
	"github.com/Faris196/stockhealth/request"
	"github.com/Faris196/stockhealth/retry"
	"github.com/Faris196/stockhealth/timeout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://stock.test"

func TestMachine_Idle(t *testing.T) {
	m := New(doerFunc(nil), baseURL)
	defer m.Close()
	s := m.Snapshot()
	assert.Equal(t, request.Idle, s.Status)
	assert.Zero(t, s.Generation)
	assert.Nil(t, s.Result)
	assert.Nil(t, s.Error)
	assert.Same(t, ErrRetryNotAllowed, m.Retry())
	s, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, request.Idle, s.Status)
}

func TestMachine_Errors(t *testing.T) {
	m := New(doerFunc(succeed), baseURL)
	assert.Same(t, ErrEmptySymbol, m.Analyze(""))
	assert.Same(t, ErrEmptySymbol, m.Analyze("  \t"))
	assert.Equal(t, request.Idle, m.Snapshot().Status)

	bad := New(doerFunc(succeed), "not a url")
	assert.Error(t, bad.Analyze("TCS.NS"))
	assert.Equal(t, request.Idle, bad.Snapshot().Status)

	m.Close()
	assert.Same(t, ErrClosed, m.Analyze("TCS.NS"))
	assert.Same(t, ErrClosed, m.Retry())
	_, err := m.Wait(context.Background())
	assert.Same(t, ErrClosed, err)

	assert.PanicsWithValue(t, "stockhealth/lifecycle: nil doer", func() { New(nil, baseURL) })
}

func TestMachine_Success(t *testing.T) {
	rec := &recorder{}
	m := New(doerFunc(succeed), baseURL, OnChange(rec.add))
	defer m.Close()

	require.NoError(t, m.Analyze(" TCS.NS "))
	s := m.Snapshot()
	assert.Equal(t, "TCS.NS", s.Symbol)
	assert.Equal(t, uint64(1), s.Generation)

	s, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, request.Succeeded, s.Status)
	require.NotNil(t, s.Result)
	assert.Equal(t, "analysis of TCS.NS", s.Result.AnalysisText)
	assert.Nil(t, s.Error)
	assert.Equal(t, 1, s.AttemptsUsed)
	assert.Same(t, ErrRetryNotAllowed, m.Retry())

	rec.waitFor(t, request.Succeeded)
	assert.Equal(t, request.Succeeded, rec.last().Status)
	for _, snap := range rec.all() {
		assert.Equal(t, uint64(1), snap.Generation)
	}
}

func TestMachine_SupersedeDiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	aaaDone := make(chan struct{})
	doer := doerFunc(func(p *request.Plan) (*request.Execution, error) {
		if p.Symbol == "AAA" {
			// Ignores cancellation, like a server that answers late.
			<-release
			defer close(aaaDone)
			return succeed(p)
		}
		return succeed(p)
	})
	rec := &recorder{}
	m := New(doer, baseURL, OnChange(rec.add))
	defer m.Close()

	require.NoError(t, m.Analyze("AAA"))
	require.NoError(t, m.Analyze("BBB"))
	s, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BBB", s.Symbol)
	assert.Equal(t, uint64(2), s.Generation)
	assert.Equal(t, request.Succeeded, s.Status)

	close(release)
	<-aaaDone
	m.Close()

	s = m.Snapshot()
	assert.Equal(t, "BBB", s.Symbol)
	assert.Equal(t, "analysis of BBB", s.Result.AnalysisText)
	for _, snap := range rec.all() {
		if snap.Symbol == "AAA" {
			assert.False(t, snap.Status.Terminal(), "stale outcome published")
		}
	}
}

func TestMachine_SupersedeCancelsInFlight(t *testing.T) {
	cancelled := make(chan error, 1)
	doer := doerFunc(func(p *request.Plan) (*request.Execution, error) {
		if p.Symbol == "AAA" {
			<-p.Context().Done()
			cancelled <- p.Context().Err()
			return failWith(p, p.Context().Err().Error())
		}
		return succeed(p)
	})
	m := New(doer, baseURL)
	defer m.Close()

	require.NoError(t, m.Analyze("AAA"))
	require.NoError(t, m.Analyze("AAA"))
	select {
	case err := <-cancelled:
		assert.Same(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first request never cancelled")
	}
}

func TestMachine_FailureAndRetry(t *testing.T) {
	var lock sync.Mutex
	calls := 0
	doer := doerFunc(func(p *request.Plan) (*request.Execution, error) {
		lock.Lock()
		calls++
		n := calls
		lock.Unlock()
		if n == 1 {
			return failWith(p, classify.MsgServerError)
		}
		return succeed(p)
	})
	m := New(doer, baseURL)
	defer m.Close()

	require.NoError(t, m.Analyze("HDFCBANK.NS"))
	s, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, request.Failed, s.Status)
	require.NotNil(t, s.Error)
	assert.Equal(t, classify.MsgServerError, s.Error.UserMessage)
	assert.Nil(t, s.Result)

	require.NoError(t, m.Retry())
	s = m.Snapshot()
	assert.Equal(t, "HDFCBANK.NS", s.Symbol)
	assert.Equal(t, uint64(2), s.Generation)
	assert.Nil(t, s.Error)

	s, err = m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, request.Succeeded, s.Status)
	assert.Equal(t, 1, s.AttemptsUsed)
}

func TestMachine_ForeignError(t *testing.T) {
	boom := errors.New("boom")
	m := New(doerFunc(func(p *request.Plan) (*request.Execution, error) {
		return nil, boom
	}), baseURL)
	defer m.Close()

	require.NoError(t, m.Analyze("X"))
	s, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, request.Failed, s.Status)
	assert.Equal(t, "boom", s.Error.UserMessage)
	assert.True(t, errors.Is(s.Error, boom))
}

func TestMachine_WaitContext(t *testing.T) {
	block := make(chan struct{})
	m := New(doerFunc(func(p *request.Plan) (*request.Execution, error) {
		<-block
		return succeed(p)
	}), baseURL)
	require.NoError(t, m.Analyze("X"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	s, err := m.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, request.Loading, s.Status)
	close(block)
	m.Close()
}

func TestMachine_CloseDiscardsOutcome(t *testing.T) {
	rec := &recorder{}
	m := New(doerFunc(func(p *request.Plan) (*request.Execution, error) {
		<-p.Context().Done()
		return failWith(p, "context canceled")
	}), baseURL, OnChange(rec.add))
	require.NoError(t, m.Analyze("X"))
	m.Close()
	assert.Equal(t, request.Loading, m.Snapshot().Status)
	for _, snap := range rec.all() {
		assert.NotEqual(t, request.Failed, snap.Status)
	}
}

func TestMachine_WithClient(t *testing.T) {
	stub := stubserver.New()
	server := httptest.NewServer(stub)
	defer server.Close()
	cl := &stockhealth.Client{
		HTTPDoer:      server.Client(),
		RetryPolicy:   retry.NewPolicy(3, retry.Retryable, retry.NewFixedWaiter(time.Millisecond)),
		TimeoutPolicy: timeout.Fixed(5 * time.Second),
	}

	t.Run("retries are visible", func(t *testing.T) {
		stub.Script("RELIANCE.NS", stubserver.Outcome{Status: 503}, stubserver.Outcome{Status: 504})
		rec := &recorder{}
		m := New(cl, server.URL, OnChange(rec.add))
		defer m.Close()

		require.NoError(t, m.Analyze("RELIANCE.NS"))
		s, err := m.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, request.Succeeded, s.Status)
		assert.Equal(t, 3, s.AttemptsUsed)
		assert.Equal(t, 4, s.MaxAttempts)

		rec.waitFor(t, request.Succeeded)
		var retrying []int
		prev := 0
		for _, snap := range rec.all() {
			assert.GreaterOrEqual(t, snap.AttemptsUsed, prev)
			assert.LessOrEqual(t, snap.AttemptsUsed, 4)
			prev = snap.AttemptsUsed
			if snap.Status == request.Retrying {
				retrying = append(retrying, snap.Retries()+1)
			}
		}
		assert.Equal(t, []int{1, 2}, retrying)
	})
	t.Run("exhausted then manual retry", func(t *testing.T) {
		stub.Script("TCS.NS",
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500},
		)
		m := New(cl, server.URL)
		defer m.Close()

		require.NoError(t, m.Analyze("TCS.NS"))
		s, err := m.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, request.Failed, s.Status)
		assert.Equal(t, 4, s.AttemptsUsed)
		assert.Equal(t, classify.MsgServerError, s.Error.UserMessage)
		assert.Equal(t, classify.PolicyExhausted, s.Error.Cause)

		require.NoError(t, m.Retry())
		s, err = m.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, request.Succeeded, s.Status)
		assert.Equal(t, 1, s.AttemptsUsed)
		assert.Equal(t, 5, stub.Calls("TCS.NS"))
	})
	t.Run("terminal failure", func(t *testing.T) {
		stub.Script("NOPE.NS", stubserver.Outcome{Status: 404})
		m := New(cl, server.URL)
		defer m.Close()

		require.NoError(t, m.Analyze("NOPE.NS"))
		s, err := m.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, request.Failed, s.Status)
		assert.Equal(t, 1, s.AttemptsUsed)
		assert.Equal(t, "Request failed with status code 404", s.Error.UserMessage)
	})
}

type doerFunc func(p *request.Plan) (*request.Execution, error)

func (f doerFunc) Do(p *request.Plan) (*request.Execution, error) {
	return f(p)
}

func succeed(p *request.Plan) (*request.Execution, error) {
	e := &request.Execution{Plan: p, MaxAttempts: 4, Request: p.ToRequest(p.Context())}
	e.Status = request.Loading
	if p.Progress != nil {
		p.Progress(e)
	}
	e.Status = request.Succeeded
	e.Result = &request.Result{
		Fundamentals: map[string]interface{}{},
		AnalysisText: "analysis of " + p.Symbol,
	}
	return e, nil
}

func failWith(p *request.Plan, msg string) (*request.Execution, error) {
	e := &request.Execution{Plan: p, MaxAttempts: 4, Request: p.ToRequest(p.Context())}
	e.Status = request.Failed
	e.Err = &request.Error{UserMessage: msg, Cause: classify.TerminalTransport}
	return e, e.Err
}

type recorder struct {
	lock  sync.Mutex
	snaps []Snapshot
}

func (r *recorder) add(s Snapshot) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func (r *recorder) last() Snapshot {
	all := r.all()
	return all[len(all)-1]
}

// waitFor waits until a snapshot with the given status was delivered.
// Wait can return before the final OnChange call has happened.
func (r *recorder) waitFor(t *testing.T, status request.Status) {
	require.Eventually(t, func() bool {
		for _, s := range r.all() {
			if s.Status == status {
				return true
			}
		}
		return false
	}, 5*time.Second, time.Millisecond)
}
