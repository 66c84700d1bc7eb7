// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/request"
)

var (
	// ErrEmptySymbol is returned by Analyze for a blank symbol.
	ErrEmptySymbol = request.ErrEmptySymbol

	// ErrRetryNotAllowed is returned by Retry unless the current
	// request has Failed.
	ErrRetryNotAllowed = errors.New("stockhealth/lifecycle: retry is only allowed after a failure")

	// ErrClosed is returned once the machine has been closed.
	ErrClosed = errors.New("stockhealth/lifecycle: machine closed")
)

// A Snapshot is the observable state of the machine's current request.
type Snapshot struct {
	// Generation identifies the request. It increases every time a
	// request is started, and is zero before the first one.
	Generation uint64

	// Symbol is the symbol being analyzed. It is empty while Idle.
	Symbol string

	Status request.Status

	// AttemptsUsed is the number of attempts started so far. It never
	// decreases within one generation.
	AttemptsUsed int

	// MaxAttempts is the attempt budget, once known.
	MaxAttempts int

	// Result is set only when Status is Succeeded.
	Result *request.Result

	// Error is set only when Status is Failed.
	Error *request.Error
}

// Retries returns the number of retries started so far.
func (s Snapshot) Retries() int {
	if s.AttemptsUsed <= 1 {
		return 0
	}

	return s.AttemptsUsed - 1
}

// An Option configures a Machine.
type Option func(m *Machine)

// OnChange registers f to be called with the new snapshot after every
// state change of the current request.
//
// Calls to f are serialized and never report a superseded generation.
// Successive snapshots of one generation never go backwards. The
// function f runs on an internal goroutine; it may call Snapshot,
// Analyze and Retry, but must not call Close.
func OnChange(f func(Snapshot)) Option {
	return func(m *Machine) {
		m.onChange = f
	}
}

// A Machine is the analysis request state machine. It is safe for
// concurrent use by multiple goroutines.
type Machine struct {
	doer     stockhealth.Doer
	baseURL  string
	onChange func(Snapshot)

	lock   sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	closed bool

	notifyLock sync.Mutex
	wg         sync.WaitGroup
}

// New returns an Idle machine which executes its requests with d
// against the analysis service rooted at baseURL.
func New(d stockhealth.Doer, baseURL string, opts ...Option) *Machine {
	if d == nil {
		panic("stockhealth/lifecycle: nil doer")
	}
	m := &Machine{
		doer:    d,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Analyze starts a fresh request for symbol. Any request in flight,
// even one for the same symbol, is cancelled and its outcome ignored.
//
// Analyze returns as soon as the request has started; the machine is
// Loading by then. Use Wait or an OnChange function to learn the
// outcome.
func (m *Machine) Analyze(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ErrEmptySymbol
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrClosed
	}
	return m.startLocked(symbol)
}

// Retry starts a fresh request for the symbol of the current request,
// with all counters reset. It is only allowed when the current request
// has Failed.
func (m *Machine) Retry() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.snap.Status != request.Failed {
		return ErrRetryNotAllowed
	}
	return m.startLocked(m.snap.Symbol)
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.snap
}

// Wait blocks until the current request is Succeeded or Failed, and
// returns its final snapshot. If the request is superseded while
// waiting, Wait follows the new one. Wait returns immediately if the
// machine is Idle.
func (m *Machine) Wait(ctx context.Context) (Snapshot, error) {
	for {
		m.lock.Lock()
		s, done, closed := m.snap, m.done, m.closed
		m.lock.Unlock()
		if closed {
			return s, ErrClosed
		}
		if s.Status == request.Idle || s.Status.Terminal() || done == nil {
			return s, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// Close cancels the request in flight, if any, and waits for the
// machine's goroutines to exit. The outcome of the cancelled request
// is not reported. After Close, Analyze and Retry return ErrClosed.
func (m *Machine) Close() {
	m.lock.Lock()
	if !m.closed {
		m.closed = true
		m.supersedeLocked()
		m.snap.Generation++
	}
	m.lock.Unlock()
	m.wg.Wait()
}

func (m *Machine) supersedeLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}

func (m *Machine) startLocked(symbol string) error {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := request.NewPlanWithContext(ctx, m.baseURL, symbol)
	if err != nil {
		cancel()
		return err
	}

	m.supersedeLocked()
	gen := m.snap.Generation + 1
	m.snap = Snapshot{
		Generation: gen,
		Symbol:     p.Symbol,
		Status:     request.Loading,
	}
	m.cancel = cancel
	m.done = make(chan struct{})
	p.Progress = func(e *request.Execution) {
		m.progress(gen, e)
	}

	m.wg.Add(1)
	go m.run(gen, p)
	return nil
}

func (m *Machine) run(gen uint64, p *request.Plan) {
	defer m.wg.Done()
	m.publish(gen)
	e, err := m.doer.Do(p)
	m.finish(gen, e, err)
}

func (m *Machine) progress(gen uint64, e *request.Execution) {
	if e.Status.Terminal() {
		return
	}

	m.lock.Lock()
	if m.snap.Generation != gen {
		m.lock.Unlock()
		return
	}
	m.snap.Status = e.Status
	if n := e.AttemptsUsed(); n > m.snap.AttemptsUsed {
		m.snap.AttemptsUsed = n
	}
	m.snap.MaxAttempts = e.MaxAttempts
	m.lock.Unlock()

	m.publish(gen)
}

func (m *Machine) finish(gen uint64, e *request.Execution, err error) {
	m.lock.Lock()
	if m.snap.Generation != gen {
		m.lock.Unlock()
		return
	}

	if e != nil {
		if n := e.AttemptsUsed(); n > m.snap.AttemptsUsed {
			m.snap.AttemptsUsed = n
		}
		if e.MaxAttempts > 0 {
			m.snap.MaxAttempts = e.MaxAttempts
		}
	}

	if err == nil && e != nil && e.Result != nil {
		m.snap.Status = request.Succeeded
		m.snap.Result = e.Result
	} else {
		m.snap.Status = request.Failed
		m.snap.Error = asError(err)
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	close(m.done)
	m.done = nil
	m.lock.Unlock()

	m.publish(gen)
}

func asError(err error) *request.Error {
	var shErr *request.Error
	if errors.As(err, &shErr) {
		return shErr
	}

	msg := "Analysis failed."
	if err != nil {
		msg = err.Error()
	}
	return &request.Error{
		UserMessage: msg,
		Cause:       classify.TerminalTransport,
		Failure:     classify.Failure{Kind: classify.Other, Description: msg, Err: err},
	}
}

// publish delivers the latest snapshot of generation gen. Reading the
// snapshot under notifyLock keeps deliveries in state order.
func (m *Machine) publish(gen uint64) {
	if m.onChange == nil {
		return
	}

	m.notifyLock.Lock()
	defer m.notifyLock.Unlock()
	m.lock.Lock()
	s := m.snap
	m.lock.Unlock()
	if s.Generation != gen {
		return
	}
	m.onChange(s)
}
