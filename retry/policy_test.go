// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"testing"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Run("Decider", func(t *testing.T) {
		assert.Equal(t, 3, DefaultPolicy.Retries())
		for i := 0; i < DefaultRetries; i++ {
			e := failedExecution(classify.Normalize(nil, 503))
			e.Attempt = i
			assert.True(t, DefaultPolicy.Decide(e), "attempt %d", i)
		}
		e := failedExecution(classify.Normalize(nil, 503))
		e.Attempt = DefaultRetries
		assert.False(t, DefaultPolicy.Decide(e), "budget exhausted")
		assert.False(t, DefaultPolicy.Decide(failedExecution(classify.Normalize(nil, 404))))
	})
	t.Run("Waiter", func(t *testing.T) {
		var waits []time.Duration
		for i := 0; i < DefaultRetries; i++ {
			waits = append(waits, DefaultPolicy.Wait(&request.Execution{Attempt: i}))
		}
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, waits)
	})
}

func TestNewPolicy(t *testing.T) {
	p := &testPolicy{}
	t.Run("Bad Args", func(t *testing.T) {
		assert.PanicsWithValue(t, "stockhealth/retry: nil decider", func() { NewPolicy(1, nil, p) })
		assert.PanicsWithValue(t, "stockhealth/retry: nil waiter", func() { NewPolicy(1, p, nil) })
		assert.PanicsWithValue(t, "stockhealth/retry: retries may not be negative", func() { NewPolicy(-1, p, p) })
	})
	t.Run("Normal", func(t *testing.T) {
		P := NewPolicy(1, p, p)
		assert.Equal(t, 1, P.Retries())
		assert.True(t, P.Decide(&request.Execution{}))
		assert.Equal(t, 1, p.d)
		assert.False(t, P.Decide(&request.Execution{Attempt: 1}))
		assert.Equal(t, 1, p.d, "decider not consulted once budget is spent")
		assert.Equal(t, time.Second, P.Wait(&request.Execution{}))
		assert.Equal(t, 1, p.w)
	})
}

type testPolicy struct {
	d int
	w int
}

func (p *testPolicy) Decide(_ *request.Execution) bool {
	p.d++
	return true
}

func (p *testPolicy) Wait(_ *request.Execution) time.Duration {
	p.w++
	return time.Second
}
