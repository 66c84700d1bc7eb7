// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/request"
	"github.com/stretchr/testify/assert"
)

func failedExecution(f classify.Failure) *request.Execution {
	return &request.Execution{Failure: f, Disposition: classify.Classify(f)}
}

func TestRetryable(t *testing.T) {
	t.Run("retryable failures", func(t *testing.T) {
		failures := []classify.Failure{
			{Kind: classify.Timeout, Description: "deadline"},
			classify.Normalize(nil, 429),
			classify.Normalize(nil, 500),
			classify.Normalize(nil, 502),
			classify.Normalize(nil, 503),
			classify.Normalize(nil, 504),
		}
		for i, f := range failures {
			t.Run(fmt.Sprintf("failures[%d]=%s", i, f.Description), func(t *testing.T) {
				assert.True(t, Retryable(failedExecution(f)))
			})
		}
	})
	t.Run("terminal failures", func(t *testing.T) {
		failures := []classify.Failure{
			classify.Normalize(nil, 400),
			classify.Normalize(nil, 404),
			classify.Normalize(nil, 501),
			classify.Normalize(syscall.ECONNREFUSED, 0),
			classify.Malformed(fmt.Errorf("unexpected EOF")),
		}
		for i, f := range failures {
			t.Run(fmt.Sprintf("failures[%d]=%s", i, f.Description), func(t *testing.T) {
				assert.False(t, Retryable(failedExecution(f)))
			})
		}
	})
	t.Run("no failure", func(t *testing.T) {
		e := &request.Execution{Disposition: classify.Disposition{Retryable: true}}
		assert.False(t, Retryable(e))
	})
}

func TestDeciderFunc(t *testing.T) {
	yes := DeciderFunc(func(_ *request.Execution) bool { return true })
	no := DeciderFunc(func(_ *request.Execution) bool { return false })
	e := &request.Execution{}

	assert.True(t, yes.Decide(e))
	assert.False(t, no.Decide(e))
	assert.True(t, yes.And(yes)(e))
	assert.False(t, yes.And(no)(e))
	assert.False(t, no.And(yes)(e))
	assert.True(t, Retryable.And(yes).Decide(failedExecution(classify.Failure{Kind: classify.Timeout})))

	t.Run("short circuit", func(t *testing.T) {
		var n int
		count := DeciderFunc(func(_ *request.Execution) bool { n++; return true })
		no.And(count)(e)
		assert.Equal(t, 0, n)
		yes.And(count)(e)
		assert.Equal(t, 1, n)
	})
}

func TestBefore(t *testing.T) {
	d := Before(time.Hour)
	assert.True(t, d(&request.Execution{}))
	assert.True(t, d(&request.Execution{Start: time.Now()}))
	assert.False(t, d(&request.Execution{Start: time.Now().Add(-2 * time.Hour)}))
}
