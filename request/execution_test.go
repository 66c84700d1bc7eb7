// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"testing"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_StatusCode(t *testing.T) {
	e := &Execution{}
	t.Run("no Response", func(t *testing.T) {
		require.Nil(t, e.Response)
		assert.Equal(t, 0, e.StatusCode())
	})
	t.Run("with Response", func(t *testing.T) {
		e.Response = &http.Response{StatusCode: 503}
		assert.Equal(t, 503, e.StatusCode())
	})
}

func TestExecution_AttemptsUsed(t *testing.T) {
	e := &Execution{}
	assert.Equal(t, 0, e.AttemptsUsed())
	e.Request = &http.Request{}
	assert.Equal(t, 1, e.AttemptsUsed())
	e.Attempt = 3
	assert.Equal(t, 4, e.AttemptsUsed())
}

func TestExecution_Symbol(t *testing.T) {
	e := &Execution{Plan: &Plan{Symbol: "HCLTECH.NS"}}
	assert.Equal(t, "HCLTECH.NS", e.Symbol())
}

func TestExecution_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		e := &Execution{}
		e.Start = time.Now()
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		d := e.Duration()
		assert.LessOrEqual(t, d, time.Since(e.Start))
		assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		e := &Execution{}
		e.Start = time.Now()
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		e.End = time.Now()
		d := e.Duration()
		assert.Greater(t, d, 2*time.Millisecond)
		assert.True(t, e.Ended())
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		assert.Equal(t, d, e.Duration())
	})
}

func TestExecution_Timeout(t *testing.T) {
	e := &Execution{}
	assert.False(t, e.Timeout())
	e.Failure = classify.Normalize(nil, 504)
	assert.False(t, e.Timeout())
	e.Failure = classify.Failure{Kind: classify.Timeout}
	assert.True(t, e.Timeout())
}

func TestExecution_Value(t *testing.T) {
	type key struct{}
	type other struct{}
	e := &Execution{}
	assert.Nil(t, e.Value(key{}))
	e.SetValue(key{}, "bar")
	assert.Equal(t, "bar", e.Value(key{}))
	assert.Nil(t, e.Value(other{}))
	e.SetValue(key{}, "baz")
	assert.Equal(t, "baz", e.Value(key{}))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Retrying", Retrying.String())
	assert.Equal(t, "Status(9)", Status(9).String())
	for _, s := range []Status{Idle, Loading, Retrying} {
		assert.False(t, s.Terminal(), s.String())
	}
	assert.True(t, Succeeded.Terminal())
	assert.True(t, Failed.Terminal())
}
