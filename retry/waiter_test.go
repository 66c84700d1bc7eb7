// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math"
	"testing"
	"time"

	"github.com/Faris196/stockhealth/request"
	"github.com/stretchr/testify/assert"
)

func TestDelayFor(t *testing.T) {
	t.Run("default sequence", func(t *testing.T) {
		assert.Equal(t, 2*time.Second, DelayFor(time.Second, 0))
		assert.Equal(t, 4*time.Second, DelayFor(time.Second, 1))
		assert.Equal(t, 8*time.Second, DelayFor(time.Second, 2))
	})
	t.Run("other base", func(t *testing.T) {
		assert.Equal(t, 20*time.Millisecond, DelayFor(10*time.Millisecond, 0))
		assert.Equal(t, 160*time.Millisecond, DelayFor(10*time.Millisecond, 3))
	})
	t.Run("degenerate input", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), DelayFor(0, 1))
		assert.Equal(t, time.Duration(0), DelayFor(-time.Second, 1))
		assert.Equal(t, 2*time.Second, DelayFor(time.Second, -5))
	})
	t.Run("saturates", func(t *testing.T) {
		assert.Equal(t, time.Duration(math.MaxInt64), DelayFor(time.Second, 80))
		assert.Equal(t, time.Duration(math.MaxInt64), DelayFor(time.Hour, math.MaxInt32))
	})
	t.Run("pure", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, DelayFor(time.Second, i), DelayFor(time.Second, i))
		}
	})
}

func TestDefaultWaiter(t *testing.T) {
	want := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		time.Minute,
		time.Minute,
	}
	for i, w := range want {
		assert.Equal(t, w, DefaultWaiter.Wait(&request.Execution{Attempt: i}), "attempt %d", i)
	}
}

func TestNewExpWaiter(t *testing.T) {
	t.Run("invalid base", func(t *testing.T) {
		assert.PanicsWithValue(t, "stockhealth/retry: base must be positive", func() {
			NewExpWaiter(time.Duration(-1), time.Hour)
		})
		assert.Panics(t, func() {
			NewExpWaiter(time.Duration(0), time.Hour)
		})
	})
	t.Run("invalid max", func(t *testing.T) {
		assert.PanicsWithValue(t, "stockhealth/retry: max must be at least base", func() {
			NewExpWaiter(time.Duration(2), time.Duration(1))
		})
	})
	t.Run("capped", func(t *testing.T) {
		w := NewExpWaiter(time.Millisecond, 5*time.Millisecond)
		assert.Equal(t, 2*time.Millisecond, w.Wait(&request.Execution{Attempt: 0}))
		assert.Equal(t, 4*time.Millisecond, w.Wait(&request.Execution{Attempt: 1}))
		assert.Equal(t, 5*time.Millisecond, w.Wait(&request.Execution{Attempt: 2}))
		assert.Equal(t, 5*time.Millisecond, w.Wait(&request.Execution{Attempt: 1000}))
	})
}

func TestNewFixedWaiter(t *testing.T) {
	w := NewFixedWaiter(3 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, w.Wait(&request.Execution{}))
	assert.Equal(t, 3*time.Millisecond, w.Wait(&request.Execution{Attempt: 9}))
}
