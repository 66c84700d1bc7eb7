// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"testing"
	"time"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	a := DefaultPolicy.Timeout(&request.Execution{})
	assert.Equal(t, 45*time.Second, a)
	b := DefaultPolicy.Timeout(&request.Execution{
		Attempt:         2,
		AttemptTimeouts: 2,
		Failure:         classify.Failure{Kind: classify.Timeout},
	})
	assert.Equal(t, 45*time.Second, b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Millisecond)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 33*time.Millisecond, p.Timeout(&request.Execution{Attempt: i}))
	}
	assert.PanicsWithValue(t, "stockhealth/timeout: timeout must be positive", func() {
		Fixed(0)
	})
	assert.Panics(t, func() {
		Fixed(-time.Second)
	})
}
