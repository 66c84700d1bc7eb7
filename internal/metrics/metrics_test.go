// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/internal/stubserver"
	"github.com/Faris196/stockhealth/retry"
)

func newClient(t *testing.T, baseURL string, c *Collector) *stockhealth.Client {
	cfg := retry.DefaultConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.PerAttemptTimeout = 50 * time.Millisecond
	cl, err := stockhealth.NewClient(baseURL, cfg)
	require.NoError(t, err)
	cl.Handlers = &stockhealth.HandlerGroup{}
	c.Install(cl.Handlers)
	return cl
}

func TestCollector_Install(t *testing.T) {
	stub := stubserver.New()
	server := httptest.NewServer(stub)
	defer server.Close()

	t.Run("success after retries", func(t *testing.T) {
		c := New()
		stub.Script("INFY.NS",
			stubserver.Outcome{Status: 429},
			stubserver.Outcome{Delay: time.Second})
		_, err := newClient(t, server.URL, c).Analyze(context.Background(), "INFY.NS")
		require.NoError(t, err)

		assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("httpStatus")))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("timeout")))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("success")))
		assert.Equal(t, 2.0, testutil.ToFloat64(c.Retries))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.AttemptTimeouts))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Executions.WithLabelValues("Succeeded", "")))
		assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight))
		assert.Equal(t, 1, testutil.CollectAndCount(c.Duration))
		assert.Equal(t, 3, testutil.CollectAndCount(c.AttemptDuration), "one series per attempt outcome")
	})
	t.Run("exhausted", func(t *testing.T) {
		c := New()
		stub.Script("HCLTECH.NS",
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500},
			stubserver.Outcome{Status: 500})
		_, err := newClient(t, server.URL, c).Analyze(context.Background(), "HCLTECH.NS")
		require.Error(t, err)

		assert.Equal(t, 4.0, testutil.ToFloat64(c.Attempts.WithLabelValues("httpStatus")))
		assert.Equal(t, 3.0, testutil.ToFloat64(c.Retries))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Executions.WithLabelValues("Failed", "PolicyExhausted")))
		assert.Equal(t, 1, testutil.CollectAndCount(c.AttemptDuration))
		assert.Contains(t, histogramSampleCounts(t, c), uint64(4))
	})
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Retries.Inc()
	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "stockhealth_retries_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func histogramSampleCounts(t *testing.T, c *Collector) []uint64 {
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	var counts []uint64
	for _, mf := range families {
		if mf.GetName() != "stockhealth_attempt_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			counts = append(counts, m.GetHistogram().GetSampleCount())
		}
	}
	return counts
}
