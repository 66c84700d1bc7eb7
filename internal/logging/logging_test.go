// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/internal/stubserver"
	"github.com/Faris196/stockhealth/retry"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, testCase := range testCases {
		t.Run(testCase.in, func(t *testing.T) {
			level, err := ParseLevel(testCase.in)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, level)
		})
	}

	_, err := ParseLevel("loud")
	assert.EqualError(t, err, `unknown log level "loud"`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "symbol", "TCS.NS")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "symbol=TCS.NS")
	assert.NotContains(t, out, "\x1b[", "no color for non-terminal writers")
}

func TestInstall(t *testing.T) {
	stub := stubserver.New()
	server := httptest.NewServer(stub)
	defer server.Close()

	newClient := func(t *testing.T, buf *bytes.Buffer) *stockhealth.Client {
		cfg := retry.DefaultConfig()
		cfg.BaseDelay = time.Millisecond
		cl, err := stockhealth.NewClient(server.URL, cfg)
		require.NoError(t, err)
		cl.Handlers = &stockhealth.HandlerGroup{}
		Install(cl.Handlers, New(buf, slog.LevelDebug))
		return cl
	}

	t.Run("retry then succeed", func(t *testing.T) {
		stub.Script("RELIANCE.NS", stubserver.Outcome{Status: 503})
		var buf bytes.Buffer
		_, err := newClient(t, &buf).Analyze(context.Background(), "RELIANCE.NS")
		require.NoError(t, err)
		out := buf.String()
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("sending analysis request")))
		assert.Contains(t, out, "retrying analysis")
		assert.Contains(t, out, "status=503")
		assert.Contains(t, out, "kind=httpStatus")
		assert.Contains(t, out, "analysis succeeded")
		assert.Contains(t, out, "symbol=RELIANCE.NS")
		assert.Contains(t, out, "attempts=2")
		assert.Contains(t, out, "request_id=")
	})
	t.Run("terminal failure", func(t *testing.T) {
		stub.Script("TCS.NS", stubserver.Outcome{Status: 404})
		var buf bytes.Buffer
		_, err := newClient(t, &buf).Analyze(context.Background(), "TCS.NS")
		require.Error(t, err)
		out := buf.String()
		assert.NotContains(t, out, "retrying analysis")
		assert.Contains(t, out, "analysis failed")
		assert.Contains(t, out, "cause=TerminalTransport")
		assert.Contains(t, out, "status=404")
	})
}
