// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about analysis executions
// through an event handler plug-in.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/request"
)

// A Collector holds the analysis metrics and the registry they are
// registered with.
type Collector struct {
	registry *prometheus.Registry

	// Attempts counts analysis attempts by outcome. The outcome is
	// "success" or the failure kind.
	Attempts *prometheus.CounterVec

	// Retries counts backoff waits, one per retry.
	Retries prometheus.Counter

	// AttemptTimeouts counts attempts which hit the per-attempt timeout.
	AttemptTimeouts prometheus.Counter

	// Executions counts finished executions by final status and, for
	// failures, cause.
	Executions *prometheus.CounterVec

	// Duration observes execution wall clock time by final status.
	Duration *prometheus.HistogramVec

	// AttemptDuration observes the latency of individual attempts by
	// outcome.
	AttemptDuration *prometheus.HistogramVec

	// InFlight is the number of executions currently running.
	InFlight prometheus.Gauge
}

// New returns a Collector registered with a fresh registry, which
// also carries the Go runtime and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhealth_attempts_total",
				Help: "Total number of analysis attempts",
			},
			[]string{"outcome"},
		),
		Retries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stockhealth_retries_total",
				Help: "Total number of analysis retries",
			},
		),
		AttemptTimeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stockhealth_attempt_timeouts_total",
				Help: "Total number of analysis attempts that timed out",
			},
		),
		Executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhealth_executions_total",
				Help: "Total number of finished analysis executions",
			},
			[]string{"status", "cause"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockhealth_execution_duration_seconds",
				Help:    "Analysis execution duration in seconds, retries included",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 240},
			},
			[]string{"status"},
		),
		AttemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockhealth_attempt_duration_seconds",
				Help:    "Analysis attempt latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20, 45},
			},
			[]string{"outcome"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockhealth_executions_in_flight",
				Help: "Number of analysis executions currently running",
			},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registry in the
// Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

type attemptStartKey struct{}

// Install adds handlers to g which update the metrics in c.
func (c *Collector) Install(g *stockhealth.HandlerGroup) {
	g.PushBack(stockhealth.BeforeExecutionStart, stockhealth.HandlerFunc(func(_ stockhealth.Event, _ *request.Execution) {
		c.InFlight.Inc()
	}))
	g.PushBack(stockhealth.BeforeAttempt, stockhealth.HandlerFunc(func(_ stockhealth.Event, e *request.Execution) {
		e.SetValue(attemptStartKey{}, time.Now())
	}))
	g.PushBack(stockhealth.AfterAttempt, stockhealth.HandlerFunc(func(_ stockhealth.Event, e *request.Execution) {
		outcome := "success"
		if e.Failure.Failed() {
			outcome = e.Failure.Kind.String()
		}
		c.Attempts.WithLabelValues(outcome).Inc()
		if start, ok := e.Value(attemptStartKey{}).(time.Time); ok {
			c.AttemptDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		}
	}))
	g.PushBack(stockhealth.AfterAttemptTimeout, stockhealth.HandlerFunc(func(_ stockhealth.Event, _ *request.Execution) {
		c.AttemptTimeouts.Inc()
	}))
	g.PushBack(stockhealth.BeforeRetryWait, stockhealth.HandlerFunc(func(_ stockhealth.Event, _ *request.Execution) {
		c.Retries.Inc()
	}))
	g.PushBack(stockhealth.AfterExecutionEnd, stockhealth.HandlerFunc(func(_ stockhealth.Event, e *request.Execution) {
		c.InFlight.Dec()
		status := e.Status.String()
		cause := ""
		var rerr *request.Error
		if errors.As(e.Err, &rerr) {
			cause = rerr.Cause.String()
		}
		c.Executions.WithLabelValues(status, cause).Inc()
		c.Duration.WithLabelValues(status).Observe(e.Duration().Seconds())
	}))
}
