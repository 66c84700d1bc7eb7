// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth/internal/metrics"
	"github.com/Faris196/stockhealth/lifecycle"
)

func newMonitorCmd(a *app) *cobra.Command {
	var (
		symbols  []string
		interval time.Duration
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Analyze a list of stocks periodically and serve metrics",
		Long: `Analyze the configured stock symbols one after the other, on a fixed
interval, and serve Prometheus metrics on /metrics and the latest
outcome per symbol on /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) > 0 {
				a.cfg.Monitor.Symbols = symbols
			}
			if interval > 0 {
				a.cfg.Monitor.Interval = interval
			}
			if addr != "" {
				a.cfg.Monitor.MetricsAddr = addr
			}
			return runMonitor(cmd.Context(), a)
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Symbols to analyze (overrides configuration)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between analysis rounds (overrides configuration)")
	cmd.Flags().StringVar(&addr, "addr", "", "Metrics listen address (overrides configuration)")

	return cmd
}

func runMonitor(ctx context.Context, a *app) error {
	collector := metrics.New()
	cl, err := a.client(collector.Install)
	if err != nil {
		return err
	}
	m := lifecycle.New(cl, a.cfg.APIURL)
	defer m.Close()

	health := newHealthState()
	srv := &http.Server{
		Addr:         a.cfg.Monitor.MetricsAddr,
		Handler:      monitorRouter(collector, health),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("serving metrics", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ticker := time.NewTicker(a.cfg.Monitor.Interval)
	defer ticker.Stop()

	for {
		monitorRound(ctx, m, a.cfg.Monitor.Symbols, health, a.logger)

		select {
		case <-ctx.Done():
			a.logger.Info("shutting down monitor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-serveErr:
			return err
		case <-ticker.C:
		}
	}
}

func monitorRouter(collector *metrics.Collector, health *healthState) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Method(http.MethodGet, "/metrics", collector.Handler())
	mux.Get("/healthz", health.ServeHTTP)
	return mux
}

// monitorRound analyzes symbols one after the other on m, recording
// each outcome in health. It stops early if ctx is done.
func monitorRound(ctx context.Context, m *lifecycle.Machine, symbols []string, health *healthState, logger *slog.Logger) {
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		if err := m.Analyze(symbol); err != nil {
			logger.Warn("could not start analysis", "symbol", symbol, "error", err)
			continue
		}
		s, err := m.Wait(ctx)
		if err != nil {
			return
		}
		health.record(s)
	}
	health.endRound()
}

type symbolHealth struct {
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// healthState holds the latest outcome per symbol.
type healthState struct {
	lock    sync.Mutex
	rounds  int
	symbols map[string]symbolHealth
}

func newHealthState() *healthState {
	return &healthState{symbols: make(map[string]symbolHealth)}
}

func (h *healthState) record(s lifecycle.Snapshot) {
	sh := symbolHealth{
		Status:    s.Status.String(),
		Attempts:  s.AttemptsUsed,
		CheckedAt: time.Now().UTC(),
	}
	if s.Error != nil {
		sh.Error = s.Error.UserMessage
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	h.symbols[s.Symbol] = sh
}

func (h *healthState) endRound() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.rounds++
}

func (h *healthState) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.Lock()
	body := struct {
		Status  string                  `json:"status"`
		Rounds  int                     `json:"rounds"`
		Symbols map[string]symbolHealth `json:"symbols"`
	}{
		Status:  "ok",
		Rounds:  h.rounds,
		Symbols: make(map[string]symbolHealth, len(h.symbols)),
	}
	for k, v := range h.symbols {
		body.Symbols[k] = v
	}
	h.lock.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
