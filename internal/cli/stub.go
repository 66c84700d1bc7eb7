// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth/internal/stubserver"
)

func newStubCmd(a *app) *cobra.Command {
	var (
		addr    string
		scripts []string
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a stub analysis service for local development",
		Long: `Serve a stub analysis service. Every analysis succeeds unless scripted
otherwise with --script SYMBOL=STATUS[,STATUS...], which makes the next
requests for SYMBOL fail with the given status codes in order. A status
of "slow" delays the response by one minute instead.
Example: stockhealth stub --script TCS.NS=503,429`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stub := stubserver.New()
			for _, s := range scripts {
				symbol, outcomes, err := parseScript(s)
				if err != nil {
					return err
				}
				stub.Script(symbol, outcomes...)
			}
			return serveStub(cmd.Context(), a, addr, stub)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().StringArrayVar(&scripts, "script", nil, "Scripted failures, as SYMBOL=STATUS[,STATUS...]")

	return cmd
}

// parseScript parses a SYMBOL=STATUS[,STATUS...] script.
func parseScript(s string) (string, []stubserver.Outcome, error) {
	symbol, list, ok := strings.Cut(s, "=")
	symbol = strings.TrimSpace(symbol)
	if !ok || symbol == "" || list == "" {
		return "", nil, fmt.Errorf("invalid script %q: want SYMBOL=STATUS[,STATUS...]", s)
	}

	var outcomes []stubserver.Outcome
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if strings.EqualFold(item, "slow") {
			outcomes = append(outcomes, stubserver.Outcome{Delay: time.Minute})
			continue
		}
		code, err := strconv.Atoi(item)
		if err != nil || code < 100 || code > 599 {
			return "", nil, fmt.Errorf("invalid script %q: bad status %q", s, item)
		}
		outcomes = append(outcomes, stubserver.Outcome{Status: code})
	}

	return symbol, outcomes, nil
}

func serveStub(ctx context.Context, a *app, addr string, stub *stubserver.Server) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      stub,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("stub analysis service listening", "addr", addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
