// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth/lifecycle"
	"github.com/Faris196/stockhealth/request"
)

var errAnalysisFailed = errors.New("analysis failed")

func newAnalyzeCmd(a *app) *cobra.Command {
	var chartOut string

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyze a stock symbol",
		Long: `Request the analysis of a stock symbol, retrying transient failures.
Example: stockhealth analyze RELIANCE.NS --chart-out reliance.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.machine(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Analyze(args[0]); err != nil {
				return err
			}
			s, err := m.Wait(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), s, chartOut)
		},
	}

	cmd.Flags().StringVar(&chartOut, "chart-out", "", "Write the price chart PNG to this file")

	return cmd
}

// machine returns a state machine over a configured client, which
// prints progress lines to w.
func (a *app) machine(w io.Writer) (*lifecycle.Machine, error) {
	cl, err := a.client()
	if err != nil {
		return nil, err
	}

	// OnChange calls are serialized.
	var last string
	return lifecycle.New(cl, a.cfg.APIURL, lifecycle.OnChange(func(s lifecycle.Snapshot) {
		line := progressLine(s)
		if line != "" && line != last {
			fmt.Fprintln(w, line)
		}
		last = line
	})), nil
}

// report prints the final snapshot s and, on success, writes the chart
// to chartOut if it is set. It returns errAnalysisFailed if s is a
// failure.
func report(w io.Writer, s lifecycle.Snapshot, chartOut string) error {
	switch s.Status {
	case request.Succeeded:
		fmt.Fprint(w, renderResult(s.Symbol, s.Result))
		if chartOut == "" {
			return nil
		}
		if len(s.Result.Chart) == 0 {
			fmt.Fprintln(w, "No chart available.")
			return nil
		}
		if err := os.WriteFile(chartOut, s.Result.Chart, 0o644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Fprint(w, renderDone("Chart written to "+chartOut))
		return nil
	case request.Failed:
		fmt.Fprint(w, renderError(s.Symbol, s.Error))
		return errAnalysisFailed
	default:
		return fmt.Errorf("analysis of %s did not finish: %s", s.Symbol, s.Status)
	}
}
