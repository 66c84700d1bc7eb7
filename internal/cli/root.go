// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the stockhealth command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/internal/config"
	"github.com/Faris196/stockhealth/internal/logging"
)

// Version is the build version, set with -ldflags at release time.
var Version = "dev"

// app carries what every command needs once the persistent flags have
// been processed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// client builds an analysis client from the configuration, with
// logging installed along with any extra handler installers.
func (a *app) client(install ...func(*stockhealth.HandlerGroup)) (*stockhealth.Client, error) {
	cl, err := stockhealth.NewClient(a.cfg.APIURL, a.cfg.RetryConfig())
	if err != nil {
		return nil, err
	}

	cl.Handlers = &stockhealth.HandlerGroup{}
	logging.Install(cl.Handlers, a.logger)
	for _, f := range install {
		f(cl.Handlers)
	}

	return cl, nil
}

// NewRootCmd creates the root command writing its normal output to out
// and logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	var (
		cfgPath string
		apiURL  string
		debug   bool
	)

	rootCmd := &cobra.Command{
		Use:   "stockhealth",
		Short: "stockhealth - resilient stock analysis client",
		Long: `stockhealth requests stock analyses from a remote analysis service,
retrying timeouts, rate limiting and transient server errors with
exponential backoff.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if debug {
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := logging.ParseLevel(cfg.Logging.Level)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.New(a.errOut, level)
			return nil
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Analysis service base URL (overrides configuration)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newStocksCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newMonitorCmd(a))
	rootCmd.AddCommand(newStubCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockhealth %s\n", Version)
		},
	}
}
