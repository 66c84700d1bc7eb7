// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command stockhealth requests stock analyses from a remote analysis
// service with automatic retries.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Faris196/stockhealth/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
