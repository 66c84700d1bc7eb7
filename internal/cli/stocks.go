// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth/stocks"
)

func newStocksCmd(a *app) *cobra.Command {
	var (
		exchange string
		search   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "List the stocks of an exchange",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := stocks.ParseExchange(exchange)
			if err != nil {
				return err
			}

			list, err := stocks.NewClient(a.cfg.APIURL).List(cmd.Context(), ex)
			if err != nil {
				return err
			}
			if search != "" {
				list = stocks.Filter(list, search, limit)
			}

			w := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(w, "No stocks found.")
				return nil
			}
			for _, s := range list {
				fmt.Fprintln(w, s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exchange, "exchange", string(stocks.NSE), "Exchange to list (NSE or BSE)")
	cmd.Flags().StringVar(&search, "search", "", "Only list symbols containing this text")
	cmd.Flags().IntVar(&limit, "limit", stocks.DefaultSearchLimit, "Maximum number of search results")

	return cmd
}
