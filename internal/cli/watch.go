// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/Faris196/stockhealth/lifecycle"
	"github.com/Faris196/stockhealth/stocks"
)

// Watch session actions.
const (
	actionSearch  = "Search and add a stock"
	actionRemove  = "Remove a stock"
	actionAnalyze = "Analyze a stock"
	actionShow    = "Show watchlist"
	actionQuit    = "Quit"

	cancelChoice = "(cancel)"
)

var watchActions = []string{actionSearch, actionRemove, actionAnalyze, actionShow, actionQuit}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Manage a watchlist and analyze its stocks interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runWatch(cmd.Context(), a, surveyPrompter{}, cmd.OutOrStdout())
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		},
	}
}

type watchSession struct {
	p    prompter
	out  io.Writer
	list []string
	wl   stocks.Watchlist
	m    *lifecycle.Machine
}

func runWatch(ctx context.Context, a *app, p prompter, out io.Writer) error {
	names := make([]string, 0, 2)
	for _, ex := range stocks.Exchanges() {
		names = append(names, ex.String())
	}
	choice, err := p.Select("Select an exchange:", names)
	if err != nil {
		return err
	}
	ex, err := stocks.ParseExchange(choice)
	if err != nil {
		return err
	}

	list, err := stocks.NewClient(a.cfg.APIURL).List(ctx, ex)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded stock list", "exchange", ex.String(), "count", len(list))

	m, err := a.machine(out)
	if err != nil {
		return err
	}
	defer m.Close()

	s := &watchSession{p: p, out: out, list: list, m: m}
	return s.loop(ctx)
}

func (s *watchSession) loop(ctx context.Context) error {
	for {
		action, err := s.p.Select("What would you like to do?", watchActions)
		if err != nil {
			return err
		}

		switch action {
		case actionSearch:
			err = s.search()
		case actionRemove:
			err = s.remove()
		case actionAnalyze:
			err = s.analyze(ctx)
		case actionShow:
			s.show()
		case actionQuit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *watchSession) search() error {
	query, err := s.p.Input("Search stocks:")
	if err != nil {
		return err
	}

	matches := stocks.Filter(s.list, query, stocks.DefaultSearchLimit)
	if len(matches) == 0 {
		fmt.Fprintf(s.out, "No stocks match %q.\n", query)
		return nil
	}

	choice, err := s.p.Select("Add to watchlist:", append(matches, cancelChoice))
	if err != nil || choice == cancelChoice {
		return err
	}
	if s.wl.Add(choice) {
		fmt.Fprint(s.out, renderDone("Added "+choice))
	} else {
		fmt.Fprintf(s.out, "%s is already on your watchlist.\n", choice)
	}
	return nil
}

// pick asks for a watchlist symbol. It returns "" if the watchlist is
// empty or the person cancels.
func (s *watchSession) pick(message string) (string, error) {
	if s.wl.Len() == 0 {
		fmt.Fprintln(s.out, "Your watchlist is empty.")
		return "", nil
	}

	choice, err := s.p.Select(message, append(s.wl.Symbols(), cancelChoice))
	if err != nil || choice == cancelChoice {
		return "", err
	}
	return choice, nil
}

func (s *watchSession) remove() error {
	symbol, err := s.pick("Remove from watchlist:")
	if err != nil || symbol == "" {
		return err
	}
	s.wl.Remove(symbol)
	fmt.Fprint(s.out, renderDone("Removed "+symbol))
	return nil
}

func (s *watchSession) analyze(ctx context.Context) error {
	symbol, err := s.pick("Analyze:")
	if err != nil || symbol == "" {
		return err
	}

	start := func() error { return s.m.Analyze(symbol) }
	for {
		if err := start(); err != nil {
			return err
		}
		snap, err := s.m.Wait(ctx)
		if err != nil {
			return err
		}
		// Only a failure falls through to the retry prompt.
		if err := report(s.out, snap, ""); !errors.Is(err, errAnalysisFailed) {
			return err
		}

		retry, err := s.p.Confirm("Retry the analysis?")
		if err != nil || !retry {
			return err
		}
		start = s.m.Retry
	}
}

func (s *watchSession) show() {
	symbols := s.wl.Symbols()
	if len(symbols) == 0 {
		fmt.Fprintln(s.out, "Your watchlist is empty.")
		return
	}
	for _, sym := range symbols {
		fmt.Fprintln(s.out, sym)
	}
}
