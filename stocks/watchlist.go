// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stocks

import (
	"strings"
	"sync"
)

// DefaultSearchLimit is the number of search results shown to a person.
const DefaultSearchLimit = 5

// Filter returns the symbols in list containing query, ignoring case,
// in list order. At most limit symbols are returned; a limit of zero or
// less means no limit. An empty query matches nothing.
func Filter(list []string, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []string
	for _, s := range list {
		if strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}

	return out
}

// A Watchlist is an ordered set of symbols. Its zero value is an empty
// watchlist ready to use. It is safe for concurrent use.
type Watchlist struct {
	lock    sync.Mutex
	symbols []string
}

// Add appends symbol unless it is already present. It reports whether
// the watchlist changed.
func (w *Watchlist) Add(symbol string) bool {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return false
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	if w.indexLocked(symbol) >= 0 {
		return false
	}
	w.symbols = append(w.symbols, symbol)
	return true
}

// Remove deletes symbol. It reports whether the watchlist changed.
func (w *Watchlist) Remove(symbol string) bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	i := w.indexLocked(symbol)
	if i < 0 {
		return false
	}
	w.symbols = append(w.symbols[:i], w.symbols[i+1:]...)
	return true
}

// Contains reports whether symbol is on the watchlist.
func (w *Watchlist) Contains(symbol string) bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.indexLocked(symbol) >= 0
}

// Symbols returns a copy of the symbols, in the order they were added.
func (w *Watchlist) Symbols() []string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return append([]string(nil), w.symbols...)
}

// Len returns the number of symbols.
func (w *Watchlist) Len() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.symbols)
}

func (w *Watchlist) indexLocked(symbol string) int {
	for i, s := range w.symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}
