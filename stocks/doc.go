// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package stocks lists the symbols the analysis service knows about on
// each exchange, and keeps a simple watchlist of symbols a person wants
// to follow.
//
// Listing stocks is cheap and idempotent, so unlike analysis it is not
// retried.
package stocks
