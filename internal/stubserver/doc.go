// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package stubserver implements a scriptable stand-in for the remote
// stock analysis service. It speaks the same contract as the real
// service (POST /api/analyze and GET /api/stocks) and lets callers
// queue up the outcome of each analysis request per symbol, including
// error statuses and slow responses.
//
// It backs the package tests and the "stockhealth stub" command.
package stubserver
