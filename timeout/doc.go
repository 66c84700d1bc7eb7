// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the deadline of each
// request attempt during an analysis plan execution, including on
// retries. An attempt that runs past its deadline fails with a
// retryable timeout.
package timeout
