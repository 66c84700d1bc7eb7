// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stockhealth

import (
	"github.com/Faris196/stockhealth/request"
)

// A Doer executes analysis plans. Client is the standard Doer.
type Doer interface {
	// Do executes the plan, retrying according to policy, and returns
	// the final execution state.
	Do(p *request.Plan) (*request.Execution, error)
}

// An IdleCloser closes idle connections. The standard http.Client is an
// IdleCloser, as is Client.
type IdleCloser interface {
	CloseIdleConnections()
}
