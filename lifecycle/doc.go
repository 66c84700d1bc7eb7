// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package lifecycle tracks the single "current" analysis request of a
screen or session.

A Machine owns at most one in-flight analysis at a time. Asking it to
analyze a new symbol supersedes whatever it was doing: the previous
execution is cancelled, and any result it still produces is discarded.
Every request started by the machine is stamped with a generation
number, and only the latest generation may change what the machine
reports.

	m := lifecycle.New(client, baseURL, lifecycle.OnChange(func(s lifecycle.Snapshot) {
		switch s.Status {
		case request.Retrying:
			fmt.Printf("Attempting retry %d...\n", s.Retries()+1)
		case request.Failed:
			fmt.Println(s.Error.UserMessage)
		}
	}))
	defer m.Close()

	_ = m.Analyze("RELIANCE.NS")
	s, err := m.Wait(ctx)

A request that Failed can be started again from scratch with Retry.
*/
package lifecycle
