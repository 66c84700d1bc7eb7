// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stockhealth

import (
	"fmt"

	"github.com/Faris196/stockhealth/request"
)

// A HandlerGroup holds one handler chain per Event. The logging and
// metrics plug-ins install themselves into a HandlerGroup, which is
// then set as Client.Handlers.
//
// Populate the group before the client first runs an analysis. PushBack
// must not race with an execution using the group.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. Handlers in a chain run in
// the order they were pushed. PushBack panics if h is nil or evt is not
// one of the values returned by Events.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("stockhealth: nil handler")
	}
	if !evt.valid() {
		panic(fmt.Sprintf("stockhealth: unknown event %d", int(evt)))
	}
	g.chains[evt] = append(g.chains[evt], h)
}

// run fires evt for e. Unknown events have no chain and are ignored.
func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	if !evt.valid() {
		return
	}
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}

// A Handler reacts to an Event during an analysis execution.
//
// Handlers run on the goroutine driving Client.Do, between the steps of
// the retry loop. Time spent in a handler is time the loop is not
// attempting or waiting.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc lets a plain function serve as a Handler.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
