// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package classify

// Canned user-facing messages. Whatever reaches the user is either one
// of these or the failure's own description.
const (
	MsgTimeout     = "Request timeout. The analysis is taking longer than expected."
	MsgRateLimited = "Rate limited. Please wait a moment and try again."
	MsgServerError = "Server error. Please try again in a few moments."
	MsgNetwork     = "Network error. Please check your connection."
)

// A Cause is the error taxonomy bucket of a terminal failure.
type Cause int

const (
	// TerminalTransport is a failure that is not worth retrying: a
	// network failure, a 4XX other than 429, a malformed response, or a
	// cancelled plan.
	TerminalTransport Cause = iota
	// TransientTransport is a failure that is worth retrying, such as a
	// timeout, a 429, or one of the retryable 5XX codes.
	TransientTransport
	// PolicyExhausted is a transient failure which could not be retried
	// because the retry policy had no retries left.
	PolicyExhausted
)

var causeNames = []string{
	"TerminalTransport",
	"TransientTransport",
	"PolicyExhausted",
}

// String returns the name of the cause.
func (c Cause) String() string {
	if c < 0 || int(c) >= len(causeNames) {
		return "Cause(?)"
	}

	return causeNames[c]
}

// A Disposition is the verdict a Classifier reaches about a Failure.
type Disposition struct {
	Retryable   bool
	UserMessage string
	Cause       Cause
}

// DefaultStatusCodes are the HTTP status codes Default treats as
// retryable.
var DefaultStatusCodes = []int{429, 500, 502, 503, 504}

// Default is the classifier used when none is configured. It retries
// timeouts and the DefaultStatusCodes, and treats network failures as
// terminal.
var Default = Classifier{
	StatusCodes: DefaultStatusCodes,
	Kinds:       []Kind{Timeout},
}

// A Classifier maps failures to dispositions. Its zero value treats
// every failure as terminal.
//
// A Classifier is a plain value and is safe for concurrent use as long
// as its slices are not modified.
type Classifier struct {
	// StatusCodes lists the HTTP status codes which are retryable.
	StatusCodes []int

	// Kinds lists the non-HTTP failure kinds which are retryable. Only
	// Timeout and Network are meaningful here.
	Kinds []Kind
}

// Classify classifies f using the Default classifier.
func Classify(f Failure) Disposition {
	return Default.Classify(f)
}

// Classify decides whether f is retryable and which message to show.
// The rules, in priority order, are:
//
// 1. Timeout: MsgTimeout, retryable if Timeout is in c.Kinds.
//
// 2. HTTPStatus with a code in c.StatusCodes: retryable, with
// MsgRateLimited for 429, MsgServerError for 5XX codes, and the
// failure's own description otherwise.
//
// 3. Network: MsgNetwork, retryable only if Network is in c.Kinds.
//
// 4. Anything else: not retryable, and the message is the failure's
// own description, verbatim.
func (c Classifier) Classify(f Failure) Disposition {
	switch {
	case f.Kind == Timeout:
		return c.disposition(c.retriesKind(Timeout), MsgTimeout)
	case f.Kind == HTTPStatus && c.retriesStatus(f.StatusCode):
		msg := f.Description
		if f.StatusCode == 429 {
			msg = MsgRateLimited
		} else if f.StatusCode >= 500 {
			msg = MsgServerError
		}
		return c.disposition(true, msg)
	case f.Kind == Network:
		return c.disposition(c.retriesKind(Network), MsgNetwork)
	default:
		return c.disposition(false, f.Description)
	}
}

func (c Classifier) disposition(retryable bool, msg string) Disposition {
	cause := TerminalTransport
	if retryable {
		cause = TransientTransport
	}

	return Disposition{Retryable: retryable, UserMessage: msg, Cause: cause}
}

func (c Classifier) retriesStatus(code int) bool {
	for _, s := range c.StatusCodes {
		if s == code {
			return true
		}
	}

	return false
}

func (c Classifier) retriesKind(k Kind) bool {
	for _, x := range c.Kinds {
		if x == k {
			return true
		}
	}

	return false
}
