// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// A Kind is the shape of a failed analysis attempt, as reported by
// Normalize.
type Kind int

const (
	// None indicates the attempt did not fail.
	None Kind = iota
	// Timeout indicates a client-side timeout. The analysis service may
	// simply be slow, so a later attempt has a fair chance of success.
	//
	// Normalize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true. This covers
	// context.DeadlineExceeded, syscall.ETIMEDOUT and *url.Error values
	// wrapping either.
	Timeout
	// HTTPStatus indicates that a valid HTTP response was received, but
	// its status code was not in the 2XX range.
	HTTPStatus
	// Network indicates that no HTTP response was received at all, for
	// example because connectivity was lost or the connection was
	// refused.
	Network
	// Other indicates any failure not covered by the other kinds, such
	// as a malformed response body or a cancelled request plan.
	Other
)

var kindNames = []string{
	"none",
	"timeout",
	"httpStatus",
	"network",
	"other",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind returns the Kind whose name is s. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}

	return None, fmt.Errorf("stockhealth/classify: unknown failure kind %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so that kinds can
// be named in configuration files.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}

// A Failure is the normalized description of a failed attempt. It is
// the only input a Classifier looks at.
type Failure struct {
	// Kind is the failure shape. The zero value, None, means there was
	// no failure.
	Kind Kind

	// StatusCode is the HTTP response status code. It is only set when
	// Kind is HTTPStatus.
	StatusCode int

	// Description is the failure's own human-readable text. It is shown
	// verbatim to the user when no canned message applies.
	Description string

	// Err is the underlying error, if there was one.
	Err error
}

// Failed reports whether f describes an actual failure.
func (f Failure) Failed() bool {
	return f.Kind != None
}

// Normalize builds a Failure from the outcome of one transport call.
//
// Parameter err is the error returned by the transport, if any, and
// statusCode is the HTTP response status code, or zero if there was no
// response. A nil error with a 2XX status produces the zero Failure.
//
// The conversion logic is:
//
// • A timeout anywhere in err's chain produces Timeout;
//
// • context.Canceled in err's chain (the request plan was abandoned)
// produces Other;
//
// • any other non-nil err produces Network;
//
// • a nil err with a non-2XX status produces HTTPStatus, described the
// same way common HTTP clients describe it: "Request failed with status
// code 404".
func Normalize(err error, statusCode int) Failure {
	if err != nil {
		switch {
		case isTimeout(err):
			return Failure{Kind: Timeout, Description: err.Error(), Err: err}
		case errors.Is(err, context.Canceled):
			return Failure{Kind: Other, Description: err.Error(), Err: err}
		default:
			return Failure{Kind: Network, Description: err.Error(), Err: err}
		}
	}

	if statusCode >= 200 && statusCode < 300 {
		return Failure{}
	}

	return Failure{
		Kind:        HTTPStatus,
		StatusCode:  statusCode,
		Description: fmt.Sprintf("Request failed with status code %d", statusCode),
	}
}

// Malformed builds the Failure for a response that arrived with a 2XX
// status but could not be decoded.
func Malformed(err error) Failure {
	return Failure{
		Kind:        Other,
		Description: "Malformed analysis response: " + err.Error(),
		Err:         err,
	}
}

type hasTimeout interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	for err != nil {
		if t, ok := err.(hasTimeout); ok && t.Timeout() {
			return true
		}
		err = errors.Unwrap(err)
	}

	return false
}
