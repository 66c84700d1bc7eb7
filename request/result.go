// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/Faris196/stockhealth/classify"
)

// A Result is a successfully decoded analysis.
type Result struct {
	// Fundamentals maps fundamental metric names, such as "pe" or
	// "marketCap", to their values. Numbers are json.Number values so
	// that no precision is lost. It is never nil.
	Fundamentals map[string]interface{}

	// Chart is the decoded chart image, or nil if the service did not
	// send one.
	Chart []byte

	// AnalysisText is the analysis narrative. If the service sent a
	// structured analysis rather than a string, AnalysisText is its
	// compact JSON serialization.
	AnalysisText string
}

type wireResult struct {
	Fundamentals map[string]interface{} `json:"fundamentals"`
	Chart        string                 `json:"chart"`
	Analysis     json.RawMessage        `json:"analysis"`
}

// DecodeResult decodes the body of a 2XX analysis response.
func DecodeResult(body []byte) (*Result, error) {
	var w wireResult
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}

	r := &Result{Fundamentals: w.Fundamentals}
	if r.Fundamentals == nil {
		r.Fundamentals = map[string]interface{}{}
	}

	if w.Chart != "" {
		chart, err := base64.StdEncoding.DecodeString(w.Chart)
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		r.Chart = chart
	}

	text, err := analysisText(w.Analysis)
	if err != nil {
		return nil, err
	}
	r.AnalysisText = text

	return r, nil
}

func analysisText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// An Error is the terminal error of a Failed execution.
type Error struct {
	// UserMessage is the message to show a person. It is never empty.
	UserMessage string

	// Cause is the error taxonomy bucket of the failure.
	Cause classify.Cause

	// Failure is the normalized failure of the last attempt.
	Failure classify.Failure
}

// Error returns the user message.
func (err *Error) Error() string {
	return err.UserMessage
}

// Unwrap returns the underlying transport or decoding error, if any.
func (err *Error) Unwrap() error {
	return err.Failure.Err
}
