// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stocks

import (
	"fmt"
	"strings"
)

// An Exchange is a stock exchange whose listings the service serves.
type Exchange string

const (
	// NSE is the National Stock Exchange of India. Its symbols end in
	// ".NS".
	NSE Exchange = "NSE"
	// BSE is the Bombay Stock Exchange. Its symbols end in ".BO".
	BSE Exchange = "BSE"
)

// Exchanges returns all supported exchanges.
func Exchanges() []Exchange {
	return []Exchange{NSE, BSE}
}

// ParseExchange returns the exchange named s, ignoring case.
func ParseExchange(s string) (Exchange, error) {
	switch Exchange(strings.ToUpper(strings.TrimSpace(s))) {
	case NSE:
		return NSE, nil
	case BSE:
		return BSE, nil
	default:
		return "", fmt.Errorf("stockhealth/stocks: unknown exchange %q", s)
	}
}

// String returns the exchange name.
func (ex Exchange) String() string {
	return string(ex)
}
