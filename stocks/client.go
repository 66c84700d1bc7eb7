// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ListPath is the path of the stock list endpoint.
const ListPath = "/api/stocks"

// DefaultTimeout bounds a stock list request.
const DefaultTimeout = 30 * time.Second

// A Client fetches stock lists from the analysis service.
type Client struct {
	client *resty.Client
}

// NewClient returns a Client for the service rooted at baseURL.
func NewClient(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// List returns the symbols listed on ex.
//
// The service answers with the lists of all exchanges at once, keyed by
// exchange name; List picks out the one asked for.
func (c *Client) List(ctx context.Context, ex Exchange) ([]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("exchange", ex.String()).
		Get(ListPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s stocks: %w", ex, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("stock list error %d: %s", resp.StatusCode(), resp.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse stock list: %w", err)
	}

	raw, ok := body[ex.String()]
	if !ok {
		return nil, fmt.Errorf("stock list has no %s entry", ex)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s stock list: %w", ex, err)
	}

	return list, nil
}
