// Package metadata provides access to exchange metadata endpoints.
package metadata

import (
	"context"
	"fmt"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
)

// Client calls the public metadata endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates a metadata client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// GetMetaData fetches the exchange metadata.
func (c *Client) GetMetaData(ctx context.Context) (*MetaData, error) {
	var resp MetaDataResponse
	if err := c.rest.Get(ctx, "/api/v1/public/meta/getMetaData", nil, &resp); err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return &resp.Data, nil
}

// GetServerTime fetches the current server time.
func (c *Client) GetServerTime(ctx context.Context) (*ServerTime, error) {
	var resp ServerTimeResponse
	if err := c.rest.Get(ctx, "/api/v1/public/meta/getServerTime", nil, &resp); err != nil {
		return nil, fmt.Errorf("get server time: %w", err)
	}
	return &resp.Data, nil
}
