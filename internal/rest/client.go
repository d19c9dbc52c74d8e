// Package rest provides the authenticated HTTP core shared by the edgeX
// sub-clients.
package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

// Client performs signed requests against the edgeX REST API.
type Client struct {
	baseURL    string
	accountID  int64
	signer     *starkex.Signer
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a new REST core client. signer may be nil for clients
// that only touch public endpoints.
func NewClient(baseURL string, accountID int64, signer *starkex.Signer, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		accountID: accountID,
		signer:    signer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// AccountID returns the configured account ID.
func (c *Client) AccountID() int64 {
	return c.accountID
}

// AccountIDString returns the account ID in the decimal string form the API
// expects in request fields.
func (c *Client) AccountIDString() string {
	return strconv.FormatInt(c.accountID, 10)
}

// Signer returns the StarkEx signer, or nil when unauthenticated.
func (c *Client) Signer() *starkex.Signer {
	return c.signer
}

// RandomClientID generates a client order/transfer ID.
func (c *Client) RandomClientID() string {
	return uuid.NewString()
}
