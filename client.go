// Package edgex is the entry point of the edgeX exchange SDK. A Client
// bundles the per-domain API clients behind one authenticated core.
package edgex

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgex-Tech/edgex-sdk-go/account"
	"github.com/edgex-Tech/edgex-sdk-go/asset"
	"github.com/edgex-Tech/edgex-sdk-go/funding"
	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
	"github.com/edgex-Tech/edgex-sdk-go/metadata"
	"github.com/edgex-Tech/edgex-sdk-go/order"
	"github.com/edgex-Tech/edgex-sdk-go/quote"
	"github.com/edgex-Tech/edgex-sdk-go/starkex"
	"github.com/edgex-Tech/edgex-sdk-go/transfer"
)

// Client is the main SDK client. The embedded sub-clients share one signed
// HTTP core, so a Client is safe for concurrent use.
type Client struct {
	Metadata *metadata.Client
	Account  *account.Client
	Order    *order.Client
	Quote    *quote.Client
	Funding  *funding.Client
	Transfer *transfer.Client
	Asset    *asset.Client

	rest   *rest.Client
	signer *starkex.Signer
}

type options struct {
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *slog.Logger
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetries sets how often idempotent requests are retried and the base
// backoff between attempts.
func WithRetries(max int, backoff time.Duration) Option {
	return func(o *options) { o.maxRetries = max; o.retryBackoff = backoff }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New creates an SDK client. starkPrivateKey may be empty for read-only use
// of the public endpoints; private endpoints then fail with an auth error
// from the API.
func New(baseURL string, accountID int64, starkPrivateKey string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var signer *starkex.Signer
	if starkPrivateKey != "" {
		var err error
		signer, err = starkex.NewSigner(starkPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("create signer: %w", err)
		}
	}

	var restOpts []rest.Option
	if o.timeout > 0 {
		restOpts = append(restOpts, rest.WithTimeout(o.timeout))
	}
	if o.maxRetries > 0 {
		restOpts = append(restOpts, rest.WithRetries(o.maxRetries, o.retryBackoff))
	}
	if o.logger != nil {
		restOpts = append(restOpts, rest.WithLogger(o.logger))
	}
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}

	rc := rest.NewClient(baseURL, accountID, signer, restOpts...)

	return &Client{
		Metadata: metadata.NewClient(rc),
		Account:  account.NewClient(rc),
		Order:    order.NewClient(rc),
		Quote:    quote.NewClient(rc),
		Funding:  funding.NewClient(rc),
		Transfer: transfer.NewClient(rc),
		Asset:    asset.NewClient(rc),
		rest:     rc,
		signer:   signer,
	}, nil
}

// PublicKey returns the signer's L2 public key x-coordinate as padded hex,
// or "" without a signer.
func (c *Client) PublicKey() string {
	if c.signer == nil {
		return ""
	}
	return c.signer.PublicKey()
}

// GetMetaData fetches the exchange metadata.
func (c *Client) GetMetaData(ctx context.Context) (*metadata.MetaData, error) {
	return c.Metadata.GetMetaData(ctx)
}

// GetServerTime fetches the exchange clock.
func (c *Client) GetServerTime(ctx context.Context) (*metadata.ServerTime, error) {
	return c.Metadata.GetServerTime(ctx)
}

// CreateOrder fetches metadata and submits a signed order. Market orders are
// priced for signing via GetMarketOrderPrice and sent with a wire price of
// "0".
func (c *Client) CreateOrder(ctx context.Context, params order.CreateOrderParams) (*order.CreatedOrder, error) {
	meta, err := c.GetMetaData(ctx)
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	l2PriceStr := params.Price
	if params.Type == order.TypeMarket {
		l2PriceStr, err = c.marketOrderPrice(ctx, meta, params.ContractID, params.Side)
		if err != nil {
			return nil, err
		}
		params.Price = "0"
	}

	l2Price, err := decimal.NewFromString(l2PriceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price format: %w", err)
	}

	return c.Order.CreateOrder(ctx, params, meta, l2Price)
}

// CreateLimitOrder submits a limit order at the given price.
func (c *Client) CreateLimitOrder(ctx context.Context, contractID, size, price string, side order.OrderSide) (*order.CreatedOrder, error) {
	return c.CreateOrder(ctx, order.CreateOrderParams{
		ContractID: contractID,
		Size:       size,
		Price:      price,
		Side:       side,
		Type:       order.TypeLimit,
	})
}

// CreateMarketOrder submits a market order. The signing price is derived
// from the current quote.
func (c *Client) CreateMarketOrder(ctx context.Context, contractID, size string, side order.OrderSide) (*order.CreatedOrder, error) {
	return c.CreateOrder(ctx, order.CreateOrderParams{
		ContractID: contractID,
		Size:       size,
		Side:       side,
		Type:       order.TypeMarket,
	})
}

// GetMarketOrderPrice returns the price a market order should be signed at.
// Buys use the oracle price with a 10x cushion rounded to the contract's
// tick precision; sells use the tick size.
func (c *Client) GetMarketOrderPrice(ctx context.Context, contractID string, side order.OrderSide) (string, error) {
	meta, err := c.GetMetaData(ctx)
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return c.marketOrderPrice(ctx, meta, contractID, side)
}

func (c *Client) marketOrderPrice(ctx context.Context, meta *metadata.MetaData, contractID string, side order.OrderSide) (string, error) {
	contract := meta.FindContract(contractID)
	if contract == nil {
		return "", fmt.Errorf("contract not found: %s", contractID)
	}

	if side != order.SideBuy {
		return contract.TickSize, nil
	}

	tickers, err := c.Quote.Get24HourQuote(ctx, contractID)
	if err != nil {
		return "", fmt.Errorf("get 24 hour quote: %w", err)
	}
	if len(tickers) == 0 {
		return "", fmt.Errorf("no quote for contract: %s", contractID)
	}

	oraclePrice, err := decimal.NewFromString(tickers[0].OraclePrice)
	if err != nil {
		return "", fmt.Errorf("parse oracle price: %w", err)
	}
	tickSize, err := decimal.NewFromString(contract.TickSize)
	if err != nil {
		return "", fmt.Errorf("parse tick size: %w", err)
	}

	precision := -tickSize.Exponent()
	if precision < 0 {
		precision = 0
	}
	return oraclePrice.Mul(decimal.NewFromInt(10)).Round(precision).String(), nil
}

// GetMaxOrderSize returns the maximum creatable order size at a price.
func (c *Client) GetMaxOrderSize(ctx context.Context, contractID string, price decimal.Decimal) (*order.MaxOrderSize, error) {
	return c.Order.GetMaxOrderSize(ctx, contractID, price)
}

// CancelOrder cancels orders selected by ID, client order ID, or contract.
func (c *Client) CancelOrder(ctx context.Context, params order.CancelOrderParams) (*order.CancelResult, error) {
	return c.Order.CancelOrder(ctx, params)
}

// GetActiveOrders fetches a page of active orders.
func (c *Client) GetActiveOrders(ctx context.Context, params order.GetActiveOrderParams) (*order.OrderPage, error) {
	return c.Order.GetActiveOrders(ctx, params)
}

// GetOrderFillTransactions fetches a page of order fills.
func (c *Client) GetOrderFillTransactions(ctx context.Context, params order.OrderFillTransactionParams) (*order.FillTransactionPage, error) {
	return c.Order.GetOrderFillTransactions(ctx, params)
}

// GetAccountAsset fetches the account snapshot.
func (c *Client) GetAccountAsset(ctx context.Context) (*account.Asset, error) {
	return c.Account.GetAccountAsset(ctx)
}

// GetAccountPositions fetches the account's open positions.
func (c *Client) GetAccountPositions(ctx context.Context) ([]account.Position, error) {
	return c.Account.GetAccountPositions(ctx)
}

// Get24HourQuote fetches the rolling 24-hour ticker for a contract.
func (c *Client) Get24HourQuote(ctx context.Context, contractID string) ([]quote.Ticker, error) {
	return c.Quote.Get24HourQuote(ctx, contractID)
}

// CreateTransferOut fetches metadata and submits a signed L2 transfer.
func (c *Client) CreateTransferOut(ctx context.Context, params transfer.CreateTransferOutParams) (*transfer.CreatedTransfer, error) {
	meta, err := c.GetMetaData(ctx)
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return c.Transfer.CreateTransferOut(ctx, params, meta)
}

// CreateNormalWithdrawal fetches metadata and submits a signed on-chain
// withdrawal.
func (c *Client) CreateNormalWithdrawal(ctx context.Context, params asset.CreateWithdrawalParams) (*asset.CreatedWithdrawal, error) {
	meta, err := c.GetMetaData(ctx)
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return c.Asset.CreateWithdrawal(ctx, params, meta)
}
