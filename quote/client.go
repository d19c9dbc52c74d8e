// Package quote reads public market data: tickers, candlesticks, and order
// book depth.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
)

// DefaultDepthLevel is the order book depth requested when the caller does
// not pick one.
const DefaultDepthLevel = 15

// Client calls the public quote endpoints. No signing is involved.
type Client struct {
	rest *rest.Client
}

// NewClient creates a quote client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// Get24HourQuote fetches the rolling 24-hour ticker for a contract.
func (c *Client) Get24HourQuote(ctx context.Context, contractID string) ([]Ticker, error) {
	if contractID == "" {
		return nil, errors.New("contract ID must not be empty")
	}

	query := url.Values{}
	query.Set("contractId", contractID)

	var resp tickerListResponse
	if err := c.rest.Get(ctx, "/api/v1/public/quote/getTicker", query, &resp); err != nil {
		return nil, fmt.Errorf("get 24 hour quote: %w", err)
	}
	return resp.Data, nil
}

// GetKLine fetches a page of candlesticks for a contract.
func (c *Client) GetKLine(ctx context.Context, params GetKLineParams) (*KLinePage, error) {
	if params.ContractID == "" {
		return nil, errors.New("contract ID must not be empty")
	}
	if params.KLineType == "" {
		return nil, errors.New("kline type must not be empty")
	}

	query := url.Values{}
	query.Set("contractId", params.ContractID)
	query.Set("klineType", string(params.KLineType))
	if params.Size != "" {
		query.Set("size", params.Size)
	}
	if params.OffsetData != "" {
		query.Set("offsetData", params.OffsetData)
	}
	if params.FilterBeginKlineTimeInclusive > 0 {
		query.Set("filterBeginKlineTimeInclusive", strconv.FormatInt(params.FilterBeginKlineTimeInclusive, 10))
	}
	if params.FilterEndKlineTimeExclusive > 0 {
		query.Set("filterEndKlineTimeExclusive", strconv.FormatInt(params.FilterEndKlineTimeExclusive, 10))
	}

	var resp klinePageResponse
	if err := c.rest.Get(ctx, "/api/v1/public/quote/getKline", query, &resp); err != nil {
		return nil, fmt.Errorf("get kline: %w", err)
	}
	return &resp.Data, nil
}

// GetOrderBookDepth fetches an order book snapshot. level <= 0 falls back
// to DefaultDepthLevel.
func (c *Client) GetOrderBookDepth(ctx context.Context, contractID string, level int) ([]Depth, error) {
	if contractID == "" {
		return nil, errors.New("contract ID must not be empty")
	}
	if level <= 0 {
		level = DefaultDepthLevel
	}

	query := url.Values{}
	query.Set("contractId", contractID)
	query.Set("level", strconv.Itoa(level))

	var resp depthListResponse
	if err := c.rest.Get(ctx, "/api/v1/public/quote/getDepth", query, &resp); err != nil {
		return nil, fmt.Errorf("get order book depth: %w", err)
	}
	return resp.Data, nil
}

// GetMultiContractKLine fetches the latest candlesticks for several
// contracts, keyed by contract ID.
func (c *Client) GetMultiContractKLine(ctx context.Context, params GetMultiContractKLineParams) (map[string][]KLine, error) {
	if len(params.ContractIDList) == 0 {
		return nil, errors.New("contract ID list must not be empty")
	}
	if params.KLineType == "" {
		return nil, errors.New("kline type must not be empty")
	}

	query := url.Values{}
	query.Set("contractIdList", strings.Join(params.ContractIDList, ","))
	query.Set("klineType", string(params.KLineType))
	if params.FilterBeginKlineTimeInclusive > 0 {
		query.Set("filterBeginKlineTimeInclusive", strconv.FormatInt(params.FilterBeginKlineTimeInclusive, 10))
	}
	if params.FilterEndKlineTimeExclusive > 0 {
		query.Set("filterEndKlineTimeExclusive", strconv.FormatInt(params.FilterEndKlineTimeExclusive, 10))
	}

	var resp multiKLineResponse
	if err := c.rest.Get(ctx, "/api/v1/public/quote/getMultiContractKline", query, &resp); err != nil {
		return nil, fmt.Errorf("get multi contract kline: %w", err)
	}
	return resp.Data, nil
}
