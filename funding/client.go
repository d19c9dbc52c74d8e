// Package funding reads funding rates and the account's funding settlements.
package funding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
)

// GetFundingTransactionsParams paginate the account's funding settlements.
type GetFundingTransactionsParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList     []string
	FilterContractIDList []string
	FilterTypeList       []string

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// Transaction is one funding settlement applied to a position.
type Transaction struct {
	ID           string `json:"id"`
	ContractID   string `json:"contractId"`
	CoinID       string `json:"coinId"`
	Amount       string `json:"amount"`
	FundingRate  string `json:"fundingRate"`
	PositionSize string `json:"positionSize"`
	CreatedTime  string `json:"createdTime"`
}

// TransactionPage is one page of funding settlements.
type TransactionPage struct {
	DataList   []Transaction `json:"dataList"`
	OffsetData string        `json:"offsetData"`
}

// Rate is the funding rate of a contract at one settlement time.
type Rate struct {
	ContractID  string `json:"contractId"`
	FundingRate string `json:"fundingRate"`
	FundingTime string `json:"fundingTime"`
	OraclePrice string `json:"oraclePrice"`
	IndexPrice  string `json:"indexPrice"`
}

type transactionPageResponse struct {
	Code string          `json:"code"`
	Data TransactionPage `json:"data"`
}

type rateListResponse struct {
	Code string `json:"code"`
	Data []Rate `json:"data"`
}

// Client calls the funding endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates a funding client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// GetFundingTransactions fetches a page of the account's funding
// settlements.
func (c *Client) GetFundingTransactions(ctx context.Context, params GetFundingTransactionsParams) (*TransactionPage, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	if params.Size != "" {
		query.Set("size", params.Size)
	}
	if params.OffsetData != "" {
		query.Set("offsetData", params.OffsetData)
	}
	if len(params.FilterCoinIDList) > 0 {
		query.Set("filterCoinIdList", strings.Join(params.FilterCoinIDList, ","))
	}
	if len(params.FilterContractIDList) > 0 {
		query.Set("filterContractIdList", strings.Join(params.FilterContractIDList, ","))
	}
	if len(params.FilterTypeList) > 0 {
		query.Set("filterTypeList", strings.Join(params.FilterTypeList, ","))
	}
	if params.FilterStartCreatedTimeInclusive > 0 {
		query.Set("filterStartCreatedTimeInclusive", strconv.FormatInt(params.FilterStartCreatedTimeInclusive, 10))
	}
	if params.FilterEndCreatedTimeExclusive > 0 {
		query.Set("filterEndCreatedTimeExclusive", strconv.FormatInt(params.FilterEndCreatedTimeExclusive, 10))
	}

	var resp transactionPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/funding/getFundingTransactionPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get funding transactions: %w", err)
	}
	return &resp.Data, nil
}

// GetLatestFundingRate fetches the most recent funding rate for a contract.
func (c *Client) GetLatestFundingRate(ctx context.Context, contractID string) ([]Rate, error) {
	if contractID == "" {
		return nil, errors.New("contract ID must not be empty")
	}

	query := url.Values{}
	query.Set("contractId", contractID)

	var resp rateListResponse
	if err := c.rest.Get(ctx, "/api/v1/public/funding/getLatestFundingRate", query, &resp); err != nil {
		return nil, fmt.Errorf("get latest funding rate: %w", err)
	}
	return resp.Data, nil
}
