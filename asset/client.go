// Package asset handles deposits and on-chain withdrawals.
package asset

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
	"github.com/edgex-Tech/edgex-sdk-go/metadata"
	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

const withdrawalExpireWindow = 14 * 24 * time.Hour

// Default coin rate lookup: USDT on Ethereum mainnet.
const (
	DefaultChainID  = "1"
	DefaultCoinAddr = "0xdac17f958d2ee523a2206206994597c13d831ec7"
)

// Client calls the asset endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates an asset client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// CreateWithdrawal signs and submits a normal (slow) withdrawal to an
// Ethereum address.
func (c *Client) CreateWithdrawal(ctx context.Context, params CreateWithdrawalParams, meta *metadata.MetaData) (*CreatedWithdrawal, error) {
	signer := c.rest.Signer()
	if signer == nil {
		return nil, fmt.Errorf("withdrawal requires a signer")
	}

	coin := meta.FindCoin(params.CoinID)
	if coin == nil {
		return nil, fmt.Errorf("coin not found: %s", params.CoinID)
	}

	assetID, err := starkex.HexToBig(coin.StarkExAssetID)
	if err != nil {
		return nil, fmt.Errorf("parse asset id: %w", err)
	}

	ethAddress, err := starkex.HexToBig(params.EthAddress)
	if err != nil {
		return nil, fmt.Errorf("parse eth address: %w", err)
	}

	amountDec, err := decimal.NewFromString(params.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	amount := amountDec.Mul(decimal.New(1, int32(coin.Decimal))).BigInt()

	clientWithdrawID := c.rest.RandomClientID()
	nonce := starkex.NonceFromClientID(clientWithdrawID)

	l2ExpireTime := time.Now().UnixMilli() + withdrawalExpireWindow.Milliseconds()
	l2ExpireHours := l2ExpireTime / time.Hour.Milliseconds()

	msgHash := starkex.WithdrawalToAddressHash(
		assetID,
		big.NewInt(c.rest.AccountID()),
		ethAddress,
		nonce,
		amount,
		big.NewInt(l2ExpireHours),
	)

	sig, err := signer.Sign(msgHash)
	if err != nil {
		return nil, fmt.Errorf("sign withdrawal hash: %w", err)
	}

	body := map[string]any{
		"accountId":        c.rest.AccountIDString(),
		"coinId":           params.CoinID,
		"amount":           params.Amount,
		"ethAddress":       params.EthAddress,
		"clientWithdrawId": clientWithdrawID,
		"expireTime":       strconv.FormatInt(l2ExpireTime, 10),
		"l2Signature":      sig.String(),
	}

	var resp createWithdrawalResponse
	if err := c.rest.Post(ctx, "/api/v1/private/assets/createNormalWithdraw", body, &resp); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}
	return &resp.Data, nil
}

// GetAssetOrders fetches a page of deposit and withdrawal orders.
func (c *Client) GetAssetOrders(ctx context.Context, params GetAssetOrdersParams) (*AssetOrderPage, error) {
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
	if params.FilterStartCreatedTimeInclusive > 0 {
		query.Set("filterStartCreatedTimeInclusive", strconv.FormatInt(params.FilterStartCreatedTimeInclusive, 10))
	}
	if params.FilterEndCreatedTimeExclusive > 0 {
		query.Set("filterEndCreatedTimeExclusive", strconv.FormatInt(params.FilterEndCreatedTimeExclusive, 10))
	}

	var resp assetOrderPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/assets/getAllOrdersPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get asset orders: %w", err)
	}
	return &resp.Data, nil
}

// GetCoinRates fetches the exchange rate of a coin contract on a chain.
// Empty arguments fall back to USDT on Ethereum mainnet.
func (c *Client) GetCoinRates(ctx context.Context, chainID, coin string) (*CoinRate, error) {
	if chainID == "" {
		chainID = DefaultChainID
	}
	if coin == "" {
		coin = DefaultCoinAddr
	}

	query := url.Values{}
	query.Set("chainId", chainID)
	query.Set("coin", coin)

	var resp coinRateResponse
	if err := c.rest.Get(ctx, "/api/v1/private/assets/getCoinRate", query, &resp); err != nil {
		return nil, fmt.Errorf("get coin rates: %w", err)
	}
	return &resp.Data, nil
}

// GetWithdrawalRecords fetches a page of withdrawal records.
func (c *Client) GetWithdrawalRecords(ctx context.Context, params GetWithdrawalRecordsParams) (*WithdrawalRecordPage, error) {
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
	if len(params.FilterStatusList) > 0 {
		query.Set("filterStatusList", strings.Join(params.FilterStatusList, ","))
	}
	if params.FilterStartCreatedTimeInclusive > 0 {
		query.Set("filterStartCreatedTimeInclusive", strconv.FormatInt(params.FilterStartCreatedTimeInclusive, 10))
	}
	if params.FilterEndCreatedTimeExclusive > 0 {
		query.Set("filterEndCreatedTimeExclusive", strconv.FormatInt(params.FilterEndCreatedTimeExclusive, 10))
	}

	var resp withdrawalPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/assets/getNormalWithdrawById", query, &resp); err != nil {
		return nil, fmt.Errorf("get withdrawal records: %w", err)
	}
	return &resp.Data, nil
}

// GetWithdrawableAmount returns the withdrawable balance for a coin
// contract address.
func (c *Client) GetWithdrawableAmount(ctx context.Context, address string) (*WithdrawableAmount, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())
	query.Set("address", address)

	var resp withdrawableAmountResponse
	if err := c.rest.Get(ctx, "/api/v1/private/assets/getNormalWithdrawableAmount", query, &resp); err != nil {
		return nil, fmt.Errorf("get withdrawable amount: %w", err)
	}
	return &resp.Data, nil
}
