// Package transfer moves collateral between L2 accounts.
package transfer

import (
	"context"
	"errors"
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

const transferExpireWindow = 14 * 24 * time.Hour

// collateralShift converts a human-readable collateral amount to protocol
// units. The collateral coin settles with 6 decimals.
var collateralShift = decimal.New(1, 6)

// Client calls the transfer endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates a transfer client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// CreateTransferOut signs and submits an L2 transfer to another account.
// Internal transfers carry no fee, so the signed max fee is zero.
func (c *Client) CreateTransferOut(ctx context.Context, params CreateTransferOutParams, meta *metadata.MetaData) (*CreatedTransfer, error) {
	signer := c.rest.Signer()
	if signer == nil {
		return nil, errors.New("transfer out requires a signer")
	}

	if meta.Global.StarkExCollateralCoin == nil {
		return nil, errors.New("metadata global collateral coin is nil")
	}
	coin := meta.Global.StarkExCollateralCoin

	assetID, err := starkex.HexToBig(coin.StarkExAssetID)
	if err != nil {
		return nil, fmt.Errorf("parse collateral asset id: %w", err)
	}

	amountDec, err := decimal.NewFromString(params.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	amount := amountDec.Mul(collateralShift).BigInt()

	receiverKey := strings.TrimPrefix(params.ReceiverL2Key, "0x")
	receiverPublicKey, ok := new(big.Int).SetString(receiverKey, 16)
	if !ok {
		return nil, fmt.Errorf("invalid receiver L2 key: %s", params.ReceiverL2Key)
	}

	receiverPositionID, err := strconv.ParseInt(params.ReceiverAccountID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver account ID: %w", err)
	}

	clientTransferID := c.rest.RandomClientID()
	nonce := starkex.NonceFromClientID(clientTransferID)

	base := time.Now().UnixMilli()
	if params.ExpireTimeMs > 0 {
		base = params.ExpireTimeMs
	}
	l2ExpireTime := base + transferExpireWindow.Milliseconds()
	l2ExpireHours := l2ExpireTime / time.Hour.Milliseconds()

	senderPositionID := big.NewInt(c.rest.AccountID())
	msgHash := starkex.TransferHash(
		assetID,
		big.NewInt(0),
		receiverPublicKey,
		senderPositionID,
		big.NewInt(receiverPositionID),
		senderPositionID,
		nonce,
		amount,
		big.NewInt(0),
		big.NewInt(l2ExpireHours),
	)

	sig, err := signer.Sign(msgHash)
	if err != nil {
		return nil, fmt.Errorf("sign transfer hash: %w", err)
	}

	reason := params.TransferReason
	if reason == "" {
		reason = ReasonUserTransfer
	}

	body := map[string]any{
		"accountId":         c.rest.AccountIDString(),
		"coinId":            params.CoinID,
		"amount":            params.Amount,
		"receiverAccountId": params.ReceiverAccountID,
		"receiverL2Key":     params.ReceiverL2Key,
		"clientTransferId":  clientTransferID,
		"transferReason":    string(reason),
		"l2Nonce":           nonce.String(),
		"l2ExpireTime":      strconv.FormatInt(l2ExpireTime, 10),
		"l2Signature":       sig.String(),
	}
	if params.ExtraType != "" {
		body["extraType"] = params.ExtraType
	}
	if params.ExtraDataJSON != "" {
		body["extraDataJson"] = params.ExtraDataJSON
	}

	var resp createTransferResponse
	if err := c.rest.Post(ctx, "/api/v1/private/transfer/createTransferOut", body, &resp); err != nil {
		return nil, fmt.Errorf("create transfer out: %w", err)
	}
	return &resp.Data, nil
}

// GetTransferOutByID fetches transfer-out records by ID.
func (c *Client) GetTransferOutByID(ctx context.Context, transferIDs []string) ([]Record, error) {
	return c.getByID(ctx, "/api/v1/private/transfer/getTransferOutById", transferIDs)
}

// GetTransferInByID fetches transfer-in records by ID.
func (c *Client) GetTransferInByID(ctx context.Context, transferIDs []string) ([]Record, error) {
	return c.getByID(ctx, "/api/v1/private/transfer/getTransferInById", transferIDs)
}

func (c *Client) getByID(ctx context.Context, path string, transferIDs []string) ([]Record, error) {
	if len(transferIDs) == 0 {
		return nil, errors.New("transfer ID list must not be empty")
	}

	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())
	query.Set("transferIdList", strings.Join(transferIDs, ","))

	var resp recordListResponse
	if err := c.rest.Get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get transfers by id: %w", err)
	}
	return resp.Data, nil
}

// GetTransferOutPage fetches a page of transfer-out records.
func (c *Client) GetTransferOutPage(ctx context.Context, params GetTransferPageParams) (*RecordPage, error) {
	return c.getPage(ctx, "/api/v1/private/transfer/getActiveTransferOut", params)
}

// GetTransferInPage fetches a page of transfer-in records.
func (c *Client) GetTransferInPage(ctx context.Context, params GetTransferPageParams) (*RecordPage, error) {
	return c.getPage(ctx, "/api/v1/private/transfer/getActiveTransferIn", params)
}

func (c *Client) getPage(ctx context.Context, path string, params GetTransferPageParams) (*RecordPage, error) {
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

	var resp recordPageResponse
	if err := c.rest.Get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get transfer page: %w", err)
	}
	return &resp.Data, nil
}

// GetWithdrawAvailableAmount returns the balance available for transfer out
// of the given coin.
func (c *Client) GetWithdrawAvailableAmount(ctx context.Context, coinID string) (*AvailableAmount, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())
	query.Set("coinId", coinID)

	var resp availableAmountResponse
	if err := c.rest.Get(ctx, "/api/v1/private/transfer/getTransferOutAvailableAmount", query, &resp); err != nil {
		return nil, fmt.Errorf("get transfer out available amount: %w", err)
	}
	return &resp.Data, nil
}
