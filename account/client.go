// Package account reads account state and registers new L2 accounts.
package account

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
)

// Client calls the account endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates an account client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// GetAccountAsset fetches the account snapshot: balances and open positions.
func (c *Client) GetAccountAsset(ctx context.Context) (*Asset, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	var resp assetResponse
	if err := c.rest.Get(ctx, "/api/v1/private/account/getAccountAsset", query, &resp); err != nil {
		return nil, fmt.Errorf("get account asset: %w", err)
	}
	return &resp.Data, nil
}

// GetAccountPositions fetches the account's open positions.
func (c *Client) GetAccountPositions(ctx context.Context) ([]Position, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	var resp positionListResponse
	if err := c.rest.Get(ctx, "/api/v1/private/account/getAccountPositions", query, &resp); err != nil {
		return nil, fmt.Errorf("get account positions: %w", err)
	}
	return resp.Data, nil
}

// GetPositionTransactionPage fetches a page of position-changing events.
func (c *Client) GetPositionTransactionPage(ctx context.Context, params GetPositionTransactionPageParams) (*PositionTransactionPage, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	if params.Size != "" {
		query.Set("size", params.Size)
	}
	if params.OffsetData != "" {
		query.Set("offsetData", params.OffsetData)
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

	var resp positionTransactionPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/account/getPositionTransactionPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get position transaction page: %w", err)
	}
	return &resp.Data, nil
}

// RegisterAccount registers a new L2 account bound to the signer's public
// key. The L2 key pair comes from the configured signer.
func (c *Client) RegisterAccount(ctx context.Context, params RegisterAccountParams) (*Account, error) {
	signer := c.rest.Signer()
	if signer == nil {
		return nil, fmt.Errorf("account registration requires a signer")
	}

	clientAccountID := params.ClientAccountID
	if clientAccountID == "" {
		clientAccountID = c.rest.RandomClientID()
	}

	body := map[string]any{
		"l2Key":            "0x" + signer.PublicKey(),
		"l2KeyYCoordinate": "0x" + signer.PublicKeyYCoordinate(),
		"clientAccountId":  clientAccountID,
	}
	if params.EthAddress != "" {
		body["ethAddress"] = params.EthAddress
	}

	var resp accountResponse
	if err := c.rest.Post(ctx, "/api/v1/private/account/registerAccount", body, &resp); err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return &resp.Data, nil
}
