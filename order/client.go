// Package order creates, cancels, and queries orders, including the StarkEx
// L2 signing that order placement requires.
package order

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

// defaultTakerFeeRate applies when the contract does not declare one.
var defaultTakerFeeRate = decimal.RequireFromString("0.00038")

const (
	orderExpireWindow   = 24 * time.Hour
	l2ExpireGracePeriod = 9 * 24 * time.Hour
)

// Client calls the order endpoints.
type Client struct {
	rest *rest.Client
}

// NewClient creates an order client.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// CreateOrder signs and submits an order. l2Price is the price used for the
// L2 signature: the limit price for limit orders, the computed market price
// for market orders (whose wire price is "0").
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams, meta *metadata.MetaData, l2Price decimal.Decimal) (*CreatedOrder, error) {
	signer := c.rest.Signer()
	if signer == nil {
		return nil, fmt.Errorf("order creation requires a signer")
	}

	if params.TimeInForce == "" {
		switch params.Type {
		case TypeMarket:
			params.TimeInForce = ImmediateOrCancel
		case TypeLimit:
			params.TimeInForce = GoodTilCancel
		}
	}

	contract := meta.FindContract(params.ContractID)
	if contract == nil {
		return nil, fmt.Errorf("contract not found: %s", params.ContractID)
	}
	quoteCoin := meta.FindCoin(contract.QuoteCoinID)
	if quoteCoin == nil {
		return nil, fmt.Errorf("coin not found: %s", contract.QuoteCoinID)
	}

	syntheticFactor, err := resolutionFactor(contract.StarkExResolution)
	if err != nil {
		return nil, fmt.Errorf("parse synthetic factor: %w", err)
	}
	shiftFactor, err := resolutionFactor(quoteCoin.StarkExResolution)
	if err != nil {
		return nil, fmt.Errorf("parse shift factor: %w", err)
	}

	size, err := decimal.NewFromString(params.Size)
	if err != nil {
		return nil, fmt.Errorf("parse size: %w", err)
	}

	value := l2Price.Mul(size)
	amountSynthetic := size.Mul(syntheticFactor).BigInt()
	amountCollateral := value.Mul(shiftFactor).BigInt()

	feeRate := defaultTakerFeeRate
	if contract.DefaultTakerFeeRate != "" {
		feeRate, err = decimal.NewFromString(contract.DefaultTakerFeeRate)
		if err != nil {
			return nil, fmt.Errorf("parse fee rate: %w", err)
		}
	}

	limitFee := size.Mul(l2Price).Mul(feeRate).Ceil()
	maxFeeAmount := limitFee.Mul(shiftFactor).BigInt()

	clientOrderID := params.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = c.rest.RandomClientID()
	}
	nonce := starkex.NonceFromClientID(clientOrderID)

	expireTime := time.Now().UnixMilli() + orderExpireWindow.Milliseconds()
	if params.ExpireTimeMs > 0 {
		expireTime = params.ExpireTimeMs
	}
	l2ExpireTime := expireTime + l2ExpireGracePeriod.Milliseconds()
	l2ExpireHours := l2ExpireTime / time.Hour.Milliseconds()

	syntheticAssetID, err := starkex.HexToBig(contract.StarkExSyntheticAssetID)
	if err != nil {
		return nil, fmt.Errorf("parse synthetic asset id: %w", err)
	}
	collateralAssetID, err := starkex.HexToBig(quoteCoin.StarkExAssetID)
	if err != nil {
		return nil, fmt.Errorf("parse collateral asset id: %w", err)
	}

	msgHash := starkex.LimitOrderHash(
		syntheticAssetID,
		collateralAssetID,
		collateralAssetID,
		params.Side == SideBuy,
		amountSynthetic,
		amountCollateral,
		maxFeeAmount,
		nonce,
		big.NewInt(c.rest.AccountID()),
		big.NewInt(l2ExpireHours),
	)

	sig, err := signer.Sign(msgHash)
	if err != nil {
		return nil, fmt.Errorf("sign order hash: %w", err)
	}

	body := map[string]any{
		"accountId":     c.rest.AccountIDString(),
		"contractId":    params.ContractID,
		"price":         params.Price,
		"size":          params.Size,
		"type":          string(params.Type),
		"side":          string(params.Side),
		"timeInForce":   string(params.TimeInForce),
		"clientOrderId": clientOrderID,
		"expireTime":    strconv.FormatInt(expireTime, 10),
		"l2Nonce":       nonce.String(),
		"l2Signature":   sig.String(),
		"l2ExpireTime":  strconv.FormatInt(l2ExpireTime, 10),
		"l2Value":       value.String(),
		"l2Size":        params.Size,
		"l2LimitFee":    limitFee.String(),
		"reduceOnly":    params.ReduceOnly,
	}

	var resp createOrderResponse
	if err := c.rest.Post(ctx, "/api/v1/private/order/createOrder", body, &resp); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &resp.Data, nil
}

// resolutionFactor parses a hex StarkEx resolution into a decimal multiplier.
func resolutionFactor(hex string) (decimal.Decimal, error) {
	if hex == "" {
		hex = "0x0"
	}
	v, err := starkex.HexToBig(hex)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromBigInt(v, 0), nil
}

// CancelOrder cancels orders selected by ID, client order ID, or contract.
func (c *Client) CancelOrder(ctx context.Context, params CancelOrderParams) (*CancelResult, error) {
	accountID := c.rest.AccountIDString()

	var path string
	var body map[string]any
	switch {
	case params.OrderID != "":
		path = "/api/v1/private/order/cancelOrderById"
		body = map[string]any{
			"accountId":   accountID,
			"orderIdList": []string{params.OrderID},
		}
	case params.ClientOrderID != "":
		path = "/api/v1/private/order/cancelOrderByClientOrderId"
		body = map[string]any{
			"accountId":         accountID,
			"clientOrderIdList": []string{params.ClientOrderID},
		}
	case params.ContractID != "":
		path = "/api/v1/private/order/cancelAllOrder"
		body = map[string]any{
			"accountId":            accountID,
			"filterContractIdList": []string{params.ContractID},
		}
	default:
		return nil, errors.New("must provide either order ID, client order ID, or contract ID")
	}

	var resp cancelOrderResponse
	if err := c.rest.Post(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return &resp.Data, nil
}

// GetActiveOrders fetches a page of active orders.
func (c *Client) GetActiveOrders(ctx context.Context, params GetActiveOrderParams) (*OrderPage, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	addPage(query, params.Size, params.OffsetData)
	addList(query, "filterCoinIdList", params.FilterCoinIDList)
	addList(query, "filterContractIdList", params.FilterContractIDList)
	addList(query, "filterTypeList", params.FilterTypeList)
	addList(query, "filterStatusList", params.FilterStatusList)
	addBool(query, "filterIsLiquidateList", params.FilterIsLiquidate)
	addBool(query, "filterIsDeleverageList", params.FilterIsDeleverage)
	addBool(query, "filterIsPositionTpslList", params.FilterIsPositionTpsl)
	addTimeRange(query, params.FilterStartCreatedTimeInclusive, params.FilterEndCreatedTimeExclusive)

	var resp orderPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/order/getActiveOrderPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get active orders: %w", err)
	}
	return &resp.Data, nil
}

// GetHistoryOrders fetches a page of historical orders.
func (c *Client) GetHistoryOrders(ctx context.Context, params GetHistoryOrderParams) (*OrderPage, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	addPage(query, params.Size, params.OffsetData)
	addList(query, "filterCoinIdList", params.FilterCoinIDList)
	addList(query, "filterContractIdList", params.FilterContractIDList)
	addList(query, "filterTypeList", params.FilterTypeList)
	addList(query, "filterStatusList", params.FilterStatusList)
	addBool(query, "filterIsLiquidateList", params.FilterIsLiquidate)
	addBool(query, "filterIsDeleverageList", params.FilterIsDeleverage)
	addBool(query, "filterIsPositionTpslList", params.FilterIsPositionTpsl)
	addTimeRange(query, params.FilterStartCreatedTimeInclusive, params.FilterEndCreatedTimeExclusive)

	var resp orderPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/order/getHistoryOrderPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get history orders: %w", err)
	}
	return &resp.Data, nil
}

// GetOrderFillTransactions fetches a page of order fills.
func (c *Client) GetOrderFillTransactions(ctx context.Context, params OrderFillTransactionParams) (*FillTransactionPage, error) {
	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())

	addPage(query, params.Size, params.OffsetData)
	addList(query, "filterCoinIdList", params.FilterCoinIDList)
	addList(query, "filterContractIdList", params.FilterContractIDList)
	addList(query, "filterOrderIdList", params.FilterOrderIDList)
	addBool(query, "filterIsLiquidateList", params.FilterIsLiquidate)
	addBool(query, "filterIsDeleverageList", params.FilterIsDeleverage)
	addBool(query, "filterIsPositionTpslList", params.FilterIsPositionTpsl)
	addTimeRange(query, params.FilterStartCreatedTimeInclusive, params.FilterEndCreatedTimeExclusive)

	var resp fillPageResponse
	if err := c.rest.Get(ctx, "/api/v1/private/order/getHistoryOrderFillTransactionPage", query, &resp); err != nil {
		return nil, fmt.Errorf("get order fill transactions: %w", err)
	}
	return &resp.Data, nil
}

// GetOrdersByID fetches orders by their exchange IDs.
func (c *Client) GetOrdersByID(ctx context.Context, orderIDs []string) ([]Order, error) {
	if len(orderIDs) == 0 {
		return nil, errors.New("order ID list must not be empty")
	}

	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())
	query.Set("orderIdList", strings.Join(orderIDs, ","))

	var resp orderListResponse
	if err := c.rest.Get(ctx, "/api/v1/private/order/getOrderById", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders by id: %w", err)
	}
	return resp.Data, nil
}

// GetOrdersByClientOrderID fetches orders by their client order IDs.
func (c *Client) GetOrdersByClientOrderID(ctx context.Context, clientOrderIDs []string) ([]Order, error) {
	if len(clientOrderIDs) == 0 {
		return nil, errors.New("client order ID list must not be empty")
	}

	query := url.Values{}
	query.Set("accountId", c.rest.AccountIDString())
	query.Set("clientOrderIdList", strings.Join(clientOrderIDs, ","))

	var resp orderListResponse
	if err := c.rest.Get(ctx, "/api/v1/private/order/getOrderByClientOrderId", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders by client order id: %w", err)
	}
	return resp.Data, nil
}

// GetMaxOrderSize returns the maximum creatable order size at a price.
func (c *Client) GetMaxOrderSize(ctx context.Context, contractID string, price decimal.Decimal) (*MaxOrderSize, error) {
	body := map[string]any{
		"accountId":  c.rest.AccountIDString(),
		"contractId": contractID,
		"price":      price.String(),
	}

	var resp maxOrderSizeResponse
	if err := c.rest.Post(ctx, "/api/v1/private/order/getMaxCreateOrderSize", body, &resp); err != nil {
		return nil, fmt.Errorf("get max order size: %w", err)
	}
	return &resp.Data, nil
}

// addPage sets pagination parameters when present.
func addPage(q url.Values, size, offsetData string) {
	if size != "" {
		q.Set("size", size)
	}
	if offsetData != "" {
		q.Set("offsetData", offsetData)
	}
}

// addList joins and sets a filter list when non-empty.
func addList(q url.Values, key string, values []string) {
	if len(values) > 0 {
		q.Set(key, strings.Join(values, ","))
	}
}

// addBool sets a tri-state boolean filter when provided.
func addBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

// addTimeRange sets created-time bounds when non-zero.
func addTimeRange(q url.Values, startInclusive, endExclusive int64) {
	if startInclusive > 0 {
		q.Set("filterStartCreatedTimeInclusive", strconv.FormatInt(startInclusive, 10))
	}
	if endExclusive > 0 {
		q.Set("filterEndCreatedTimeExclusive", strconv.FormatInt(endExclusive, 10))
	}
}
