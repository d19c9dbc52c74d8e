package order

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderType distinguishes limit and market orders.
type OrderType string

const (
	TypeLimit  OrderType = "LIMIT"
	TypeMarket OrderType = "MARKET"
)

// TimeInForce controls order lifetime on the book.
type TimeInForce string

const (
	GoodTilCancel     TimeInForce = "GOOD_TIL_CANCEL"
	ImmediateOrCancel TimeInForce = "IMMEDIATE_OR_CANCEL"
	FillOrKill        TimeInForce = "FILL_OR_KILL"
	PostOnly          TimeInForce = "POST_ONLY"
)

// CreateOrderParams are the inputs for creating an order.
type CreateOrderParams struct {
	ContractID    string
	Price         string
	Size          string
	Type          OrderType
	Side          OrderSide
	ClientOrderID string      // generated when empty
	TimeInForce   TimeInForce // defaulted from Type when empty
	ReduceOnly    bool
	ExpireTimeMs  int64 // unix ms; zero means 24h from now
}

// CancelOrderParams select orders to cancel. Exactly one selector is used,
// checked in order: OrderID, ClientOrderID, ContractID.
type CancelOrderParams struct {
	OrderID       string
	ClientOrderID string
	ContractID    string
}

// GetActiveOrderParams filter the active order page.
type GetActiveOrderParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList     []string
	FilterContractIDList []string
	FilterTypeList       []string
	FilterStatusList     []string

	FilterIsLiquidate    *bool
	FilterIsDeleverage   *bool
	FilterIsPositionTpsl *bool

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// GetHistoryOrderParams filter the historical order page.
type GetHistoryOrderParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList     []string
	FilterContractIDList []string
	FilterTypeList       []string
	FilterStatusList     []string

	FilterIsLiquidate    *bool
	FilterIsDeleverage   *bool
	FilterIsPositionTpsl *bool

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// OrderFillTransactionParams filter the fill transaction page.
type OrderFillTransactionParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList     []string
	FilterContractIDList []string
	FilterOrderIDList    []string

	FilterIsLiquidate    *bool
	FilterIsDeleverage   *bool
	FilterIsPositionTpsl *bool

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// Order is an order as returned by the API.
type Order struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	AccountID     string `json:"accountId"`
	CoinID        string `json:"coinId"`
	ContractID    string `json:"contractId"`
	Side          string `json:"side"`
	Price         string `json:"price"`
	Size          string `json:"size"`
	Type          string `json:"type"`
	TimeInForce   string `json:"timeInForce"`
	Status        string `json:"status"`
	ClientOrderID string `json:"clientOrderId"`
	ReduceOnly    bool   `json:"reduceOnly"`
	CumFillSize   string `json:"cumFillSize"`
	CumFillValue  string `json:"cumFillValue"`
	CumFillFee    string `json:"cumFillFee"`
	CreatedTime   string `json:"createdTime"`
	UpdatedTime   string `json:"updatedTime"`
}

// OrderPage is one page of orders.
type OrderPage struct {
	DataList   []Order `json:"dataList"`
	OffsetData string  `json:"offsetData"`
}

// FillTransaction is a single order fill.
type FillTransaction struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	AccountID   string `json:"accountId"`
	CoinID      string `json:"coinId"`
	ContractID  string `json:"contractId"`
	OrderID     string `json:"orderId"`
	OrderSide   string `json:"orderSide"`
	FillSize    string `json:"fillSize"`
	FillValue   string `json:"fillValue"`
	FillFee     string `json:"fillFee"`
	Direction   string `json:"direction"`
	IsMaker     bool   `json:"isMaker"`
	CreatedTime string `json:"createdTime"`
}

// FillTransactionPage is one page of fills.
type FillTransactionPage struct {
	DataList   []FillTransaction `json:"dataList"`
	OffsetData string            `json:"offsetData"`
}

// CreatedOrder is the creation acknowledgement.
type CreatedOrder struct {
	OrderID string `json:"orderId"`
}

// CancelResult maps order IDs to their cancellation outcome.
type CancelResult struct {
	CancelResultMap map[string]string `json:"cancelResultMap"`
}

// MaxOrderSize is the largest order the account can place at a price.
type MaxOrderSize struct {
	MaxBuySize  string `json:"maxBuySize"`
	MaxSellSize string `json:"maxSellSize"`
}

type createOrderResponse struct {
	Code string       `json:"code"`
	Data CreatedOrder `json:"data"`
}

type cancelOrderResponse struct {
	Code string       `json:"code"`
	Data CancelResult `json:"data"`
}

type orderPageResponse struct {
	Code string    `json:"code"`
	Data OrderPage `json:"data"`
}

type orderListResponse struct {
	Code string  `json:"code"`
	Data []Order `json:"data"`
}

type fillPageResponse struct {
	Code string              `json:"code"`
	Data FillTransactionPage `json:"data"`
}

type maxOrderSizeResponse struct {
	Code string       `json:"code"`
	Data MaxOrderSize `json:"data"`
}
