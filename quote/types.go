package quote

// KLineType selects a candlestick interval.
type KLineType string

const (
	KLine1Min   KLineType = "MINUTE_1"
	KLine5Min   KLineType = "MINUTE_5"
	KLine15Min  KLineType = "MINUTE_15"
	KLine30Min  KLineType = "MINUTE_30"
	KLine1Hour  KLineType = "HOUR_1"
	KLine2Hour  KLineType = "HOUR_2"
	KLine4Hour  KLineType = "HOUR_4"
	KLine8Hour  KLineType = "HOUR_8"
	KLine12Hour KLineType = "HOUR_12"
	KLine1Day   KLineType = "DAY_1"
	KLine1Week  KLineType = "WEEK_1"
	KLine1Month KLineType = "MONTH_1"
)

// GetKLineParams query candlesticks for one contract.
type GetKLineParams struct {
	ContractID string
	KLineType  KLineType
	Size       string
	OffsetData string

	FilterBeginKlineTimeInclusive int64
	FilterEndKlineTimeExclusive   int64
}

// GetMultiContractKLineParams query the latest candlesticks for several
// contracts at once.
type GetMultiContractKLineParams struct {
	ContractIDList []string
	KLineType      KLineType

	FilterBeginKlineTimeInclusive int64
	FilterEndKlineTimeExclusive   int64
}

// Ticker is a 24-hour rolling quote for one contract.
type Ticker struct {
	ContractID     string `json:"contractId"`
	ContractName   string `json:"contractName"`
	PriceChange    string `json:"priceChange"`
	PriceChangePct string `json:"priceChangePercent"`
	Open           string `json:"open"`
	Close          string `json:"close"`
	High           string `json:"high"`
	Low            string `json:"low"`
	LastPrice      string `json:"lastPrice"`
	IndexPrice     string `json:"indexPrice"`
	OraclePrice    string `json:"oraclePrice"`
	OpenInterest   string `json:"openInterest"`
	FundingRate    string `json:"fundingRate"`
	FundingTime    string `json:"fundingTime"`
	Size           string `json:"size"`
	Value          string `json:"value"`
	Trades         string `json:"trades"`
}

// KLine is one candlestick.
type KLine struct {
	ContractID string `json:"contractId"`
	KlineTime  string `json:"klineTime"`
	KlineType  string `json:"klineType"`
	Open       string `json:"open"`
	High       string `json:"high"`
	Low        string `json:"low"`
	Close      string `json:"close"`
	Size       string `json:"size"`
	Value      string `json:"value"`
	Trades     string `json:"trades"`
}

// KLinePage is one page of candlesticks.
type KLinePage struct {
	DataList   []KLine `json:"dataList"`
	OffsetData string  `json:"offsetData"`
}

// PriceLevel is one order book level.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// Depth is an order book snapshot.
type Depth struct {
	ContractID string       `json:"contractId"`
	Level      int          `json:"level"`
	Asks       []PriceLevel `json:"asks"`
	Bids       []PriceLevel `json:"bids"`
}

type tickerListResponse struct {
	Code string   `json:"code"`
	Data []Ticker `json:"data"`
}

type klinePageResponse struct {
	Code string    `json:"code"`
	Data KLinePage `json:"data"`
}

type multiKLineResponse struct {
	Code string             `json:"code"`
	Data map[string][]KLine `json:"data"`
}

type depthListResponse struct {
	Code string  `json:"code"`
	Data []Depth `json:"data"`
}
