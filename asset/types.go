package asset

// CreateWithdrawalParams describe an on-chain withdrawal.
type CreateWithdrawalParams struct {
	CoinID     string
	Amount     string
	EthAddress string
	Tag        string
}

// GetAssetOrdersParams paginate asset order history.
type GetAssetOrdersParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList []string

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// GetWithdrawalRecordsParams paginate withdrawal records.
type GetWithdrawalRecordsParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList []string
	FilterStatusList []string

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// AssetOrder is a single deposit or withdrawal order.
type AssetOrder struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	CoinID      string `json:"coinId"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedTime string `json:"createdTime"`
	UpdatedTime string `json:"updatedTime"`
}

// AssetOrderPage is one page of asset orders.
type AssetOrderPage struct {
	DataList   []AssetOrder `json:"dataList"`
	OffsetData string       `json:"offsetData"`
}

// WithdrawalRecord is a single withdrawal and its settlement state.
type WithdrawalRecord struct {
	ID               string `json:"id"`
	AccountID        string `json:"accountId"`
	CoinID           string `json:"coinId"`
	Amount           string `json:"amount"`
	EthAddress       string `json:"ethAddress"`
	Status           string `json:"status"`
	ClientWithdrawID string `json:"clientWithdrawId"`
	CreatedTime      string `json:"createdTime"`
	UpdatedTime      string `json:"updatedTime"`
}

// WithdrawalRecordPage is one page of withdrawal records.
type WithdrawalRecordPage struct {
	DataList   []WithdrawalRecord `json:"dataList"`
	OffsetData string             `json:"offsetData"`
}

// CreatedWithdrawal identifies a submitted withdrawal.
type CreatedWithdrawal struct {
	WithdrawID string `json:"withdrawId"`
}

// CoinRate is a coin's exchange rate on a chain.
type CoinRate struct {
	ChainID string `json:"chainId"`
	Coin    string `json:"coin"`
	Rate    string `json:"rate"`
}

// WithdrawableAmount is the on-chain withdrawable balance.
type WithdrawableAmount struct {
	Amount string `json:"amount"`
}

type createWithdrawalResponse struct {
	Code string            `json:"code"`
	Data CreatedWithdrawal `json:"data"`
}

type assetOrderPageResponse struct {
	Code string         `json:"code"`
	Data AssetOrderPage `json:"data"`
}

type withdrawalPageResponse struct {
	Code string               `json:"code"`
	Data WithdrawalRecordPage `json:"data"`
}

type coinRateResponse struct {
	Code string   `json:"code"`
	Data CoinRate `json:"data"`
}

type withdrawableAmountResponse struct {
	Code string             `json:"code"`
	Data WithdrawableAmount `json:"data"`
}
