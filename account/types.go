package account

// Account is the registered L2 account.
type Account struct {
	ID               string `json:"id"`
	EthAddress       string `json:"ethAddress"`
	L2Key            string `json:"l2Key"`
	L2KeyYCoordinate string `json:"l2KeyYCoordinate"`
	ClientAccountID  string `json:"clientAccountId"`
	CreatedTime      string `json:"createdTime"`
	UpdatedTime      string `json:"updatedTime"`
}

// CollateralAsset is a collateral balance held by the account.
type CollateralAsset struct {
	CoinID          string `json:"coinId"`
	Amount          string `json:"amount"`
	PendingDeposit  string `json:"pendingDepositAmount"`
	PendingWithdraw string `json:"pendingWithdrawAmount"`
	PendingTransfer string `json:"pendingTransferOutAmount"`
}

// Position is an open perpetual position.
type Position struct {
	ContractID  string `json:"contractId"`
	Side        string `json:"side"`
	OpenSize    string `json:"openSize"`
	OpenValue   string `json:"openValue"`
	OpenFee     string `json:"openFee"`
	FundingFee  string `json:"fundingFee"`
	RealizedPnl string `json:"realizePnl"`
	CreatedTime string `json:"createdTime"`
	UpdatedTime string `json:"updatedTime"`
}

// Asset is the full account snapshot: balances plus open positions.
type Asset struct {
	Account        Account           `json:"account"`
	CollateralList []CollateralAsset `json:"collateralList"`
	PositionList   []Position        `json:"positionList"`
}

// PositionTransaction is one position-changing event.
type PositionTransaction struct {
	ID             string `json:"id"`
	ContractID     string `json:"contractId"`
	Type           string `json:"type"`
	DeltaOpenSize  string `json:"deltaOpenSize"`
	DeltaOpenValue string `json:"deltaOpenValue"`
	DeltaOpenFee   string `json:"deltaOpenFee"`
	FundingFee     string `json:"fundingFee"`
	CreatedTime    string `json:"createdTime"`
}

// PositionTransactionPage is one page of position transactions.
type PositionTransactionPage struct {
	DataList   []PositionTransaction `json:"dataList"`
	OffsetData string                `json:"offsetData"`
}

// GetPositionTransactionPageParams paginate position transactions.
type GetPositionTransactionPageParams struct {
	Size       string
	OffsetData string

	FilterContractIDList []string
	FilterTypeList       []string

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// RegisterAccountParams describe a new L2 account registration.
type RegisterAccountParams struct {
	ClientAccountID string
	EthAddress      string
}

type assetResponse struct {
	Code string `json:"code"`
	Data Asset  `json:"data"`
}

type positionListResponse struct {
	Code string     `json:"code"`
	Data []Position `json:"data"`
}

type positionTransactionPageResponse struct {
	Code string                  `json:"code"`
	Data PositionTransactionPage `json:"data"`
}

type accountResponse struct {
	Code string  `json:"code"`
	Data Account `json:"data"`
}
