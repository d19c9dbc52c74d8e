package transfer

// TransferReason classifies why funds moved between L2 accounts.
type TransferReason string

const (
	ReasonUserTransfer  TransferReason = "USER_TRANSFER"
	ReasonFastWithdraw  TransferReason = "FAST_WITHDRAW"
	ReasonCrossDeposit  TransferReason = "CROSS_DEPOSIT"
	ReasonCrossWithdraw TransferReason = "CROSS_WITHDRAW"
)

// CreateTransferOutParams describe an L2 transfer to another account.
type CreateTransferOutParams struct {
	CoinID            string
	Amount            string
	ReceiverAccountID string
	ReceiverL2Key     string
	// TransferReason defaults to USER_TRANSFER.
	TransferReason TransferReason
	// ExpireTimeMs is a unix ms base for L2 expiry; zero means now. The
	// protocol expiry is always 14 days after this base.
	ExpireTimeMs  int64
	ExtraType     string
	ExtraDataJSON string
}

// GetTransferPageParams paginate transfer-in or transfer-out records.
type GetTransferPageParams struct {
	Size       string
	OffsetData string

	FilterCoinIDList []string
	FilterStatusList []string

	FilterStartCreatedTimeInclusive int64
	FilterEndCreatedTimeExclusive   int64
}

// Record is a single transfer-in or transfer-out record.
type Record struct {
	ID               string `json:"id"`
	AccountID        string `json:"accountId"`
	CoinID           string `json:"coinId"`
	Amount           string `json:"amount"`
	Status           string `json:"status"`
	TransferReason   string `json:"transferReason"`
	ClientTransferID string `json:"clientTransferId"`
	CreatedTime      string `json:"createdTime"`
	UpdatedTime      string `json:"updatedTime"`
}

// RecordPage is one page of transfer records.
type RecordPage struct {
	DataList   []Record `json:"dataList"`
	OffsetData string   `json:"offsetData"`
}

// CreatedTransfer identifies a submitted transfer out.
type CreatedTransfer struct {
	TransferID string `json:"transferId"`
}

// AvailableAmount is the balance available for transfer out.
type AvailableAmount struct {
	AvailableAmount string `json:"availableAmount"`
}

type createTransferResponse struct {
	Code string          `json:"code"`
	Data CreatedTransfer `json:"data"`
}

type recordListResponse struct {
	Code string   `json:"code"`
	Data []Record `json:"data"`
}

type recordPageResponse struct {
	Code string     `json:"code"`
	Data RecordPage `json:"data"`
}

type availableAmountResponse struct {
	Code string          `json:"code"`
	Data AvailableAmount `json:"data"`
}
