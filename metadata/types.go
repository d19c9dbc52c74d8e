package metadata

// MetaData is the exchange metadata: trading pairs, coins, and global
// settlement configuration.
type MetaData struct {
	Global       Global     `json:"global"`
	CoinList     []Coin     `json:"coinList"`
	ContractList []Contract `json:"contractList"`
}

// Global holds exchange-wide settlement configuration.
type Global struct {
	AppName                string `json:"appName"`
	AppEnv                 string `json:"appEnv"`
	AppOnlySignOn          string `json:"appOnlySignOn"`
	FeeAccountID           string `json:"feeAccountId"`
	StarkExChainID         string `json:"starkExChainId"`
	StarkExContractAddress string `json:"starkExContractAddress"`
	StarkExCollateralCoin  *Coin  `json:"starkExCollateralCoin"`
	StarkExMaxFundingRate  string `json:"starkExMaxFundingRate"`
}

// Coin describes a settlement currency.
type Coin struct {
	CoinID            string `json:"coinId"`
	CoinName          string `json:"coinName"`
	StepSize          string `json:"stepSize"`
	Decimal           int    `json:"decimal"`
	ShowStepSize      string `json:"showStepSize"`
	IconURL           string `json:"iconUrl"`
	StarkExAssetID    string `json:"starkExAssetId"`
	StarkExResolution string `json:"starkExResolution"`
}

// Contract describes a perpetual contract.
type Contract struct {
	ContractID              string `json:"contractId"`
	ContractName            string `json:"contractName"`
	BaseCoinID              string `json:"baseCoinId"`
	QuoteCoinID             string `json:"quoteCoinId"`
	TickSize                string `json:"tickSize"`
	StepSize                string `json:"stepSize"`
	MinOrderSize            string `json:"minOrderSize"`
	MaxOrderSize            string `json:"maxOrderSize"`
	DefaultTakerFeeRate     string `json:"defaultTakerFeeRate"`
	DefaultMakerFeeRate     string `json:"defaultMakerFeeRate"`
	EnableTrade             bool   `json:"enableTrade"`
	FundingInterestRate     string `json:"fundingInterestRate"`
	StarkExSyntheticAssetID string `json:"starkExSyntheticAssetId"`
	StarkExResolution       string `json:"starkExResolution"`
}

// FindContract returns the contract with the given ID, or nil.
func (m *MetaData) FindContract(contractID string) *Contract {
	for i := range m.ContractList {
		if m.ContractList[i].ContractID == contractID {
			return &m.ContractList[i]
		}
	}
	return nil
}

// FindCoin returns the coin with the given ID, or nil.
func (m *MetaData) FindCoin(coinID string) *Coin {
	for i := range m.CoinList {
		if m.CoinList[i].CoinID == coinID {
			return &m.CoinList[i]
		}
	}
	return nil
}

// MetaDataResponse from GET /api/v1/public/meta/getMetaData.
type MetaDataResponse struct {
	Code string   `json:"code"`
	Data MetaData `json:"data"`
}

// ServerTime is the exchange clock.
type ServerTime struct {
	TimeMillis int64 `json:"timeMillis,string"`
}

// ServerTimeResponse from GET /api/v1/public/meta/getServerTime.
type ServerTimeResponse struct {
	Code string     `json:"code"`
	Data ServerTime `json:"data"`
}
