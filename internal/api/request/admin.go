package request

// PauseRequest represents the request body for toggling the contract pause flag
type PauseRequest struct {
	Paused *bool `json:"paused"`
}

// FeeRequest represents the request body for setting the rebalance fee
type FeeRequest struct {
	Fee *uint64 `json:"fee"`
}

// FundRequest represents the request body of a faucet credit
type FundRequest struct {
	Principal string `json:"principal"`
	Amount    uint64 `json:"amount"`
}

// AdvanceRequest represents the request body for advancing the block height
type AdvanceRequest struct {
	Blocks uint64 `json:"blocks"`
}
