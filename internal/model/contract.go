package model

// ContractState holds the process-wide counters and flags of the ledger.
// There is exactly one row; it is only mutated inside a ledger operation.
type ContractState struct {
	NextPortfolioID        uint64 `json:"nextPortfolioId"`
	TotalManagedAssets     uint64 `json:"totalManagedAssets"`
	ContractPaused         bool   `json:"contractPaused"`
	RebalanceFeePercentage uint64 `json:"rebalanceFeePercentage"`
}

// ContractStats is the read-only view of the global counters together with
// the current height and the configured principals.
type ContractStats struct {
	ContractState
	BlockHeight       uint64 `json:"blockHeight"`
	ContractPrincipal string `json:"contractPrincipal"`
	OwnerPrincipal    string `json:"ownerPrincipal"`
}

// Principals identifies the accounts the ledger moves value between.
type Principals struct {
	// Contract is the custody account holding all pooled deposits.
	Contract string
	// Owner is the contract owner; it receives rebalance fees and may run admin operations.
	Owner string
}

// Account is the native-unit balance of a principal.
type Account struct {
	Principal string `json:"principal"`
	Balance   uint64 `json:"balance"`
}
