package emitter

import "github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"

// PortfolioCreated is the payload of a portfolio-created event.
type PortfolioCreated struct {
	Owner          string                  `json:"owner"`
	StrategyType   string                  `json:"strategyType"`
	RiskTolerance  uint64                  `json:"riskTolerance"`
	InitialDeposit uint64                  `json:"initialDeposit"`
	Allocations    []model.AllocationInput `json:"allocations"`
}

// PortfolioDeposit is the payload of a portfolio-deposit event.
type PortfolioDeposit struct {
	Amount        uint64 `json:"amount"`
	NewTotalValue uint64 `json:"newTotalValue"`
}

// PortfolioRebalanced is the payload of a portfolio-rebalanced event.
type PortfolioRebalanced struct {
	Fee            uint64 `json:"fee"`
	NewTotalValue  uint64 `json:"newTotalValue"`
	RebalanceCount uint64 `json:"rebalanceCount"`
	Automatic      bool   `json:"automatic"`
}

// PortfolioWithdrawal is the payload of a portfolio-withdrawal event.
type PortfolioWithdrawal struct {
	Amount        uint64 `json:"amount"`
	NewTotalValue uint64 `json:"newTotalValue"`
}

// AutoRebalanceUpdated is the payload of an auto-rebalance-updated event.
type AutoRebalanceUpdated struct {
	Enabled bool `json:"enabled"`
}

// AnalyticsGenerated is the payload of an analytics-generated event.
type AnalyticsGenerated struct {
	Toggles model.AnalyticsToggles `json:"toggles"`
}

// ContractPaused is the payload of a contract-paused event.
type ContractPaused struct {
	Paused bool `json:"paused"`
}

// FeeUpdated is the payload of a fee-updated event.
type FeeUpdated struct {
	Previous uint64 `json:"previous"`
	Current  uint64 `json:"current"`
}

// AccountFunded is the payload of an account-funded event.
type AccountFunded struct {
	Principal string `json:"principal"`
	Amount    uint64 `json:"amount"`
	Balance   uint64 `json:"balance"`
}
