package request

// AllocationRequest is one entry of the allocation list of a new portfolio.
type AllocationRequest struct {
	Asset      string `json:"asset"`
	Percentage uint64 `json:"percentage"`
}

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	StrategyType   string              `json:"strategyType"`
	RiskTolerance  uint64              `json:"riskTolerance"`
	InitialDeposit uint64              `json:"initialDeposit"`
	Allocations    []AllocationRequest `json:"allocations"`
}

// AmountRequest represents the request body of a deposit or withdrawal
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

// AutoRebalanceRequest represents the request body for toggling auto rebalance
type AutoRebalanceRequest struct {
	Enabled *bool `json:"enabled"`
}

// AnalyticsRequest selects the blocks of an analytics report
type AnalyticsRequest struct {
	IncludeRiskMetrics     bool `json:"includeRiskMetrics"`
	IncludeStressTest      bool `json:"includeStressTest"`
	IncludeOptimization    bool `json:"includeOptimization"`
	IncludePredictive      bool `json:"includePredictive"`
	IncludeRecommendations bool `json:"includeRecommendations"`
}
