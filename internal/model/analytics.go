package model

// AnalyticsToggles selects the blocks included in an analytics report.
type AnalyticsToggles struct {
	IncludeRiskMetrics     bool `json:"includeRiskMetrics"`
	IncludeStressTest      bool `json:"includeStressTest"`
	IncludeOptimization    bool `json:"includeOptimization"`
	IncludePredictive      bool `json:"includePredictive"`
	IncludeRecommendations bool `json:"includeRecommendations"`
}

// AnalyticsReport combines real portfolio and performance fields with
// placeholder analytics blocks. Ratios and percentages are expressed in
// hundredths (185 = 1.85). A disabled block is returned zeroed.
type AnalyticsReport struct {
	PortfolioID     uint64 `json:"portfolioId"`
	GeneratedHeight uint64 `json:"generatedHeight"`
	StrategyType    string `json:"strategyType"`
	RiskTolerance   uint64 `json:"riskTolerance"`
	TotalValue      uint64 `json:"totalValue"`
	InitialValue    uint64 `json:"initialValue"`
	CurrentValue    uint64 `json:"currentValue"`
	TotalFeesPaid   uint64 `json:"totalFeesPaid"`
	RebalanceCount  uint64 `json:"rebalanceCount"`

	Risk            RiskMetrics         `json:"riskMetrics"`
	Stress          StressTestResults   `json:"stressTest"`
	Optimization    OptimizationResults `json:"optimization"`
	Predictive      PredictiveInsights  `json:"predictive"`
	Recommendations Recommendations     `json:"recommendations"`
}

// RiskMetrics is the risk block of an analytics report.
type RiskMetrics struct {
	Enabled      bool   `json:"enabled"`
	SharpeRatio  uint64 `json:"sharpeRatio"`
	SortinoRatio uint64 `json:"sortinoRatio"`
	Beta         uint64 `json:"beta"`
	ValueAtRisk  uint64 `json:"valueAtRisk"`
	MaxDrawdown  uint64 `json:"maxDrawdown"`
	Volatility   uint64 `json:"volatility"`
}

// StressTestResults is the stress-test block of an analytics report.
// Loss scenarios are negative percentages in hundredths.
type StressTestResults struct {
	Enabled           bool   `json:"enabled"`
	MarketCrashImpact int64  `json:"marketCrashImpact"`
	RateShockImpact   int64  `json:"rateShockImpact"`
	LiquidityCrisis   int64  `json:"liquidityCrisisImpact"`
	RecoveryBlocks    uint64 `json:"recoveryBlocks"`
	ResilienceScore   uint64 `json:"resilienceScore"`
}

// OptimizationResults is the optimization block of an analytics report.
type OptimizationResults struct {
	Enabled              bool   `json:"enabled"`
	ExpectedReturn       uint64 `json:"expectedReturn"`
	ExpectedRisk         uint64 `json:"expectedRisk"`
	EfficiencyScore      uint64 `json:"efficiencyScore"`
	RebalanceThreshold   uint64 `json:"rebalanceThreshold"`
	DiversificationScore uint64 `json:"diversificationScore"`
}

// PredictiveInsights is the predictive block of an analytics report.
type PredictiveInsights struct {
	Enabled         bool   `json:"enabled"`
	Projected30d    uint64 `json:"projected30d"`
	Projected90d    uint64 `json:"projected90d"`
	Projected365d   uint64 `json:"projected365d"`
	ConfidenceScore uint64 `json:"confidenceScore"`
	Trend           string `json:"trend"`
}

// Recommendations is computed from the live portfolio state.
type Recommendations struct {
	Enabled             bool   `json:"enabled"`
	NextRebalanceHeight uint64 `json:"nextRebalanceHeight"`
	RebalanceDue        bool   `json:"rebalanceDue"`
	ProjectedFee        uint64 `json:"projectedFee"`
	Action              string `json:"action"`
}
