package model

// NativeAsset is the symbol of the single native value unit held by every portfolio.
const NativeAsset = "STX"

// Bounds of the ledger's fixed-capacity sequences and fields.
const (
	MaxPortfoliosPerUser    = 5
	MaxAllocations          = 10
	MaxStrategyTypeLength   = 20
	MaxAssetSymbolLength    = 10
	MinRiskTolerance        = 1
	MaxRiskTolerance        = 10
	RebalanceInterval       = 144 // height-units, roughly 24 hours
	DefaultRebalanceFeeBP   = 500 // 0.5%
	RebalanceFeeDenominator = 100000
)

// Portfolio represents a user-owned portfolio from the database.
// Portfolios are never deleted; every portfolio is active once created.
type Portfolio struct {
	ID                   uint64 `json:"id"`
	Owner                string `json:"owner"`
	StrategyType         string `json:"strategyType"`
	RiskTolerance        uint64 `json:"riskTolerance"`
	TotalValue           uint64 `json:"totalValue"`
	LastRebalanceHeight  uint64 `json:"lastRebalanceHeight"`
	AutoRebalanceEnabled bool   `json:"autoRebalanceEnabled"`
	CreationHeight       uint64 `json:"creationHeight"`
}

// AssetAllocation is the target and current allocation of one asset within a portfolio,
// keyed by (PortfolioID, AssetSymbol).
type AssetAllocation struct {
	PortfolioID       uint64 `json:"portfolioId"`
	AssetSymbol       string `json:"assetSymbol"`
	TargetPercentage  uint64 `json:"targetPercentage"`
	CurrentPercentage uint64 `json:"currentPercentage"`
	CurrentAmount     uint64 `json:"currentAmount"`
	LastPrice         uint64 `json:"lastPrice"`
}

// AllocationInput is one entry of the allocation list supplied at portfolio creation.
type AllocationInput struct {
	Asset      string `json:"asset"`
	Percentage uint64 `json:"percentage"`
}

// PortfolioPerformance tracks the performance counters of a portfolio.
//
// TotalReturnPercentage is seeded at creation and never recomputed.
type PortfolioPerformance struct {
	PortfolioID           uint64 `json:"portfolioId"`
	InitialValue          uint64 `json:"initialValue"`
	CurrentValue          uint64 `json:"currentValue"`
	TotalReturnPercentage uint64 `json:"totalReturnPercentage"`
	TotalFeesPaid         uint64 `json:"totalFeesPaid"`
	RebalanceCount        uint64 `json:"rebalanceCount"`
	BestPerformingAsset   string `json:"bestPerformingAsset"`
	WorstPerformingAsset  string `json:"worstPerformingAsset"`
}

// CreatePortfolioInput holds the arguments of a portfolio creation.
type CreatePortfolioInput struct {
	StrategyType   string
	RiskTolerance  uint64
	InitialDeposit uint64
	Allocations    []AllocationInput
}

// PortfolioDetail bundles a portfolio with its performance record and allocations.
type PortfolioDetail struct {
	Portfolio   Portfolio            `json:"portfolio"`
	Performance PortfolioPerformance `json:"performance"`
	Allocations []AssetAllocation    `json:"allocations"`
}
