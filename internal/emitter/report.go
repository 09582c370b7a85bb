package emitter

import (
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/guard"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Recommendation actions.
const (
	ActionHold      = "hold"
	ActionRebalance = "rebalance"
)

// Placeholder analytics blocks. Values are fixed and carry no computation.
var (
	riskMetrics = model.RiskMetrics{
		Enabled:      true,
		SharpeRatio:  185,
		SortinoRatio: 210,
		Beta:         95,
		ValueAtRisk:  500,
		MaxDrawdown:  1200,
		Volatility:   1800,
	}

	stressTest = model.StressTestResults{
		Enabled:           true,
		MarketCrashImpact: -2500,
		RateShockImpact:   -800,
		LiquidityCrisis:   -1500,
		RecoveryBlocks:    180,
		ResilienceScore:   72,
	}

	optimization = model.OptimizationResults{
		Enabled:              true,
		ExpectedReturn:       1250,
		ExpectedRisk:         1400,
		EfficiencyScore:      88,
		RebalanceThreshold:   500,
		DiversificationScore: 76,
	}

	predictive = model.PredictiveInsights{
		Enabled:         true,
		Projected30d:    320,
		Projected90d:    870,
		Projected365d:   2150,
		ConfidenceScore: 78,
		Trend:           "bullish",
	}
)

// BuildAnalyticsReport assembles the analytics report of a portfolio at height.
// Each block is zeroed unless its toggle is set.
func BuildAnalyticsReport(
	p model.Portfolio,
	perf model.PortfolioPerformance,
	state model.ContractState,
	toggles model.AnalyticsToggles,
	height uint64,
) (model.AnalyticsReport, error) {
	report := model.AnalyticsReport{
		PortfolioID:     p.ID,
		GeneratedHeight: height,
		StrategyType:    p.StrategyType,
		RiskTolerance:   p.RiskTolerance,
		TotalValue:      p.TotalValue,
		InitialValue:    perf.InitialValue,
		CurrentValue:    perf.CurrentValue,
		TotalFeesPaid:   perf.TotalFeesPaid,
		RebalanceCount:  perf.RebalanceCount,
	}

	if toggles.IncludeRiskMetrics {
		report.Risk = riskMetrics
	}
	if toggles.IncludeStressTest {
		report.Stress = stressTest
	}
	if toggles.IncludeOptimization {
		report.Optimization = optimization
	}
	if toggles.IncludePredictive {
		report.Predictive = predictive
	}
	if toggles.IncludeRecommendations {
		rec, err := recommend(p, state, height)
		if err != nil {
			return model.AnalyticsReport{}, err
		}
		report.Recommendations = rec
	}

	return report, nil
}

func recommend(p model.Portfolio, state model.ContractState, height uint64) (model.Recommendations, error) {
	next, err := calc.AddAmount(p.LastRebalanceHeight, model.RebalanceInterval)
	if err != nil {
		return model.Recommendations{}, err
	}

	fee, err := calc.RebalanceFee(p.TotalValue, state.RebalanceFeePercentage)
	if err != nil {
		return model.Recommendations{}, err
	}

	due := guard.IntervalElapsed(p.LastRebalanceHeight, height, model.RebalanceInterval) == nil

	action := ActionHold
	if due {
		action = ActionRebalance
	}

	return model.Recommendations{
		Enabled:             true,
		NextRebalanceHeight: next,
		RebalanceDue:        due,
		ProjectedFee:        fee,
		Action:              action,
	}, nil
}
