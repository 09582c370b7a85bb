package service

import (
	"context"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/emitter"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/guard"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// CreatePortfolio opens a new portfolio for caller funded with in.InitialDeposit.
//
// Preconditions, in order: contract not paused, risk tolerance in [1,10],
// a strategy type of at most 20 characters, non-zero deposit, allocation
// percentages adding up to 100 (at most 10 entries) over distinct symbols of
// at most 10 characters, and fewer than 5 portfolios already owned by caller. The deposit
// moves from caller to custody. Returns the new portfolio ID.
func (s *LedgerService) CreatePortfolio(ctx context.Context, caller string, in model.CreatePortfolioInput) (uint64, error) {
	var id uint64

	err := s.run(ctx, OpCreatePortfolio, caller, func(t *ledgerTx) error {
		if err := guard.NotPaused(t.state); err != nil {
			return err
		}
		if err := guard.RiskInRange(in.RiskTolerance); err != nil {
			return err
		}
		if err := guard.ValidStrategyType(in.StrategyType); err != nil {
			return err
		}
		if err := guard.PositiveAmount(in.InitialDeposit); err != nil {
			return err
		}
		if err := guard.AllocationsSumTo100(in.Allocations); err != nil {
			return err
		}
		if err := guard.DistinctAssets(in.Allocations); err != nil {
			return err
		}

		owned, err := t.index.GetPortfolioIDs(t.ctx, caller)
		if err != nil {
			return err
		}
		if err := guard.IndexHasCapacity(owned); err != nil {
			return err
		}

		managed, err := calc.AddAmount(t.state.TotalManagedAssets, in.InitialDeposit)
		if err != nil {
			return err
		}

		if err := t.accounts.Transfer(t.ctx, in.InitialDeposit, caller, s.principals.Contract); err != nil {
			return err
		}

		id = t.state.NextPortfolioID
		t.state.NextPortfolioID++
		t.state.TotalManagedAssets = managed

		portfolio := model.Portfolio{
			ID:                   id,
			Owner:                caller,
			StrategyType:         in.StrategyType,
			RiskTolerance:        in.RiskTolerance,
			TotalValue:           in.InitialDeposit,
			LastRebalanceHeight:  t.height,
			AutoRebalanceEnabled: true,
			CreationHeight:       t.height,
		}
		if err := t.portfolios.InsertPortfolio(t.ctx, portfolio); err != nil {
			return err
		}

		if err := t.performance.InsertPerformance(t.ctx, model.PortfolioPerformance{
			PortfolioID:          id,
			InitialValue:         in.InitialDeposit,
			CurrentValue:         in.InitialDeposit,
			BestPerformingAsset:  model.NativeAsset,
			WorstPerformingAsset: model.NativeAsset,
		}); err != nil {
			return err
		}

		for _, a := range in.Allocations {
			value, err := calc.AllocationValue(in.InitialDeposit, a.Percentage)
			if err != nil {
				return err
			}
			// current share of the seeded amount, after truncation
			current, err := calc.PercentageOf(value, in.InitialDeposit)
			if err != nil {
				return err
			}
			if err := t.allocations.SetAllocation(t.ctx, model.AssetAllocation{
				PortfolioID:       id,
				AssetSymbol:       a.Asset,
				TargetPercentage:  a.Percentage,
				CurrentPercentage: current,
				CurrentAmount:     value,
			}); err != nil {
				return err
			}
		}

		if err := t.index.AppendPortfolioID(t.ctx, caller, id); err != nil {
			return err
		}

		if err := t.saveState(); err != nil {
			return err
		}

		return t.emit(model.EventPortfolioCreated, id, emitter.PortfolioCreated{
			Owner:          caller,
			StrategyType:   in.StrategyType,
			RiskTolerance:  in.RiskTolerance,
			InitialDeposit: in.InitialDeposit,
			Allocations:    in.Allocations,
		})
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// DepositToPortfolio adds amount to a portfolio owned by caller. The amount
// moves from caller to custody and is added to the portfolio value, the
// performance current value and the managed-assets total. Returns amount.
func (s *LedgerService) DepositToPortfolio(ctx context.Context, caller string, portfolioID, amount uint64) (uint64, error) {
	err := s.run(ctx, OpDeposit, caller, func(t *ledgerTx) error {
		p, err := t.loadOwned(portfolioID)
		if err != nil {
			return err
		}
		if err := guard.NotPaused(t.state); err != nil {
			return err
		}
		if err := guard.PositiveAmount(amount); err != nil {
			return err
		}

		perf, err := t.loadPerformance(portfolioID)
		if err != nil {
			return err
		}

		if p.TotalValue, err = calc.AddAmount(p.TotalValue, amount); err != nil {
			return err
		}
		if perf.CurrentValue, err = calc.AddAmount(perf.CurrentValue, amount); err != nil {
			return err
		}
		if t.state.TotalManagedAssets, err = calc.AddAmount(t.state.TotalManagedAssets, amount); err != nil {
			return err
		}

		if err := t.accounts.Transfer(t.ctx, amount, caller, s.principals.Contract); err != nil {
			return err
		}

		if err := t.portfolios.UpdatePortfolio(t.ctx, p); err != nil {
			return err
		}
		if err := t.performance.UpdatePerformance(t.ctx, perf); err != nil {
			return err
		}
		if err := t.saveState(); err != nil {
			return err
		}

		return t.emit(model.EventPortfolioDeposit, portfolioID, emitter.PortfolioDeposit{
			Amount:        amount,
			NewTotalValue: p.TotalValue,
		})
	})
	if err != nil {
		return 0, err
	}

	return amount, nil
}

// TriggerRebalance charges the rebalance fee of a portfolio owned by caller
// and restarts its rebalance interval. At least RebalanceInterval height-units
// must have passed since the previous rebalance. The fee moves from custody to
// the contract owner; allocations are left untouched.
func (s *LedgerService) TriggerRebalance(ctx context.Context, caller string, portfolioID uint64) (bool, error) {
	err := s.run(ctx, OpRebalance, caller, func(t *ledgerTx) error {
		return s.rebalance(t, portfolioID, false)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LedgerService) rebalance(t *ledgerTx, portfolioID uint64, automatic bool) error {
	p, err := t.loadOwned(portfolioID)
	if err != nil {
		return err
	}
	if err := guard.NotPaused(t.state); err != nil {
		return err
	}
	if err := guard.IntervalElapsed(p.LastRebalanceHeight, t.height, model.RebalanceInterval); err != nil {
		return err
	}

	perf, err := t.loadPerformance(portfolioID)
	if err != nil {
		return err
	}

	fee, err := calc.RebalanceFee(p.TotalValue, t.state.RebalanceFeePercentage)
	if err != nil {
		return err
	}

	if fee > 0 {
		if err := t.accounts.Transfer(t.ctx, fee, s.principals.Contract, s.principals.Owner); err != nil {
			return err
		}
	}

	if p.TotalValue, err = calc.SubAmount(p.TotalValue, fee); err != nil {
		return err
	}
	p.LastRebalanceHeight = t.height

	if perf.TotalFeesPaid, err = calc.AddAmount(perf.TotalFeesPaid, fee); err != nil {
		return err
	}
	perf.RebalanceCount++

	if err := t.portfolios.UpdatePortfolio(t.ctx, p); err != nil {
		return err
	}
	if err := t.performance.UpdatePerformance(t.ctx, perf); err != nil {
		return err
	}

	return t.emit(model.EventPortfolioRebalanced, portfolioID, emitter.PortfolioRebalanced{
		Fee:            fee,
		NewTotalValue:  p.TotalValue,
		RebalanceCount: perf.RebalanceCount,
		Automatic:      automatic,
	})
}

// WithdrawFromPortfolio moves amount from custody back to caller, reducing
// the portfolio value and the managed-assets total. The performance record
// is not updated. A zero amount is rejected by the transfer. Returns amount.
func (s *LedgerService) WithdrawFromPortfolio(ctx context.Context, caller string, portfolioID, amount uint64) (uint64, error) {
	err := s.run(ctx, OpWithdraw, caller, func(t *ledgerTx) error {
		p, err := t.loadOwned(portfolioID)
		if err != nil {
			return err
		}
		if err := guard.NotPaused(t.state); err != nil {
			return err
		}
		if err := guard.SufficientFunds(amount, p.TotalValue); err != nil {
			return err
		}

		if err := t.accounts.Transfer(t.ctx, amount, s.principals.Contract, caller); err != nil {
			return err
		}

		if p.TotalValue, err = calc.SubAmount(p.TotalValue, amount); err != nil {
			return err
		}
		if t.state.TotalManagedAssets, err = calc.SubAmount(t.state.TotalManagedAssets, amount); err != nil {
			return err
		}

		if err := t.portfolios.UpdatePortfolio(t.ctx, p); err != nil {
			return err
		}
		if err := t.saveState(); err != nil {
			return err
		}

		return t.emit(model.EventPortfolioWithdrawal, portfolioID, emitter.PortfolioWithdrawal{
			Amount:        amount,
			NewTotalValue: p.TotalValue,
		})
	})
	if err != nil {
		return 0, err
	}

	return amount, nil
}

// GenerateAnalytics builds the analytics report of a portfolio owned by
// caller. Apart from recording the analytics-generated event it does not
// change any state.
func (s *LedgerService) GenerateAnalytics(ctx context.Context, caller string, portfolioID uint64, toggles model.AnalyticsToggles) (model.AnalyticsReport, error) {
	var report model.AnalyticsReport

	err := s.run(ctx, OpAnalytics, caller, func(t *ledgerTx) error {
		p, err := t.loadOwned(portfolioID)
		if err != nil {
			return err
		}
		if err := guard.NotPaused(t.state); err != nil {
			return err
		}

		perf, err := t.loadPerformance(portfolioID)
		if err != nil {
			return err
		}

		report, err = emitter.BuildAnalyticsReport(p, perf, t.state, toggles, t.height)
		if err != nil {
			return err
		}

		return t.emit(model.EventAnalyticsGenerated, portfolioID, emitter.AnalyticsGenerated{Toggles: toggles})
	})
	if err != nil {
		return model.AnalyticsReport{}, err
	}

	return report, nil
}

// SetAutoRebalance enables or disables the scheduled rebalance of a portfolio
// owned by caller.
func (s *LedgerService) SetAutoRebalance(ctx context.Context, caller string, portfolioID uint64, enabled bool) error {
	return s.run(ctx, OpSetAutoRebalance, caller, func(t *ledgerTx) error {
		p, err := t.loadOwned(portfolioID)
		if err != nil {
			return err
		}
		if err := guard.NotPaused(t.state); err != nil {
			return err
		}

		p.AutoRebalanceEnabled = enabled
		if err := t.portfolios.UpdatePortfolio(t.ctx, p); err != nil {
			return err
		}

		return t.emit(model.EventAutoRebalanceUpdated, portfolioID, emitter.AutoRebalanceUpdated{Enabled: enabled})
	})
}
