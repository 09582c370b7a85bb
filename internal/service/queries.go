package service

import (
	"context"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// GetPortfolio retrieves a portfolio by ID.
func (s *LedgerService) GetPortfolio(ctx context.Context, id uint64) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolio(ctx, id)
}

// GetPerformance retrieves the performance record of a portfolio.
func (s *LedgerService) GetPerformance(ctx context.Context, id uint64) (model.PortfolioPerformance, error) {
	var perf model.PortfolioPerformance

	err := s.view(ctx, func(t *ledgerTx) error {
		if _, err := t.portfolios.GetPortfolio(t.ctx, id); err != nil {
			return err
		}
		var err error
		perf, err = t.performance.GetPerformance(t.ctx, id)
		return err
	})
	if err != nil {
		return model.PortfolioPerformance{}, err
	}

	return perf, nil
}

// GetAllocations retrieves the asset allocations of a portfolio.
func (s *LedgerService) GetAllocations(ctx context.Context, id uint64) ([]model.AssetAllocation, error) {
	var allocations []model.AssetAllocation

	err := s.view(ctx, func(t *ledgerTx) error {
		if _, err := t.portfolios.GetPortfolio(t.ctx, id); err != nil {
			return err
		}
		var err error
		allocations, err = t.allocations.GetAllocations(t.ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// GetAllocation retrieves the allocation of one asset within a portfolio.
func (s *LedgerService) GetAllocation(ctx context.Context, id uint64, symbol string) (model.AssetAllocation, error) {
	return s.allocationRepo.GetAllocation(ctx, id, symbol)
}

// GetPortfolioDetail retrieves a portfolio together with its performance
// record and allocations, all read from the same committed state.
func (s *LedgerService) GetPortfolioDetail(ctx context.Context, id uint64) (model.PortfolioDetail, error) {
	var detail model.PortfolioDetail

	err := s.view(ctx, func(t *ledgerTx) error {
		p, err := t.portfolios.GetPortfolio(t.ctx, id)
		if err != nil {
			return err
		}

		perf, err := t.performance.GetPerformance(t.ctx, id)
		if err != nil {
			return err
		}

		allocations, err := t.allocations.GetAllocations(t.ctx, id)
		if err != nil {
			return err
		}

		detail = model.PortfolioDetail{
			Portfolio:   p,
			Performance: perf,
			Allocations: allocations,
		}
		return nil
	})
	if err != nil {
		return model.PortfolioDetail{}, err
	}

	return detail, nil
}

// GetUserPortfolioIDs returns the IDs in owner's portfolio index, in creation order.
func (s *LedgerService) GetUserPortfolioIDs(ctx context.Context, owner string) ([]uint64, error) {
	return s.indexRepo.GetPortfolioIDs(ctx, owner)
}

// GetUserPortfolios returns the portfolios in owner's index, in creation order.
func (s *LedgerService) GetUserPortfolios(ctx context.Context, owner string) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio

	err := s.view(ctx, func(t *ledgerTx) error {
		ids, err := t.index.GetPortfolioIDs(t.ctx, owner)
		if err != nil {
			return err
		}

		portfolios = make([]model.Portfolio, 0, len(ids))
		for _, id := range ids {
			p, err := t.portfolios.GetPortfolio(t.ctx, id)
			if err != nil {
				return err
			}
			portfolios = append(portfolios, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return portfolios, nil
}

// GetContractState returns the global counters and flags.
func (s *LedgerService) GetContractState(ctx context.Context) (model.ContractState, error) {
	return s.contractRepo.GetContractState(ctx)
}

// GetContractStats returns the global counters with the current height and principals.
func (s *LedgerService) GetContractStats(ctx context.Context) (model.ContractStats, error) {
	stats := model.ContractStats{
		ContractPrincipal: s.principals.Contract,
		OwnerPrincipal:    s.principals.Owner,
	}

	err := s.view(ctx, func(t *ledgerTx) error {
		var err error
		if stats.ContractState, err = t.contract.GetContractState(t.ctx); err != nil {
			return err
		}
		stats.BlockHeight, err = t.chain.GetHeight(t.ctx)
		return err
	})
	if err != nil {
		return model.ContractStats{}, err
	}

	return stats, nil
}

// GetEvents returns the events of a portfolio in emission order. A limit of 0
// returns all of them.
func (s *LedgerService) GetEvents(ctx context.Context, portfolioID uint64, limit int) ([]model.LedgerEvent, error) {
	var events []model.LedgerEvent

	err := s.view(ctx, func(t *ledgerTx) error {
		if _, err := t.portfolios.GetPortfolio(t.ctx, portfolioID); err != nil {
			return err
		}
		var err error
		events, err = t.eventRepo.GetEvents(t.ctx, portfolioID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// GetBalance returns the native asset balance of principal.
func (s *LedgerService) GetBalance(ctx context.Context, principal string) (model.Account, error) {
	balance, err := s.accountRepo.GetBalance(ctx, principal)
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{Principal: principal, Balance: balance}, nil
}

// CalculateRebalanceFee returns the fee a rebalance of the portfolio would
// charge at the current fee rate.
func (s *LedgerService) CalculateRebalanceFee(ctx context.Context, portfolioID uint64) (uint64, error) {
	var fee uint64

	err := s.view(ctx, func(t *ledgerTx) error {
		p, err := t.portfolios.GetPortfolio(t.ctx, portfolioID)
		if err != nil {
			return err
		}

		state, err := t.contract.GetContractState(t.ctx)
		if err != nil {
			return err
		}

		fee, err = calc.RebalanceFee(p.TotalValue, state.RebalanceFeePercentage)
		return err
	})
	if err != nil {
		return 0, err
	}

	return fee, nil
}
