package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/guard"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// ChainService is the ledger's block clock. The height only moves forward and
// every move is serialized with the ledger operations.
type ChainService struct {
	ledger *LedgerService
}

// NewChainService creates a ChainService driving the height read by ledger.
func NewChainService(ledger *LedgerService) *ChainService {
	return &ChainService{ledger: ledger}
}

// Height returns the current block height.
func (c *ChainService) Height(ctx context.Context) (uint64, error) {
	return c.ledger.chainRepo.GetHeight(ctx)
}

// Tick advances the height by one block.
func (c *ChainService) Tick(ctx context.Context) (uint64, error) {
	return c.ledger.advanceHeight(ctx, c.ledger.principals.Contract, 1)
}

// AdvanceHeight advances the height by blocks on behalf of the contract owner.
func (s *LedgerService) AdvanceHeight(ctx context.Context, caller string, blocks uint64) (uint64, error) {
	if err := guard.IsContractOwner(s.principals, caller); err != nil {
		return 0, err
	}
	return s.advanceHeight(ctx, caller, blocks)
}

func (s *LedgerService) advanceHeight(ctx context.Context, caller string, blocks uint64) (uint64, error) {
	var height uint64

	err := s.run(ctx, OpAdvanceHeight, caller, func(t *ledgerTx) error {
		var err error
		height, err = t.chain.Advance(t.ctx, blocks)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.metrics.SetChainHeight(height)
	return height, nil
}

// RunAutoRebalance rebalances every portfolio that has auto rebalance enabled
// and whose interval has elapsed. Each portfolio is rebalanced in its own
// operation on behalf of its owner; a failure is logged and the sweep moves
// on. Returns the number of portfolios rebalanced.
func (s *LedgerService) RunAutoRebalance(ctx context.Context) (int, error) {
	height, err := s.chainRepo.GetHeight(ctx)
	if err != nil {
		return 0, err
	}
	if height < model.RebalanceInterval {
		return 0, nil
	}

	state, err := s.contractRepo.GetContractState(ctx)
	if err != nil {
		return 0, err
	}
	if guard.NotPaused(state) != nil {
		s.log.Info("auto rebalance skipped, contract paused")
		return 0, nil
	}

	maxLast, err := calc.SubAmount(height, model.RebalanceInterval)
	if err != nil {
		return 0, err
	}

	candidates, err := s.portfolioRepo.GetRebalanceCandidates(ctx, maxLast)
	if err != nil {
		return 0, err
	}

	rebalanced := 0
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return rebalanced, err
		}

		err := s.run(ctx, OpAutoRebalance, p.Owner, func(t *ledgerTx) error {
			return s.rebalance(t, p.ID, true)
		})
		if err != nil {
			s.log.Warn("auto rebalance failed",
				zap.Uint64("portfolio_id", p.ID),
				zap.String("owner", p.Owner),
				zap.Error(err),
			)
			continue
		}
		rebalanced++
	}

	return rebalanced, nil
}
