package service

import (
	"context"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/emitter"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/guard"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Admin operations are reserved for the contract owner and run regardless of
// the pause flag, so a paused contract can always be resumed.

// SetPaused sets the contract pause flag.
func (s *LedgerService) SetPaused(ctx context.Context, caller string, paused bool) error {
	return s.run(ctx, OpSetPaused, caller, func(t *ledgerTx) error {
		if err := guard.IsContractOwner(s.principals, caller); err != nil {
			return err
		}

		t.state.ContractPaused = paused
		if err := t.saveState(); err != nil {
			return err
		}

		return t.emit(model.EventContractPaused, 0, emitter.ContractPaused{Paused: paused})
	})
}

// SetRebalanceFee sets the rebalance fee in hundred-thousandths of the
// portfolio value. The fee cannot exceed RebalanceFeeDenominator.
func (s *LedgerService) SetRebalanceFee(ctx context.Context, caller string, feeBP uint64) error {
	return s.run(ctx, OpSetRebalanceFee, caller, func(t *ledgerTx) error {
		if err := guard.IsContractOwner(s.principals, caller); err != nil {
			return err
		}
		if feeBP > model.RebalanceFeeDenominator {
			return apperrors.ErrFeeOutOfRange
		}

		previous := t.state.RebalanceFeePercentage
		t.state.RebalanceFeePercentage = feeBP
		if err := t.saveState(); err != nil {
			return err
		}

		return t.emit(model.EventFeeUpdated, 0, emitter.FeeUpdated{Previous: previous, Current: feeBP})
	})
}

// FundAccount credits amount of the native asset to principal and returns the
// new balance. It is the development faucet of the ledger.
func (s *LedgerService) FundAccount(ctx context.Context, caller, principal string, amount uint64) (uint64, error) {
	var balance uint64

	err := s.run(ctx, OpFundAccount, caller, func(t *ledgerTx) error {
		if err := guard.IsContractOwner(s.principals, caller); err != nil {
			return err
		}
		if err := guard.PositiveAmount(amount); err != nil {
			return err
		}

		var err error
		if balance, err = t.accounts.Credit(t.ctx, principal, amount); err != nil {
			return err
		}

		return t.emit(model.EventAccountFunded, 0, emitter.AccountFunded{
			Principal: principal,
			Amount:    amount,
			Balance:   balance,
		})
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}
