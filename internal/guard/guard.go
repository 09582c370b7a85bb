// Package guard holds the pure precondition checks of the ledger. Each check
// fails with exactly one ledger error kind and never touches state.
package guard

import (
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// NotPaused fails with ErrUnauthorized while the contract is paused.
func NotPaused(state model.ContractState) error {
	if state.ContractPaused {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// IsOwner fails with ErrUnauthorized when caller does not own the portfolio.
func IsOwner(p model.Portfolio, caller string) error {
	if caller != p.Owner {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// IsContractOwner fails with ErrUnauthorized when caller is not the contract owner.
func IsContractOwner(principals model.Principals, caller string) error {
	if caller != principals.Owner {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// RiskInRange fails with ErrInvalidAllocation unless 1 <= r <= 10.
func RiskInRange(r uint64) error {
	if r < model.MinRiskTolerance || r > model.MaxRiskTolerance {
		return apperrors.ErrInvalidAllocation
	}
	return nil
}

// PositiveAmount fails with ErrInsufficientBalance when a is zero.
func PositiveAmount(a uint64) error {
	if a == 0 {
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

// AllocationsSumTo100 fails with ErrInvalidAllocation unless the percentages
// of the list add up to exactly 100. Lists longer than MaxAllocations fail
// with ErrCapacityExceeded.
func AllocationsSumTo100(list []model.AllocationInput) error {
	if len(list) > model.MaxAllocations {
		return apperrors.ErrCapacityExceeded
	}
	var sum uint64
	for _, a := range list {
		// any single entry above 100 already rules out a sum of 100
		if a.Percentage > 100 {
			return apperrors.ErrInvalidAllocation
		}
		sum += a.Percentage
	}
	if sum != 100 {
		return apperrors.ErrInvalidAllocation
	}
	return nil
}

// ValidStrategyType fails with ErrInvalidAllocation when the strategy type is
// blank or longer than MaxStrategyTypeLength.
func ValidStrategyType(s string) error {
	if strings.TrimSpace(s) == "" || len(s) > model.MaxStrategyTypeLength {
		return apperrors.ErrInvalidAllocation
	}
	return nil
}

// DistinctAssets fails with ErrInvalidAsset when a symbol is blank or longer
// than MaxAssetSymbolLength, and when a symbol is listed more than once.
// Allocations are stored per symbol.
func DistinctAssets(list []model.AllocationInput) error {
	seen := make(map[string]struct{}, len(list))
	for _, a := range list {
		if strings.TrimSpace(a.Asset) == "" || len(a.Asset) > model.MaxAssetSymbolLength {
			return apperrors.ErrInvalidAsset
		}
		if _, ok := seen[a.Asset]; ok {
			return apperrors.ErrInvalidAsset
		}
		seen[a.Asset] = struct{}{}
	}
	return nil
}

// IntervalElapsed fails with ErrRebalanceTooFrequent unless
// now - lastHeight >= minInterval. The boundary is inclusive.
func IntervalElapsed(lastHeight, now, minInterval uint64) error {
	if now < lastHeight || now-lastHeight < minInterval {
		return apperrors.ErrRebalanceTooFrequent
	}
	return nil
}

// SufficientFunds fails with ErrInsufficientBalance when amount exceeds totalValue.
func SufficientFunds(amount, totalValue uint64) error {
	if amount > totalValue {
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

// IndexHasCapacity fails with ErrCapacityExceeded when the owner's portfolio
// index is already full.
func IndexHasCapacity(ids []uint64) error {
	if len(ids) >= model.MaxPortfoliosPerUser {
		return apperrors.ErrCapacityExceeded
	}
	return nil
}
