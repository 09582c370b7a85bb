// Package calc implements the ledger's fixed-point arithmetic.
//
// All amounts are non-negative integers. Every division truncates toward
// zero; no rounding mode is ever applied, so results match the ledger's
// integer semantics exactly.
package calc

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// MaxAmount is the largest amount the ledger can store.
const MaxAmount uint64 = math.MaxInt64

var (
	hundred        = decimal.NewFromInt(100)
	feeDenominator = decimal.NewFromInt(model.RebalanceFeeDenominator)
)

// AllocationValue returns floor(portfolioValue * percentage / 100).
func AllocationValue(portfolioValue, percentage uint64) (uint64, error) {
	return floorDiv(fromUint(portfolioValue).Mul(fromUint(percentage)), hundred)
}

// PercentageOf returns floor(amount * 100 / total), or 0 when total is 0.
func PercentageOf(amount, total uint64) (uint64, error) {
	if total == 0 {
		return 0, nil
	}
	return floorDiv(fromUint(amount).Mul(hundred), fromUint(total))
}

// RebalanceFee returns floor(portfolioValue * feeBP / 100000), so a feeBP of
// 500 charges 0.5%.
func RebalanceFee(portfolioValue, feeBP uint64) (uint64, error) {
	return floorDiv(fromUint(portfolioValue).Mul(fromUint(feeBP)), feeDenominator)
}

// AddAmount returns a+b, failing with ErrAmountOverflow when the sum exceeds MaxAmount.
func AddAmount(a, b uint64) (uint64, error) {
	if a > MaxAmount || b > MaxAmount-a {
		return 0, apperrors.ErrAmountOverflow
	}
	return a + b, nil
}

// SubAmount returns a-b, failing with ErrInsufficientBalance when b > a.
func SubAmount(a, b uint64) (uint64, error) {
	if b > a {
		return 0, apperrors.ErrInsufficientBalance
	}
	return a - b, nil
}

func fromUint(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// floorDiv divides two non-negative integers, discarding the remainder.
func floorDiv(numerator, denominator decimal.Decimal) (uint64, error) {
	q, _ := numerator.QuoRem(denominator, 0)
	b := q.BigInt()
	if !b.IsUint64() || b.Uint64() > MaxAmount {
		return 0, apperrors.ErrAmountOverflow
	}
	return b.Uint64(), nil
}
