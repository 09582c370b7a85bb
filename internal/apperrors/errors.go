package apperrors

import "errors"

// Ledger errors are the terminal outcomes of a ledger operation. Every one of
// them aborts the operation and discards its pending writes.
var (
	// ErrUnauthorized indicates that the caller does not own the resource,
	// is not the contract owner, or that the contract is paused.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientBalance indicates a zero amount, an amount larger than
	// the available value, or a transfer that failed for lack of funds.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAllocation indicates a portfolio definition the ledger cannot
	// accept: risk tolerance outside [1,10], a blank or overlong strategy type,
	// or allocation percentages that do not add up to 100.
	ErrInvalidAllocation = errors.New("invalid allocation")

	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrInvalidAsset indicates an asset symbol in an allocation list that is
	// blank or too long, or that appears more than once.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrRebalanceTooFrequent indicates that the rebalance interval has not elapsed.
	ErrRebalanceTooFrequent = errors.New("rebalance too frequent")

	// ErrRiskThresholdExceeded is reserved for risk-limit enforcement. No
	// ledger operation returns it yet.
	ErrRiskThresholdExceeded = errors.New("risk threshold exceeded")

	// ErrCapacityExceeded indicates that a bounded list (the per-user
	// portfolio index or an allocation list) is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// Arithmetic and storage errors.
var (
	// ErrAmountOverflow indicates that an amount does not fit the storable range.
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrAllocationNotFound indicates that no allocation exists for the portfolio/asset pair.
	ErrAllocationNotFound = errors.New("asset allocation not found")

	// ErrPerformanceNotFound indicates that the performance record of a portfolio is missing.
	ErrPerformanceNotFound = errors.New("portfolio performance not found")

	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a portfolio exists but its performance record does not).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrFeeOutOfRange indicates a rebalance fee above RebalanceFeeDenominator (100%).
	ErrFeeOutOfRange = errors.New("rebalance fee out of range")
)

// Request-level errors.
var (
	// ErrInvalidPortfolioID indicates that a portfolio ID path parameter is not a positive integer.
	ErrInvalidPortfolioID = errors.New("invalid portfolio ID")

	// ErrMissingCaller indicates that no authenticated principal is attached to the request.
	ErrMissingCaller = errors.New("missing caller principal")

	// ErrInvalidToken indicates that a bearer token could not be verified.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// codes are the numeric ledger error codes reported to clients.
var codes = []struct {
	err  error
	code uint
}{
	{ErrUnauthorized, 100},
	{ErrInsufficientBalance, 101},
	{ErrInvalidAllocation, 102},
	{ErrPortfolioNotFound, 103},
	{ErrInvalidAsset, 104},
	{ErrRebalanceTooFrequent, 105},
	{ErrRiskThresholdExceeded, 106},
	{ErrCapacityExceeded, 107},
}

// Code returns the numeric ledger error code for err and true, or 0 and false
// when err is not one of the ledger error kinds.
func Code(err error) (uint, bool) {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code, true
		}
	}
	return 0, false
}
