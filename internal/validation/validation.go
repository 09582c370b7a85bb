package validation

import (
	"fmt"
	"strconv"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
)

// ParsePortfolioID parses a portfolio ID path parameter. IDs are positive
// integers within the storable range.
func ParsePortfolioID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > calc.MaxAmount {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidPortfolioID, raw)
	}
	return id, nil
}

// validAmount reports a message for amounts the ledger cannot store.
func validAmount(v uint64) (string, bool) {
	if v > calc.MaxAmount {
		return fmt.Sprintf("must be at most %d", calc.MaxAmount), false
	}
	return "", true
}
