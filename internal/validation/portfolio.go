package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// ValidateCreatePortfolio checks the shape of a create request. Ledger rules
// (risk range, percentage sum, deposit > 0, capacity) are left to the ledger
// so that they fail with their ledger error codes.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.StrategyType) == "" {
		errors["strategyType"] = "strategyType is required"
	} else if len(req.StrategyType) > model.MaxStrategyTypeLength {
		errors["strategyType"] = fmt.Sprintf("strategyType must be %d characters or less", model.MaxStrategyTypeLength)
	}

	if msg, ok := validAmount(req.InitialDeposit); !ok {
		errors["initialDeposit"] = "initialDeposit " + msg
	}

	seen := make(map[string]bool, len(req.Allocations))
	for i, a := range req.Allocations {
		key := fmt.Sprintf("allocations[%d].asset", i)
		switch {
		case strings.TrimSpace(a.Asset) == "":
			errors[key] = "asset is required"
		case len(a.Asset) > model.MaxAssetSymbolLength:
			errors[key] = fmt.Sprintf("asset must be %d characters or less", model.MaxAssetSymbolLength)
		case seen[a.Asset]:
			errors[key] = fmt.Sprintf("duplicate asset %q", a.Asset)
		}
		seen[a.Asset] = true
	}

	return result(errors)
}

// ValidateAmount checks a deposit or withdrawal amount.
func ValidateAmount(req request.AmountRequest) error {
	errors := make(map[string]string)

	if msg, ok := validAmount(req.Amount); !ok {
		errors["amount"] = "amount " + msg
	}

	return result(errors)
}

// ValidateAutoRebalance checks that the enabled flag is present.
func ValidateAutoRebalance(req request.AutoRebalanceRequest) error {
	errors := make(map[string]string)

	if req.Enabled == nil {
		errors["enabled"] = "enabled is required"
	}

	return result(errors)
}
