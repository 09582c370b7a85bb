package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// MaxAdvanceBlocks bounds a single height advance.
const MaxAdvanceBlocks = 100000

// ValidatePause checks that the paused flag is present.
func ValidatePause(req request.PauseRequest) error {
	errors := make(map[string]string)

	if req.Paused == nil {
		errors["paused"] = "paused is required"
	}

	return result(errors)
}

// ValidateFee checks the rebalance fee setter.
func ValidateFee(req request.FeeRequest) error {
	errors := make(map[string]string)

	if req.Fee == nil {
		errors["fee"] = "fee is required"
	} else if *req.Fee > model.RebalanceFeeDenominator {
		errors["fee"] = fmt.Sprintf("fee must be at most %d", model.RebalanceFeeDenominator)
	}

	return result(errors)
}

// ValidateFund checks a faucet credit.
func ValidateFund(req request.FundRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Principal) == "" {
		errors["principal"] = "principal is required"
	} else if len(req.Principal) > 128 {
		errors["principal"] = "principal must be 128 characters or less"
	}

	if req.Amount == 0 {
		errors["amount"] = "amount must be positive"
	} else if msg, ok := validAmount(req.Amount); !ok {
		errors["amount"] = "amount " + msg
	}

	return result(errors)
}

// ValidateAdvance checks a height advance.
func ValidateAdvance(req request.AdvanceRequest) error {
	errors := make(map[string]string)

	if req.Blocks == 0 || req.Blocks > MaxAdvanceBlocks {
		errors["blocks"] = fmt.Sprintf("blocks must be between 1 and %d", MaxAdvanceBlocks)
	}

	return result(errors)
}
