package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// AccountHandler handles native asset balance requests
type AccountHandler struct {
	ledger *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
	}
}

// Balance handles GET requests for the caller's native asset balance.
//
// Endpoint: GET /api/account/balance
// Response: 200 OK with Account
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.GetBalance(r.Context(), caller)
	if err != nil {
		respondServiceError(w, "failed to retrieve balance", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}
