package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// ContractHandler handles requests for the global ledger state
type ContractHandler struct {
	ledger *service.LedgerService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(ledger *service.LedgerService) *ContractHandler {
	return &ContractHandler{
		ledger: ledger,
	}
}

// Stats handles GET requests for the global counters and the current height.
//
// Endpoint: GET /api/contract/stats
// Response: 200 OK with ContractStats
func (h *ContractHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.GetContractStats(r.Context())
	if err != nil {
		respondServiceError(w, "failed to retrieve contract stats", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, stats)
}
