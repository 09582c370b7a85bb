package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// AdminHandler handles owner-only administrative requests. Ownership is
// enforced by the ledger, which answers 403 for any other caller.
type AdminHandler struct {
	ledger *service.LedgerService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(ledger *service.LedgerService) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
	}
}

// PauseResponse reports the pause flag after an update
type PauseResponse struct {
	Paused bool `json:"paused"`
}

// FeeUpdateResponse reports the rebalance fee after an update
type FeeUpdateResponse struct {
	Fee uint64 `json:"fee"`
}

// HeightResponse reports the block height after an advance
type HeightResponse struct {
	Height uint64 `json:"height"`
}

// Pause handles PUT requests to set the contract pause flag.
//
// Endpoint: PUT /api/admin/pause
// Request Body: PauseRequest
// Response: 200 OK with PauseResponse
func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.PauseRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidatePause(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	if err := h.ledger.SetPaused(r.Context(), caller, *req.Paused); err != nil {
		respondServiceError(w, "failed to update pause flag", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, PauseResponse{Paused: *req.Paused})
}

// Fee handles PUT requests to set the rebalance fee.
//
// Endpoint: PUT /api/admin/fee
// Request Body: FeeRequest (fee in hundred-thousandths, 500 = 0.5%)
// Response: 200 OK with FeeUpdateResponse
func (h *AdminHandler) Fee(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.FeeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateFee(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	if err := h.ledger.SetRebalanceFee(r.Context(), caller, *req.Fee); err != nil {
		respondServiceError(w, "failed to update rebalance fee", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, FeeUpdateResponse{Fee: *req.Fee})
}

// Fund handles POST requests crediting native units to an account.
//
// Endpoint: POST /api/admin/fund
// Request Body: FundRequest
// Response: 200 OK with Account
func (h *AdminHandler) Fund(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.FundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateFund(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	balance, err := h.ledger.FundAccount(r.Context(), caller, req.Principal, req.Amount)
	if err != nil {
		respondServiceError(w, "failed to fund account", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{
		"principal": req.Principal,
		"balance":   balance,
	})
}

// Advance handles POST requests moving the block height forward.
//
// Endpoint: POST /api/admin/blocks
// Request Body: AdvanceRequest
// Response: 200 OK with HeightResponse
func (h *AdminHandler) Advance(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AdvanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateAdvance(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	height, err := h.ledger.AdvanceHeight(r.Context(), caller, req.Blocks)
	if err != nil {
		respondServiceError(w, "failed to advance height", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, HeightResponse{Height: height})
}
