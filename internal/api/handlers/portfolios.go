package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// maxEventLimit bounds the number of events returned by one request.
const maxEventLimit = 1000

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	ledger *service.LedgerService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledger *service.LedgerService) *PortfolioHandler {
	return &PortfolioHandler{
		ledger: ledger,
	}
}

// CreatePortfolioResponse is returned when a portfolio is created
type CreatePortfolioResponse struct {
	PortfolioID uint64 `json:"portfolioId"`
}

// AmountResponse is returned by deposits and withdrawals
type AmountResponse struct {
	PortfolioID uint64 `json:"portfolioId"`
	Amount      uint64 `json:"amount"`
}

// RebalanceResponse is returned by a rebalance
type RebalanceResponse struct {
	PortfolioID uint64 `json:"portfolioId"`
	Rebalanced  bool   `json:"rebalanced"`
}

// AutoRebalanceResponse is returned when auto rebalance is toggled
type AutoRebalanceResponse struct {
	PortfolioID          uint64 `json:"portfolioId"`
	AutoRebalanceEnabled bool   `json:"autoRebalanceEnabled"`
}

// FeeResponse is the projected fee of a rebalance
type FeeResponse struct {
	PortfolioID uint64 `json:"portfolioId"`
	Fee         uint64 `json:"fee"`
}

// Portfolios handles GET requests for the caller's portfolios, in creation order.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with []Portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	portfolios, err := h.ledger.GetUserPortfolios(r.Context(), caller)
	if err != nil {
		respondServiceError(w, "failed to retrieve portfolios", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio handles POST requests to open a portfolio for the caller.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (strategyType, riskTolerance, initialDeposit, allocations)
// Response: 201 Created with CreatePortfolioResponse
// Error: 400 Bad Request if validation fails or a ledger precondition fails
// Error: 403 Forbidden if the contract is paused
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	allocations := make([]model.AllocationInput, len(req.Allocations))
	for i, a := range req.Allocations {
		allocations[i] = model.AllocationInput{Asset: a.Asset, Percentage: a.Percentage}
	}

	id, err := h.ledger.CreatePortfolio(r.Context(), caller, model.CreatePortfolioInput{
		StrategyType:   req.StrategyType,
		RiskTolerance:  req.RiskTolerance,
		InitialDeposit: req.InitialDeposit,
		Allocations:    allocations,
	})
	if err != nil {
		respondServiceError(w, "failed to create portfolio", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, CreatePortfolioResponse{PortfolioID: id})
}

// Portfolio handles GET requests for one portfolio with its performance and allocations.
//
// Endpoint: GET /api/portfolio/{id}
// Response: 200 OK with PortfolioDetail
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	detail, err := h.ledger.GetPortfolioDetail(r.Context(), id)
	if err != nil {
		respondServiceError(w, "failed to retrieve portfolio", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// Deposit handles POST requests to add value to a portfolio.
//
// Endpoint: POST /api/portfolio/{id}/deposit
// Request Body: AmountRequest
// Response: 200 OK with AmountResponse
func (h *PortfolioHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.moveAmount(w, r, "failed to deposit", h.ledger.DepositToPortfolio)
}

// Withdraw handles POST requests to take value out of a portfolio.
//
// Endpoint: POST /api/portfolio/{id}/withdraw
// Request Body: AmountRequest
// Response: 200 OK with AmountResponse
func (h *PortfolioHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.moveAmount(w, r, "failed to withdraw", h.ledger.WithdrawFromPortfolio)
}

type amountOperation func(ctx context.Context, caller string, portfolioID, amount uint64) (uint64, error)

func (h *PortfolioHandler) moveAmount(w http.ResponseWriter, r *http.Request, message string, op amountOperation) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AmountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAmount(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	amount, err := op(r.Context(), caller, id, req.Amount)
	if err != nil {
		respondServiceError(w, message, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, AmountResponse{PortfolioID: id, Amount: amount})
}

// Rebalance handles POST requests to rebalance a portfolio.
//
// Endpoint: POST /api/portfolio/{id}/rebalance
// Response: 200 OK with RebalanceResponse
// Error: 409 Conflict if the rebalance interval has not elapsed
func (h *PortfolioHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	rebalanced, err := h.ledger.TriggerRebalance(r.Context(), caller, id)
	if err != nil {
		respondServiceError(w, "failed to rebalance portfolio", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, RebalanceResponse{PortfolioID: id, Rebalanced: rebalanced})
}

// AutoRebalance handles PUT requests to toggle the scheduled rebalance of a portfolio.
//
// Endpoint: PUT /api/portfolio/{id}/auto-rebalance
// Request Body: AutoRebalanceRequest
// Response: 200 OK with AutoRebalanceResponse
func (h *PortfolioHandler) AutoRebalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AutoRebalanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAutoRebalance(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	if err := h.ledger.SetAutoRebalance(r.Context(), caller, id, *req.Enabled); err != nil {
		respondServiceError(w, "failed to update auto rebalance", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, AutoRebalanceResponse{PortfolioID: id, AutoRebalanceEnabled: *req.Enabled})
}

// Fee handles GET requests for the fee a rebalance would charge now.
//
// Endpoint: GET /api/portfolio/{id}/fee
// Response: 200 OK with FeeResponse
func (h *PortfolioHandler) Fee(w http.ResponseWriter, r *http.Request) {
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	fee, err := h.ledger.CalculateRebalanceFee(r.Context(), id)
	if err != nil {
		respondServiceError(w, "failed to calculate rebalance fee", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, FeeResponse{PortfolioID: id, Fee: fee})
}

// Events handles GET requests for the event log of a portfolio.
//
// Endpoint: GET /api/portfolio/{id}/events?limit=N
// Response: 200 OK with []LedgerEvent in emission order
func (h *PortfolioHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxEventLimit {
			response.RespondError(w, http.StatusBadRequest, "invalid limit",
				"limit must be an integer between 1 and "+strconv.Itoa(maxEventLimit))
			return
		}
		limit = n
	}

	events, err := h.ledger.GetEvents(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, "failed to retrieve events", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}

// Analytics handles POST requests for the analytics report of a portfolio.
//
// Endpoint: POST /api/portfolio/{id}/analytics
// Request Body: AnalyticsRequest (five block toggles)
// Response: 200 OK with AnalyticsReport
func (h *PortfolioHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := portfolioIDOrReject(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AnalyticsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.ledger.GenerateAnalytics(r.Context(), caller, id, model.AnalyticsToggles{
		IncludeRiskMetrics:     req.IncludeRiskMetrics,
		IncludeStressTest:      req.IncludeStressTest,
		IncludeOptimization:    req.IncludeOptimization,
		IncludePredictive:      req.IncludePredictive,
		IncludeRecommendations: req.IncludeRecommendations,
	})
	if err != nil {
		respondServiceError(w, "failed to generate analytics", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
