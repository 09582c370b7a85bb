package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *service.LedgerService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	return NewPortfolioHandler(svc), svc
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	validBody := map[string]any{
		"strategyType":   "balanced",
		"riskTolerance":  5,
		"initialDeposit": 100000,
		"allocations": []map[string]any{
			{"asset": "BTC", "percentage": 60},
			{"asset": "ETH", "percentage": 40},
		},
	}

	t.Run("creates portfolio and returns 201", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.Fund(t, svc, "alice", 100000)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio", validBody, nil), "alice")
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[CreatePortfolioResponse](t, w)
		if resp.PortfolioID != 1 {
			t.Errorf("Expected portfolio ID 1, got %d", resp.PortfolioID)
		}
	})

	t.Run("returns 400 with code u102 for bad allocation sum", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.Fund(t, svc, "alice", 100000)

		body := map[string]any{
			"strategyType":   "balanced",
			"riskTolerance":  5,
			"initialDeposit": 100000,
			"allocations":    []map[string]any{{"asset": "BTC", "percentage": 99}},
		}
		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio", body, nil), "alice")
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if resp.Code != "u102" {
			t.Errorf("Expected code u102, got %q", resp.Code)
		}
	})

	t.Run("returns 400 for duplicate assets", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		body := map[string]any{
			"strategyType":   "balanced",
			"riskTolerance":  5,
			"initialDeposit": 100,
			"allocations": []map[string]any{
				{"asset": "BTC", "percentage": 50},
				{"asset": "BTC", "percentage": 50},
			},
		}
		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio", body, nil), "alice")
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for malformed body", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio", "{not json", nil), "alice")
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 401 without caller", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio", validBody, nil)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_Portfolio(t *testing.T) {
	t.Run("returns portfolio detail", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/1", idParam("1"))
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		detail := testutil.DecodeJSON[model.PortfolioDetail](t, w)
		if detail.Portfolio.Owner != "alice" || len(detail.Allocations) != 2 {
			t.Errorf("Unexpected detail: %+v", detail)
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/9", idParam("9"))
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for invalid ID", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/abc", idParam("abc"))
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_Portfolios(t *testing.T) {
	handler, svc := setupPortfolioHandler(t)
	testutil.CreatePortfolio(t, svc, "alice")
	testutil.CreatePortfolio(t, svc, "bob")

	req := testutil.AsCaller(httptest.NewRequest(http.MethodGet, "/api/portfolio", nil), "bob")
	w := httptest.NewRecorder()

	handler.Portfolios(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	portfolios := testutil.DecodeJSON[[]model.Portfolio](t, w)
	if len(portfolios) != 1 || portfolios[0].ID != 2 {
		t.Errorf("Expected bob's portfolio 2, got %+v", portfolios)
	}
}

func TestPortfolioHandler_DepositWithdraw(t *testing.T) {
	t.Run("deposits and withdraws", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")
		testutil.Fund(t, svc, "alice", 300)

		dep := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/1/deposit",
			map[string]any{"amount": 300}, idParam("1")), "alice")
		w := httptest.NewRecorder()
		handler.Deposit(w, dep)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected deposit 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[AmountResponse](t, w); resp.Amount != 300 {
			t.Errorf("Expected amount 300, got %d", resp.Amount)
		}

		wd := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/1/withdraw",
			map[string]any{"amount": 100}, idParam("1")), "alice")
		w = httptest.NewRecorder()
		handler.Withdraw(w, wd)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected withdraw 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.Balance(t, svc, "alice"); got != 100 {
			t.Errorf("Expected alice's balance 100, got %d", got)
		}
	})

	t.Run("returns 403 with code u100 for non-owner", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/1/withdraw",
			map[string]any{"amount": 100}, idParam("1")), "mallory")
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[response.ErrorResponse](t, w); resp.Code != "u100" {
			t.Errorf("Expected code u100, got %q", resp.Code)
		}
	})

	t.Run("returns 400 with code u101 for zero deposit", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/1/deposit",
			map[string]any{"amount": 0}, idParam("1")), "alice")
		w := httptest.NewRecorder()

		handler.Deposit(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[response.ErrorResponse](t, w); resp.Code != "u101" {
			t.Errorf("Expected code u101, got %q", resp.Code)
		}
	})
}

func TestPortfolioHandler_Rebalance(t *testing.T) {
	t.Run("returns 409 before the interval", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.AsCaller(testutil.NewRequestWithURLParams(http.MethodPost, "/api/portfolio/1/rebalance", idParam("1")), "alice")
		w := httptest.NewRecorder()

		handler.Rebalance(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rebalances after the interval", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")
		if _, err := svc.AdvanceHeight(t.Context(), testutil.OwnerPrincipal, model.RebalanceInterval); err != nil {
			t.Fatalf("AdvanceHeight() returned unexpected error: %v", err)
		}

		req := testutil.AsCaller(testutil.NewRequestWithURLParams(http.MethodPost, "/api/portfolio/1/rebalance", idParam("1")), "alice")
		w := httptest.NewRecorder()

		handler.Rebalance(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[RebalanceResponse](t, w); !resp.Rebalanced {
			t.Error("Expected rebalanced true")
		}
	})
}

func TestPortfolioHandler_AutoRebalance(t *testing.T) {
	t.Run("toggles the flag", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPut, "/api/portfolio/1/auto-rebalance",
			map[string]any{"enabled": false}, idParam("1")), "alice")
		w := httptest.NewRecorder()

		handler.AutoRebalance(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		p, _ := svc.GetPortfolio(t.Context(), 1)
		if p.AutoRebalanceEnabled {
			t.Error("Expected auto rebalance disabled")
		}
	})

	t.Run("returns 400 when enabled is missing", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPut, "/api/portfolio/1/auto-rebalance",
			map[string]any{}, idParam("1")), "alice")
		w := httptest.NewRecorder()

		handler.AutoRebalance(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_FeeAndEvents(t *testing.T) {
	t.Run("returns projected fee", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.NewPortfolio().WithDeposit(1000000).Build(t, svc)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/1/fee", idParam("1"))
		w := httptest.NewRecorder()

		handler.Fee(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[FeeResponse](t, w); resp.Fee != 5000 {
			t.Errorf("Expected fee 5000, got %d", resp.Fee)
		}
	})

	t.Run("returns events with limit", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/1/events?limit=5", idParam("1"))
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		events := testutil.DecodeJSON[[]model.LedgerEvent](t, w)
		if len(events) != 1 || events[0].Kind != model.EventPortfolioCreated {
			t.Errorf("Expected the creation event, got %+v", events)
		}
	})

	t.Run("returns 400 for invalid limit", func(t *testing.T) {
		handler, svc := setupPortfolioHandler(t)
		testutil.CreatePortfolio(t, svc, "alice")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/1/events?limit=0", idParam("1"))
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_Analytics(t *testing.T) {
	handler, svc := setupPortfolioHandler(t)
	testutil.CreatePortfolio(t, svc, "alice")

	req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/1/analytics",
		map[string]any{"includeStressTest": true}, idParam("1")), "alice")
	w := httptest.NewRecorder()

	handler.Analytics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	report := testutil.DecodeJSON[model.AnalyticsReport](t, w)
	if !report.Stress.Enabled || report.Risk.Enabled {
		t.Errorf("Expected only the stress test block, got %+v", report)
	}
}
