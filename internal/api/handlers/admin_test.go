package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func setupLedger(t *testing.T) *service.LedgerService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return testutil.NewTestLedgerService(t, db)
}

func TestAdminHandler(t *testing.T) {
	t.Run("owner pauses the contract", func(t *testing.T) {
		svc := setupLedger(t)
		handler := NewAdminHandler(svc)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPut, "/api/admin/pause",
			map[string]any{"paused": true}, nil), testutil.OwnerPrincipal)
		w := httptest.NewRecorder()

		handler.Pause(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !testutil.ContractState(t, svc).ContractPaused {
			t.Error("Expected contract paused")
		}
	})

	t.Run("returns 403 for non-owner", func(t *testing.T) {
		svc := setupLedger(t)
		handler := NewAdminHandler(svc)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPut, "/api/admin/fee",
			map[string]any{"fee": 100}, nil), "alice")
		w := httptest.NewRecorder()

		handler.Fee(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for out of range fee", func(t *testing.T) {
		svc := setupLedger(t)
		handler := NewAdminHandler(svc)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPut, "/api/admin/fee",
			map[string]any{"fee": model.RebalanceFeeDenominator + 1}, nil), testutil.OwnerPrincipal)
		w := httptest.NewRecorder()

		handler.Fee(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("funds an account", func(t *testing.T) {
		svc := setupLedger(t)
		handler := NewAdminHandler(svc)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/fund",
			map[string]any{"principal": "alice", "amount": 2500}, nil), testutil.OwnerPrincipal)
		w := httptest.NewRecorder()

		handler.Fund(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.Balance(t, svc, "alice"); got != 2500 {
			t.Errorf("Expected balance 2500, got %d", got)
		}
	})

	t.Run("advances the block height", func(t *testing.T) {
		svc := setupLedger(t)
		handler := NewAdminHandler(svc)

		req := testutil.AsCaller(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/blocks",
			map[string]any{"blocks": 10}, nil), testutil.OwnerPrincipal)
		w := httptest.NewRecorder()

		handler.Advance(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp := testutil.DecodeJSON[HeightResponse](t, w); resp.Height != 10 {
			t.Errorf("Expected height 10, got %d", resp.Height)
		}
	})
}

func TestAccountAndContractHandlers(t *testing.T) {
	svc := setupLedger(t)
	testutil.CreatePortfolio(t, svc, "alice")
	testutil.Fund(t, svc, "alice", 42)

	t.Run("returns caller balance", func(t *testing.T) {
		req := testutil.AsCaller(httptest.NewRequest(http.MethodGet, "/api/account/balance", nil), "alice")
		w := httptest.NewRecorder()

		NewAccountHandler(svc).Balance(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if account := testutil.DecodeJSON[model.Account](t, w); account.Balance != 42 {
			t.Errorf("Expected balance 42, got %d", account.Balance)
		}
	})

	t.Run("returns contract stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contract/stats", nil)
		w := httptest.NewRecorder()

		NewContractHandler(svc).Stats(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		stats := testutil.DecodeJSON[model.ContractStats](t, w)
		if stats.NextPortfolioID != 2 || stats.TotalManagedAssets != 100000 {
			t.Errorf("Unexpected stats: %+v", stats)
		}
	})
}
