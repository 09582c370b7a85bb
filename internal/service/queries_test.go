package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// TestLedgerService_Queries tests the read-only views of the ledger.
//
// WHY: Reads must report exactly what the operations wrote and fail cleanly
// for unknown portfolios.
func TestLedgerService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("returns portfolio detail", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		id := testutil.CreatePortfolio(t, svc, "alice")

		// Execute
		detail, err := svc.GetPortfolioDetail(ctx, id)

		// Assert
		if err != nil {
			t.Fatalf("GetPortfolioDetail() returned unexpected error: %v", err)
		}
		if detail.Portfolio.ID != id || detail.Performance.PortfolioID != id || len(detail.Allocations) != 2 {
			t.Errorf("Unexpected detail: %+v", detail)
		}
	})

	t.Run("returns not found for unknown portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)

		// Execute
		_, detailErr := svc.GetPortfolioDetail(ctx, 7)
		_, perfErr := svc.GetPerformance(ctx, 7)
		_, eventsErr := svc.GetEvents(ctx, 7, 0)

		// Assert
		for name, err := range map[string]error{"detail": detailErr, "performance": perfErr, "events": eventsErr} {
			if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
				t.Errorf("%s: expected ErrPortfolioNotFound, got %v", name, err)
			}
		}
	})

	t.Run("returns allocation not found for unknown asset", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		id := testutil.CreatePortfolio(t, svc, "alice")

		// Execute
		_, err := svc.GetAllocation(ctx, id, "DOGE")

		// Assert
		if !errors.Is(err, apperrors.ErrAllocationNotFound) {
			t.Errorf("Expected ErrAllocationNotFound, got %v", err)
		}
	})

	t.Run("returns owner portfolios in creation order", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		testutil.CreatePortfolio(t, svc, "alice")
		testutil.CreatePortfolio(t, svc, "bob")
		testutil.CreatePortfolio(t, svc, "alice")

		// Execute
		portfolios, err := svc.GetUserPortfolios(ctx, "alice")

		// Assert
		if err != nil {
			t.Fatalf("GetUserPortfolios() returned unexpected error: %v", err)
		}
		if len(portfolios) != 2 || portfolios[0].ID != 1 || portfolios[1].ID != 3 {
			t.Errorf("Expected alice's portfolios [1 3], got %+v", portfolios)
		}

		none, _ := svc.GetUserPortfolios(ctx, "carol")
		if len(none) != 0 {
			t.Errorf("Expected no portfolios for carol, got %d", len(none))
		}
	})

	t.Run("records events in order", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		id := testutil.CreatePortfolio(t, svc, "alice")
		testutil.Fund(t, svc, "alice", 500)
		if _, err := svc.DepositToPortfolio(ctx, "alice", id, 500); err != nil {
			t.Fatalf("DepositToPortfolio() returned unexpected error: %v", err)
		}

		// Execute
		events, err := svc.GetEvents(ctx, id, 0)

		// Assert
		if err != nil {
			t.Fatalf("GetEvents() returned unexpected error: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(events))
		}
		if events[0].Kind != model.EventPortfolioCreated || events[1].Kind != model.EventPortfolioDeposit {
			t.Errorf("Unexpected event kinds: %s, %s", events[0].Kind, events[1].Kind)
		}

		var payload struct {
			Amount        uint64 `json:"amount"`
			NewTotalValue uint64 `json:"newTotalValue"`
		}
		if err := json.Unmarshal(events[1].Payload, &payload); err != nil {
			t.Fatalf("Failed to decode deposit payload: %v", err)
		}
		if payload.Amount != 500 || payload.NewTotalValue != 100500 {
			t.Errorf("Unexpected deposit payload: %+v", payload)
		}

		limited, _ := svc.GetEvents(ctx, id, 1)
		if len(limited) != 1 || limited[0].Kind != model.EventPortfolioCreated {
			t.Errorf("Expected the first event only, got %+v", limited)
		}
	})

	t.Run("reports contract stats", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db)
		testutil.CreatePortfolio(t, svc, "alice")
		testutil.SetHeight(t, db, 12)

		// Execute
		stats, err := svc.GetContractStats(ctx)

		// Assert
		if err != nil {
			t.Fatalf("GetContractStats() returned unexpected error: %v", err)
		}
		if stats.NextPortfolioID != 2 || stats.TotalManagedAssets != 100000 || stats.BlockHeight != 12 {
			t.Errorf("Unexpected stats: %+v", stats)
		}
		if stats.ContractPrincipal != testutil.ContractPrincipal || stats.OwnerPrincipal != testutil.OwnerPrincipal {
			t.Errorf("Unexpected principals: %+v", stats)
		}
	})
}

// TestLedgerService_ConsistentReads tests that multi-record reads see one
// committed state while deposits commit concurrently.
//
// WHY: A deposit moves portfolio value and performance current value
// together. A detail read that straddled a commit would report them apart.
func TestLedgerService_ConsistentReads(t *testing.T) {
	ctx := context.Background()

	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	id := testutil.CreatePortfolio(t, svc, "alice")

	const deposits = 300
	testutil.Fund(t, svc, "alice", deposits)

	// Execute
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < deposits; i++ {
			if _, err := svc.DepositToPortfolio(ctx, "alice", id, 1); err != nil {
				t.Errorf("DepositToPortfolio() returned unexpected error: %v", err)
				return
			}
		}
	}()

	var mismatches atomic.Int64
	go func() {
		defer wg.Done()
		for i := 0; i < deposits*2; i++ {
			detail, err := svc.GetPortfolioDetail(ctx, id)
			if err != nil {
				t.Errorf("GetPortfolioDetail() returned unexpected error: %v", err)
				return
			}
			if detail.Portfolio.TotalValue != detail.Performance.CurrentValue {
				mismatches.Add(1)
			}
		}
	}()

	wg.Wait()

	// Assert
	if n := mismatches.Load(); n != 0 {
		t.Errorf("Expected portfolio value and performance value to match on every read, %d reads differed", n)
	}

	detail, err := svc.GetPortfolioDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetPortfolioDetail() returned unexpected error: %v", err)
	}
	if detail.Portfolio.TotalValue != 100000+deposits {
		t.Errorf("Expected total value %d, got %d", 100000+deposits, detail.Portfolio.TotalValue)
	}
}
