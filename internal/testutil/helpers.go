package testutil

import (
	"context"
	"database/sql"
	"testing"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// Principals used by every test ledger.
const (
	ContractPrincipal = "ledger.custody"
	OwnerPrincipal    = "ledger.owner"
)

// Principals returns the custody and owner principals of the test ledger.
func Principals() model.Principals {
	return model.Principals{
		Contract: ContractPrincipal,
		Owner:    OwnerPrincipal,
	}
}

// NewTestLedgerService creates a LedgerService over db without logging or metrics.
func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(db, Principals(), zap.NewNop(), nil)
}

// NewTestSystemService creates a SystemService over db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// Fund credits amount of the native asset to principal through the owner faucet.
func Fund(t *testing.T, svc *service.LedgerService, principal string, amount uint64) {
	t.Helper()

	if _, err := svc.FundAccount(context.Background(), OwnerPrincipal, principal, amount); err != nil {
		t.Fatalf("Failed to fund %s: %v", principal, err)
	}
}

// Balance returns the native asset balance of principal.
func Balance(t *testing.T, svc *service.LedgerService, principal string) uint64 {
	t.Helper()

	account, err := svc.GetBalance(context.Background(), principal)
	if err != nil {
		t.Fatalf("Failed to read balance of %s: %v", principal, err)
	}
	return account.Balance
}

// SetHeight moves the block height forward to height.
func SetHeight(t *testing.T, db *sql.DB, height uint64) {
	t.Helper()

	if err := repository.NewChainRepository(db).SetHeight(context.Background(), height); err != nil {
		t.Fatalf("Failed to set block height: %v", err)
	}
}

// ContractState returns the global counters.
func ContractState(t *testing.T, svc *service.LedgerService) model.ContractState {
	t.Helper()

	state, err := svc.GetContractState(context.Background())
	if err != nil {
		t.Fatalf("Failed to read contract state: %v", err)
	}
	return state
}
