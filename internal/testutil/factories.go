package testutil

import (
	"context"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios
// through the ledger. The owner is funded with the deposit before creation.
//
// Example usage:
//
//	// Simple creation with defaults
//	id := testutil.NewPortfolio().Build(t, svc)
//
//	// Customized portfolio
//	id := testutil.NewPortfolio().
//	    WithOwner("alice").
//	    WithDeposit(1_000_000).
//	    WithAllocation("BTC", 100).
//	    Build(t, svc)
type PortfolioBuilder struct {
	Owner          string
	StrategyType   string
	RiskTolerance  uint64
	InitialDeposit uint64
	Allocations    []model.AllocationInput
	SkipFunding    bool

	custom bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults: a balanced
// portfolio of 100000 split 60/40 between BTC and ETH.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		Owner:          "alice",
		StrategyType:   "balanced",
		RiskTolerance:  5,
		InitialDeposit: 100000,
		Allocations: []model.AllocationInput{
			{Asset: "BTC", Percentage: 60},
			{Asset: "ETH", Percentage: 40},
		},
	}
}

// WithOwner sets the creating principal.
func (b *PortfolioBuilder) WithOwner(owner string) *PortfolioBuilder {
	b.Owner = owner
	return b
}

// WithStrategy sets the strategy label.
func (b *PortfolioBuilder) WithStrategy(strategy string) *PortfolioBuilder {
	b.StrategyType = strategy
	return b
}

// WithRisk sets the risk tolerance.
func (b *PortfolioBuilder) WithRisk(risk uint64) *PortfolioBuilder {
	b.RiskTolerance = risk
	return b
}

// WithDeposit sets the initial deposit.
func (b *PortfolioBuilder) WithDeposit(amount uint64) *PortfolioBuilder {
	b.InitialDeposit = amount
	return b
}

// WithAllocation adds an allocation entry. The first call replaces the defaults.
func (b *PortfolioBuilder) WithAllocation(asset string, pct uint64) *PortfolioBuilder {
	if !b.custom {
		b.Allocations = nil
		b.custom = true
	}
	b.Allocations = append(b.Allocations, model.AllocationInput{Asset: asset, Percentage: pct})
	return b
}

// Unfunded skips crediting the owner before creation.
func (b *PortfolioBuilder) Unfunded() *PortfolioBuilder {
	b.SkipFunding = true
	return b
}

// Input returns the creation arguments held by the builder.
func (b *PortfolioBuilder) Input() model.CreatePortfolioInput {
	return model.CreatePortfolioInput{
		StrategyType:   b.StrategyType,
		RiskTolerance:  b.RiskTolerance,
		InitialDeposit: b.InitialDeposit,
		Allocations:    b.Allocations,
	}
}

// Build creates the portfolio and returns its ID.
func (b *PortfolioBuilder) Build(t *testing.T, svc *service.LedgerService) uint64 {
	t.Helper()

	if !b.SkipFunding && b.InitialDeposit > 0 {
		Fund(t, svc, b.Owner, b.InitialDeposit)
	}

	id, err := svc.CreatePortfolio(context.Background(), b.Owner, b.Input())
	if err != nil {
		t.Fatalf("Failed to create portfolio: %v", err)
	}

	return id
}

// CreatePortfolio creates a default portfolio owned by owner.
func CreatePortfolio(t *testing.T, svc *service.LedgerService, owner string) uint64 {
	t.Helper()
	return NewPortfolio().WithOwner(owner).Build(t, svc)
}

// CreatePortfolios creates count default portfolios owned by owner.
func CreatePortfolios(t *testing.T, svc *service.LedgerService, owner string, count int) []uint64 {
	t.Helper()

	ids := make([]uint64, 0, count)
	for range count {
		ids = append(ids, CreatePortfolio(t, svc, owner))
	}
	return ids
}
