package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// AllocationRepository provides data access methods for the asset_allocation table.
type AllocationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAllocationRepository creates a new AllocationRepository with the provided database connection.
func NewAllocationRepository(db *sql.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// WithTx returns a new AllocationRepository scoped to the provided transaction.
func (r *AllocationRepository) WithTx(tx *sql.Tx) *AllocationRepository {
	return &AllocationRepository{
		db: r.db,
		tx: tx,
	}
}

// SetAllocation inserts or replaces the allocation keyed by (PortfolioID, AssetSymbol).
func (r *AllocationRepository) SetAllocation(ctx context.Context, a model.AssetAllocation) error {
	query := `
		INSERT INTO asset_allocation
			(portfolio_id, asset_symbol, target_percentage, current_percentage, current_amount, last_price)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, asset_symbol) DO UPDATE SET
			target_percentage = excluded.target_percentage,
			current_percentage = excluded.current_percentage,
			current_amount = excluded.current_amount,
			last_price = excluded.last_price
	`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(a.PortfolioID),
		a.AssetSymbol,
		amount(a.TargetPercentage),
		amount(a.CurrentPercentage),
		amount(a.CurrentAmount),
		amount(a.LastPrice),
	)
	if err != nil {
		return fmt.Errorf("failed to set asset_allocation: %w", err)
	}

	return nil
}

// GetAllocation retrieves the allocation of one asset within a portfolio.
// Returns ErrAllocationNotFound if the pair has no record.
func (r *AllocationRepository) GetAllocation(ctx context.Context, portfolioID uint64, symbol string) (model.AssetAllocation, error) {
	query := `
		SELECT portfolio_id, asset_symbol, target_percentage, current_percentage, current_amount, last_price
		FROM asset_allocation
		WHERE portfolio_id = ? AND asset_symbol = ?
	`

	var a model.AssetAllocation
	err := pick(r.db, r.tx).QueryRowContext(ctx, query, amount(portfolioID), symbol).Scan(
		&a.PortfolioID,
		&a.AssetSymbol,
		&a.TargetPercentage,
		&a.CurrentPercentage,
		&a.CurrentAmount,
		&a.LastPrice,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AssetAllocation{}, apperrors.ErrAllocationNotFound
	}
	if err != nil {
		return model.AssetAllocation{}, fmt.Errorf("failed to query asset_allocation: %w", err)
	}

	return a, nil
}

// GetAllocations retrieves all allocations of a portfolio ordered by asset symbol.
// Returns an empty slice if the portfolio has none.
func (r *AllocationRepository) GetAllocations(ctx context.Context, portfolioID uint64) ([]model.AssetAllocation, error) {
	query := `
		SELECT portfolio_id, asset_symbol, target_percentage, current_percentage, current_amount, last_price
		FROM asset_allocation
		WHERE portfolio_id = ?
		ORDER BY asset_symbol ASC
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, amount(portfolioID))
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_allocation table: %w", err)
	}
	defer rows.Close()

	allocations := []model.AssetAllocation{}
	for rows.Next() {
		var a model.AssetAllocation
		if err := rows.Scan(
			&a.PortfolioID,
			&a.AssetSymbol,
			&a.TargetPercentage,
			&a.CurrentPercentage,
			&a.CurrentAmount,
			&a.LastPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset_allocation table results: %w", err)
		}
		allocations = append(allocations, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_allocation table: %w", err)
	}

	return allocations, nil
}
