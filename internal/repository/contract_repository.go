package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// ContractRepository provides data access methods for the single-row
// contract_state table holding the global counters and flags.
type ContractRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewContractRepository creates a new ContractRepository with the provided database connection.
func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// WithTx returns a new ContractRepository scoped to the provided transaction.
func (r *ContractRepository) WithTx(tx *sql.Tx) *ContractRepository {
	return &ContractRepository{
		db: r.db,
		tx: tx,
	}
}

// GetContractState retrieves the global counters and flags.
// The row is seeded by the schema migration; a missing row is a data inconsistency.
func (r *ContractRepository) GetContractState(ctx context.Context) (model.ContractState, error) {
	query := `
		SELECT next_portfolio_id, total_managed_assets, contract_paused, rebalance_fee_percentage
		FROM contract_state
		WHERE id = 1
	`

	var s model.ContractState
	err := pick(r.db, r.tx).QueryRowContext(ctx, query).Scan(
		&s.NextPortfolioID,
		&s.TotalManagedAssets,
		&s.ContractPaused,
		&s.RebalanceFeePercentage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContractState{}, fmt.Errorf("contract_state row missing: %w", apperrors.ErrDataInconsistency)
	}
	if err != nil {
		return model.ContractState{}, fmt.Errorf("failed to query contract_state: %w", err)
	}

	return s, nil
}

// UpdateContractState writes all global counters and flags.
func (r *ContractRepository) UpdateContractState(ctx context.Context, s model.ContractState) error {
	query := `
		UPDATE contract_state
		SET next_portfolio_id = ?, total_managed_assets = ?, contract_paused = ?, rebalance_fee_percentage = ?
		WHERE id = 1
	`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(s.NextPortfolioID),
		amount(s.TotalManagedAssets),
		s.ContractPaused,
		amount(s.RebalanceFeePercentage),
	)
	if err != nil {
		return fmt.Errorf("failed to update contract_state: %w", err)
	}

	return nil
}
