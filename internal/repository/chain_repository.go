package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
)

// ChainRepository provides access to the monotonically increasing block height.
type ChainRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewChainRepository creates a new ChainRepository with the provided database connection.
func NewChainRepository(db *sql.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

// WithTx returns a new ChainRepository scoped to the provided transaction.
func (r *ChainRepository) WithTx(tx *sql.Tx) *ChainRepository {
	return &ChainRepository{
		db: r.db,
		tx: tx,
	}
}

// GetHeight returns the current block height.
func (r *ChainRepository) GetHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := pick(r.db, r.tx).QueryRowContext(ctx, `SELECT height FROM chain_state WHERE id = 1`).Scan(&height)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("chain_state row missing: %w", apperrors.ErrDataInconsistency)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query chain_state: %w", err)
	}
	return height, nil
}

// SetHeight moves the block height to height. The height never decreases.
func (r *ChainRepository) SetHeight(ctx context.Context, height uint64) error {
	if height > calc.MaxAmount {
		return apperrors.ErrAmountOverflow
	}

	_, err := pick(r.db, r.tx).ExecContext(ctx,
		`UPDATE chain_state SET height = MAX(height, ?) WHERE id = 1`, amount(height),
	)
	if err != nil {
		return fmt.Errorf("failed to update chain_state: %w", err)
	}
	return nil
}

// Advance increases the block height by n and returns the new height.
func (r *ChainRepository) Advance(ctx context.Context, n uint64) (uint64, error) {
	height, err := r.GetHeight(ctx)
	if err != nil {
		return 0, err
	}

	next, err := calc.AddAmount(height, n)
	if err != nil {
		return 0, err
	}

	if err := r.SetHeight(ctx, next); err != nil {
		return 0, err
	}
	return next, nil
}
