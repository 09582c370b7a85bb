package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// PerformanceRepository provides data access methods for the portfolio_performance table.
type PerformanceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPerformanceRepository creates a new PerformanceRepository with the provided database connection.
func NewPerformanceRepository(db *sql.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// WithTx returns a new PerformanceRepository scoped to the provided transaction.
func (r *PerformanceRepository) WithTx(tx *sql.Tx) *PerformanceRepository {
	return &PerformanceRepository{
		db: r.db,
		tx: tx,
	}
}

// GetPerformance retrieves the performance record of a portfolio.
// Returns ErrPerformanceNotFound if the portfolio has no record.
func (r *PerformanceRepository) GetPerformance(ctx context.Context, portfolioID uint64) (model.PortfolioPerformance, error) {
	query := `
		SELECT portfolio_id, initial_value, current_value, total_return_percentage,
			total_fees_paid, rebalance_count, best_performing_asset, worst_performing_asset
		FROM portfolio_performance
		WHERE portfolio_id = ?
	`

	var p model.PortfolioPerformance
	err := pick(r.db, r.tx).QueryRowContext(ctx, query, amount(portfolioID)).Scan(
		&p.PortfolioID,
		&p.InitialValue,
		&p.CurrentValue,
		&p.TotalReturnPercentage,
		&p.TotalFeesPaid,
		&p.RebalanceCount,
		&p.BestPerformingAsset,
		&p.WorstPerformingAsset,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PortfolioPerformance{}, apperrors.ErrPerformanceNotFound
	}
	if err != nil {
		return model.PortfolioPerformance{}, fmt.Errorf("failed to query portfolio_performance: %w", err)
	}

	return p, nil
}

// InsertPerformance stores the performance record of a new portfolio.
func (r *PerformanceRepository) InsertPerformance(ctx context.Context, p model.PortfolioPerformance) error {
	query := `
		INSERT INTO portfolio_performance (portfolio_id, initial_value, current_value, total_return_percentage,
			total_fees_paid, rebalance_count, best_performing_asset, worst_performing_asset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(p.PortfolioID),
		amount(p.InitialValue),
		amount(p.CurrentValue),
		amount(p.TotalReturnPercentage),
		amount(p.TotalFeesPaid),
		amount(p.RebalanceCount),
		p.BestPerformingAsset,
		p.WorstPerformingAsset,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio_performance: %w", err)
	}

	return nil
}

// UpdatePerformance writes every counter of a performance record.
// Returns ErrPerformanceNotFound if the portfolio has no record.
func (r *PerformanceRepository) UpdatePerformance(ctx context.Context, p model.PortfolioPerformance) error {
	query := `
		UPDATE portfolio_performance
		SET current_value = ?, total_return_percentage = ?, total_fees_paid = ?, rebalance_count = ?,
			best_performing_asset = ?, worst_performing_asset = ?
		WHERE portfolio_id = ?
	`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(p.CurrentValue),
		amount(p.TotalReturnPercentage),
		amount(p.TotalFeesPaid),
		amount(p.RebalanceCount),
		p.BestPerformingAsset,
		p.WorstPerformingAsset,
		amount(p.PortfolioID),
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio_performance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPerformanceNotFound
	}

	return nil
}
