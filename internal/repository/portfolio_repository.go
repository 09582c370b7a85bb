package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

const portfolioColumns = `id, owner, strategy_type, risk_tolerance, total_value,
	last_rebalance_height, auto_rebalance_enabled, creation_height`

func scanPortfolio(row interface{ Scan(dest ...any) error }) (model.Portfolio, error) {
	var p model.Portfolio
	err := row.Scan(
		&p.ID,
		&p.Owner,
		&p.StrategyType,
		&p.RiskTolerance,
		&p.TotalValue,
		&p.LastRebalanceHeight,
		&p.AutoRebalanceEnabled,
		&p.CreationHeight,
	)
	return p, err
}

// GetPortfolio retrieves a single portfolio by its ID.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, id uint64) (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio WHERE id = ?`

	p, err := scanPortfolio(pick(r.db, r.tx).QueryRowContext(ctx, query, amount(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// InsertPortfolio stores a new portfolio. The ID is assigned by the caller
// from the contract's id counter.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
		INSERT INTO portfolio (` + portfolioColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(p.ID),
		p.Owner,
		p.StrategyType,
		amount(p.RiskTolerance),
		amount(p.TotalValue),
		amount(p.LastRebalanceHeight),
		p.AutoRebalanceEnabled,
		amount(p.CreationHeight),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolio writes the mutable fields of a portfolio.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) UpdatePortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
		UPDATE portfolio
		SET total_value = ?, last_rebalance_height = ?, auto_rebalance_enabled = ?
		WHERE id = ?
	`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query,
		amount(p.TotalValue),
		amount(p.LastRebalanceHeight),
		p.AutoRebalanceEnabled,
		amount(p.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}

// GetRebalanceCandidates returns portfolios with auto rebalance enabled whose
// last rebalance happened at or before maxLastHeight, ordered by ID.
func (r *PortfolioRepository) GetRebalanceCandidates(ctx context.Context, maxLastHeight uint64) ([]model.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolio
		WHERE auto_rebalance_enabled = ? AND last_rebalance_height <= ?
		ORDER BY id ASC
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, true, amount(maxLastHeight))
	if err != nil {
		return nil, fmt.Errorf("failed to query rebalance candidates: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}
