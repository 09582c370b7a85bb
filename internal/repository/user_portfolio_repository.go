package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// UserPortfolioRepository provides data access methods for the per-owner
// portfolio index (user_portfolio table). The index is append-only.
type UserPortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserPortfolioRepository creates a new UserPortfolioRepository with the provided database connection.
func NewUserPortfolioRepository(db *sql.DB) *UserPortfolioRepository {
	return &UserPortfolioRepository{db: db}
}

// WithTx returns a new UserPortfolioRepository scoped to the provided transaction.
func (r *UserPortfolioRepository) WithTx(tx *sql.Tx) *UserPortfolioRepository {
	return &UserPortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

// GetPortfolioIDs returns the portfolio IDs owned by owner in creation order.
// Returns an empty slice for an owner without portfolios.
func (r *UserPortfolioRepository) GetPortfolioIDs(ctx context.Context, owner string) ([]uint64, error) {
	query := `
		SELECT portfolio_id
		FROM user_portfolio
		WHERE owner = ?
		ORDER BY position ASC
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query user_portfolio table: %w", err)
	}
	defer rows.Close()

	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user_portfolio table results: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user_portfolio table: %w", err)
	}

	return ids, nil
}

// AppendPortfolioID appends a portfolio ID to the owner's index.
// Returns ErrCapacityExceeded when the owner already holds MaxPortfoliosPerUser entries.
func (r *UserPortfolioRepository) AppendPortfolioID(ctx context.Context, owner string, portfolioID uint64) error {
	q := pick(r.db, r.tx)

	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_portfolio WHERE owner = ?`, owner).Scan(&count); err != nil {
		return fmt.Errorf("failed to count user_portfolio entries: %w", err)
	}
	if count >= model.MaxPortfoliosPerUser {
		return apperrors.ErrCapacityExceeded
	}

	query := `
		INSERT INTO user_portfolio (owner, position, portfolio_id)
		VALUES (?, ?, ?)
	`
	if _, err := q.ExecContext(ctx, query, owner, count, amount(portfolioID)); err != nil {
		return fmt.Errorf("failed to insert user_portfolio: %w", err)
	}

	return nil
}
