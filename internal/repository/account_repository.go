package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/calc"
)

// AccountRepository provides data access methods for the account table, the
// native asset balance of every principal.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

// GetBalance returns the native asset balance of principal.
// A principal without an account row holds a balance of 0.
func (r *AccountRepository) GetBalance(ctx context.Context, principal string) (uint64, error) {
	var balance uint64
	err := pick(r.db, r.tx).QueryRowContext(ctx,
		`SELECT balance FROM account WHERE principal = ?`, principal,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query account balance: %w", err)
	}

	return balance, nil
}

func (r *AccountRepository) setBalance(ctx context.Context, principal string, balance uint64) error {
	query := `
		INSERT INTO account (principal, balance)
		VALUES (?, ?)
		ON CONFLICT (principal) DO UPDATE SET balance = excluded.balance
	`
	if _, err := pick(r.db, r.tx).ExecContext(ctx, query, principal, amount(balance)); err != nil {
		return fmt.Errorf("failed to set account balance: %w", err)
	}
	return nil
}

// Credit adds amt to the balance of principal and returns the new balance.
func (r *AccountRepository) Credit(ctx context.Context, principal string, amt uint64) (uint64, error) {
	current, err := r.GetBalance(ctx, principal)
	if err != nil {
		return 0, err
	}

	balance, err := calc.AddAmount(current, amt)
	if err != nil {
		return 0, err
	}

	if err := r.setBalance(ctx, principal, balance); err != nil {
		return 0, err
	}

	return balance, nil
}

// Transfer moves amt of the native asset from sender to recipient.
// A zero amount or a sender balance below amt fails with ErrInsufficientBalance
// and leaves both balances untouched.
func (r *AccountRepository) Transfer(ctx context.Context, amt uint64, sender, recipient string) error {
	if amt == 0 {
		return apperrors.ErrInsufficientBalance
	}

	senderBalance, err := r.GetBalance(ctx, sender)
	if err != nil {
		return err
	}
	debited, err := calc.SubAmount(senderBalance, amt)
	if err != nil {
		return err
	}

	if sender == recipient {
		return nil
	}

	recipientBalance, err := r.GetBalance(ctx, recipient)
	if err != nil {
		return err
	}
	credited, err := calc.AddAmount(recipientBalance, amt)
	if err != nil {
		return err
	}

	if err := r.setBalance(ctx, sender, debited); err != nil {
		return err
	}
	return r.setBalance(ctx, recipient, credited)
}
