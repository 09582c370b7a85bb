package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// EventRepository provides data access methods for the append-only ledger_event table.
type EventRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewEventRepository creates a new EventRepository with the provided database connection.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// WithTx returns a new EventRepository scoped to the provided transaction.
func (r *EventRepository) WithTx(tx *sql.Tx) *EventRepository {
	return &EventRepository{
		db: r.db,
		tx: tx,
	}
}

// InsertEvent appends an event to the log. Sequence numbers increase by one
// per event, so the log preserves emission order.
func (r *EventRepository) InsertEvent(ctx context.Context, e model.LedgerEvent) error {
	query := `
		INSERT INTO ledger_event (id, seq, kind, portfolio_id, actor, height, payload, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM ledger_event), ?, ?, ?, ?, ?, ?)
	`

	var portfolioID sql.NullInt64
	if e.PortfolioID != 0 {
		portfolioID = sql.NullInt64{Int64: amount(e.PortfolioID), Valid: true}
	}

	payload := string(e.Payload)
	if payload == "" {
		payload = "{}"
	}

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		e.ID,
		string(e.Kind),
		portfolioID,
		e.Actor,
		amount(e.Height),
		payload,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger_event: %w", err)
	}

	return nil
}

// GetEvents returns events in emission order. A portfolioID of 0 returns events
// of every portfolio, and a limit of 0 returns all matching events.
func (r *EventRepository) GetEvents(ctx context.Context, portfolioID uint64, limit int) ([]model.LedgerEvent, error) {
	query := `
		SELECT id, kind, portfolio_id, actor, height, payload, created_at
		FROM ledger_event
	`
	args := []any{}
	if portfolioID != 0 {
		query += ` WHERE portfolio_id = ?`
		args = append(args, amount(portfolioID))
	}
	query += ` ORDER BY seq ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_event table: %w", err)
	}
	defer rows.Close()

	events := []model.LedgerEvent{}
	for rows.Next() {
		var (
			e         model.LedgerEvent
			kind      string
			pid       sql.NullInt64
			payload   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &kind, &pid, &e.Actor, &e.Height, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger_event table results: %w", err)
		}

		e.Kind = model.EventKind(kind)
		if pid.Valid {
			e.PortfolioID = uint64(pid.Int64) //nolint:gosec // G115: ids are stored from uint64 values
		}
		e.Payload = []byte(payload)
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ledger_event created_at: %w", err)
		}

		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger_event table: %w", err)
	}

	return events, nil
}
