// Package emitter builds the immutable audit records of ledger operations and
// the analytics report.
//
// Events are written in the same transaction as the state change they
// describe, then published to the log once that transaction has committed.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// Emitter records ledger events.
type Emitter struct {
	log *zap.Logger
	now func() time.Time
}

// New creates an Emitter that publishes committed events to log.
func New(log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{
		log: log.Named("events"),
		now: time.Now,
	}
}

// Record builds the event, stores it through the tx-scoped repository and
// returns it for publication after commit.
func (e *Emitter) Record(
	ctx context.Context,
	repo *repository.EventRepository,
	kind model.EventKind,
	portfolioID uint64,
	actor string,
	height uint64,
	payload any,
) (model.LedgerEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return model.LedgerEvent{}, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	ev := model.LedgerEvent{
		ID:          uuid.New().String(),
		Kind:        kind,
		PortfolioID: portfolioID,
		Actor:       actor,
		Height:      height,
		Payload:     raw,
		CreatedAt:   e.now().UTC(),
	}

	if err := repo.InsertEvent(ctx, ev); err != nil {
		return model.LedgerEvent{}, err
	}

	return ev, nil
}

// Publish logs committed events. It never fails.
func (e *Emitter) Publish(events ...model.LedgerEvent) {
	for _, ev := range events {
		e.log.Info("ledger event",
			zap.String("id", ev.ID),
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("portfolio_id", ev.PortfolioID),
			zap.String("actor", ev.Actor),
			zap.Uint64("height", ev.Height),
			zap.ByteString("payload", ev.Payload),
		)
	}
}
