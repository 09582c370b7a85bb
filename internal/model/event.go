package model

import (
	"encoding/json"
	"time"
)

// EventKind names a ledger event.
type EventKind string

const (
	EventPortfolioCreated     EventKind = "portfolio-created"
	EventPortfolioDeposit     EventKind = "portfolio-deposit"
	EventPortfolioRebalanced  EventKind = "portfolio-rebalanced"
	EventPortfolioWithdrawal  EventKind = "portfolio-withdrawal"
	EventAutoRebalanceUpdated EventKind = "auto-rebalance-updated"
	EventAnalyticsGenerated   EventKind = "analytics-generated"
	EventContractPaused       EventKind = "contract-paused"
	EventFeeUpdated           EventKind = "fee-updated"
	EventAccountFunded        EventKind = "account-funded"
)

// LedgerEvent is an immutable audit record produced by a ledger operation.
// PortfolioID is zero for contract-level events.
type LedgerEvent struct {
	ID          string          `json:"id"`
	Kind        EventKind       `json:"kind"`
	PortfolioID uint64          `json:"portfolioId,omitempty"`
	Actor       string          `json:"actor"`
	Height      uint64          `json:"height"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
}
