package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/emitter"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/guard"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// Operation names reported to metrics and logs.
const (
	OpCreatePortfolio  = "create_portfolio"
	OpDeposit          = "deposit_to_portfolio"
	OpRebalance        = "trigger_rebalance"
	OpAutoRebalance    = "auto_rebalance"
	OpWithdraw         = "withdraw_from_portfolio"
	OpAnalytics        = "generate_analytics"
	OpSetAutoRebalance = "set_auto_rebalance"
	OpSetPaused        = "set_paused"
	OpSetRebalanceFee  = "set_rebalance_fee"
	OpFundAccount      = "fund_account"
	OpAdvanceHeight    = "advance_height"
)

// LedgerService executes the ledger's state transitions.
//
// Every mutating operation holds the service lock and runs inside a single
// SQL transaction: either all of its writes commit or none do. The block
// height is read once, at the start of the transaction. Queries that read
// more than one record do so in a read-only transaction.
type LedgerService struct {
	mu sync.Mutex

	db              *sql.DB
	portfolioRepo   *repository.PortfolioRepository
	allocationRepo  *repository.AllocationRepository
	performanceRepo *repository.PerformanceRepository
	indexRepo       *repository.UserPortfolioRepository
	contractRepo    *repository.ContractRepository
	accountRepo     *repository.AccountRepository
	eventRepo       *repository.EventRepository
	chainRepo       *repository.ChainRepository

	emitter    *emitter.Emitter
	principals model.Principals
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewLedgerService creates a LedgerService over db. principals names the
// custody account and the contract owner. A nil logger or metrics disables them.
func NewLedgerService(
	db *sql.DB,
	principals model.Principals,
	log *zap.Logger,
	m *metrics.Metrics,
) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{
		db:              db,
		portfolioRepo:   repository.NewPortfolioRepository(db),
		allocationRepo:  repository.NewAllocationRepository(db),
		performanceRepo: repository.NewPerformanceRepository(db),
		indexRepo:       repository.NewUserPortfolioRepository(db),
		contractRepo:    repository.NewContractRepository(db),
		accountRepo:     repository.NewAccountRepository(db),
		eventRepo:       repository.NewEventRepository(db),
		chainRepo:       repository.NewChainRepository(db),
		emitter:         emitter.New(log),
		principals:      principals,
		log:             log.Named("ledger"),
		metrics:         m,
	}
}

// Principals returns the custody and owner principals of the ledger.
func (s *LedgerService) Principals() model.Principals {
	return s.principals
}

// ledgerTx is the view of the store an operation works on. All repositories
// are scoped to the operation's transaction.
type ledgerTx struct {
	ctx    context.Context
	caller string
	height uint64
	state  model.ContractState

	portfolios  *repository.PortfolioRepository
	allocations *repository.AllocationRepository
	performance *repository.PerformanceRepository
	index       *repository.UserPortfolioRepository
	contract    *repository.ContractRepository
	accounts    *repository.AccountRepository
	eventRepo   *repository.EventRepository
	chain       *repository.ChainRepository

	emitter *emitter.Emitter
	events  []model.LedgerEvent
}

// emit records an event in the operation's transaction.
func (t *ledgerTx) emit(kind model.EventKind, portfolioID uint64, payload any) error {
	ev, err := t.emitter.Record(t.ctx, t.eventRepo, kind, portfolioID, t.caller, t.height, payload)
	if err != nil {
		return err
	}
	t.events = append(t.events, ev)
	return nil
}

// saveState writes the global counters back.
func (t *ledgerTx) saveState() error {
	return t.contract.UpdateContractState(t.ctx, t.state)
}

// loadOwned returns the portfolio id if it exists and caller owns it.
func (t *ledgerTx) loadOwned(id uint64) (model.Portfolio, error) {
	p, err := t.portfolios.GetPortfolio(t.ctx, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	if err := guard.IsOwner(p, t.caller); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// loadPerformance returns the performance record of a portfolio that is known
// to exist. A missing record is a data inconsistency.
func (t *ledgerTx) loadPerformance(id uint64) (model.PortfolioPerformance, error) {
	perf, err := t.performance.GetPerformance(t.ctx, id)
	if err != nil {
		return model.PortfolioPerformance{}, fmt.Errorf("portfolio %d: %w: %w", id, apperrors.ErrDataInconsistency, err)
	}
	return perf, nil
}

// run executes fn atomically on behalf of caller. Events recorded by fn are
// published only once the transaction has committed.
func (s *LedgerService) run(ctx context.Context, operation, caller string, fn func(*ledgerTx) error) (err error) {
	if caller == "" {
		return apperrors.ErrMissingCaller
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		s.metrics.ObserveOperation(operation, err)
		if err != nil {
			s.log.Debug("operation rejected",
				zap.String("operation", operation),
				zap.String("caller", caller),
				zap.Error(err),
			)
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.Error("rollback failed", zap.String("operation", operation), zap.Error(rbErr))
			}
		}
	}()

	lt := s.scope(ctx, tx, caller)

	if lt.height, err = lt.chain.GetHeight(ctx); err != nil {
		return err
	}
	if lt.state, err = lt.contract.GetContractState(ctx); err != nil {
		return err
	}

	if err = fn(lt); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.emitter.Publish(lt.events...)
	s.metrics.SetManagedAssets(lt.state.TotalManagedAssets)
	return nil
}

// view runs fn in a read-only transaction so that every read it makes sees
// the same committed state. It does not take the service lock.
func (s *LedgerService) view(ctx context.Context, fn func(*ledgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Error("read rollback failed", zap.Error(rbErr))
		}
	}()

	return fn(s.scope(ctx, tx, ""))
}

// scope returns the repositories of the service bound to tx.
func (s *LedgerService) scope(ctx context.Context, tx *sql.Tx, caller string) *ledgerTx {
	return &ledgerTx{
		ctx:         ctx,
		caller:      caller,
		portfolios:  s.portfolioRepo.WithTx(tx),
		allocations: s.allocationRepo.WithTx(tx),
		performance: s.performanceRepo.WithTx(tx),
		index:       s.indexRepo.WithTx(tx),
		contract:    s.contractRepo.WithTx(tx),
		accounts:    s.accountRepo.WithTx(tx),
		eventRepo:   s.eventRepo.WithTx(tx),
		chain:       s.chainRepo.WithTx(tx),
		emitter:     s.emitter,
	}
}
