package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/metrics"
)

// Scheduler runs the background jobs of the ledger: the block clock and the
// auto-rebalance sweep. Jobs never overlap with themselves.
type Scheduler struct {
	cron    *cron.Cron
	chain   *ChainService
	ledger  *LedgerService
	log     *zap.Logger
	metrics *metrics.Metrics
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler registers the block clock at one tick per blockInterval and the
// auto-rebalance sweep on the rebalanceSpec cron schedule. An empty
// rebalanceSpec disables the sweep.
func NewScheduler(
	ledger *LedgerService,
	chain *ChainService,
	blockInterval time.Duration,
	rebalanceSpec string,
	log *zap.Logger,
	m *metrics.Metrics,
) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scheduler")

	c := cron.New(
		cron.WithLogger(cronLogger{log: log.Sugar()}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log.Sugar()})),
	)

	s := &Scheduler{
		cron:    c,
		chain:   chain,
		ledger:  ledger,
		log:     log,
		metrics: m,
	}

	if blockInterval <= 0 {
		return nil, fmt.Errorf("block interval must be positive, got %s", blockInterval)
	}
	if _, err := c.AddFunc("@every "+blockInterval.String(), s.tick); err != nil {
		return nil, fmt.Errorf("failed to schedule block clock: %w", err)
	}

	if rebalanceSpec != "" {
		if _, err := c.AddFunc(rebalanceSpec, s.sweep); err != nil {
			return nil, fmt.Errorf("failed to schedule auto rebalance %q: %w", rebalanceSpec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) tick() {
	height, err := s.chain.Tick(context.Background())
	if err != nil {
		s.log.Error("block tick failed", zap.Error(err))
		return
	}
	s.log.Debug("block tick", zap.Uint64("height", height))
}

func (s *Scheduler) sweep() {
	start := time.Now()
	n, err := s.ledger.RunAutoRebalance(context.Background())
	s.metrics.ObserveSweep(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("auto rebalance sweep failed", zap.Error(err))
		return
	}
	s.log.Info("auto rebalance sweep finished", zap.Int("rebalanced", n))
}

// Run starts the jobs and blocks until ctx is cancelled, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}
