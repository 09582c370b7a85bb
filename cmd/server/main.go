package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/auth"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("info").Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("server exited")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}
	log.Info("connected to database",
		zap.String("path", cfg.Database.Path),
		zap.Int("migrations_applied", applied),
	)

	m := metrics.New()

	ledger := service.NewLedgerService(db, model.Principals{
		Contract: cfg.Ledger.ContractPrincipal,
		Owner:    cfg.Ledger.OwnerPrincipal,
	}, log, m)
	chain := service.NewChainService(ledger)
	systemService := service.NewSystemService(db)

	height, err := chain.Height(ctx)
	if err != nil {
		return err
	}
	m.SetChainHeight(height)
	if state, err := ledger.GetContractState(ctx); err == nil {
		m.SetManagedAssets(state.TotalManagedAssets)
	}

	issuer, err := auth.NewTokenIssuer(cfg.Auth.TokenTTL, cfg.Auth.TokenKey)
	if err != nil {
		return err
	}

	scheduler, err := service.NewScheduler(
		ledger,
		chain,
		cfg.Chain.BlockInterval,
		cfg.Chain.AutoRebalanceSchedule,
		log,
		m,
	)
	if err != nil {
		return err
	}

	// Create router
	router := api.NewRouter(ledger, systemService, issuer, m, log, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
