package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accrabet/accrabet/internal/bootstrap"
	"github.com/accrabet/accrabet/internal/config"
	"github.com/accrabet/accrabet/internal/contest"
	"github.com/accrabet/accrabet/internal/database"
	"github.com/accrabet/accrabet/internal/notify"
	"github.com/accrabet/accrabet/internal/reconcile"
	"github.com/accrabet/accrabet/internal/server"
	"github.com/accrabet/accrabet/internal/settlement"
	"github.com/accrabet/accrabet/internal/wager"
	"github.com/accrabet/accrabet/internal/worker"
)

const (
	dbMaxConns       = 25
	dbMaxIdle        = 5 * time.Minute
	dbMaxLife        = 30 * time.Minute
	poolWorkers      = 4
	poolQueueSize    = 64
	shutdownDeadline = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.GetDBConnString()); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdle, dbMaxLife)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	// Services publish through the resilient wrapper; subscriptions attach
	// to the underlying bus
	contestService := contest.NewService(repos.Contest, contest.NewSimulatedOutcomes(contest.DefaultTemplates()), publisher)
	wagerService := wager.NewService(repos.Wager, contestService, publisher)
	settlementService := settlement.NewService(repos.Wager, repos.Contest, publisher)
	reconcileService, err := reconcile.NewService(repos.Ledger, repos.Referral, publisher, reconcile.Params{
		DepositThreshold: cfg.ReferralDepositThreshold,
		ReferralBonus:    cfg.ReferralBonus,
		ClickTarget:      cfg.ReferralClickTarget,
		ClickBonus:       cfg.ReferralClickBonus,
		ClickBonusTTL:    cfg.ReferralClickBonusTTL,
	})
	if err != nil {
		slog.Error("Failed to initialize reconciliation service", "error", err)
		os.Exit(1)
	}

	pool := worker.NewPool(poolWorkers, poolQueueSize)
	pool.Start()

	settlementWorker := worker.NewSettlementWorker(settlementService, pool, cfg.SettleMaxRetries)
	settlementWorker.Subscribe(eventBus)

	ticker, err := worker.NewContestTicker(contestService)
	if err != nil {
		slog.Error("Failed to create contest ticker", "error", err)
		os.Exit(1)
	}
	ticker.Subscribe(eventBus)
	if err := ticker.Start(ctx); err != nil {
		slog.Error("Failed to start contest ticker", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(notify.LogNotifier{})
	dispatcher.Subscribe(eventBus)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool,
		wagerService, contestService, reconcileService, repos.Ledger, repos.User)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:     srv,
		Ticker:     ticker,
		Pool:       pool,
		Dispatcher: dispatcher,
	})
}
