package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pointspay/ledger-backend/internal/api"
	"github.com/pointspay/ledger-backend/internal/config"
	"github.com/pointspay/ledger-backend/internal/db"
	"github.com/pointspay/ledger-backend/internal/logger"
	"github.com/pointspay/ledger-backend/internal/metrics"
	"github.com/pointspay/ledger-backend/internal/repository/kvstore"
	"github.com/pointspay/ledger-backend/internal/services"
	"github.com/pointspay/ledger-backend/internal/store"
	"github.com/pointspay/ledger-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("store open", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	repos := kvstore.NewRepositories(kv)
	wp := worker.NewPool(4)
	defer wp.Stop()

	auditor := services.NewAuditor(repos.AuditLogs, wp)
	var opMu sync.Mutex // single writer across every ledger operation
	userSvc := services.NewUserService(repos.Users, auditor, cfg, &opMu)
	ledgerSvc := services.NewLedgerService(repos.Users, repos.Transactions, auditor, cfg, &opMu)

	metrics.Init()
	r := api.NewRouter(cfg, userSvc, ledgerSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.StoreDriver, "rewards", cfg.RewardsEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (store.KV, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.OpenSQLite(cfg.SQLitePath)
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.OpenPostgres(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
