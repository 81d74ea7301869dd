package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/config"
	httpapi "github.com/fairyhunter13/product-option-service/internal/http"
	"github.com/fairyhunter13/product-option-service/internal/obs"
	"github.com/fairyhunter13/product-option-service/internal/queue"
	"github.com/fairyhunter13/product-option-service/internal/seed"
	"github.com/fairyhunter13/product-option-service/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	st := store.New()
	if cfg.CatalogSeedPath != "" {
		n, err := seed.LoadInto(st, cfg.CatalogSeedPath)
		if err != nil {
			obs.Logger.Error("catalog_seed_failed", "path", cfg.CatalogSeedPath, "error", err)
			return err
		}
		obs.Logger.Info("catalog_seeded", "path", cfg.CatalogSeedPath, "products", n)
	}

	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, st)
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	mgr.Start(workCtx)

	app := httpapi.NewApp(cfg, st, mgr)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_signal", "cause", context.Cause(gctx))

		app.StartShutdown()
		obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())
		ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelDrain()
		if drained := mgr.DrainUntil(ctxDrain); !drained {
			obs.Logger.Warn("shutdown_drain_timeout")
		} else {
			obs.Logger.Info("shutdown_drain_complete")
		}

		ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelSrv()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err)
			return err
		}
		return nil
	})

	err := g.Wait()
	mgr.Stop()
	obs.Logger.Info("service_stopped")
	return err
}
