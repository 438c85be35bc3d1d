package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/segyhp/loanshrk/internal/config"
	"github.com/segyhp/loanshrk/internal/handler"
	"github.com/segyhp/loanshrk/internal/jobs"
	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/internal/notify"
	"github.com/segyhp/loanshrk/internal/repository"
	"github.com/segyhp/loanshrk/internal/service"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", logging.FieldError, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Init("loanshrk", cfg.Logging.Level, cfg.LogFormat())

	// Initialize snapshot store
	store, err := repository.NewSlotStoreFromConfig(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	notifier, err := notify.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer notifier.Close()

	snapshots := repository.NewSnapshotRepository(store, cfg.Store.Key)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize ledger
	ledger := service.NewLedgerService(snapshots,
		service.WithNotifier(notifier),
		service.WithLogger(logger),
	)
	if err := ledger.Open(ctx); err != nil {
		return err
	}
	prompts := service.NewPromptBook(ledger, cfg.GetPromptTTL(), nil)

	scheduler := jobs.NewCron(cfg.GetSchedulerLocation(), logger)
	if _, err := scheduler.AddFunc(cfg.Scheduler.PromptSweepSpec, jobs.PromptSweep(prompts, logger)); err != nil {
		return err
	}

	ledgerHandler := handler.NewLedgerHandler(ledger, prompts)
	healthHandler := handler.NewHealthHandler(store, cfg.Store.Backend, cfg.GetHealthTimeout())

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(ledgerHandler, healthHandler, logger),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", server.Addr, logging.FieldBackend, cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ledger.Flush(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
