package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/loanshrk/internal/config"
	"github.com/segyhp/loanshrk/internal/jobs"
	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/internal/repository"

	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", logging.FieldError, err)
		os.Exit(1)
	}

	logger := logging.Init("loanshrk-scheduler", cfg.Logging.Level, cfg.LogFormat())
	logger.Info("Starting ledger scheduler...")

	if cfg.Store.Backend == config.BackendMemory {
		logger.Warn("STORE_BACKEND is memory; the scheduler cannot see the server's ledger")
	}

	store, err := repository.NewSlotStoreFromConfig(cfg)
	if err != nil {
		logger.Error("Failed to open snapshot store", logging.FieldError, err)
		os.Exit(1)
	}
	defer store.Close()

	snapshots := repository.NewSnapshotRepository(store, cfg.Store.Key)

	c := jobs.NewCron(cfg.GetSchedulerLocation(), logger)
	if err := setupCronJobs(c, cfg, snapshots, logger); err != nil {
		logger.Error("Error scheduling jobs", logging.FieldError, err)
		os.Exit(1)
	}

	// Start the scheduler
	c.Start()
	logger.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, snapshots repository.SnapshotRepository, logger *slog.Logger) error {
	// Daily snapshot backup (midnight by default)
	if _, err := c.AddFunc(cfg.Scheduler.BackupSpec, jobs.Backup(snapshots, time.Now, logger)); err != nil {
		return err
	}

	// Daily statistics report (9 AM by default)
	if _, err := c.AddFunc(cfg.Scheduler.StatsReportSpec, jobs.StatsReport(snapshots, logger)); err != nil {
		return err
	}

	logger.Info("Cron jobs scheduled successfully",
		"backup_spec", cfg.Scheduler.BackupSpec,
		"stats_report_spec", cfg.Scheduler.StatsReportSpec)
	return nil
}
