package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/internal/repository"
	"github.com/segyhp/loanshrk/internal/service"
	"github.com/segyhp/loanshrk/pkg/utils"

	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// NewCron returns a cron runner that accepts an optional seconds field and descriptors
func NewCron(loc *time.Location, logger *slog.Logger) *cron.Cron {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logging.Component(logger, "cron").Handler(), slog.LevelWarn))
	return cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}

// Backup copies the stored snapshot to a key suffixed with the run date
func Backup(repo repository.SnapshotRepository, now func() time.Time, logger *slog.Logger) func() {
	logger = logging.Component(logger, "backup")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		suffix := now().UTC().Format("20060102")
		key, err := repo.Backup(ctx, suffix)
		if err != nil {
			logger.ErrorContext(ctx, "Snapshot backup failed", logging.FieldError, err)
			return
		}
		logger.InfoContext(ctx, "Snapshot backed up", "key", key)
	}
}

// StatsReport reloads the stored snapshot and logs the summary figures
func StatsReport(repo repository.SnapshotRepository, logger *slog.Logger) func() {
	logger = logging.Component(logger, "stats")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		borrowers, err := repo.Load(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Could not load snapshot for stats report", logging.FieldError, err)
			return
		}

		stats := service.ComputeStats(borrowers)
		logger.InfoContext(ctx, "Ledger statistics",
			"outstanding", utils.FormatCurrency(stats.TotalOutstanding),
			"collected", utils.FormatCurrency(stats.TotalCollected),
			"total_loaned", utils.FormatCurrency(stats.TotalOriginal),
			"active_loans", stats.ActiveCount,
			"borrowers", stats.BorrowerCount)
	}
}

// PromptSweep discards payment prompts that were never submitted
func PromptSweep(prompts *service.PromptBook, logger *slog.Logger) func() {
	logger = logging.Component(logger, "prompts")
	return func() {
		if removed := prompts.Sweep(); removed > 0 {
			logger.Info("Expired payment prompts removed", "count", removed)
		}
	}
}
