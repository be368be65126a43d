package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/effort-scheduler/internal/application"
	"github.com/example/effort-scheduler/internal/config"
	"github.com/example/effort-scheduler/internal/logging"
	"github.com/example/effort-scheduler/internal/persistence/sqlite"
)

func main() {
	userFlag := flag.String("user", "", "schedule the backlog of a single user; defaults to every user with pending work")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, logger)

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	service := application.NewSchedulerServiceWithLogger(storage, uuid.NewString, time.Now, logger)
	if cfg.DefaultCapacity > 0 {
		service = service.WithFixedCapacity(cfg.DefaultCapacity)
	}

	userIDs := []string{*userFlag}
	if *userFlag == "" {
		userIDs, err = storage.ListUserIDs(ctx)
		if err != nil {
			logger.Error("failed to list users with pending work", "error", err)
			os.Exit(1)
		}
		if len(userIDs) == 0 {
			logger.Info("no pending work to schedule")
			return
		}
	}

	for _, userID := range userIDs {
		summary, err := service.RunForUser(ctx, userID)
		if err != nil {
			logger.Error("scheduling run failed", "user_id", userID, "error", err)
			os.Exit(1)
		}
		logger.Info("scheduling run complete",
			"user_id", summary.UserID,
			"capacity", summary.Capacity,
			"scheduled", summary.Scheduled,
			"partial", summary.Partial,
			"deferred", summary.Deferred,
			"skipped", summary.Skipped,
		)
	}
}
