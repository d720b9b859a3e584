package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"momentum/internal/bot"
	"momentum/internal/config"
	"momentum/internal/logging"
	"momentum/internal/model"
	"momentum/internal/repository"
	"momentum/internal/service"
	"momentum/internal/store"
)

const jobTimeout = 30 * time.Second

func newServeCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot with reminders, day rollover and the daily report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logging.New(cfg.LogLevel, os.Stderr))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := cfg.ValidateBot(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	scheduler := service.NewSchedulerService(loc, log)
	reminders := service.NewReminderService(scheduler, log)

	planner, closeDB, err := openPlanner(ctx, cfg, reminders, log)
	if err != nil {
		return err
	}
	defer closeDB()

	premium := service.NewEntitlementService(entitlementsFor(cfg), planner, log)
	now := time.Now().In(loc)
	if _, err := premium.Refresh(ctx, now); err != nil {
		log.Warn("premium check failed, keeping previous state", "error", err)
	}
	planner.StartSession(ctx, now)
	log.Info("reminders restored", "count", planner.RescheduleReminders(ctx, now))

	telegramBot, err := bot.New(cfg, loc, planner, premium, log)
	if err != nil {
		return err
	}
	reminders.SetSender(telegramBot)

	if _, err := scheduler.ScheduleDaily("rollover", cfg.RolloverTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		planner.StartSession(jobCtx, time.Now().In(loc))
	}); err != nil {
		return err
	}
	if _, err := scheduler.ScheduleDaily("report", cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := telegramBot.SendDailyReport(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("daily report", "error", err)
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("momentum bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// openPlanner opens the database and loads the planner over it. The returned
// func closes the database.
func openPlanner(ctx context.Context, cfg config.Config, notifier service.Notifier, log *slog.Logger) (*service.PlannerService, func(), error) {
	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	st := store.New(repository.NewRecordRepository(db))
	return service.NewPlannerService(ctx, st, notifier, log), closeDB, nil
}

func entitlementsFor(cfg config.Config) *service.StaticEntitlements {
	if cfg.PremiumOwned {
		return service.NewStaticEntitlements(model.PremiumProductID)
	}
	return service.NewStaticEntitlements()
}
