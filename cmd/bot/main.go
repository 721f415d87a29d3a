package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/domain/bill"
	"household_reminder_bot/internal/domain/cycle"
	"household_reminder_bot/internal/domain/reminder"
	"household_reminder_bot/internal/domain/todo"
	"household_reminder_bot/internal/infra/clock"
	"household_reminder_bot/internal/infra/config"
	idb "household_reminder_bot/internal/infra/database"
	"household_reminder_bot/internal/infra/logger"
	"household_reminder_bot/internal/infra/scheduler"
	"household_reminder_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"owner_id":    cfg.OwnerChatID,
	}).Info("Configuration loaded")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		mainLogger.WithError(err).Fatalf("FATAL: Unknown timezone %q", cfg.Timezone)
	}
	clk := clock.System(loc)

	// Repositories. Without DATABASE_URL everything runs on in-memory
	// stores, which is enough for local development.
	var (
		reminderRepo reminder.Repository
		billRepo     bill.Repository
		cycleRepo    cycle.Repository
		stamps       scheduler.StampStore
	)
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("FATAL: Could not connect to database")
		}
		defer db.Close()
		mainLogger.Info("Database connection established")

		reminderRepo = idb.NewPostgresReminderRepository(db)
		billRepo = idb.NewPostgresBillRepository(db)
		cycleRepo = idb.NewPostgresCycleRepository(db)
		stamps = idb.NewPostgresEventRepository(db)
	} else {
		mainLogger.Warn("DATABASE_URL not set, using in-memory stores")
		reminderRepo = idb.NewMemoryReminderRepository()
		billRepo = idb.NewMemoryBillRepository()
		cycleRepo = idb.NewMemoryCycleRepository()
		stamps = idb.NewMemoryEventRepository()
	}
	var todoStore todo.Store = idb.NewMemoryTodoStore()

	// Telegram bot and outbound sink.
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Log.WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithFields(logrus.Fields{
					"sender_id": c.Sender().ID,
					"text":      c.Text(),
				})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("FATAL: Could not create Telegram bot")
	}
	sink := telegram.NewTelebotAdapter(bot)

	// Services.
	reminderService := app.NewReminderService(reminderRepo, sink, clk, logger.Log.WithField("component", "reminder_service"))
	billService := app.NewBillService(billRepo, clk, logger.Log.WithField("component", "bill_service"))
	cycleService := app.NewCycleService(cycleRepo, clk, logger.Log.WithField("component", "cycle_service"))
	digestService := app.NewDigestService(todoStore, sink, clk, logger.Log.WithField("component", "digest_service"))

	sched := scheduler.New(
		reminderService,
		billService,
		cycleService,
		digestService,
		sink,
		stamps,
		clk,
		loc,
		scheduler.Times{
			Morning:     cfg.MorningTime,
			Evening:     cfg.EveningTime,
			BillNotify:  cfg.BillNotifyTime,
			MonthlyRoll: cfg.MonthlyRollTime,
		},
		cfg.OwnerChatID,
		logger.Log.WithField("component", "scheduler"),
	)
	if err := sched.Start(); err != nil {
		mainLogger.WithError(err).Fatal("FATAL: Could not start scheduler")
	}
	mainLogger.Info("Scheduler started")

	ctx := context.Background()
	handlerLogger := logger.Log.WithField("component", "telegram")
	telegram.RegisterReminderHandlers(ctx, bot, reminderService, sched, cfg.OwnerChatID, handlerLogger)
	telegram.RegisterBillHandlers(ctx, bot, billService, cfg.OwnerChatID, handlerLogger)
	telegram.RegisterCycleHandlers(ctx, bot, cycleService, clk, cfg.OwnerChatID, handlerLogger)
	telegram.RegisterTodoHandlers(ctx, bot, digestService, cfg.OwnerChatID, handlerLogger)
	mainLogger.Info("Command handlers registered")

	go bot.Start()
	mainLogger.Info("Bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down")
	sched.Stop()
	bot.Stop()
	mainLogger.Info("Shut down gracefully")
}
