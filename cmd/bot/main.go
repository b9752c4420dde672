package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/Evst404/Sale-fish-tgbot/internal/bot"
	"github.com/Evst404/Sale-fish-tgbot/internal/config"
	"github.com/Evst404/Sale-fish-tgbot/internal/database"
	"github.com/Evst404/Sale-fish-tgbot/internal/logger"
	"github.com/Evst404/Sale-fish-tgbot/internal/session"
	"github.com/Evst404/Sale-fish-tgbot/internal/shop"
	"github.com/Evst404/Sale-fish-tgbot/internal/strapi"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram/middleware"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	content, err := strapi.New(cfg.Strapi)
	if err != nil {
		return err
	}

	app := bot.New(content, shop.NewService(content), session.NewPostgresManager(db))

	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}

	startedAt := time.Now()
	runOpts := telegram.RunOptions{
		Config: cfg,
		Middlewares: []telegram.Middleware{
			{Name: "recover", Use: middleware.RecoverMiddleware},
			{Name: "logging", Use: middleware.LoggerMiddleware},
			{Name: "rate_limit", Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			})},
		},
		Routes:   app.Routes(),
		Commands: app.Commands(),
		OnStart: func(ctx context.Context, _ *tele.Bot) error {
			logger.Info(ctx, "app", "ready",
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ *tele.Bot) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.Run(ctx, runOpts)
}
