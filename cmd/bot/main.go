package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/api"
	"github.com/recapbot/recapbot/internal/bot"
	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/database"
	"github.com/recapbot/recapbot/internal/database/repositories"
	"github.com/recapbot/recapbot/internal/providers"
	"github.com/recapbot/recapbot/internal/providers/factory"
	"github.com/recapbot/recapbot/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	log.WithFields(logrus.Fields{
		"env":        cfg.Env,
		"provider":   cfg.LLM.Provider,
		"model":      cfg.LLM.Model,
		"buffer":     cfg.Summary.BufferCapacity,
		"max_stored": cfg.Summary.MaxPerUser,
	}).Info("Recap bot starting")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	summaryRepo := repositories.NewSummaryRepository(db.DB, cfg.Summary.MaxPerUser)
	userRepo := repositories.NewUserRepository(db.DB)

	buffers := buffer.NewManager(cfg.Summary.BufferCapacity, cfg.Summary.MinCount, cfg.Summary.MaxCount)

	registry := providers.NewRegistry()
	if err := registerProviders(registry, cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize LLM providers")
	}
	log.WithField("providers", registry.List()).Info("LLM providers registered")

	svc := services.NewServices(cfg, buffers, registry, summaryRepo, userRepo, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warn loudly but keep running: the provider may come back.
	if err := svc.Summarizer.Probe(ctx); err != nil {
		log.WithError(err).Warn("LLM provider probe failed")
	} else {
		log.Info("LLM provider probe successful")
	}

	app := newHTTPApp(svc)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.WithField("addr", addr).Info("HTTP server listening")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	tgBot, err := bot.New(cfg.Telegram.Token, svc, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Telegram bot")
	}

	if err := tgBot.Run(ctx); err != nil {
		log.WithError(err).Error("Bot stopped with error")
	}

	log.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Warn("HTTP server shutdown failed")
	}
	log.Info("Shutdown complete")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

func registerProviders(registry *providers.Registry, cfg *config.Config) error {
	for id, pc := range cfg.LLM.Providers {
		p, err := factory.CreateProvider(id, pc)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		registry.Register(id, p)
	}

	if !registry.Has(cfg.LLM.Provider) {
		return fmt.Errorf("configured provider %q has no registered implementation", cfg.LLM.Provider)
	}
	return nil
}

func newHTTPApp(svc *services.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Recap Bot",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		// Platform health probes hit every few seconds; keep them out of the logs.
		Next: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/", "/healthz", "/livez", "/readyz":
				return true
			}
			return false
		},
	}))

	api.SetupRoutes(app, svc)
	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
