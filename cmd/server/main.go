package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dsek-LTH/Janus/internal/app"
	"github.com/Dsek-LTH/Janus/internal/config"
	"github.com/Dsek-LTH/Janus/internal/logger"
	"github.com/Dsek-LTH/Janus/internal/oauth/provider/discord"
)

func main() {
	register := flag.Bool("register", false, "register the role-connection metadata schema with Discord and exit")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", map[string]any{
			"error": err.Error(),
		})
	}

	if *register {
		runRegister(cfg)
		return
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("janus started", map[string]any{
		"port": cfg.AppPort,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("janus stopped cleanly", nil)
}

// runRegister performs the one-time metadata schema registration.
func runRegister(cfg config.Config) {
	if cfg.DiscordBotToken == "" {
		logger.Fatal("BOT_TOKEN is required for --register", nil)
	}

	provider, err := discord.New(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.DiscordRedirectURI,
	)
	if err != nil {
		logger.Fatal("failed to initialize discord provider", map[string]any{
			"error": err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := provider.RegisterMetadataSchema(ctx, cfg.DiscordBotToken); err != nil {
		logger.Fatal("metadata schema registration failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("metadata schema registered", nil)
}
