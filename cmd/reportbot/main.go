package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"log/slog"

	"github.com/m3rciful/reportbot/bot"
	"github.com/m3rciful/reportbot/core/buildinfo"
	"github.com/m3rciful/reportbot/core/logger"
	tg "github.com/m3rciful/reportbot/core/telegram"
)

func main() {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := bot.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(&cfg.Core); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Shutdown() }()

	logger.TG.Info("starting",
		slog.String("event", "start"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
	)

	app, err := bot.New(cfg)
	if err != nil {
		logger.TG.Error("bootstrap failed", slog.String("err", err.Error()))
		_ = logger.Shutdown()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tg.RunTelegram(ctx, app.RunOptions()); err != nil {
		logger.TG.Error("bot stopped with error", slog.String("err", err.Error()))
		_ = logger.Shutdown()
		os.Exit(1)
	}
}
