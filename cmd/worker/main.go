package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/medina-negoce/medina-erp/internal/app"
	"github.com/medina-negoce/medina-erp/internal/bons"
	"github.com/medina-negoce/medina-erp/internal/platform/db"
	"github.com/medina-negoce/medina-erp/internal/sidefx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	bonsRepo := bons.NewRepository(pool)
	gateway := sidefx.NewWhatsAppGateway(cfg.WhatsAppURL, cfg.WhatsAppToken)
	processor := sidefx.NewProcessor(logger, bonsRepo, gateway, cfg.PDFDir, cfg.CompanyName)
	worker := sidefx.NewWorker(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger, processor)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
