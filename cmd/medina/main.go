package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/medina-negoce/medina-erp/internal/app"
	"github.com/medina-negoce/medina-erp/internal/auth"
	"github.com/medina-negoce/medina-erp/internal/bons"
	"github.com/medina-negoce/medina-erp/internal/catalog"
	"github.com/medina-negoce/medina-erp/internal/contacts"
	"github.com/medina-negoce/medina-erp/internal/credit"
	"github.com/medina-negoce/medina-erp/internal/history"
	"github.com/medina-negoce/medina-erp/internal/notify"
	"github.com/medina-negoce/medina-erp/internal/payments"
	"github.com/medina-negoce/medina-erp/internal/platform/cache"
	"github.com/medina-negoce/medina-erp/internal/platform/db"
	"github.com/medina-negoce/medina-erp/internal/sidefx"
	"github.com/medina-negoce/medina-erp/internal/vehicles"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Redis only backs approvals and the job queue; the server can
		// still come up and reconnect later.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	validate := validator.New()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	authHandler := auth.NewHandler(logger, authService, validate)

	contactsRepo := contacts.NewRepository(pool)
	contactsService := contacts.NewService(contactsRepo)
	contactsHandler := contacts.NewHandler(logger, contactsService, validate)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, validate)

	approvals := credit.NewApprovalCache(redisClient)
	checker := credit.NewChecker(approvals)

	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	jobsClient := sidefx.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	bonsRepo := bons.NewRepository(pool)
	bonsService := bons.NewService(bonsRepo, contactsRepo, catalogRepo, checker, jobsClient, hub, logger)
	bonsHandler := bons.NewHandler(logger, bonsService, validate)

	lookup := history.NewLookup(bonsRepo)
	historyHandler := history.NewHandler(logger, lookup)

	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo, contactsRepo)
	paymentsHandler := payments.NewHandler(logger, paymentsService, validate)

	vehiclesRepo := vehicles.NewRepository(pool)
	vehiclesHandler := vehicles.NewHandler(logger, vehiclesRepo, validate)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthService:     authService,
		AuthHandler:     authHandler,
		BonsHandler:     bonsHandler,
		HistoryHandler:  historyHandler,
		ContactsHandler: contactsHandler,
		CatalogHandler:  catalogHandler,
		PaymentsHandler: paymentsHandler,
		VehiclesHandler: vehiclesHandler,
		Hub:             hub,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
