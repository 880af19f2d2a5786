package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/arjunkhanna/secondmart-backend/api/routes"
	"github.com/arjunkhanna/secondmart-backend/internal/aggregation"
	"github.com/arjunkhanna/secondmart-backend/internal/notifications"
	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/internal/payments"
	"github.com/arjunkhanna/secondmart-backend/internal/reconcile"
	"github.com/arjunkhanna/secondmart-backend/internal/refdata"
	"github.com/arjunkhanna/secondmart-backend/internal/settlements"
	"github.com/arjunkhanna/secondmart-backend/pkg/config"
	"github.com/arjunkhanna/secondmart-backend/pkg/db"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
	"github.com/arjunkhanna/secondmart-backend/pkg/migrate"
	"github.com/arjunkhanna/secondmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	defaultCommission, err := decimal.NewFromString(cfg.Settlement.DefaultCommissionPercent)
	if err != nil {
		logg.Error(context.Background(), "invalid default commission percent", err)
		os.Exit(1)
	}

	refdataSvc, err := refdata.NewService(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create refdata service", err)
		os.Exit(1)
	}

	paymentsRepo := payments.NewRepository(dbClient.DB())
	paymentsSvc, err := payments.NewService(paymentsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, refdataSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	settlementsSvc, err := settlements.NewService(settlements.Params{
		Repo:                     settlements.NewRepository(dbClient.DB()),
		Tx:                       dbClient,
		Orders:                   ordersSvc,
		Refdata:                  refdataSvc,
		Notifier:                 notificationsSvc,
		Logger:                   logg,
		DefaultCommissionPercent: defaultCommission,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlements service", err)
		os.Exit(1)
	}

	aggregationSvc, err := aggregation.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create aggregation service", err)
		os.Exit(1)
	}

	reconcileJob, err := reconcile.NewJob(reconcile.JobParams{
		Logger:     logg,
		Proofs:     paymentsRepo,
		Orders:     ordersSvc,
		BatchLimit: cfg.Cron.ReconcileLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation job", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			paymentsSvc,
			ordersSvc,
			settlementsSvc,
			aggregationSvc,
			notificationsSvc,
			reconcileJob,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
