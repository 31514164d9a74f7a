package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/sitterlink/backend/internal/auth"
	"github.com/sitterlink/backend/internal/booking"
	"github.com/sitterlink/backend/internal/config"
	"github.com/sitterlink/backend/internal/dashboard"
	"github.com/sitterlink/backend/internal/gateway"
	"github.com/sitterlink/backend/internal/ledger"
	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/notify"
	"github.com/sitterlink/backend/internal/payments"
	"github.com/sitterlink/backend/internal/profiles"
	"github.com/sitterlink/backend/internal/reviews"
	"github.com/sitterlink/backend/internal/router"
	"github.com/sitterlink/backend/internal/schedule"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. make dev-up or docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed. If the error is 'connection refused', start PostgreSQL first", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Repositories
	authRepo := auth.NewRepository(pool)
	profileRepo := profiles.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)
	paymentRepo := payments.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	reviewRepo := reviews.NewRepository(pool)

	// Background workers
	workers := river.NewWorkers()
	river.AddWorker(workers, notify.NewSendWorker(&notify.LogNotifier{Log: logger}))
	river.AddWorker(workers, reviews.NewScoreWorker(reviewRepo))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	enqueueNotification := func(ctx context.Context, args notify.SendArgs) error {
		_, err := riverClient.Insert(ctx, args, nil)
		return err
	}
	enqueueScore := func(ctx context.Context, args reviews.ScoreReviewArgs) error {
		_, err := riverClient.Insert(ctx, args, nil)
		return err
	}

	// Services
	authSvc := auth.NewService(authRepo, cfg.JWTSecret)
	profileSvc := profiles.NewService(profileRepo)
	ledgerSvc := ledger.NewService(ledgerRepo)
	checker := schedule.NewChecker(logger)
	bookingSvc := booking.NewService(bookingRepo, profileRepo, checker, enqueueNotification, logger)
	processor := gateway.NewProcessor(cfg.PaymentBaseURL)
	paymentSvc := payments.NewService(pool, paymentRepo, bookingRepo, ledgerSvc, processor, enqueueNotification, logger)
	reviewSvc := reviews.NewService(reviewRepo, bookingRepo, enqueueScore, logger)

	handler := router.New(router.Deps{
		AuthSvc:          authSvc,
		Auth:             auth.NewHandler(authSvc, logger),
		Profiles:         profiles.NewHandler(profileSvc, logger),
		Bookings:         booking.NewHandler(bookingSvc, logger),
		Payments:         payments.NewHandler(paymentSvc, logger),
		Reviews:          reviews.NewHandler(reviewSvc, logger),
		Dashboard:        dashboard.NewHandler(authRepo, ledgerRepo, bookingRepo, logger),
		OpenBookingLimit: middleware.OpenBookingLimit(pool, cfg.MaxOpenBookings),
		CORSOrigins:      cfg.CORSOrigins,
	})

	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
