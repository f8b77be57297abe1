package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	webAdapter "fitout-erp/internal/adapters/web"
	"fitout-erp/internal/app"
	"fitout-erp/internal/config"
	"fitout-erp/internal/core"
	"fitout-erp/internal/db"
	"fitout-erp/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	var notifier core.Notifier
	if cfg.SMTP.Enabled() {
		notifier = notify.NewMailer(cfg.SMTP, cfg.Company.Name)
		logger.Info("mail notifications enabled", zap.String("smtp", cfg.SMTP.Addr()))
	} else {
		logger.Warn("SMTP_HOST is not set, notifications are disabled")
	}

	svc := app.NewFromPool(pool, cfg, notifier, logger)
	handler := webAdapter.NewHandler(svc, cfg.Server.AllowedOrigins, cfg.JWT.Secret, logger.Named("http"))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
