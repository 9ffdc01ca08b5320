package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paydesk/config"
	"paydesk/internal/database"
	"paydesk/internal/events"
	"paydesk/internal/router"
	"paydesk/internal/service"
	"paydesk/pkg/cloudinary"
	"paydesk/pkg/mailer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Server.Env != "production" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	return zapConfig.Build()
}

func newMailer(cfg *config.MailConfig, logger *zap.Logger) (mailer.Sender, error) {
	switch cfg.Transport {
	case "smtp":
		return mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			TLS:      cfg.TLS,
		})
	case "log", "":
		return mailer.NewLogSender(logger), nil
	}
	return nil, fmt.Errorf("unsupported mail transport %q", cfg.Transport)
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Database migration failed", zap.Error(err))
	}

	sender, err := newMailer(&cfg.Mail, logger.With(zap.String("component", "Mailer")))
	if err != nil {
		logger.Fatal("Mailer setup failed", zap.Error(err))
	}

	deps := router.Dependencies{Logger: logger, Mailer: sender}

	if cfg.Cloudinary.Enabled() {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			logger.Fatal("Cloudinary setup failed", zap.Error(err))
		}
		deps.Archive = cloudinary.NewReceiptArchive(cloud, cfg.Cloudinary.Folder)
		logger.Info("Receipt archive enabled", zap.String("folder", cfg.Cloudinary.Folder))
	}

	if cfg.Kafka.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := events.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.PaymentStatusTopic, logger); err != nil {
			logger.Warn("Could not ensure Kafka topic", zap.Error(err))
		}
		cancel()

		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.PaymentStatusTopic,
			logger.With(zap.String("component", "KafkaProducer")))
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("Error closing Kafka producer", zap.Error(err))
			}
		}()
		deps.Publishers = []service.StatusPublisher{
			events.NewStatusPublisher(producer, cfg.Kafka.PaymentStatusTopic),
		}
	}

	engine, stopRouter := router.Setup(cfg, db, deps)
	defer stopRouter()
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}
