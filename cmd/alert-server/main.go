package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/api"
	"github.com/glacialguard/alert-service/internal/channel"
	"github.com/glacialguard/alert-service/internal/config"
	"github.com/glacialguard/alert-service/internal/directory"
	"github.com/glacialguard/alert-service/internal/dispatch"
	"github.com/glacialguard/alert-service/internal/logger"
	"github.com/glacialguard/alert-service/internal/providers/factory"
	"github.com/glacialguard/alert-service/internal/reports"
	"github.com/glacialguard/alert-service/internal/riskdata"
	"github.com/glacialguard/alert-service/internal/status"
	"github.com/glacialguard/alert-service/internal/templates"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "alert-server").Logger()

	smsProvider, err := factory.SMS(cfg.Providers, cfg.Providers.Timeout(), logger.Component(log, "sms-provider"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sms provider")
	}
	waProvider, err := factory.WhatsApp(cfg.Providers, cfg.Providers.Timeout(), logger.Component(log, "whatsapp-provider"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise whatsapp provider")
	}

	smsAdapter, err := channel.NewSMSAdapter(smsProvider, logger.Component(log, "sms-channel"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sms channel")
	}
	waAdapter, err := channel.NewWhatsAppAdapter(waProvider, logger.Component(log, "whatsapp-channel"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise whatsapp channel")
	}

	statusPublisher := status.Publisher(status.NewNop())
	if cfg.Kafka.Enabled() {
		kafkaPublisher, err := status.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.StatusTopic, logger.Component(log, "status-publisher"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialise kafka status publisher")
		}
		statusPublisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.StatusTopic).Msg("delivery status publishing enabled")
	}
	defer func() {
		if err := statusPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close status publisher")
		}
	}()

	renderer := templates.NewRenderer()
	dispatcher, err := dispatch.New(
		smsAdapter,
		waAdapter,
		directory.NewStatic(),
		renderer,
		logger.Component(log, "dispatch"),
		dispatch.WithConcurrency(cfg.Dispatch.Concurrency),
		dispatch.WithStatusPublisher(statusPublisher),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise dispatcher")
	}

	repo, err := buildReportStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise report store")
	}
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close report store")
			}
		}()
	}

	risk := riskdata.NewService(cfg.RiskModel.URL, log)

	server, err := api.New(dispatcher, repo, risk, api.Config{
		AllowedOrigin: cfg.App.AllowedOrigin,
		UploadDir:     cfg.Uploads.Dir,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise http server")
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Int("port", cfg.App.Port).Msg("alert server started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server terminated with error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildReportStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (reports.Repository, error) {
	switch cfg.Reports.Backend {
	case "redis":
		return reports.NewRedis(ctx, cfg.Reports.RedisURL, log)
	default:
		return reports.NewMemory(), nil
	}
}

func fail(stage string, err error) {
	boot := zerolog.New(os.Stdout).With().Timestamp().Logger()
	boot.Fatal().Err(err).Str("stage", stage).Msg("alert server init failed")
}
