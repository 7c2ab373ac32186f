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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-WebhookRelay/internal/api"
	"github.com/m04kA/SMC-WebhookRelay/internal/config"
	"github.com/m04kA/SMC-WebhookRelay/internal/integrations/webhook"
	"github.com/m04kA/SMC-WebhookRelay/internal/service/telegram"
	"github.com/m04kA/SMC-WebhookRelay/internal/usecase/relay_message"
	"github.com/m04kA/SMC-WebhookRelay/internal/worker"
	"github.com/m04kA/SMC-WebhookRelay/pkg/logger"
	"github.com/m04kA/SMC-WebhookRelay/pkg/metrics"
)

var (
	cfgFile string
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webhookrelay",
		Short: "Relay Telegram messages to a webhook and send its answers back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "config file (.toml or .yaml), optional")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Загружаем конфигурацию
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-WebhookRelay...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем Telegram Bot API
	// Отдельный HTTP клиент: таймаут должен покрывать long polling
	pollTimeout := time.Duration(cfg.Telegram.PollTimeout) * time.Second
	tgHTTPClient := &http.Client{
		Timeout: pollTimeout + time.Duration(cfg.Telegram.RequestTimeout)*time.Second,
	}
	// Недоступность Telegram при старте не фатальна: getMe повторяется с паузой error_delay
	errorDelay := time.Duration(cfg.Worker.ErrorDelay) * time.Second
	bot, err := telegram.Connect(ctx, cfg.Telegram.BotToken, cfg.Telegram.APIURL+"%s/%s", tgHTTPClient, errorDelay, log)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("Stopped before Telegram Bot API became available")
			return nil
		}
		return fmt.Errorf("failed to initialize Telegram Bot API: %w", err)
	}
	log.Info("Telegram Bot API initialized (@%s)", bot.Self.UserName)

	telegramSvc := telegram.NewService(bot, log)

	// Long polling не работает при установленном webhook
	if err := telegramSvc.DeleteWebhook(); err != nil {
		log.Warn("Failed to delete webhook (may not exist): %v", err)
	}

	// Инициализируем клиент внешнего webhook
	webhookClient := webhook.NewClient(
		cfg.Webhook.URL,
		cfg.Webhook.JSONKey,
		cfg.Webhook.Encoding,
		time.Duration(cfg.Webhook.Timeout)*time.Second,
		log,
	)
	log.Info("Webhook client initialized (key=%s, encoding=%s)", cfg.Webhook.JSONKey, cfg.Webhook.Encoding)

	relayUC := relay_message.New(telegramSvc, webhookClient, log)

	pollingHandler := worker.NewPollingHandler(
		telegramSvc,
		relayUC,
		log,
		metricsCollector,
		pollTimeout,
		errorDelay,
	)

	// Периодическая статистика (если включена)
	if cfg.Worker.StatsInterval > 0 {
		reporter := worker.NewStatsReporter(pollingHandler, log, time.Duration(cfg.Worker.StatsInterval)*time.Second)
		if err := reporter.Start(); err != nil {
			log.Error("Failed to start stats reporter: %v", err)
		} else {
			defer reporter.Stop()
		}
	}

	// Служебный HTTP сервер поднимается только вместе с метриками
	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:      api.NewRouter(pollingHandler, cfg.Metrics.Path),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		}

		go func() {
			log.Info("Starting server on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Server failed: %v", err)
			}
		}()
	}

	// Запускаем цикл опроса в фоне, чтобы не зависеть от long polling при остановке
	done := make(chan struct{})
	go func() {
		defer close(done)
		pollingHandler.Start(ctx)
	}()
	log.Info("Telegram long polling started")

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second

	// Ждём завершения текущего обновления; висящий getUpdates не дожидаемся
	select {
	case <-done:
		log.Info("Polling handler stopped (offset %d)", pollingHandler.Offset())
	case <-time.After(shutdownTimeout):
		log.Warn("Polling handler did not stop in %s (offset %d)", shutdownTimeout, pollingHandler.Offset())
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
	}

	log.Info("Stopped gracefully")
	return nil
}
