package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/infrastructure/notifier"
	"portfolio_tracker/internal/infrastructure/restapi"
	"portfolio_tracker/internal/infrastructure/storage"
	"portfolio_tracker/internal/pkg/logger"
	"portfolio_tracker/internal/pkg/metrics"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	logger.SetDefault(slog.New(slogHandler))
	appLogger := logger.NewSlogAdapter()

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// Local key/value store and the stores layered on it.
	kv, err := storage.NewFileStore(cfg.Storage.Path, cfg.Storage.Namespace)
	if err != nil {
		zapLogger.Fatal("Failed to open key/value store", zap.Error(err))
	}
	walletStore := storage.NewWalletStore(kv, appLogger)
	settingsStore := storage.NewSettingsStore(kv)

	// Credentials saved through the API take precedence over the config file.
	if heliusKey, moralisKey, found := settingsStore.Credentials(); found {
		cfg.Helius.APIKey = heliusKey
		cfg.Moralis.APIKey = moralisKey
		zapLogger.Info("Using persisted provider credentials")
	}

	// External provider clients.
	heliusClient := client.NewHeliusClient(
		cfg.Helius.BaseURL,
		cfg.Helius.APIKey,
		time.Duration(cfg.Helius.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	moralisClient := client.NewMoralisClient(
		cfg.Moralis.BaseURL,
		cfg.Moralis.APIKey,
		time.Duration(cfg.Moralis.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	dexScreenerClient := client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
		cfg.PriceResolver.MaxMintsPerBatchRequest,
	)
	jupiterClient := client.NewJupiterClient(
		cfg.Jupiter.BaseURL,
		time.Duration(cfg.Jupiter.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	exchangeRateClient := client.NewExchangeRateClient(
		cfg.ExchangeRate.BaseURL,
		time.Duration(cfg.ExchangeRate.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Provider clients initialized")

	// Services.
	balanceService := service.NewBalanceService(heliusClient, moralisClient, cfg, appLogger)
	priceService := service.NewPriceService([]port.PriceSource{
		service.NewDEXScreenerSource(dexScreenerClient, cfg, appLogger),
		service.NewJupiterSource(jupiterClient, cfg, appLogger),
		service.NewMoralisSource(moralisClient, cfg, appLogger),
	}, cfg, appLogger)
	rateCache := service.NewRateCache(port.RateSourceFunc(exchangeRateClient.GetLatestRates), kv, appLogger)
	currencyService := service.NewCurrencyService(rateCache, appLogger)
	trayNotifier := notifier.NewLogNotifier(zapLogger)
	portfolioService := service.NewPortfolioService(
		balanceService,
		priceService,
		walletStore,
		settingsStore,
		currencyService,
		trayNotifier,
		kv,
		cfg,
		appLogger,
	)
	zapLogger.Info("Services initialized")

	// Periodic refresh. Overlapping runs for the same wallet set coalesce
	// inside the service.
	scheduler := cron.New()
	spec := fmt.Sprintf("@every %ds", cfg.Portfolio.RefreshIntervalSeconds)
	if _, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, _, err := portfolioService.Refresh(ctx); err != nil {
			zapLogger.Error("Scheduled refresh failed", zap.Error(err))
		}
	}); err != nil {
		zapLogger.Fatal("Failed to schedule refresh", zap.Error(err))
	}
	scheduler.Start()
	zapLogger.Info("Refresh scheduler started", zap.String("interval", spec))

	// HTTP API.
	router := restapi.SetupRouter(
		restapi.NewPortfolioHandler(portfolioService, currencyService, settingsStore),
		restapi.NewWalletHandler(walletStore),
		restapi.NewSettingsHandler(settingsStore),
		zapLogger,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	scheduler.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
