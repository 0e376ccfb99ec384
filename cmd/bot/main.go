package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vtravel/hotelbot/internal/adapters/sessions"
	"github.com/vtravel/hotelbot/internal/application/services"
	"github.com/vtravel/hotelbot/internal/domain/repositories"
	"github.com/vtravel/hotelbot/internal/infrastructure/clients/hotels"
	"github.com/vtravel/hotelbot/internal/infrastructure/clients/translate"
	"github.com/vtravel/hotelbot/internal/infrastructure/observability"
	"github.com/vtravel/hotelbot/internal/infrastructure/telegram"
	"github.com/vtravel/hotelbot/pkg/config"
	"github.com/vtravel/hotelbot/pkg/retry"
	"github.com/vtravel/hotelbot/pkg/secrets"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optionally pull credentials from Vault into the environment
	vaultResult, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to load Vault secrets: %v", err)
	}
	if vaultResult.Enabled {
		log.Printf("Vault secrets loaded from %s (loaded=%d skipped=%d)", vaultResult.Path, vaultResult.Loaded, vaultResult.Skipped)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN must be set")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)
	logger := observability.GetLogger()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Pick the session backend; abandoned dialogues expire after the idle TTL
	var sessionRepo repositories.SessionRepository
	switch cfg.Session.Backend {
	case "redis":
		var store *sessions.RedisStore
		err := retry.Do(ctx, retry.DefaultConfig(), func() error {
			var connectErr error
			store, connectErr = sessions.NewRedisStore(&cfg.Redis, cfg.Session.IdleTTL)
			return connectErr
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis session store")
		}
		defer store.Close()
		sessionRepo = store
		logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis session store initialized")
	default:
		store := sessions.NewMemoryStore(cfg.Session.IdleTTL)
		defer store.Close()
		sessionRepo = store
		logger.Info().Dur("idle_ttl", cfg.Session.IdleTTL).Msg("in-memory session store initialized")
	}

	hotelClient := hotels.NewClient(&cfg.Hotels)
	translateClient := translate.NewClient(&cfg.Translate)

	api, err := telegram.NewAPI(&cfg.Telegram)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Telegram")
	}

	dialogue := services.NewDialogueService(
		hotelClient,
		translateClient,
		telegram.NewSender(api),
		sessionRepo,
		*logger,
	)
	bot := telegram.NewBot(api, dialogue, *logger)

	// Run the long-poll loop until interrupted
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("shutting down")
		cancel()
	}()

	bot.Run(ctx)
}
