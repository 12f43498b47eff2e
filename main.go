package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/offerwatch/config"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/services/cache"
	"sjsage522/offerwatch/services/fetcher"
	"sjsage522/offerwatch/services/notifier"
	"sjsage522/offerwatch/services/scheduler"
	"sjsage522/offerwatch/services/store"
	"sjsage522/offerwatch/services/trigger"
	"sjsage522/offerwatch/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("store", cfg.Store).
		Str("notifier", cfg.Notifier).
		Str("schedule", cfg.Schedule).
		Msg("Starting application")

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	services.Scheduler.Start()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- services.Trigger.ListenAndServe(cfg.HTTPAddr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("HTTP trigger exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := services.Trigger.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP trigger shutdown failed")
	}
	services.Scheduler.Stop()
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Store     store.SnapshotStore
	Notifier  notifier.Notifier
	Runner    *worker.SerialRunner
	Scheduler *scheduler.Scheduler
	Trigger   *trigger.Server

	closers []func() error
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logger.Default.Warn().Err(err).Msg("Failed to close service")
		}
	}
}

// initializeServices initializes all required services
func initializeServices(cfg *config.Config) (*Services, error) {
	services := &Services{}
	log := logger.Default

	// Rate limit guard is optional
	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache is not reachable, fetch rate limit guard may fail open")
		} else {
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
		services.Cache = mc
	}

	switch cfg.Store {
	case config.StoreMemory:
		services.Store = store.NewMemoryStore()
	default:
		redisStore := store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.RedisSnapshotKey)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			redisStore.Close()
			return nil, err
		}
		log.Info().
			Str("addr", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Str("key", cfg.RedisSnapshotKey).
			Msg("Connected to Redis snapshot store")
		services.Store = redisStore
	}
	services.closers = append(services.closers, services.Store.Close)

	switch cfg.Notifier {
	case config.NotifierRedis:
		streamNotifier := notifier.NewStreamNotifier(cfg.RedisAddr, cfg.RedisDB, cfg.RedisAlertStream, cfg.RedisStreamMaxLength)
		services.closers = append(services.closers, streamNotifier.Close)
		services.Notifier = streamNotifier
	default:
		services.Notifier = notifier.NewTelegramNotifier(cfg.TelegramAPIURL, cfg.TelegramToken, cfg.TelegramChatID)
	}

	f := fetcher.New(cfg.ScrapeURL, services.Cache, cfg.FetchBlockTime())
	w := worker.NewWorker(f, services.Store, services.Notifier, cfg.ScrapeURL)
	services.Runner = worker.NewSerialRunner(w)

	sched, err := scheduler.New(services.Runner, cfg.Schedule)
	if err != nil {
		services.Cleanup()
		return nil, err
	}
	services.Scheduler = sched
	services.Trigger = trigger.New(services.Runner, cfg.TriggerAPIKey)

	return services, nil
}
