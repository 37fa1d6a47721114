package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"journal-insight/internal/config"
	"journal-insight/internal/db"
	apihttp "journal-insight/internal/http"
	"journal-insight/internal/llm"
	"journal-insight/internal/repository"
	"journal-insight/internal/service"
	"journal-insight/internal/store"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, continuing without redis", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	var backend store.KeyValueStore
	switch {
	case cfg.DatabaseURL != "":
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		backend = store.NewPostgresStore(pool)
		logger.Info("using postgres store")
	case redisClient != nil:
		backend = store.NewRedisStore(redisClient)
		logger.Info("using redis store")
	default:
		backend = store.NewMemoryStore()
		logger.Warn("no DATABASE_URL or REDIS_ADDR, entries are kept in memory")
	}
	kv, err := store.NewCachedStore(backend, cfg.KVCacheSize)
	if err != nil {
		logger.Fatal("kv cache", zap.Error(err))
	}

	llmClient, err := llm.NewClient(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}
	if !cfg.RemoteEnabled() {
		logger.Info("LLM_API_KEY not set, remote analysis disabled")
	}

	var limiter service.RemoteCallLimiter
	if redisClient != nil {
		limiter = service.NewRedisCallLimiter(redisClient, time.Hour, cfg.LLMCallsPerHour)
	} else {
		limiter = service.NewMemoryCallLimiter(time.Hour, cfg.LLMCallsPerHour)
	}

	scoring := service.ScoringFromConfig(cfg)
	picker := service.RandomPicker()

	analyzer := service.NewAIService(
		llmClient,
		service.NewEmotionDetector(scoring),
		service.NewDistortionDetector(scoring, logger),
		service.NewActivityGenerator(),
		service.NewReflectionGenerator(picker),
		limiter,
		service.AIServiceOptions{
			Timeout:     cfg.LLMAnalysisTimeout,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			Structured:  llm.SupportsSchema(cfg.LLMProvider),
		},
		logger,
	)
	reframer := service.NewReframingService(llmClient, cfg.LLMReframeTimeout, picker, logger)

	toolkitRepo := repository.NewKVToolkitRepository(kv)
	entryRepo := repository.NewKVEntryRepository(kv)

	analysisHandler := apihttp.NewAnalysisHandler(logger, analyzer, reframer, toolkitRepo)
	journalHandler := apihttp.NewJournalHandler(logger, analyzer, toolkitRepo, entryRepo)
	router := apihttp.NewRouter(logger, analysisHandler, journalHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.Bool("remote_enabled", llmClient != nil))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
