package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MichalMitros/cms-sync/cmd/cmssync/config"
	"github.com/MichalMitros/cms-sync/internal/cache"
	"github.com/MichalMitros/cms-sync/internal/cms"
	"github.com/MichalMitros/cms-sync/internal/fallback"
	"github.com/MichalMitros/cms-sync/internal/handler"
	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/cms-sync/internal/platform/storage"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	// UserAgent is user agent header value used in CMS requests.
	UserAgent = "cms-sync/0.1.0"

	redisPrefix = "cms-sync:"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("level", cfg.LogLevel).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	strategy, err := fallback.ParseStrategy(cfg.Fallback.Strategy)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse fallback strategy")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	store := storage.NewPostgres(pgDB)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't migrate Postgres schema")
	}

	mtr := metrics.New()
	mtr.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// use Redis caches when configured, in-memory ones otherwise
	var (
		redisClient   *redis.Client
		cmsCache      cache.Cache[[]models.Product] = cache.NewMemory[[]models.Product]()
		fallbackCache cache.Cache[[]models.Product] = cache.NewMemory[[]models.Product]()
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't connect to Redis")
		}
		cmsCache = cache.NewRedis[[]models.Product](redisClient, redisPrefix+"cms:")
		fallbackCache = cache.NewRedis[[]models.Product](redisClient, redisPrefix+"fallback:")
	}

	client, err := cms.NewClient(
		cfg.CMS,
		cms.WithHTTPClient(&http.Client{Transport: userAgentTransport{next: http.DefaultTransport}}),
		cms.WithCache(cmsCache),
		cms.WithLogger(&logger),
		cms.WithMetrics(mtr),
	)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create CMS client")
	}

	fallbackService := fallback.NewService(
		client,
		store,
		store,
		fallback.WithStrategy(strategy),
		fallback.WithCache(fallbackCache),
		fallback.WithCacheTTL(cfg.Fallback.CacheTTL),
		fallback.WithBreakerSettings(cfg.Fallback.FailureThreshold, cfg.Fallback.RecoveryTimeout),
		fallback.WithLogger(&logger),
		fallback.WithMetrics(mtr),
	)

	syn := syncer.NewSyncer(
		client,
		store,
		syncer.WithBatchSize(cfg.Sync.BatchSize),
		syncer.WithPageSize(cfg.Sync.PageSize),
		syncer.WithImageOptions(syncer.ImageOptions{
			Width:   cfg.Sync.ImageWidth,
			Height:  cfg.Sync.ImageHeight,
			Quality: cfg.Sync.ImageQuality,
		}),
		syncer.WithStatusRecorder(fallbackService),
		syncer.WithRunStore(store),
		syncer.WithLogger(&logger),
		syncer.WithMetrics(mtr),
	)

	// start consuming sync commands when RabbitMQ is configured
	var (
		amqpConnection *amqp.Connection
		mq             *rabbitmq.RabbitMQ
	)
	if cfg.RabbitMQ.URL != "" {
		amqpConnection, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ connection")
		}

		mq, err = rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ channel")
		}

		if err := mq.DeclareQueue(cfg.RabbitMQ.Queue, cfg.RabbitMQ.CommandsKey); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't declare RabbitMQ queue")
		}

		han := handler.NewHandler(mq, mq, syn, cfg.RabbitMQ.ResultsKey, &logger)
		if err := han.Start(ctx, cfg.RabbitMQ.Queue); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't start consuming")
		}
	}

	// serve HTTP API
	api := handler.NewAPI(fallbackService, syn, store, client, mtr.Handler())
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(&logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("HTTP server failed")
			cancel()
		}
	}()

	go handler.NewScheduler(syn, cfg.Sync.Interval, &logger).Run(ctx)

	logger.Info().
		Str("addr", cfg.HTTPAddr).
		Str("provider", string(cfg.CMS.Provider)).
		Str("strategy", string(strategy)).
		Msg("cms sync up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().
			Err(err).
			Msg("can't shutdown HTTP server")
	}

	// wait for consumer and running syncs to finish
	if mq != nil {
		<-mq.Done()
	}
	syn.Wait()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(3)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if amqpConnection == nil {
			return
		}
		if err := amqpConnection.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	go func() {
		defer wg.Done()
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Redis connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}

// userAgentTransport sets User-Agent header on every request.
type userAgentTransport struct {
	next http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent)
	return t.next.RoundTrip(req)
}
