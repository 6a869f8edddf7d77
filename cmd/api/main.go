// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/voyage-planner/voyage/internal/auth"
	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/config"
	"github.com/voyage-planner/voyage/internal/events"
	"github.com/voyage-planner/voyage/internal/handler"
	"github.com/voyage-planner/voyage/internal/middleware"
	"github.com/voyage-planner/voyage/internal/planner"
	"github.com/voyage-planner/voyage/internal/repo"
	"github.com/voyage-planner/voyage/internal/repo/memory"
	"github.com/voyage-planner/voyage/internal/repo/mongo"
	"github.com/voyage-planner/voyage/internal/service"
	"github.com/voyage-planner/voyage/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Store ------------------------------------------------------------
	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Cache ------------------------------------------------------------
	// A nil Cache interface disables response caching. A typed nil client
	// would not, so the interface stays unset when Redis is not configured.
	var cache middleware.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		cache = rdb
		logger.Info("response cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	// --- Events -----------------------------------------------------------
	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher", "error", err)
		}
	}()

	// --- Services ---------------------------------------------------------
	opts := service.Options{Log: logger, Events: publisher}
	matcher := catalog.Default()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, nil)
	trips := service.NewTripService(repos, opts)

	server := handler.NewServer(handler.Services{
		Trips:       trips,
		Bookings:    service.NewBookingService(repos, matcher, opts),
		Itineraries: service.NewItineraryService(repos, planner.NewGenerator(nil), opts),
		Search:      service.NewSearchService(matcher, nil),
		Auth:        service.NewAuthService(repos.Users, tokens, cfg.BCryptCost),
		Export:      service.NewExportService(trips),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → MaxBodySize. Authentication, caching and rate limiting apply
	// to route groups only.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	server.Routes(r, handler.RouteOptions{
		Authenticate: middleware.Authenticate(tokens),
		Cache:        middleware.NewResponseCache(cache, cfg.CacheTTL, "voyage:", logger),
		RateLimit:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler,
	})

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured backend and returns its repos plus a
// function releasing the connection.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (service.Repos, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		m := memory.New()
		logger.Warn("using in-memory store; data is lost on restart")
		return service.Repos{
			Users:          m.Users,
			Trips:          m.Trips,
			FlightBookings: m.FlightBookings,
			HotelBookings:  m.HotelBookings,
			Itineraries:    m.Itineraries,
		}, func() {}, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return service.Repos{}, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return service.Repos{}, nil, err
		}
		logger.Info("mongo connection established", "database", cfg.MongoDatabase)
		disconnect := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		m := mongo.New(db)
		return service.Repos{
			Users:          m.Users,
			Trips:          m.Trips,
			FlightBookings: m.FlightBookings,
			HotelBookings:  m.HotelBookings,
			Itineraries:    m.Itineraries,
		}, disconnect, nil

	default:
		// pgxpool.New does not open connections immediately; the ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return service.Repos{}, nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return service.Repos{}, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return service.Repos{}, nil, err
		}
		logger.Info("database connection established")
		return service.Repos{
			Users:          repo.NewUserRepo(pool),
			Trips:          repo.NewTripRepo(pool),
			FlightBookings: repo.NewFlightBookingRepo(pool),
			HotelBookings:  repo.NewHotelBookingRepo(pool),
			Itineraries:    repo.NewItineraryRepo(pool),
		}, pool.Close, nil
	}
}

// migrate applies pending goose migrations through a database/sql handle
// borrowed from pool.
func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "duration", r.Duration.String())
	}
	return nil
}

// newPublisher returns the broker selected by EVENT_BROKER. Without one,
// events are only logged.
func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	switch cfg.EventBroker {
	case config.BrokerRabbitMQ:
		p, err := events.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		logger.Info("publishing events to rabbitmq")
		return p, nil
	case config.BrokerKafka:
		p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
		return p, nil
	default:
		return events.NewLogPublisher(logger), nil
	}
}
