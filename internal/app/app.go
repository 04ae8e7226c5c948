// Package app assembles the server from configuration: database, cache store,
// services, realtime hub and HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"

	"character-merge-api/internal/auth"
	"character-merge-api/internal/cache"
	"character-merge-api/internal/characters"
	"character-merge-api/internal/config"
	"character-merge-api/internal/database"
	"character-merge-api/internal/handlers"
	"character-merge-api/internal/history"
	"character-merge-api/internal/merge"
	"character-merge-api/internal/metrics"
	"character-merge-api/internal/realtime"
	"character-merge-api/internal/repository"
	"character-merge-api/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App is a fully wired server.
type App struct {
	Config   config.Config
	DB       *gorm.DB
	Store    cache.Store
	Registry *prometheus.Registry
	Metrics  *metrics.Cache
	Hub      *realtime.Hub
	Auth     *auth.Manager
	Router   *gin.Engine

	log     *zap.Logger
	closers []func() error
}

// Option overrides a dependency New would otherwise build from the config.
type Option func(*App)

// WithDB uses db instead of opening cfg.DBPath. The caller keeps ownership.
func WithDB(db *gorm.DB) Option {
	return func(a *App) { a.DB = db }
}

// WithStore uses s as the cache store regardless of CACHE_BACKEND.
func WithStore(s cache.Store) Option {
	return func(a *App) { a.Store = s }
}

// New builds the App. Age ranges are seeded on every start; existing rows are
// left alone.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}

	if a.DB == nil {
		db, err := database.InitDB(cfg.DBPath, logger.Warn)
		if err != nil {
			return nil, err
		}
		a.DB = db
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
	}

	seeded, err := database.SeedAgeRanges(ctx, a.DB)
	if err != nil {
		a.Close()
		return nil, err
	}
	if seeded > 0 {
		log.Info("seeded age ranges", zap.Int64("rows", seeded))
	}

	if a.Store == nil {
		if a.Store, err = a.newStore(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	codec, err := cache.CodecByName[history.PageResult](cfg.Cache.Codec)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewCache(a.Registry)

	readThrough := cache.NewReadThrough(a.Store, codec, cache.Options{
		TTL:     cfg.Cache.TTL,
		Logger:  log,
		Metrics: a.Metrics,
	})
	invalidator := cache.NewInvalidator(a.Store, cfg.Cache.InvalidateConcurrency, log, a.Metrics)

	a.Hub = realtime.NewHub()
	a.Auth = auth.NewManager(cfg.JWT)

	characterRepo := repository.NewCharacters(a.DB)
	mergedRepo := repository.NewMergedRecords(a.DB)

	h := handlers.New(handlers.Deps{
		Characters: characters.NewService(characterRepo, invalidator, a.Hub, log),
		Merge:      merge.NewService(characterRepo, repository.NewAgeRanges(a.DB), mergedRepo, invalidator, a.Hub, log),
		History:    history.NewService(mergedRepo, readThrough),
		Auth:       a.Auth,
		Hub:        a.Hub,
		Logger:     log,
	})
	a.Router = routes.SetupRoutes(h, a.Auth, a.Registry)

	log.Info("application ready",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("cache_codec", cfg.Cache.Codec),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)
	return a, nil
}

func (a *App) newStore(ctx context.Context) (cache.Store, error) {
	cfg := a.Config
	switch cfg.Cache.Backend {
	case config.BackendGorm:
		return cache.NewGormStore(a.DB), nil

	case config.BackendDynamoDB:
		client, err := cache.NewDynamoDBClient(ctx, cfg.AWS.Region, cfg.AWS.DynamoDBEndpoint)
		if err != nil {
			return nil, err
		}
		return cache.NewDynamoStore(client, cfg.Cache.TableName), nil

	case config.BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// An unreachable Redis only degrades the cache, so startup goes on.
		if err := rdb.Ping(ctx).Err(); err != nil {
			a.log.Warn("redis not reachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		store, err := cache.NewRedisStore(rdb)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// Close releases the resources New opened.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
