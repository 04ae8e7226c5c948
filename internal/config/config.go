package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported cache store backends.
const (
	BackendGorm     = "gorm"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds every runtime setting of the server, read from the environment.
type Config struct {
	Port   string
	DBPath string
	JWT    JWTConfig
	Cache  CacheConfig
	AWS    AWSConfig
	Redis  RedisConfig
	Log    LogConfig
}

// JWTConfig controls token issuing and validation.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// CacheConfig controls the history read-through cache.
type CacheConfig struct {
	Backend string
	TTL     time.Duration
	Codec   string
	// TableName is the DynamoDB table holding cache entries.
	TableName string
	// InvalidateConcurrency bounds in-flight deletes during bulk invalidation.
	InvalidateConcurrency int
}

type AWSConfig struct {
	Region string
	// DynamoDBEndpoint overrides the resolved endpoint, e.g. for DynamoDB Local.
	DynamoDBEndpoint string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level       string
	Development bool
}

// Load reads the configuration from environment variables, falling back to
// development defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:   getEnv("PORT", "8008"),
		DBPath: getEnv("DB_PATH", "character-merge.db"),
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
			Issuer:   getEnv("JWT_ISSUER", "character-merge-api"),
			Audience: getEnv("JWT_AUDIENCE", "character-merge-clients"),
		},
		Cache: CacheConfig{
			Backend:   getEnv("CACHE_BACKEND", BackendGorm),
			Codec:     getEnv("CACHE_CODEC", "json"),
			TableName: getEnv("CACHE_TABLE_NAME", "cache"),
		},
		AWS: AWSConfig{
			Region:           getEnv("AWS_REGION", "us-east-1"),
			DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if cfg.JWT.TTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Cache.TTL, err = getDuration("CACHE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Cache.InvalidateConcurrency, err = getInt("CACHE_INVALIDATE_CONCURRENCY", 16); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.Log.Development, err = getBool("LOG_DEVELOPMENT", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late at runtime.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendGorm, BackendDynamoDB, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	switch c.Cache.Codec {
	case "json", "msgpack":
	default:
		return fmt.Errorf("unknown CACHE_CODEC %q", c.Cache.Codec)
	}
	if c.Cache.TTL < time.Second {
		return errors.New("CACHE_TTL must be at least one second")
	}
	if c.Cache.InvalidateConcurrency < 1 {
		return errors.New("CACHE_INVALIDATE_CONCURRENCY must be positive")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
