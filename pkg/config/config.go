package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Trade sources accepted by TRADES_SOURCE.
const (
	SourceFile      = "file"
	SourceGenerator = "generator"
	SourcePostgres  = "postgres"
)

// Config holds the runtime configuration of the tradebook service.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "tradebook"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.

	// Optional rotating log file (lumberjack); empty means stdout only.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// Trade snapshot source, read once at startup.
	TradesSource   string // file | generator | postgres
	TradesFile     string
	GeneratorCount int
	GeneratorSeed  uint64
	TradesTable    string // postgres table, optionally schema-qualified
	LoadAttempts   int

	DefaultPageRate int

	DatabaseURL      string
	DatabaseSecretID string // AWS Secrets Manager id holding {"dsn": ..., "redis_password": ...}
	AWSRegion        string
	PGMaxConns       int
	PGConnectTimeout time.Duration

	// Response cache; disabled when RedisAddr is empty.
	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	// NATS request/reply transport; disabled when NATSURL is empty.
	NATSURL           string
	NATSSubjectPrefix string
	NATSQueue         string

	// Per-IP rate limiting; disabled when RateLimitRPS is 0.
	RateLimitRPS   int
	RateLimitBurst int
	RateLimitIdle  time.Duration
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:   GetEnv("SERVICE_NAME", "tradebook"),
		Env:           GetEnv("ENV", "dev"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		LogFile:       GetEnv("LOG_FILE", ""),
		LogMaxSizeMB:  GetEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: GetEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: GetEnvInt("LOG_MAX_AGE_DAYS", 30),

		Port:             GetEnvInt("PORT", 8080),
		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:    GetEnvInt("HTTP_BODY_LIMIT", 64*1024),

		TradesSource:   GetEnv("TRADES_SOURCE", SourceGenerator),
		TradesFile:     GetEnv("TRADES_FILE", "data/trades.json"),
		GeneratorCount: GetEnvInt("GENERATOR_COUNT", 500),
		GeneratorSeed:  GetEnvUint64("GENERATOR_SEED", 1),
		TradesTable:    GetEnv("TRADES_TABLE", "reference.trades"),
		LoadAttempts:   GetEnvInt("TRADES_LOAD_ATTEMPTS", 5),

		DefaultPageRate: GetEnvInt("DEFAULT_PAGE_RATE", 10),

		DatabaseURL:      GetEnv("DATABASE_URL", ""),
		DatabaseSecretID: GetEnv("DATABASE_SECRET_ID", ""),
		AWSRegion:        GetEnv("AWS_REGION", "us-east-2"),
		PGMaxConns:       GetEnvInt("PG_MAX_CONNS", 2),
		PGConnectTimeout: GetEnvDuration("PG_CONNECT_TIMEOUT", 5*time.Second),

		RedisAddr: GetEnv("REDIS_ADDR", ""),
		RedisDB:   GetEnvInt("REDIS_DB", 0),
		RedisPass: GetEnv("REDIS_PASS", ""),
		CacheTTL:  GetEnvDuration("CACHE_TTL", 10*time.Minute),

		NATSURL:           GetEnv("NATS_URL", ""),
		NATSSubjectPrefix: GetEnv("NATS_SUBJECT_PREFIX", "tradebook"),
		NATSQueue:         GetEnv("NATS_QUEUE", "tradebook"),

		RateLimitRPS:   GetEnvInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: GetEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitIdle:  GetEnvDuration("RATE_LIMIT_IDLE", 10*time.Minute),
	}
}
