package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that would override defaults
	envVars := []string{
		"SERVICE_NAME", "ENV", "LOG_LEVEL", "LOG_FILE", "PORT",
		"TRADES_SOURCE", "TRADES_FILE", "GENERATOR_COUNT", "GENERATOR_SEED",
		"DEFAULT_PAGE_RATE", "REDIS_ADDR", "NATS_URL", "NATS_SUBJECT_PREFIX",
		"RATE_LIMIT_RPS", "CACHE_TTL", "HTTP_READ_TIMEOUT",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServiceName != "tradebook" {
		t.Errorf("expected ServiceName=tradebook, got %s", cfg.ServiceName)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %s", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.Port)
	}
	if cfg.TradesSource != SourceGenerator {
		t.Errorf("expected TradesSource=generator, got %s", cfg.TradesSource)
	}
	if cfg.GeneratorCount != 500 {
		t.Errorf("expected GeneratorCount=500, got %d", cfg.GeneratorCount)
	}
	if cfg.GeneratorSeed != 1 {
		t.Errorf("expected GeneratorSeed=1, got %d", cfg.GeneratorSeed)
	}
	if cfg.DefaultPageRate != 10 {
		t.Errorf("expected DefaultPageRate=10, got %d", cfg.DefaultPageRate)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected cache disabled by default, got RedisAddr=%s", cfg.RedisAddr)
	}
	if cfg.NATSURL != "" {
		t.Errorf("expected NATS disabled by default, got %s", cfg.NATSURL)
	}
	if cfg.NATSSubjectPrefix != "tradebook" {
		t.Errorf("expected NATSSubjectPrefix=tradebook, got %s", cfg.NATSSubjectPrefix)
	}
	if cfg.RateLimitRPS != 0 {
		t.Errorf("expected rate limiting disabled, got %d rps", cfg.RateLimitRPS)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected CacheTTL=10m, got %v", cfg.CacheTTL)
	}
	if cfg.HTTPReadTimeout != 10*time.Second {
		t.Errorf("expected HTTPReadTimeout=10s, got %v", cfg.HTTPReadTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "tradebook-uat")
	t.Setenv("ENV", "uat")
	t.Setenv("PORT", "9100")
	t.Setenv("TRADES_SOURCE", "file")
	t.Setenv("TRADES_FILE", "/srv/trades.json")
	t.Setenv("GENERATOR_SEED", "42")
	t.Setenv("DEFAULT_PAGE_RATE", "25")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "50")

	cfg := Load()

	if cfg.ServiceName != "tradebook-uat" {
		t.Errorf("expected ServiceName=tradebook-uat, got %s", cfg.ServiceName)
	}
	if cfg.Env != "uat" {
		t.Errorf("expected Env=uat, got %s", cfg.Env)
	}
	if cfg.Port != 9100 {
		t.Errorf("expected Port=9100, got %d", cfg.Port)
	}
	if cfg.TradesSource != SourceFile || cfg.TradesFile != "/srv/trades.json" {
		t.Errorf("unexpected source config: %s %s", cfg.TradesSource, cfg.TradesFile)
	}
	if cfg.GeneratorSeed != 42 {
		t.Errorf("expected GeneratorSeed=42, got %d", cfg.GeneratorSeed)
	}
	if cfg.DefaultPageRate != 25 {
		t.Errorf("expected DefaultPageRate=25, got %d", cfg.DefaultPageRate)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("expected RedisAddr=redis:6379, got %s", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected CacheTTL=30s, got %v", cfg.CacheTTL)
	}
	if cfg.RateLimitRPS != 50 {
		t.Errorf("expected RateLimitRPS=50, got %d", cfg.RateLimitRPS)
	}
}

func TestGetEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_UINT", "-1")
	t.Setenv("X_DUR", "soon")

	if got := GetEnvInt("X_INT", 7); got != 7 {
		t.Errorf("GetEnvInt fallback: got %d", got)
	}
	if got := GetEnvUint64("X_UINT", 3); got != 3 {
		t.Errorf("GetEnvUint64 fallback: got %d", got)
	}
	if got := GetEnvDuration("X_DUR", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration fallback: got %v", got)
	}
	if got := GetEnv("X_MISSING_KEY", "def"); got != "def" {
		t.Errorf("GetEnv fallback: got %s", got)
	}
}
