package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/tradebook/pkg/secrets"
)

// Secret keys read from the connection secret.
const (
	KeyDSN           = "dsn"
	KeyRedisPassword = "redis_password"
)

// Connection holds the credentials the service may need at startup.
type Connection struct {
	DatabaseURL   string
	RedisPassword string
}

// ResolveConnection overlays the values stored under secretID onto fallback.
// Keys absent from the secret keep their fallback (environment) value.
func ResolveConnection(ctx context.Context, logger *zap.Logger, provider pkgsecrets.Provider, secretID string, fallback Connection) (Connection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secretID == "" {
		return fallback, nil
	}
	if provider == nil {
		return fallback, fmt.Errorf("resolve connection %q: no secrets provider", secretID)
	}

	values, err := provider.GetSecret(ctx, secretID)
	if err != nil {
		logger.Warn("aws.secret_fetch_failed",
			zap.String("key", secretID),
			zap.Error(err))
		return fallback, fmt.Errorf("resolve connection %q: %w", secretID, err)
	}

	conn := fallback
	if v := values[KeyDSN]; v != "" {
		conn.DatabaseURL = v
	}
	if v := values[KeyRedisPassword]; v != "" {
		conn.RedisPassword = v
	}

	logger.Info("aws.connection_resolved",
		zap.String("key", secretID),
		zap.Bool("dsn_from_secret", values[KeyDSN] != ""),
		zap.Bool("redis_password_from_secret", values[KeyRedisPassword] != ""))
	return conn, nil
}
