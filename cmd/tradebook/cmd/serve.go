package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/api"
	"github.com/Checker-Finance/tradebook/internal/cache"
	"github.com/Checker-Finance/tradebook/internal/generator"
	"github.com/Checker-Finance/tradebook/internal/metrics"
	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/internal/rate"
	"github.com/Checker-Finance/tradebook/internal/responder"
	internalsecrets "github.com/Checker-Finance/tradebook/internal/secrets"
	"github.com/Checker-Finance/tradebook/internal/tradestore"
	"github.com/Checker-Finance/tradebook/pkg/config"
	"github.com/Checker-Finance/tradebook/pkg/logger"
	"github.com/Checker-Finance/tradebook/pkg/secrets"
	"github.com/Checker-Finance/tradebook/pkg/utils"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trade query API",
	Long: `Load the trade snapshot once and serve it over HTTP.

The source is chosen by TRADES_SOURCE (generator, file or postgres). Optional
dependencies stay off until configured: REDIS_ADDR enables response caching,
NATS_URL the NATS responder, RATE_LIMIT_RPS per-IP rate limiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()
	if servePort > 0 {
		cfg.Port = servePort
	}

	logger.InitWithFile(cfg.ServiceName, cfg.Env, cfg.LogLevel, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer logger.Sync()
	logg := logger.S()
	logg.Infow("starting [tradebook]...", "source", cfg.TradesSource, "env", cfg.Env)

	// --- Connection secrets (optional) ---
	conn, err := resolveConnection(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Trade snapshot ---
	snap, err := loadSnapshot(ctx, cfg, conn)
	if err != nil {
		logg.Errorw("tradestore.load_failed", "error", err)
		return err
	}
	metrics.SetStoreTrades(snap.Len())

	svc := query.NewService(snap, logger.L())
	checks := map[string]api.HealthChecker{}

	// --- Response cache (Redis) ---
	var respCache api.ResponseCache
	if cfg.RedisAddr != "" {
		rc, err := cache.New(cache.Options{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: conn.RedisPassword,
		}, snap.Fingerprint(), cfg.CacheTTL, logger.L())
		if err != nil {
			logg.Errorw("cache.init_failed", "addr", cfg.RedisAddr, "error", err)
			return err
		}
		defer func() {
			if err := rc.Close(); err != nil {
				logg.Warnw("cache.close_failed", "error", err)
			}
		}()
		respCache = rc
		checks["redis"] = rc
	} else {
		logg.Info("REDIS_ADDR not configured; response caching disabled")
	}

	// --- NATS responder ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.ServiceName))
		if err != nil {
			logg.Errorw("nats.connect_failed", "url", cfg.NATSURL, "error", err)
			return fmt.Errorf("connect nats: %w", err)
		}
		resp := responder.New(logger.L(), nc, svc, cfg.NATSSubjectPrefix, cfg.NATSQueue, cfg.DefaultPageRate)
		if err := resp.Start(); err != nil {
			nc.Close()
			return err
		}
		checks["nats"] = resp
	}

	// --- Rate limiter ---
	var limiter *rate.Manager
	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	if rl := (rate.Config{RequestsPerSecond: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}); rl.Enabled() {
		limiter = rate.NewManager(rl)
		go limiter.StartSweeper(time.Minute, cfg.RateLimitIdle, stopSweeper)
	}

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})
	api.RegisterRoutes(app, api.Deps{
		Logger:  logger.L(),
		Handler: api.NewTradeHandler(logger.L(), svc, respCache, cfg.DefaultPageRate),
		Store:   snap,
		Checks:  checks,
		Limiter: limiter,
	})

	listenErr := make(chan error, 1)
	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		listenErr <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	logg.Infow("[tradebook] running",
		"trades", snap.Len(),
		"fingerprint", snap.Fingerprint(),
		"cache", cfg.RedisAddr != "",
		"nats", cfg.NATSURL,
		"rate_limit_rps", cfg.RateLimitRPS)

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			logg.Errorw("fiber.listen_failed", "error", err)
			return err
		}
	}
	logg.Info("shutting down [tradebook]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if nc != nil {
		if err := nc.Drain(); err != nil {
			logg.Warnw("nats.drain_failed", "error", err)
		}
	}
	return nil
}

func resolveConnection(ctx context.Context, cfg *config.Config) (internalsecrets.Connection, error) {
	fallback := internalsecrets.Connection{DatabaseURL: cfg.DatabaseURL, RedisPassword: cfg.RedisPass}
	if cfg.DatabaseSecretID == "" {
		return fallback, nil
	}
	provider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
	if err != nil {
		return fallback, fmt.Errorf("create AWS Secrets Manager provider: %w", err)
	}
	return internalsecrets.ResolveConnection(ctx, logger.L(), provider, cfg.DatabaseSecretID, fallback)
}

func loadSnapshot(ctx context.Context, cfg *config.Config, conn internalsecrets.Connection) (*tradestore.Snapshot, error) {
	switch cfg.TradesSource {
	case config.SourceGenerator:
		return tradestore.Load(ctx, tradestore.GeneratorSource{Config: generator.Config{
			Count: cfg.GeneratorCount,
			Seed:  cfg.GeneratorSeed,
		}}, logger.L())
	case config.SourceFile:
		return tradestore.Load(ctx, tradestore.FileSource{Path: cfg.TradesFile}, logger.L())
	case config.SourcePostgres:
		logger.L().Info("tradestore.pg_connecting", zap.String("dsn", utils.MaskDSN(conn.DatabaseURL)))
		pool, err := tradestore.OpenPool(ctx, conn.DatabaseURL, tradestore.PoolConfig{
			MaxConns:       int32(cfg.PGMaxConns),
			ConnectTimeout: cfg.PGConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		// the snapshot is read once; the pool is not needed afterwards
		defer pool.Close()
		return tradestore.LoadWithRetry(ctx, tradestore.PostgresSource{DB: pool, Table: cfg.TradesTable}, cfg.LoadAttempts, logger.L())
	}
	return nil, fmt.Errorf("unknown TRADES_SOURCE %q (want %s, %s or %s)",
		cfg.TradesSource, config.SourceGenerator, config.SourceFile, config.SourcePostgres)
}
