package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/rate"
)

// HealthChecker is implemented by optional dependencies (Redis cache, NATS responder).
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StoreInfo is the slice of the trade snapshot reported by /health.
type StoreInfo interface {
	Len() int
	Fingerprint() string
}

// Deps bundles what RegisterRoutes wires.
type Deps struct {
	Logger  *zap.Logger
	Handler *TradeHandler
	Store   StoreInfo
	Checks  map[string]HealthChecker
	Limiter *rate.Manager // nil disables rate limiting
}

func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Use(RequestID())
	app.Use(AccessLog(logger))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"store": fmt.Sprintf("ok (%d trades, %s)", d.Store.Len(), d.Store.Fingerprint()),
		}
		status := "ok"
		code := fiber.StatusOK

		healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for name, chk := range d.Checks {
			if err := chk.HealthCheck(healthCtx); err != nil {
				checks[name] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// Query routes. Registered after /health and /metrics, which bypass the rate limiter.
	if d.Limiter != nil {
		app.Use(RateLimit(d.Limiter))
	}
	app.Get("/listing", d.Handler.Listing)
	app.Get("/trade/:trade_id", d.Handler.GetTrade)
	app.Get("/search", d.Handler.Search)
	app.Get("/filter", d.Handler.Filter)
}
