package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/metrics"
	"github.com/Checker-Finance/tradebook/internal/rate"
)

const (
	HeaderRequestID = "X-Request-ID"
	localRequestID  = "request_id"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// AccessLog logs each request and records HTTP metrics.
func AccessLog(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && errors.Is(err, fiber.ErrNotFound) {
			route = "unmatched"
		}

		metrics.IncHTTPRequest(route, c.Method(), strconv.Itoa(status))
		metrics.ObserveDuration(metrics.HTTPRequestDuration, start, route, c.Method())

		logger.Info("api.request",
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}

// RateLimit rejects callers that exceed their per-IP token bucket.
func RateLimit(mgr *rate.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !mgr.Allow(c.IP()) {
			metrics.IncRateLimited()
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Status: statusFailure,
				Code:   CodeRateLimited,
				Error:  "too many requests",
			})
		}
		return c.Next()
	}
}
