package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

// QueryService defines the query operations needed by the handler.
type QueryService interface {
	List(ctx context.Context, p query.ListParams) (query.Page, error)
	Search(ctx context.Context, p query.SearchParams) (query.Page, error)
	Filter(ctx context.Context, p query.FilterParams) (query.Page, error)
	Get(ctx context.Context, id string) (model.Trade, error)
}

// ResponseCache stores rendered response bodies. Fetch returns the cached body for key or
// calls render and caches its result; errors from render are returned and never cached.
type ResponseCache interface {
	Fetch(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error)
}

// TradeHandler serves the trade query endpoints.
type TradeHandler struct {
	logger          *zap.Logger
	service         QueryService
	cache           ResponseCache
	defaultPageRate int
}

// NewTradeHandler creates a TradeHandler.
// cache is optional; if nil, every request is computed.
func NewTradeHandler(logger *zap.Logger, service QueryService, cache ResponseCache, defaultPageRate int) *TradeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPageRate == 0 {
		defaultPageRate = 10
	}
	return &TradeHandler{
		logger:          logger,
		service:         service,
		cache:           cache,
		defaultPageRate: defaultPageRate,
	}
}

// Listing handles GET /listing.
func (h *TradeHandler) Listing(c *fiber.Ctx) error {
	p, err := parseListParams(c, h.defaultPageRate)
	if err != nil {
		return h.writeError(c, "listing", err)
	}
	return h.respond(c, "listing", p, func(ctx context.Context) (any, error) {
		page, err := h.service.List(ctx, p)
		if err != nil {
			return nil, err
		}
		return NewListingResponse(page), nil
	})
}

// Search handles GET /search.
func (h *TradeHandler) Search(c *fiber.Ctx) error {
	p, err := parseSearchParams(c, h.defaultPageRate)
	if err != nil {
		return h.writeError(c, "search", err)
	}
	return h.respond(c, "search", p, func(ctx context.Context) (any, error) {
		page, err := h.service.Search(ctx, p)
		if err != nil {
			return nil, err
		}
		return NewTradesResponse(page), nil
	})
}

// Filter handles GET /filter.
func (h *TradeHandler) Filter(c *fiber.Ctx) error {
	p, err := parseFilterParams(c, h.defaultPageRate)
	if err != nil {
		return h.writeError(c, "filter", err)
	}
	return h.respond(c, "filter", p, func(ctx context.Context) (any, error) {
		page, err := h.service.Filter(ctx, p)
		if err != nil {
			return nil, err
		}
		return NewTradesResponse(page), nil
	})
}

// GetTrade handles GET /trade/:trade_id.
func (h *TradeHandler) GetTrade(c *fiber.Ctx) error {
	id := c.Params("trade_id")
	if id == "" {
		return h.writeError(c, "trade", &ParamError{Param: "trade_id", Reason: "is required"})
	}
	t, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, "trade", err)
	}
	return c.Status(fiber.StatusOK).JSON(NewTradeResponse(t))
}

// respond renders the envelope built by compute, through the cache when one is configured.
// params is the parsed request; its JSON form keys the cache so equivalent URLs share an entry.
func (h *TradeHandler) respond(c *fiber.Ctx, op string, params any, compute func(ctx context.Context) (any, error)) error {
	ctx := c.UserContext()
	render := func() ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	var (
		body []byte
		err  error
	)
	if h.cache != nil {
		key, kerr := json.Marshal(params)
		if kerr != nil {
			return h.writeError(c, op, kerr)
		}
		body, err = h.cache.Fetch(ctx, op+":"+string(key), render)
	} else {
		body, err = render()
	}
	if err != nil {
		return h.writeError(c, op, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}

func (h *TradeHandler) writeError(c *fiber.Ctx, op string, err error) error {
	status, resp := ClassifyError(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("api.request_failed",
			zap.String("operation", op),
			zap.String("path", c.OriginalURL()),
			zap.Error(err))
	} else {
		h.logger.Debug("api.request_rejected",
			zap.String("operation", op),
			zap.String("code", resp.Code),
			zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}
