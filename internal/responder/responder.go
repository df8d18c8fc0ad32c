package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/api"
	"github.com/Checker-Finance/tradebook/internal/metrics"
	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Operations served, appended to the subject prefix (e.g. "tradebook.listing").
const (
	OpListing = "listing"
	OpSearch  = "search"
	OpFilter  = "filter"
	OpTrade   = "trade"
)

// HeaderStatus carries the HTTP-equivalent status code of a reply.
const HeaderStatus = "status"

// Request is the JSON body of every query request; each operation reads the fields it needs.
type Request struct {
	Page          *int             `json:"page"`
	PageRate      *int             `json:"page_rate"`
	SortBy        string           `json:"sort_by"`
	IsDesc        bool             `json:"is_desc"`
	Search        *string          `json:"search"`
	CaseSensitive bool             `json:"case_sensitive"`
	AssetClass    string           `json:"asset_class"`
	MinPrice      *decimal.Decimal `json:"min_price"`
	MaxPrice      *decimal.Decimal `json:"max_price"`
	TradeType     string           `json:"trade_type"`
	TradeID       string           `json:"trade_id"`
}

// Responder answers trade queries over NATS request/reply with the same envelopes as HTTP.
type Responder struct {
	nc              *nats.Conn
	service         api.QueryService
	prefix          string
	queue           string
	defaultPageRate int
	timeout         time.Duration
	logger          *zap.Logger
	subs            []*nats.Subscription
}

func New(logger *zap.Logger, nc *nats.Conn, service api.QueryService, prefix, queue string, defaultPageRate int) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPageRate == 0 {
		defaultPageRate = 10
	}
	return &Responder{
		nc:              nc,
		service:         service,
		prefix:          strings.TrimSuffix(prefix, "."),
		queue:           queue,
		defaultPageRate: defaultPageRate,
		timeout:         5 * time.Second,
		logger:          logger,
	}
}

// Start subscribes to every operation subject in the configured queue group.
func (r *Responder) Start() error {
	for _, op := range []string{OpListing, OpSearch, OpFilter, OpTrade} {
		subject := r.prefix + "." + op
		sub, err := r.nc.QueueSubscribe(subject, r.queue, func(msg *nats.Msg) {
			r.serve(op, msg)
		})
		if err != nil {
			_ = r.Stop()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		r.subs = append(r.subs, sub)
		r.logger.Info("responder.subscribed", zap.String("subject", subject), zap.String("queue", r.queue))
	}
	return nil
}

// Stop drains every subscription.
func (r *Responder) Stop() error {
	var firstErr error
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.subs = nil
	return firstErr
}

func (r *Responder) HealthCheck(_ context.Context) error {
	if r.nc == nil || !r.nc.IsConnected() {
		return fmt.Errorf("nats disconnected")
	}
	return r.nc.FlushTimeout(1 * time.Second)
}

func (r *Responder) serve(op string, msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	status, body := r.Handle(ctx, op, msg.Data)
	result := "ok"
	if status != fiber.StatusOK {
		result = "error"
	}
	metrics.IncNATSRequest(msg.Subject, result)

	if msg.Reply == "" {
		return
	}
	reply := nats.NewMsg(msg.Reply)
	reply.Data = body
	reply.Header.Set(HeaderStatus, strconv.Itoa(status))
	reply.Header.Set("content_type", "application/json")
	if err := msg.RespondMsg(reply); err != nil {
		r.logger.Warn("responder.reply_failed", zap.String("subject", msg.Subject), zap.Error(err))
	}
}

// Handle runs one request and returns its status and JSON body. It never fails: errors are
// rendered as api.ErrorResponse bodies.
func (r *Responder) Handle(ctx context.Context, op string, data []byte) (int, []byte) {
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return r.fail(op, &api.ParamError{Param: "body", Reason: "invalid JSON: " + err.Error()})
		}
	}

	var (
		out any
		err error
	)
	switch op {
	case OpTrade:
		if req.TradeID == "" {
			return r.fail(op, &api.ParamError{Param: "trade_id", Reason: "is required"})
		}
		var t model.Trade
		if t, err = r.service.Get(ctx, req.TradeID); err == nil {
			out = api.NewTradeResponse(t)
		}
	case OpListing, OpSearch, OpFilter:
		out, err = r.paged(ctx, op, req)
	default:
		err = &api.ParamError{Param: "operation", Reason: fmt.Sprintf("unknown operation %q", op)}
	}
	if err != nil {
		return r.fail(op, err)
	}

	body, err := json.Marshal(out)
	if err != nil {
		return r.fail(op, err)
	}
	return fiber.StatusOK, body
}

func (r *Responder) paged(ctx context.Context, op string, req Request) (any, error) {
	if req.Page == nil {
		return nil, &api.ParamError{Param: "page", Reason: "is required"}
	}
	lp := query.ListParams{
		Page:     *req.Page,
		PageRate: r.defaultPageRate,
		SortBy:   req.SortBy,
		Desc:     req.IsDesc,
	}
	if req.PageRate != nil {
		lp.PageRate = *req.PageRate
	}

	switch op {
	case OpSearch:
		if req.Search == nil {
			return nil, &api.ParamError{Param: "search", Reason: "is required"}
		}
		page, err := r.service.Search(ctx, query.SearchParams{ListParams: lp, Search: *req.Search, CaseSensitive: req.CaseSensitive})
		if err != nil {
			return nil, err
		}
		return api.NewTradesResponse(page), nil
	case OpFilter:
		fp := query.FilterParams{ListParams: lp, AssetClass: req.AssetClass, MinPrice: req.MinPrice, MaxPrice: req.MaxPrice}
		if req.TradeType != "" {
			side, err := model.ParseSide(req.TradeType)
			if err != nil {
				return nil, &api.ParamError{Param: "trade_type", Reason: "must be 'BUY' or 'SELL'"}
			}
			fp.Side = side
		}
		page, err := r.service.Filter(ctx, fp)
		if err != nil {
			return nil, err
		}
		return api.NewTradesResponse(page), nil
	}

	page, err := r.service.List(ctx, lp)
	if err != nil {
		return nil, err
	}
	return api.NewListingResponse(page), nil
}

func (r *Responder) fail(op string, err error) (int, []byte) {
	status, resp := api.ClassifyError(err)
	if status >= fiber.StatusInternalServerError {
		r.logger.Error("responder.request_failed", zap.String("operation", op), zap.Error(err))
	}
	body, merr := json.Marshal(resp)
	if merr != nil {
		return fiber.StatusInternalServerError, []byte(`{"status":"failure","code":"INTERNAL_ERROR","error":"internal error"}`)
	}
	return status, body
}
