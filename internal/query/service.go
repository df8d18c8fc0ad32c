package query

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/metrics"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Store is the read-only view of the trade snapshot the service queries.
type Store interface {
	All() []model.Trade
	Get(id string) (model.Trade, bool)
}

// ListParams are the paging and ordering parameters shared by every paged query.
type ListParams struct {
	Page     int    `json:"page"`
	PageRate int    `json:"page_rate"`
	SortBy   string `json:"sort_by,omitempty"`
	Desc     bool   `json:"is_desc,omitempty"`
}

// SearchParams adds a free-text term to ListParams.
type SearchParams struct {
	ListParams
	Search        string `json:"search"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
}

// FilterParams adds structured field constraints to ListParams.
type FilterParams struct {
	ListParams
	AssetClass string           `json:"asset_class,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	Side       model.Side       `json:"trade_type,omitempty"`
}

// Service runs the filter → sort → paginate pipeline against a snapshot.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List pages through the whole snapshot.
func (s *Service) List(ctx context.Context, p ListParams) (Page, error) {
	return s.run(ctx, "listing", p, nil, false)
}

// Search pages through trades whose instrument id, instrument name or counterparty contains the term.
func (s *Service) Search(ctx context.Context, p SearchParams) (Page, error) {
	c := Criteria{Search: p.Search, CaseSensitive: p.CaseSensitive}
	return s.run(ctx, "search", p.ListParams, c.Build(), true)
}

// Filter pages through trades matching every supplied field constraint.
func (s *Service) Filter(ctx context.Context, p FilterParams) (Page, error) {
	c := Criteria{AssetClass: p.AssetClass, MinPrice: p.MinPrice, MaxPrice: p.MaxPrice, Side: p.Side}
	return s.run(ctx, "filter", p.ListParams, c.Build(), true)
}

// Get returns the trade with the given id.
func (s *Service) Get(ctx context.Context, id string) (model.Trade, error) {
	if err := ctx.Err(); err != nil {
		return model.Trade{}, err
	}
	t, ok := s.store.Get(id)
	if !ok {
		metrics.IncQueryResult("trade", resultLabel(ErrTradeNotFound))
		return model.Trade{}, ErrTradeNotFound
	}
	metrics.IncQueryResult("trade", "ok")
	return t, nil
}

func (s *Service) run(ctx context.Context, op string, p ListParams, pred Predicate, filtered bool) (page Page, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveDuration(metrics.QueryDuration, start, op)
		metrics.IncQueryResult(op, resultLabel(err))
		if err != nil {
			s.logger.Debug("query.rejected",
				zap.String("operation", op),
				zap.Int("page", p.Page),
				zap.Int("page_rate", p.PageRate),
				zap.String("sort_by", p.SortBy),
				zap.Error(err))
		}
	}()

	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if err := ValidatePageRate(p.PageRate); err != nil {
		return Page{}, err
	}
	cmp, err := ComparatorFor(p.SortBy, p.Desc)
	if err != nil {
		return Page{}, err
	}

	trades := s.store.All()
	if pred != nil {
		trades = Apply(trades, pred)
	}
	if filtered && len(trades) == 0 {
		return Page{}, ErrNoResultsFound
	}

	return Paginate(Sort(trades, cmp), p.Page, p.PageRate)
}

func resultLabel(err error) string {
	var sortErr *InvalidSortKeyError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidPageRate):
		return "invalid_page_rate"
	case errors.As(err, &sortErr):
		return "invalid_sort_key"
	case errors.Is(err, ErrNoResultsFound):
		return "no_results"
	case errors.Is(err, ErrPageOutOfRange):
		return "page_out_of_range"
	case errors.Is(err, ErrTradeNotFound):
		return "not_found"
	}
	return "error"
}
