package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeInvalidPageRate  = "INVALID_PAGE_RATE"
	CodeInvalidSortKey   = "INVALID_SORT_KEY"
	CodePageOutOfRange   = "PAGE_OUT_OF_RANGE"
	CodeNoResultsFound   = "NO_RESULTS_FOUND"
	CodeTradeNotFound    = "TRADE_NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ListingResponse is the /listing envelope.
type ListingResponse struct {
	Page        string        `json:"page"`
	PageRate    int           `json:"page_rate"`
	TotalTrades int           `json:"total_trades"`
	Results     []model.Trade `json:"results"`
}

// TradesResponse is the /search and /filter envelope.
type TradesResponse struct {
	Status      string        `json:"status"`
	Page        string        `json:"page"`
	PageRate    int           `json:"page_rate"`
	TotalTrades int           `json:"total_trades"`
	Trades      []model.Trade `json:"trades"`
}

// TradeResponse wraps a single trade lookup.
type TradeResponse struct {
	Status string      `json:"status"`
	Trade  model.Trade `json:"trade"`
}

// ErrorResponse is returned for every rejected request.
type ErrorResponse struct {
	Status         string   `json:"status"`
	Code           string   `json:"code"`
	Error          string   `json:"error"`
	SortByReceived string   `json:"sort_by_received,omitempty"`
	SortByList     []string `json:"sort_by_list,omitempty"`
}

func NewListingResponse(p query.Page) ListingResponse {
	return ListingResponse{
		Page:        p.Label(),
		PageRate:    p.PageRate,
		TotalTrades: p.Total,
		Results:     p.Trades,
	}
}

func NewTradesResponse(p query.Page) TradesResponse {
	return TradesResponse{
		Status:      statusSuccess,
		Page:        p.Label(),
		PageRate:    p.PageRate,
		TotalTrades: p.Total,
		Trades:      p.Trades,
	}
}

func NewTradeResponse(t model.Trade) TradeResponse {
	return TradeResponse{Status: statusSuccess, Trade: t}
}

// ParamError reports a missing or malformed request parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return e.Param + ": " + e.Reason
}

// ClassifyError maps a query or request error to its HTTP status and response body.
func ClassifyError(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Status: statusFailure, Error: err.Error()}

	var (
		sortErr  *query.InvalidSortKeyError
		paramErr *ParamError
	)
	switch {
	case errors.As(err, &paramErr):
		resp.Code = CodeInvalidParameter
		return fiber.StatusBadRequest, resp
	case errors.Is(err, query.ErrInvalidPageRate):
		resp.Code = CodeInvalidPageRate
		return fiber.StatusBadRequest, resp
	case errors.As(err, &sortErr):
		resp.Code = CodeInvalidSortKey
		resp.Error = "invalid sort_by property name"
		resp.SortByReceived = sortErr.Received
		resp.SortByList = sortErr.Valid
		return fiber.StatusBadRequest, resp
	case errors.Is(err, query.ErrPageOutOfRange):
		resp.Code = CodePageOutOfRange
		return fiber.StatusNotFound, resp
	case errors.Is(err, query.ErrNoResultsFound):
		resp.Code = CodeNoResultsFound
		return fiber.StatusNotFound, resp
	case errors.Is(err, query.ErrTradeNotFound):
		resp.Code = CodeTradeNotFound
		return fiber.StatusNotFound, resp
	}

	resp.Code = CodeInternal
	resp.Error = "internal error"
	return fiber.StatusInternalServerError, resp
}
