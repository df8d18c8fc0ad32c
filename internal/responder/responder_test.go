package responder

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/api"
	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/internal/tradestore"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id, class, instrument string, side model.Side, price string, qty int64) model.Trade {
		return model.Trade{
			TradeID: id, AssetClass: class, Counterparty: "Alanna Blanchard",
			InstrumentID: instrument, InstrumentName: instrument + " Ltd", TradeDateTime: day,
			Side: side, Price: decimal.RequireFromString(price), Quantity: qty, Trader: "Darrin Kinder",
		}
	}
	snap, err := tradestore.New([]model.Trade{
		mk("N1", "Equity", "TT", model.SideBuy, "15", 4),
		mk("N2", "Bond", "FLPK", model.SideSell, "250.75", 9),
		mk("N3", "Equity", "AMAZ", model.SideSell, "80", 1),
	})
	require.NoError(t, err)
	return New(zap.NewNop(), nil, query.NewService(snap, nil), "tradebook.", "q", 0)
}

func handle(t *testing.T, r *Responder, op string, req any) (int, map[string]any) {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	status, body := r.Handle(context.Background(), op, data)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return status, out
}

func TestNew_Defaults(t *testing.T) {
	r := newTestResponder(t)
	assert.Equal(t, "tradebook", r.prefix)
	assert.Equal(t, 10, r.defaultPageRate)
}

func TestHandle_Listing(t *testing.T) {
	r := newTestResponder(t)

	status, body := handle(t, r, OpListing, map[string]any{"page": 1, "page_rate": 2, "sort_by": "Price", "is_desc": true})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1/2", body["page"])
	assert.Equal(t, float64(3), body["total_trades"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "N2", results[0].(map[string]any)["trade_id"])
}

func TestHandle_Search(t *testing.T) {
	r := newTestResponder(t)

	status, body := handle(t, r, OpSearch, map[string]any{"page": 1, "search": "amaz"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.Len(t, body["trades"], 1)
}

func TestHandle_SearchEmptyTermMatchesAll(t *testing.T) {
	r := newTestResponder(t)

	status, body := handle(t, r, OpSearch, map[string]any{"page": 1, "search": ""})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["total_trades"])
}

func TestHandle_Filter(t *testing.T) {
	r := newTestResponder(t)

	status, body := handle(t, r, OpFilter, map[string]any{"page": 1, "asset_class": "Equity", "trade_type": "Sell", "min_price": "0"})
	assert.Equal(t, http.StatusOK, status)
	trades := body["trades"].([]any)
	require.Len(t, trades, 1)
	assert.Equal(t, "N3", trades[0].(map[string]any)["trade_id"])
}

func TestHandle_Trade(t *testing.T) {
	r := newTestResponder(t)

	status, body := handle(t, r, OpTrade, map[string]any{"trade_id": "N2"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "N2", body["trade"].(map[string]any)["trade_id"])

	status, body = handle(t, r, OpTrade, map[string]any{"trade_id": "missing"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeTradeNotFound, body["code"])
}

func TestHandle_Errors(t *testing.T) {
	r := newTestResponder(t)

	tests := []struct {
		name   string
		op     string
		req    map[string]any
		status int
		code   string
	}{
		{"missing page", OpListing, map[string]any{}, http.StatusBadRequest, api.CodeInvalidParameter},
		{"zero page rate", OpListing, map[string]any{"page": 1, "page_rate": 0}, http.StatusBadRequest, api.CodeInvalidPageRate},
		{"bad sort key", OpListing, map[string]any{"page": 1, "sort_by": "size"}, http.StatusBadRequest, api.CodeInvalidSortKey},
		{"page out of range", OpListing, map[string]any{"page": 2}, http.StatusNotFound, api.CodePageOutOfRange},
		{"missing search", OpSearch, map[string]any{"page": 1}, http.StatusBadRequest, api.CodeInvalidParameter},
		{"no matches", OpSearch, map[string]any{"page": 1, "search": "zzz"}, http.StatusNotFound, api.CodeNoResultsFound},
		{"bad trade type", OpFilter, map[string]any{"page": 1, "trade_type": "hold"}, http.StatusBadRequest, api.CodeInvalidParameter},
		{"missing trade id", OpTrade, map[string]any{}, http.StatusBadRequest, api.CodeInvalidParameter},
		{"unknown operation", "delete", map[string]any{"page": 1}, http.StatusBadRequest, api.CodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, r, tt.op, tt.req)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "failure", body["status"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	r := newTestResponder(t)

	status, body := r.Handle(context.Background(), OpListing, []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), api.CodeInvalidParameter)
}

func TestHealthCheck_NoConnection(t *testing.T) {
	r := newTestResponder(t)
	assert.Error(t, r.HealthCheck(context.Background()))
}
