package tradestore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

func sample(id string, side model.Side) model.Trade {
	return model.Trade{
		TradeID:        id,
		AssetClass:     "Equity",
		Counterparty:   "Irvin Funk",
		InstrumentID:   "GOOG",
		InstrumentName: "Google",
		TradeDateTime:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Side:           side,
		Price:          decimal.RequireFromString("101.25"),
		Quantity:       12,
		Trader:         "Pearl Mull",
	}
}

func TestNew_NormalizesSide(t *testing.T) {
	snap, err := New([]model.Trade{sample("A", "buy"), sample("B", " Sell ")})
	require.NoError(t, err)

	a, ok := snap.Get("A")
	require.True(t, ok)
	assert.Equal(t, model.SideBuy, a.Side)

	b, ok := snap.Get("B")
	require.True(t, ok)
	assert.Equal(t, model.SideSell, b.Side)
}

func TestNew_RejectsInvalidRecords(t *testing.T) {
	negative := sample("N", model.SideBuy)
	negative.Price = decimal.RequireFromString("-1")

	tests := []struct {
		name   string
		trades []model.Trade
		errMsg string
	}{
		{"duplicate id", []model.Trade{sample("A", model.SideBuy), sample("A", model.SideSell)}, "duplicate trade_id"},
		{"bad side", []model.Trade{sample("A", "HOLD")}, "side must be"},
		{"missing id", []model.Trade{sample("", model.SideBuy)}, "trade_id is required"},
		{"negative price", []model.Trade{negative}, "price must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.trades)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSnapshot_AllReturnsCopy(t *testing.T) {
	in := []model.Trade{sample("A", model.SideBuy), sample("B", model.SideSell)}
	snap, err := New(in)
	require.NoError(t, err)

	in[0].TradeID = "mutated"
	all := snap.All()
	all[1].Quantity = 999

	again := snap.All()
	assert.Equal(t, "A", again[0].TradeID)
	assert.Equal(t, int64(12), again[1].Quantity)
	assert.Equal(t, 2, snap.Len())
}

func TestSnapshot_GetMissing(t *testing.T) {
	snap, err := New([]model.Trade{sample("A", model.SideBuy)})
	require.NoError(t, err)

	_, ok := snap.Get("Z")
	assert.False(t, ok)
}

func TestSnapshot_Fingerprint(t *testing.T) {
	a, err := New([]model.Trade{sample("A", model.SideBuy)})
	require.NoError(t, err)
	b, err := New([]model.Trade{sample("A", "buy")})
	require.NoError(t, err)
	c, err := New([]model.Trade{sample("C", model.SideBuy)})
	require.NoError(t, err)

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "normalized data fingerprints equal")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.False(t, a.LoadedAt().IsZero())
}

func TestNew_Empty(t *testing.T) {
	snap, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Empty(t, snap.All())
}
