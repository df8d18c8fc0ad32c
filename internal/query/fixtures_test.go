package query

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func trade(id, class, instrument, counterparty string, side model.Side, price string, qty int64, day int) model.Trade {
	return model.Trade{
		TradeID:        id,
		AssetClass:     class,
		Counterparty:   counterparty,
		InstrumentID:   instrument,
		InstrumentName: instrument + " Inc",
		TradeDateTime:  baseTime.AddDate(0, 0, day),
		Side:           side,
		Price:          decimal.RequireFromString(price),
		Quantity:       qty,
		Trader:         "Kelis Levy",
	}
}

func sampleTrades() []model.Trade {
	return []model.Trade{
		trade("T1", "Equity", "GOOG", "Irvin Funk", model.SideBuy, "120.50", 10, 3),
		trade("T2", "Bond", "MSFT", "Pearl Mull", model.SideSell, "0", 5, 1),
		trade("T3", "Equity", "NVDA", "Laney Tuck", model.SideSell, "120.50", 30, 2),
		trade("T4", "Crypto", "GOOG", "Selina Levy", model.SideBuy, "399.99", 10, 5),
		trade("T5", "Stock", "APL", "Kylan Sadler", model.SideBuy, "2.00", 200, 4),
	}
}

func manyTrades(n int) []model.Trade {
	out := make([]model.Trade, n)
	for i := range out {
		out[i] = trade(fmt.Sprintf("TRD-%06d", i), "Equity", "MT", "Darrin Kinder", model.SideBuy, "10", int64(i%7), i%11)
	}
	return out
}

func ids(trades []model.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.TradeID
	}
	return out
}

// memStore is a map-free Store over a slice.
type memStore []model.Trade

func (m memStore) All() []model.Trade {
	out := make([]model.Trade, len(m))
	copy(out, m)
	return out
}

func (m memStore) Get(id string) (model.Trade, bool) {
	for _, t := range m {
		if t.TradeID == id {
			return t, true
		}
	}
	return model.Trade{}, false
}
