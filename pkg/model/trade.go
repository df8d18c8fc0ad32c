package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers (120.5), not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Side is the buy/sell indicator of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a side string ("buy", " SELL ") into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("side must be 'BUY' or 'SELL', got %q", s)
}

// Trade is a single immutable trade record. TradeID is unique within a snapshot.
type Trade struct {
	TradeID        string          `json:"trade_id"`
	AssetClass     string          `json:"asset_class"`
	Counterparty   string          `json:"counterparty"`
	InstrumentID   string          `json:"instrument_id"`
	InstrumentName string          `json:"instrument_name"`
	TradeDateTime  time.Time       `json:"trade_date_time"`
	Side           Side            `json:"side"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int64           `json:"quantity"`
	Trader         string          `json:"trader"`
}

// Validate checks the fields a loaded record must carry.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.TradeID) == "" {
		return fmt.Errorf("trade_id is required")
	}
	if t.Side != SideBuy && t.Side != SideSell {
		return fmt.Errorf("trade %s: side must be 'BUY' or 'SELL'", t.TradeID)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("trade %s: price must not be negative", t.TradeID)
	}
	if t.Quantity < 0 {
		return fmt.Errorf("trade %s: quantity must not be negative", t.TradeID)
	}
	return nil
}

// timestampLayouts are tried in order. Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads an ISO 8601 date-time with or without a zone offset.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid trade_date_time %q: want ISO 8601", s)
}

// UnmarshalJSON accepts trade_date_time with or without a zone offset
// (e.g. "2024-01-02T10:00:00" as written by Python's isoformat).
func (t *Trade) UnmarshalJSON(data []byte) error {
	type plain Trade
	aux := struct {
		*plain
		TradeDateTime *string `json:"trade_date_time"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.TradeDateTime == nil || *aux.TradeDateTime == "" {
		return nil
	}
	ts, err := ParseTimestamp(*aux.TradeDateTime)
	if err != nil {
		return fmt.Errorf("trade %s: %w", t.TradeID, err)
	}
	t.TradeDateTime = ts
	return nil
}

// TradeDocument is the on-disk format of a static trade source: {"data": [...]}.
type TradeDocument struct {
	Data []Trade `json:"data"`
}
