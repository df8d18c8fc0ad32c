package query

import (
	"slices"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Recognized sort_by values.
const (
	SortByPrice    = "Price"
	SortByQuantity = "Quantity"
	SortByDate     = "date"
)

// SortKeys lists the valid sort_by values in the order they are reported to callers.
var SortKeys = []string{SortByPrice, SortByQuantity, SortByDate}

// Comparator orders two trades, returning <0, 0 or >0.
type Comparator func(a, b model.Trade) int

var comparators = map[string]Comparator{
	SortByPrice: func(a, b model.Trade) int {
		return a.Price.Cmp(b.Price)
	},
	SortByQuantity: func(a, b model.Trade) int {
		switch {
		case a.Quantity < b.Quantity:
			return -1
		case a.Quantity > b.Quantity:
			return 1
		}
		return 0
	},
	SortByDate: func(a, b model.Trade) int {
		return a.TradeDateTime.Compare(b.TradeDateTime)
	},
}

// ComparatorFor resolves a sort key. An empty key yields a nil comparator (keep source order).
func ComparatorFor(key string, desc bool) (Comparator, error) {
	if key == "" {
		return nil, nil
	}
	cmp, ok := comparators[key]
	if !ok {
		return nil, &InvalidSortKeyError{Received: key, Valid: slices.Clone(SortKeys)}
	}
	if desc {
		return func(a, b model.Trade) int { return cmp(b, a) }, nil
	}
	return cmp, nil
}

// Sort returns a stably sorted copy of trades. A nil comparator returns an unchanged copy.
func Sort(trades []model.Trade, cmp Comparator) []model.Trade {
	out := slices.Clone(trades)
	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}
