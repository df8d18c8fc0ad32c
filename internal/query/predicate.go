package query

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Predicate reports whether a trade belongs in a result set.
type Predicate func(t *model.Trade) bool

// Criteria holds the optional constraints of a query. Nil or empty fields are not applied;
// a non-nil price bound of zero is a real bound.
type Criteria struct {
	AssetClass    string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Side          model.Side
	Search        string
	CaseSensitive bool
}

// Empty reports whether no constraint is set.
func (c Criteria) Empty() bool {
	return c.AssetClass == "" && c.MinPrice == nil && c.MaxPrice == nil && c.Side == "" && c.Search == ""
}

// Build returns the conjunction of every supplied constraint.
func (c Criteria) Build() Predicate {
	var preds []Predicate

	if c.AssetClass != "" {
		preds = append(preds, assetClassIs(c.AssetClass))
	}
	if c.MinPrice != nil {
		preds = append(preds, priceAtLeast(*c.MinPrice))
	}
	if c.MaxPrice != nil {
		preds = append(preds, priceAtMost(*c.MaxPrice))
	}
	if c.Side != "" {
		preds = append(preds, sideIs(c.Side))
	}
	if c.Search != "" {
		preds = append(preds, matchesText(c.Search, c.CaseSensitive))
	}

	return And(preds...)
}

// And combines predicates; with no arguments it matches everything.
func And(preds ...Predicate) Predicate {
	return func(t *model.Trade) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Apply returns the trades matching p, in their original order. The input is not modified.
func Apply(trades []model.Trade, p Predicate) []model.Trade {
	out := make([]model.Trade, 0, len(trades))
	for i := range trades {
		if p(&trades[i]) {
			out = append(out, trades[i])
		}
	}
	return out
}

func assetClassIs(class string) Predicate {
	return func(t *model.Trade) bool { return t.AssetClass == class }
}

func priceAtLeast(min decimal.Decimal) Predicate {
	return func(t *model.Trade) bool { return t.Price.GreaterThanOrEqual(min) }
}

func priceAtMost(max decimal.Decimal) Predicate {
	return func(t *model.Trade) bool { return t.Price.LessThanOrEqual(max) }
}

func sideIs(side model.Side) Predicate {
	return func(t *model.Trade) bool { return t.Side == side }
}

// matchesText matches term as a substring of the instrument id, instrument name or counterparty.
func matchesText(term string, caseSensitive bool) Predicate {
	if !caseSensitive {
		term = strings.ToLower(term)
	}
	fold := func(s string) string {
		if caseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	return func(t *model.Trade) bool {
		return strings.Contains(fold(t.InstrumentID), term) ||
			strings.Contains(fold(t.InstrumentName), term) ||
			strings.Contains(fold(t.Counterparty), term)
	}
}
