package query

import (
	"fmt"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Page is one window of a result sequence.
type Page struct {
	Number     int
	TotalPages int
	PageRate   int
	Total      int
	Trades     []model.Trade
}

// Label renders the page position as "current/total".
func (p Page) Label() string {
	return fmt.Sprintf("%d/%d", p.Number, p.TotalPages)
}

// ValidatePageRate rejects non-positive page sizes.
func ValidatePageRate(pageRate int) error {
	if pageRate <= 0 {
		return ErrInvalidPageRate
	}
	return nil
}

// Paginate slices the 1-based page out of trades.
func Paginate(trades []model.Trade, page, pageRate int) (Page, error) {
	if err := ValidatePageRate(pageRate); err != nil {
		return Page{}, err
	}
	n := len(trades)
	if n == 0 {
		return Page{}, ErrNoResultsFound
	}

	// ceil(n / pageRate) without n+pageRate, which overflows for huge page rates
	totalPages := n / pageRate
	if n%pageRate != 0 {
		totalPages++
	}
	idx := page - 1
	if idx < 0 || idx >= totalPages {
		return Page{}, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, totalPages)
	}

	start := idx * pageRate
	end := min(start+pageRate, n)

	return Page{
		Number:     page,
		TotalPages: totalPages,
		PageRate:   pageRate,
		Total:      n,
		Trades:     trades[start:end:end],
	}, nil
}
