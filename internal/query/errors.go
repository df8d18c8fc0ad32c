package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPageRate = errors.New("invalid page rate")
	ErrPageOutOfRange  = errors.New("page not found")
	ErrNoResultsFound  = errors.New("no trades found")
	ErrTradeNotFound   = errors.New("trade not found")
)

// InvalidSortKeyError reports a sort_by value outside the recognized set.
type InvalidSortKeyError struct {
	Received string
	Valid    []string
}

func (e *InvalidSortKeyError) Error() string {
	return fmt.Sprintf("invalid sort_by property name %q (valid: %s)", e.Received, strings.Join(e.Valid, ", "))
}
