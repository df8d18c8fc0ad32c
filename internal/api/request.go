package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/tradebook/internal/query"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

// parseListParams reads page, page_rate, sort_by and is_desc (or the older isdesc).
func parseListParams(c *fiber.Ctx, defaultPageRate int) (query.ListParams, error) {
	var p query.ListParams

	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return p, &ParamError{Param: "page", Reason: "is required"}
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return p, &ParamError{Param: "page", Reason: "must be an integer"}
	}
	p.Page = page

	p.PageRate = defaultPageRate
	if raw := strings.TrimSpace(c.Query("page_rate")); raw != "" {
		if p.PageRate, err = strconv.Atoi(raw); err != nil {
			return p, &ParamError{Param: "page_rate", Reason: "must be an integer"}
		}
	}

	p.SortBy = strings.TrimSpace(c.Query("sort_by"))

	descParam := "is_desc"
	if c.Query(descParam) == "" && c.Query("isdesc") != "" {
		descParam = "isdesc"
	}
	if p.Desc, err = parseBool(c, descParam); err != nil {
		return p, err
	}
	return p, nil
}

func parseSearchParams(c *fiber.Ctx, defaultPageRate int) (query.SearchParams, error) {
	lp, err := parseListParams(c, defaultPageRate)
	if err != nil {
		return query.SearchParams{}, err
	}
	// search must be present; an empty term matches every trade.
	if !c.Context().QueryArgs().Has("search") {
		return query.SearchParams{ListParams: lp}, &ParamError{Param: "search", Reason: "is required"}
	}
	p := query.SearchParams{ListParams: lp, Search: c.Query("search")}
	if p.CaseSensitive, err = parseBool(c, "case_sensitive"); err != nil {
		return p, err
	}
	return p, nil
}

func parseFilterParams(c *fiber.Ctx, defaultPageRate int) (query.FilterParams, error) {
	lp, err := parseListParams(c, defaultPageRate)
	if err != nil {
		return query.FilterParams{}, err
	}
	p := query.FilterParams{ListParams: lp, AssetClass: strings.TrimSpace(c.Query("asset_class"))}

	if p.MinPrice, err = parseDecimal(c, "min_price"); err != nil {
		return p, err
	}
	if p.MaxPrice, err = parseDecimal(c, "max_price"); err != nil {
		return p, err
	}
	if raw := strings.TrimSpace(c.Query("trade_type")); raw != "" {
		side, err := model.ParseSide(raw)
		if err != nil {
			return p, &ParamError{Param: "trade_type", Reason: "must be 'BUY' or 'SELL'"}
		}
		p.Side = side
	}
	return p, nil
}

func parseBool(c *fiber.Ctx, key string) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ParamError{Param: key, Reason: "must be a boolean"}
	}
	return v, nil
}

// parseDecimal returns nil when the parameter is absent; "0" is a real value.
func parseDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ParamError{Param: key, Reason: "must be a number"}
	}
	return &d, nil
}
