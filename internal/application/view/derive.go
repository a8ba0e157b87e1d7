// Package view derives what a theme shows from an in-memory listing.
// Every function here is pure and leaves its input untouched.
package view

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"coinlisting/internal/domain/model"
)

// Filter keeps coins whose name or symbol contains search, ignoring case.
func Filter(coins []model.Coin, search string) []model.Coin {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return append([]model.Coin(nil), coins...)
	}

	out := make([]model.Coin, 0, len(coins))
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Symbol), needle) {
			out = append(out, c)
		}
	}
	return out
}

// sortValue extracts the sort key. ok is false when the coin lacks it.
func sortValue(c model.Coin, key model.SortKey) (v decimal.Decimal, ok bool) {
	switch key {
	case model.SortRank:
		if c.Rank == nil {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(int64(*c.Rank)), true
	case model.SortMarketCap:
		return c.Quote.MarketCap.Decimal, c.Quote.MarketCap.Valid
	case model.SortPrice:
		return c.Quote.Price, true
	default:
		return decimal.Zero, false
	}
}

// Sort orders coins by key. Equal keys keep their input order whatever the
// direction, and coins without the key always come last.
func Sort(coins []model.Coin, key model.SortKey, order model.Order) []model.Coin {
	out := append([]model.Coin(nil), coins...)
	if key == model.SortOriginal || key == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		vi, okI := sortValue(out[i], key)
		vj, okJ := sortValue(out[j], key)
		if okI != okJ {
			return okI
		}
		if !okI {
			return false
		}
		if order == model.Desc {
			return vi.GreaterThan(vj)
		}
		return vi.LessThan(vj)
	})
	return out
}

// PageCount is ceil(n/size). A non-positive size means one page.
func PageCount(n, size int) int {
	if n == 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the window for page (0-based) after clamping it into
// range, together with the clamped index and the page count.
func Paginate(coins []model.Coin, page, size int) (window []model.Coin, clamped, pages int) {
	pages = PageCount(len(coins), size)
	if size <= 0 {
		size = len(coins)
	}

	clamped = page
	if clamped > pages-1 {
		clamped = pages - 1
	}
	if clamped < 0 {
		clamped = 0
	}

	if len(coins) == 0 {
		return []model.Coin{}, 0, 0
	}

	start := clamped * size
	end := start + size
	if end > len(coins) {
		end = len(coins)
	}
	return coins[start:end], clamped, pages
}

// Select finds the coin shown in the detail overlay.
func Select(coins []model.Coin, id int64) *model.Coin {
	if id == 0 {
		return nil
	}
	for i := range coins {
		if coins[i].ID == id {
			c := coins[i]
			return &c
		}
	}
	return nil
}

// Apply runs filter, sort, pagination and selection for a site.
func Apply(coins []model.Coin, q model.Query, site model.Site) model.Page {
	matched := Sort(Filter(coins, q.Search), q.Sort, q.Order)

	size := site.PageSize
	if !site.Paginate {
		size = 0
	}
	window, page, pages := Paginate(matched, q.Page, size)

	pageSize := size
	if pageSize <= 0 {
		pageSize = len(matched)
	}

	return model.Page{
		Coins:    window,
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
		Selected: Select(coins, q.Selected),
	}
}
