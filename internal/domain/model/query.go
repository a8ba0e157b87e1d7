package model

import "fmt"

type SortKey string

const (
	SortOriginal  SortKey = "original"
	SortRank      SortKey = "rank"
	SortMarketCap SortKey = "market_cap"
	SortPrice     SortKey = "price"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortOriginal:
		return SortOriginal, nil
	case SortRank, SortMarketCap, SortPrice:
		return SortKey(s), nil
	default:
		return SortOriginal, fmt.Errorf("unknown sort key %q", s)
	}
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown sort order %q", s)
	}
}

// Query is the ephemeral UI state applied to a listing.
type Query struct {
	Search   string
	Sort     SortKey
	Order    Order
	Page     int   // 0-based
	Selected int64 // 0 means no detail overlay
}

// Page is what a theme renders for one Query.
type Page struct {
	Coins    []Coin `json:"coins"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Pages    int    `json:"pages"`
	Selected *Coin  `json:"selected,omitempty"`
}

func (p Page) HasPrev() bool { return p.Page > 0 }

func (p Page) HasNext() bool { return p.Page+1 < p.Pages }
