package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coin is one priced asset returned by the listings endpoint.
type Coin struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
	Rank   *int   `json:"rank,omitempty"`
	Quote  Quote  `json:"quote"`
}

type Quote struct {
	Price            decimal.Decimal     `json:"price"`
	PercentChange1h  decimal.Decimal     `json:"percent_change_1h"`
	PercentChange24h decimal.Decimal     `json:"percent_change_24h"`
	PercentChange7d  decimal.Decimal     `json:"percent_change_7d"`
	MarketCap        decimal.NullDecimal `json:"market_cap"`
	Volume24h        decimal.NullDecimal `json:"volume_24h"`
}

// Listing is the full coin sequence of one load, in response order.
// It is replaced wholesale by the next load and never merged.
type Listing struct {
	ID        uuid.UUID `json:"id"`
	Site      string    `json:"site"`
	Mode      DataMode  `json:"-"`
	Coins     []Coin    `json:"coins"`
	FetchedAt time.Time `json:"fetched_at"`
}
