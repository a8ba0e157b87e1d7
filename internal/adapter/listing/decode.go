package listing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"coinlisting/internal/domain/model"
)

type listingResponse struct {
	Data *json.RawMessage `json:"data"`
}

type rawCoin struct {
	ID      *int64          `json:"id"`
	Name    string          `json:"name"`
	Symbol  string          `json:"symbol"`
	Slug    string          `json:"slug"`
	Rank    *int            `json:"rank"`
	CMCRank *int            `json:"cmc_rank"`
	Quote   json.RawMessage `json:"quote"`
}

type rawQuote struct {
	Price            decimal.NullDecimal `json:"price"`
	PercentChange1h  decimal.NullDecimal `json:"percent_change_1h"`
	PercentChange24h decimal.NullDecimal `json:"percent_change_24h"`
	PercentChange7d  decimal.NullDecimal `json:"percent_change_7d"`
	MarketCap        decimal.NullDecimal `json:"market_cap"`
	Volume24h        decimal.NullDecimal `json:"volume_24h"`
}

func formatErr(reason string, err error) error {
	return &model.ParseError{Reason: reason, Err: err}
}

// decodeListing turns a response body into coins in response order.
func decodeListing(body []byte, currency string) ([]model.Coin, error) {
	var resp listingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, formatErr("invalid json", err)
	}
	if resp.Data == nil {
		return nil, formatErr("missing data field", nil)
	}

	var raws []rawCoin
	if err := json.Unmarshal(*resp.Data, &raws); err != nil {
		return nil, formatErr("data is not a coin array", err)
	}

	coins := make([]model.Coin, 0, len(raws))
	seen := make(map[int64]struct{}, len(raws))
	for i, raw := range raws {
		coin, err := raw.toCoin(currency)
		if err != nil {
			return nil, formatErr(fmt.Sprintf("coin at index %d", i), err)
		}
		if _, dup := seen[coin.ID]; dup {
			return nil, formatErr(fmt.Sprintf("duplicate coin id %d", coin.ID), nil)
		}
		seen[coin.ID] = struct{}{}
		coins = append(coins, coin)
	}

	return coins, nil
}

func (r rawCoin) toCoin(currency string) (model.Coin, error) {
	if r.ID == nil {
		return model.Coin{}, fmt.Errorf("missing id")
	}
	if r.Name == "" || r.Symbol == "" {
		return model.Coin{}, fmt.Errorf("coin %d: missing name or symbol", *r.ID)
	}

	q, err := decodeQuote(r.Quote, currency)
	if err != nil {
		return model.Coin{}, fmt.Errorf("coin %d: %w", *r.ID, err)
	}

	rank := r.Rank
	if rank == nil {
		rank = r.CMCRank
	}

	return model.Coin{
		ID:     *r.ID,
		Name:   r.Name,
		Symbol: r.Symbol,
		Slug:   r.Slug,
		Rank:   rank,
		Quote: model.Quote{
			Price:            q.Price.Decimal,
			PercentChange1h:  q.PercentChange1h.Decimal,
			PercentChange24h: q.PercentChange24h.Decimal,
			PercentChange7d:  q.PercentChange7d.Decimal,
			MarketCap:        q.MarketCap,
			Volume24h:        q.Volume24h,
		},
	}, nil
}

// decodeQuote accepts a flat quote or one keyed by currency.
func decodeQuote(data json.RawMessage, currency string) (rawQuote, error) {
	if len(data) == 0 || string(data) == "null" {
		return rawQuote{}, fmt.Errorf("missing quote")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return rawQuote{}, fmt.Errorf("quote is not an object: %w", err)
	}

	if _, flat := fields["price"]; !flat {
		nested, ok := fields[currency]
		if !ok {
			return rawQuote{}, fmt.Errorf("quote has no price and no %s entry", currency)
		}
		data = nested
	}

	var q rawQuote
	if err := json.Unmarshal(data, &q); err != nil {
		return rawQuote{}, fmt.Errorf("invalid quote: %w", err)
	}
	if !q.Price.Valid {
		return rawQuote{}, fmt.Errorf("quote has no price")
	}

	return q, nil
}
