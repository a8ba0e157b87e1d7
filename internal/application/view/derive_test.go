package view

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"coinlisting/internal/domain/model"
)

func rank(r int) *int { return &r }

func coin(id int64, name, symbol string, r *int, price string, mcap string) model.Coin {
	c := model.Coin{
		ID:     id,
		Name:   name,
		Symbol: symbol,
		Rank:   r,
		Quote:  model.Quote{Price: decimal.RequireFromString(price)},
	}
	if mcap != "" {
		c.Quote.MarketCap = decimal.NewNullDecimal(decimal.RequireFromString(mcap))
	}
	return c
}

func sample() []model.Coin {
	return []model.Coin{
		coin(1027, "Ethereum", "ETH", rank(2), "3100", "370000000000"),
		coin(1, "Bitcoin", "BTC", rank(1), "64000", "1260000000000"),
		coin(74, "Dogecoin", "DOGE", nil, "0.12", ""),
		coin(2, "Litecoin", "LTC", rank(17), "68", "5100000000"),
		coin(52, "XRP", "XRP", rank(7), "0.52", "28000000000"),
	}
}

func ids(coins []model.Coin) []int64 {
	out := make([]int64, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	coins := sample()

	tests := []struct {
		search string
		want   []int64
	}{
		{"", []int64{1027, 1, 74, 2, 52}},
		{"   ", []int64{1027, 1, 74, 2, 52}},
		{"bitcoin", []int64{1}},
		{"BTC", []int64{1}},
		{"coin", []int64{1, 74, 2}},
		{"  eth ", []int64{1027}},
		{"x", []int64{52}},
		{"nothing", []int64{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.search), func(t *testing.T) {
			got := ids(Filter(coins, tt.search))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

func TestFilter_UniqueNameYieldsOneRow(t *testing.T) {
	if got := Filter(sample(), "dogeco"); len(got) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(got))
	}
}

func TestSort(t *testing.T) {
	coins := sample()

	tests := []struct {
		key   model.SortKey
		order model.Order
		want  []int64
	}{
		{model.SortOriginal, model.Asc, []int64{1027, 1, 74, 2, 52}},
		{model.SortRank, model.Asc, []int64{1, 1027, 52, 2, 74}},
		{model.SortRank, model.Desc, []int64{2, 52, 1027, 1, 74}},
		{model.SortMarketCap, model.Desc, []int64{1, 1027, 52, 2, 74}},
		{model.SortMarketCap, model.Asc, []int64{2, 52, 1027, 1, 74}},
		{model.SortPrice, model.Asc, []int64{74, 52, 2, 1027, 1}},
		{model.SortPrice, model.Desc, []int64{1, 1027, 2, 52, 74}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key)+"/"+string(tt.order), func(t *testing.T) {
			got := ids(Sort(coins, tt.key, tt.order))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if fmt.Sprint(ids(coins)) != "[1027 1 74 2 52]" {
		t.Error("Sort mutated its input")
	}
}

func TestSort_PriceDirectionsAreReversed(t *testing.T) {
	asc := ids(Sort(sample(), model.SortPrice, model.Asc))
	desc := ids(Sort(sample(), model.SortPrice, model.Desc))

	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %v is not the reverse of desc %v", asc, desc)
		}
	}
}

func TestSort_TiesKeepResponseOrder(t *testing.T) {
	coins := []model.Coin{
		coin(10, "A", "A", nil, "1", ""),
		coin(11, "B", "B", nil, "2", ""),
		coin(12, "C", "C", nil, "1", ""),
		coin(13, "D", "D", nil, "2", ""),
	}

	if got := fmt.Sprint(ids(Sort(coins, model.SortPrice, model.Asc))); got != "[10 12 11 13]" {
		t.Errorf("asc ties = %s", got)
	}
	if got := fmt.Sprint(ids(Sort(coins, model.SortPrice, model.Desc))); got != "[11 13 10 12]" {
		t.Errorf("desc ties = %s", got)
	}
}

func TestPaginate(t *testing.T) {
	make21 := func() []model.Coin {
		out := make([]model.Coin, 21)
		for i := range out {
			out[i] = coin(int64(i+1), fmt.Sprintf("Coin %d", i), "C", nil, "1", "")
		}
		return out
	}

	tests := []struct {
		n, size, page int
		wantLen       int
		wantPage      int
		wantPages     int
		wantFirstCoin int64
	}{
		{21, 10, 0, 10, 0, 3, 1},
		{21, 10, 1, 10, 1, 3, 11},
		{21, 10, 2, 1, 2, 3, 21},
		{21, 10, 9, 1, 2, 3, 21},
		{21, 10, -4, 10, 0, 3, 1},
		{20, 10, 1, 10, 1, 2, 11},
		{21, 7, 2, 7, 2, 3, 15},
		{21, 0, 3, 21, 0, 1, 1},
		{0, 10, 0, 0, 0, 0, 0},
		{0, 10, 5, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/size=%d/page=%d", tt.n, tt.size, tt.page), func(t *testing.T) {
			coins := make21()[:tt.n]
			window, page, pages := Paginate(coins, tt.page, tt.size)
			if len(window) != tt.wantLen || page != tt.wantPage || pages != tt.wantPages {
				t.Fatalf("got len=%d page=%d pages=%d, want %d/%d/%d",
					len(window), page, pages, tt.wantLen, tt.wantPage, tt.wantPages)
			}
			if tt.wantLen > 0 && window[0].ID != tt.wantFirstCoin {
				t.Errorf("first coin = %d, want %d", window[0].ID, tt.wantFirstCoin)
			}
		})
	}
}

func TestPaginate_LastPageSize(t *testing.T) {
	for n := 1; n <= 30; n++ {
		for _, p := range []int{1, 3, 10} {
			coins := make([]model.Coin, n)
			pages := PageCount(n, p)
			if want := (n + p - 1) / p; pages != want {
				t.Fatalf("n=%d p=%d: pages=%d want %d", n, p, pages, want)
			}
			last, _, _ := Paginate(coins, pages-1, p)
			want := n % p
			if want == 0 {
				want = p
			}
			if len(last) != want {
				t.Fatalf("n=%d p=%d: last page has %d, want %d", n, p, len(last), want)
			}
		}
	}
}

func TestSelect(t *testing.T) {
	coins := sample()
	if Select(coins, 0) != nil {
		t.Error("id 0 should select nothing")
	}
	if Select(coins, 999) != nil {
		t.Error("unknown id should select nothing")
	}
	got := Select(coins, 74)
	if got == nil || got.Symbol != "DOGE" {
		t.Fatalf("Select(74) = %+v", got)
	}
	got.Name = "changed"
	if coins[2].Name != "Dogecoin" {
		t.Error("Select returned a reference into the listing")
	}
}

func TestApply(t *testing.T) {
	site := model.Site{Slug: "s", Theme: model.ThemeTable, PageSize: 2, Paginate: true}
	coins := sample()

	page := Apply(coins, model.Query{
		Search:   "coin",
		Sort:     model.SortPrice,
		Order:    model.Desc,
		Page:     1,
		Selected: 52,
	}, site)

	if page.Total != 3 || page.Pages != 2 || page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if fmt.Sprint(ids(page.Coins)) != "[74]" {
		t.Errorf("window = %v", ids(page.Coins))
	}
	// selection is looked up in the full listing, not the filtered window
	if page.Selected == nil || page.Selected.ID != 52 {
		t.Errorf("selected = %+v", page.Selected)
	}
	if page.HasNext() || !page.HasPrev() {
		t.Error("unexpected navigation flags")
	}
}

func TestApply_WithoutPagination(t *testing.T) {
	site := model.Site{Slug: "h", Theme: model.ThemeHeatmap, PageSize: 2, Paginate: false}

	page := Apply(sample(), model.Query{Page: 3}, site)
	if len(page.Coins) != 5 || page.Pages != 1 || page.Page != 0 || page.PageSize != 5 {
		t.Errorf("unexpected page: len=%d %+v", len(page.Coins), page)
	}
}

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		pct  string
		want int
	}{
		{"0", 0},
		{"0.49", 0},
		{"0.5", 1},
		{"-1.9", -1},
		{"2", 2},
		{"-4.99", -2},
		{"5", 3},
		{"-12.3", -3},
	}
	for _, tt := range tests {
		if got := HeatLevel(decimal.RequireFromString(tt.pct)); got != tt.want {
			t.Errorf("HeatLevel(%s) = %d, want %d", tt.pct, got, tt.want)
		}
	}
}

func TestDirection(t *testing.T) {
	if Direction(decimal.RequireFromString("1.2")) != "up" ||
		Direction(decimal.RequireFromString("-0.1")) != "down" ||
		Direction(decimal.Zero) != "flat" {
		t.Error("unexpected direction")
	}
}
