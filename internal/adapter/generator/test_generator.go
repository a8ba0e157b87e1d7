package generator

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"coinlisting/internal/domain/model"
	"coinlisting/internal/domain/port"
)

var _ port.ListingSource = (*TestGenerator)(nil)

type seedCoin struct {
	id     int64
	name   string
	symbol string
	slug   string
	price  float64
	supply float64
}

// Ordered by rank. Prices and supplies are rough figures used only to make
// test mode look plausible.
var seedCoins = []seedCoin{
	{1, "Bitcoin", "BTC", "bitcoin", 64000, 19_700_000},
	{1027, "Ethereum", "ETH", "ethereum", 3100, 120_000_000},
	{825, "Tether USDt", "USDT", "tether", 1, 110_000_000_000},
	{1839, "BNB", "BNB", "bnb", 580, 146_000_000},
	{5426, "Solana", "SOL", "solana", 145, 460_000_000},
	{3408, "USDC", "USDC", "usd-coin", 1, 33_000_000_000},
	{52, "XRP", "XRP", "xrp", 0.52, 55_000_000_000},
	{74, "Dogecoin", "DOGE", "dogecoin", 0.12, 145_000_000_000},
	{11419, "Toncoin", "TON", "toncoin", 5.4, 2_500_000_000},
	{2010, "Cardano", "ADA", "cardano", 0.38, 35_000_000_000},
	{5805, "Avalanche", "AVAX", "avalanche", 26, 395_000_000},
	{5994, "Shiba Inu", "SHIB", "shiba-inu", 0.000017, 589_000_000_000_000},
	{1958, "TRON", "TRX", "tron", 0.15, 87_000_000_000},
	{6636, "Polkadot", "DOT", "polkadot-new", 5.9, 1_440_000_000},
	{1975, "Chainlink", "LINK", "chainlink", 12.5, 608_000_000},
	{1831, "Bitcoin Cash", "BCH", "bitcoin-cash", 370, 19_700_000},
	{2, "Litecoin", "LTC", "litecoin", 68, 75_000_000},
	{3890, "Polygon", "MATIC", "polygon", 0.52, 9_900_000_000},
	{7083, "Uniswap", "UNI", "uniswap", 7.4, 600_000_000},
	{3794, "Cosmos", "ATOM", "cosmos", 6.6, 390_000_000},
	{512, "Stellar", "XLM", "stellar", 0.09, 29_000_000_000},
}

// TestGenerator serves a synthetic listing of 21 coins in shuffled order.
// The first Fetch after construction is fully determined by the seed.
type TestGenerator struct {
	name   string
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTestGenerator returns a generator whose output is reproducible for a
// given seed. A zero seed picks one from the clock.
func NewTestGenerator(name string, seed int64, logger *slog.Logger) *TestGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestGenerator{
		name:   name,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (g *TestGenerator) Name() string {
	return "test-" + g.name
}

func (g *TestGenerator) Fetch(ctx context.Context) ([]model.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.FetchError{Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	coins := make([]model.Coin, len(seedCoins))
	for i, s := range seedCoins {
		rank := i + 1
		variation := (g.rng.Float64() - 0.5) * 0.01 * s.price
		price := decimal.NewFromFloat(s.price + variation)

		coins[i] = model.Coin{
			ID:     s.id,
			Name:   s.name,
			Symbol: s.symbol,
			Slug:   s.slug,
			Rank:   &rank,
			Quote: model.Quote{
				Price:            price,
				PercentChange1h:  g.percent(2),
				PercentChange24h: g.percent(8),
				PercentChange7d:  g.percent(20),
				MarketCap:        decimal.NewNullDecimal(price.Mul(decimal.NewFromFloat(s.supply)).Round(0)),
				Volume24h:        decimal.NewNullDecimal(decimal.NewFromFloat(s.price * s.supply * 0.03).Round(0)),
			},
		}
	}

	g.rng.Shuffle(len(coins), func(i, j int) {
		coins[i], coins[j] = coins[j], coins[i]
	})

	g.logger.Debug("test listing generated", "name", g.name, "coins", len(coins))
	return coins, nil
}

// percent returns a change in [-span/2, span/2) rounded to two places.
func (g *TestGenerator) percent(span float64) decimal.Decimal {
	return decimal.NewFromFloat((g.rng.Float64() - 0.5) * span).Round(2)
}
