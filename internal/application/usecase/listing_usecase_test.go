package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coinlisting/internal/adapter/gate"
	"coinlisting/internal/application/service"
	"coinlisting/internal/domain/model"
)

type fakeSource struct {
	name  string
	coins []model.Coin
	err   error
	calls int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(context.Context) ([]model.Coin, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Coin(nil), s.coins...), nil
}

type memJournal struct {
	mu      sync.Mutex
	records []model.LoadRecord
	err     error
}

func (j *memJournal) Record(_ context.Context, rec model.LoadRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) Recent(_ context.Context, site string, limit int) ([]model.LoadRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []model.LoadRecord
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		if j.records[i].Site == site {
			out = append(out, j.records[i])
		}
	}
	return out, nil
}

func (j *memJournal) Ping(context.Context) error { return nil }

func (j *memJournal) Close() error { return nil }

func coin(id int64, name, symbol string, price string) model.Coin {
	return model.Coin{
		ID:     id,
		Name:   name,
		Symbol: symbol,
		Quote:  model.Quote{Price: decimal.RequireFromString(price)},
	}
}

var sampleCoins = []model.Coin{
	coin(1, "Bitcoin", "BTC", "64000"),
	coin(1027, "Ethereum", "ETH", "3100"),
	coin(5426, "Solana", "SOL", "150"),
}

type fixture struct {
	uc      *ListingUseCase
	live    *fakeSource
	test    *fakeSource
	journal *memJournal
	views   *service.ViewStore
	modes   *service.ModeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		live:    &fakeSource{name: "http", coins: sampleCoins},
		test:    &fakeSource{name: "test-fixture", coins: sampleCoins[:1]},
		journal: &memJournal{},
		views:   service.NewViewStore(time.Minute, 16, logger),
		modes:   service.NewModeService(model.LiveMode, logger),
	}
	sites := []model.Site{
		{Slug: "ledger", Title: "Ledger", Theme: model.ThemeTable, PageSize: 2, Paginate: true},
		{Slug: "tiles", Title: "Tiles", Theme: model.ThemeCards, PageSize: 10},
	}
	f.uc = NewListingUseCase(sites, Sources{Live: f.live, Test: f.test},
		f.modes, f.views, f.journal, gate.NewMemoryGate(), time.Minute, logger)
	return f
}

func TestListingUseCase_Load(t *testing.T) {
	f := newFixture(t)

	listing, err := f.uc.Load(context.Background(), "ledger")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(listing.Coins) != len(sampleCoins) {
		t.Errorf("expected %d coins, got %d", len(sampleCoins), len(listing.Coins))
	}
	if listing.Mode != model.LiveMode || listing.Site != "ledger" {
		t.Errorf("unexpected listing header: %+v", listing)
	}
	if f.views.Len() != 1 {
		t.Errorf("expected the view to be stored")
	}

	if len(f.journal.records) != 1 {
		t.Fatalf("expected one journal record, got %d", len(f.journal.records))
	}
	rec := f.journal.records[0]
	if rec.ID != listing.ID || rec.Status != model.LoadOK || rec.CoinCount != 3 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestListingUseCase_LoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   error
		wantStatus model.LoadStatus
		wantHTTP   int
	}{
		{
			name:       "non-success status",
			err:        &model.FetchError{Status: 500},
			wantKind:   model.ErrNetwork,
			wantStatus: model.LoadNetworkError,
			wantHTTP:   500,
		},
		{
			name:       "transport failure",
			err:        &model.FetchError{Err: errors.New("connection refused")},
			wantKind:   model.ErrNetwork,
			wantStatus: model.LoadNetworkError,
		},
		{
			name:       "malformed body",
			err:        &model.ParseError{Reason: "missing data"},
			wantKind:   model.ErrFormat,
			wantStatus: model.LoadFormatError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.live.err = tt.err

			_, err := f.uc.Load(context.Background(), "ledger")
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			if f.views.Len() != 0 {
				t.Errorf("failed load must not store a view")
			}
			rec := f.journal.records[0]
			if rec.Status != tt.wantStatus || rec.HTTPStatus != tt.wantHTTP || rec.Error == "" {
				t.Errorf("unexpected record: %+v", rec)
			}
		})
	}
}

func TestListingUseCase_LoadIgnoresJournalFailure(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("disk full")

	if _, err := f.uc.Load(context.Background(), "ledger"); err != nil {
		t.Fatalf("journal failure must not fail the load: %v", err)
	}
}

func TestListingUseCase_UnknownSite(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.Load(context.Background(), "nope"); !errors.Is(err, model.ErrUnknownSite) {
		t.Errorf("expected ErrUnknownSite, got %v", err)
	}
	if _, _, err := f.uc.Browse("nope", uuid.New(), model.Query{}); !errors.Is(err, model.ErrUnknownSite) {
		t.Errorf("expected ErrUnknownSite, got %v", err)
	}
	if f.live.calls != 0 {
		t.Errorf("unknown site must not fetch")
	}
}

func TestListingUseCase_ModeSelectsSource(t *testing.T) {
	f := newFixture(t)
	if err := f.modes.SwitchMode(context.Background(), model.TestMode); err != nil {
		t.Fatal(err)
	}

	listing, err := f.uc.Load(context.Background(), "ledger")
	if err != nil {
		t.Fatal(err)
	}
	if listing.Mode != model.TestMode || len(listing.Coins) != 1 {
		t.Errorf("expected the test source listing, got %+v", listing)
	}
	if f.live.calls != 0 || f.test.calls != 1 {
		t.Errorf("unexpected calls: live=%d test=%d", f.live.calls, f.test.calls)
	}
	if f.journal.records[0].Mode != "test" {
		t.Errorf("expected mode test in journal, got %q", f.journal.records[0].Mode)
	}
}

func TestListingUseCase_BrowseNeverRefetches(t *testing.T) {
	f := newFixture(t)
	listing, err := f.uc.Load(context.Background(), "ledger")
	if err != nil {
		t.Fatal(err)
	}

	queries := []model.Query{
		{},
		{Search: "sol"},
		{Sort: model.SortPrice, Order: model.Asc},
		{Page: 1},
		{Selected: 1027},
	}
	for _, q := range queries {
		if _, _, err := f.uc.Browse("ledger", listing.ID, q); err != nil {
			t.Fatalf("Browse(%+v) failed: %v", q, err)
		}
	}
	if f.live.calls != 1 {
		t.Errorf("expected a single fetch, got %d", f.live.calls)
	}

	_, page, _ := f.uc.Browse("ledger", listing.ID, model.Query{Page: 1})
	if page.Total != 3 || len(page.Coins) != 1 || page.Pages != 2 {
		t.Errorf("unexpected last page: %+v", page)
	}

	_, page, _ = f.uc.Browse("ledger", listing.ID, model.Query{Selected: 1027})
	if page.Selected == nil || page.Selected.Symbol != "ETH" {
		t.Errorf("expected ETH selected, got %+v", page.Selected)
	}
}

func TestListingUseCase_Open(t *testing.T) {
	f := newFixture(t)

	first, _, err := f.uc.Open(context.Background(), "tiles", uuid.Nil, model.Query{})
	if err != nil {
		t.Fatal(err)
	}
	again, _, err := f.uc.Open(context.Background(), "tiles", first.ID, model.Query{Search: "btc"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID || f.live.calls != 1 {
		t.Errorf("existing view must be reused without fetching")
	}

	stale, _, err := f.uc.Open(context.Background(), "tiles", uuid.New(), model.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if stale.ID == first.ID || f.live.calls != 2 {
		t.Errorf("unknown view must trigger a fresh load")
	}
}

func TestListingUseCase_Refresh(t *testing.T) {
	f := newFixture(t)
	first, err := f.uc.Load(context.Background(), "ledger")
	if err != nil {
		t.Fatal(err)
	}

	second, err := f.uc.Refresh(context.Background(), "ledger", first.ID)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("refresh must create a new view")
	}
	if _, _, err := f.uc.Browse("ledger", first.ID, model.Query{}); err != nil {
		t.Errorf("refreshed view should stay readable until it expires: %v", err)
	}

	again, err := f.uc.Refresh(context.Background(), "ledger", first.ID)
	if !errors.Is(err, model.ErrRefreshInProgress) {
		t.Fatalf("expected overlapping refresh to be rejected, got %v", err)
	}
	if again.ID != second.ID {
		t.Errorf("coalesced refresh should get the newest view %s, got %s", second.ID, again.ID)
	}
	if _, _, err := f.uc.Browse("ledger", again.ID, model.Query{}); err != nil {
		t.Errorf("coalesced refresh view must be browsable: %v", err)
	}
	if f.live.calls != 2 {
		t.Errorf("expected 2 fetches, got %d", f.live.calls)
	}
}

func TestListingUseCase_RefreshWithoutView(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.Refresh(context.Background(), "ledger", uuid.Nil)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	again, err := f.uc.Refresh(context.Background(), "ledger", uuid.Nil)
	if !errors.Is(err, model.ErrRefreshInProgress) {
		t.Fatalf("refreshes without a view should be coalesced too, got %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("expected the view of the first refresh, got %s", again.ID)
	}

	// other sites use their own key
	if _, err := f.uc.Refresh(context.Background(), "tiles", uuid.Nil); err != nil {
		t.Errorf("refresh of another site must not be blocked: %v", err)
	}
	if f.live.calls != 2 {
		t.Errorf("expected 2 fetches, got %d", f.live.calls)
	}
}

func TestListingUseCase_RefreshFailureKeepsView(t *testing.T) {
	f := newFixture(t)
	first, err := f.uc.Load(context.Background(), "ledger")
	if err != nil {
		t.Fatal(err)
	}

	f.live.err = &model.FetchError{Status: 503}
	if _, err := f.uc.Refresh(context.Background(), "ledger", first.ID); !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if _, _, err := f.uc.Browse("ledger", first.ID, model.Query{}); err != nil {
		t.Errorf("failed refresh must keep the previous view: %v", err)
	}
}

func TestListingUseCase_History(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.uc.Load(ctx, "ledger")
	f.uc.Load(ctx, "tiles")
	f.live.err = &model.FetchError{Status: 502}
	f.uc.Load(ctx, "ledger")

	recs, err := f.uc.History(ctx, "ledger", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(recs))
	}
	if recs[0].Status != model.LoadNetworkError || recs[1].Status != model.LoadOK {
		t.Errorf("expected newest first, got %v then %v", recs[0].Status, recs[1].Status)
	}
}
