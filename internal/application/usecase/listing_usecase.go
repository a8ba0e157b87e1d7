package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"coinlisting/internal/application/service"
	"coinlisting/internal/application/view"
	"coinlisting/internal/domain/model"
	"coinlisting/internal/domain/port"
)

const defaultRefreshCooldown = 2 * time.Second

type Sources struct {
	Live port.ListingSource
	Test port.ListingSource
}

// ListingUseCase ties sites, sources and views together. A listing is
// fetched only by Load and Refresh; Browse works on what a view holds.
type ListingUseCase struct {
	sites    []model.Site
	bySlug   map[string]model.Site
	sources  Sources
	modes    *service.ModeService
	views    *service.ViewStore
	journal  port.JournalPort
	gate     port.RefreshGate
	cooldown time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewListingUseCase(
	sites []model.Site,
	sources Sources,
	modes *service.ModeService,
	views *service.ViewStore,
	journal port.JournalPort,
	gate port.RefreshGate,
	cooldown time.Duration,
	logger *slog.Logger,
) *ListingUseCase {
	if cooldown <= 0 {
		cooldown = defaultRefreshCooldown
	}
	bySlug := make(map[string]model.Site, len(sites))
	for _, s := range sites {
		bySlug[s.Slug] = s
	}
	return &ListingUseCase{
		sites:    append([]model.Site(nil), sites...),
		bySlug:   bySlug,
		sources:  sources,
		modes:    modes,
		views:    views,
		journal:  journal,
		gate:     gate,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *ListingUseCase) Sites() []model.Site {
	return append([]model.Site(nil), uc.sites...)
}

func (uc *ListingUseCase) Site(slug string) (model.Site, error) {
	site, ok := uc.bySlug[slug]
	if !ok {
		return model.Site{}, fmt.Errorf("%w: %s", model.ErrUnknownSite, slug)
	}
	return site, nil
}

func (uc *ListingUseCase) source(mode model.DataMode) port.ListingSource {
	if mode == model.TestMode && uc.sources.Test != nil {
		return uc.sources.Test
	}
	return uc.sources.Live
}

// Load fetches a new listing for a site and stores it as a new view. A
// failed load stores nothing.
func (uc *ListingUseCase) Load(ctx context.Context, slug string) (model.Listing, error) {
	site, err := uc.Site(slug)
	if err != nil {
		return model.Listing{}, err
	}

	mode := uc.modes.GetCurrentMode()
	src := uc.source(mode)

	start := uc.now()
	coins, fetchErr := src.Fetch(ctx)
	elapsed := uc.now().Sub(start)

	rec := model.LoadRecord{
		ID:         uuid.New(),
		Site:       site.Slug,
		Mode:       mode.String(),
		Status:     model.StatusOf(fetchErr),
		HTTPStatus: model.HTTPStatusOf(fetchErr),
		CoinCount:  len(coins),
		Duration:   elapsed,
		At:         start.UTC(),
	}
	if fetchErr != nil {
		rec.Error = fetchErr.Error()
	}
	if err := uc.journal.Record(ctx, rec); err != nil {
		uc.logger.Warn("failed to journal load", "load", rec.ID, "site", site.Slug, "error", err)
	}

	if fetchErr != nil {
		uc.logger.Warn("listing load failed",
			"load", rec.ID, "site", site.Slug, "mode", rec.Mode, "source", src.Name(),
			"status", rec.Status, "http_status", rec.HTTPStatus, "duration", elapsed, "error", fetchErr)
		return model.Listing{}, fmt.Errorf("load %s: %w", site.Slug, fetchErr)
	}

	listing := model.Listing{
		ID:        rec.ID,
		Site:      site.Slug,
		Mode:      mode,
		Coins:     coins,
		FetchedAt: start,
	}
	uc.views.Put(listing)

	uc.logger.Info("listing loaded",
		"load", rec.ID, "site", site.Slug, "mode", rec.Mode, "source", src.Name(),
		"coins", len(coins), "duration", elapsed)
	return listing, nil
}

// Browse derives the page a site shows for q from an existing view.
func (uc *ListingUseCase) Browse(slug string, viewID uuid.UUID, q model.Query) (model.Listing, model.Page, error) {
	site, err := uc.Site(slug)
	if err != nil {
		return model.Listing{}, model.Page{}, err
	}

	listing, err := uc.views.Get(site.Slug, viewID)
	if err != nil {
		return model.Listing{}, model.Page{}, err
	}

	return listing, view.Apply(listing.Coins, q, site), nil
}

// Open returns the view to render: the existing one when viewID is still
// alive, otherwise a fresh load.
func (uc *ListingUseCase) Open(ctx context.Context, slug string, viewID uuid.UUID, q model.Query) (model.Listing, model.Page, error) {
	if viewID != uuid.Nil {
		listing, page, err := uc.Browse(slug, viewID, q)
		if !errors.Is(err, model.ErrViewNotFound) {
			return listing, page, err
		}
	}

	site, err := uc.Site(slug)
	if err != nil {
		return model.Listing{}, model.Page{}, err
	}
	listing, err := uc.Load(ctx, slug)
	if err != nil {
		return model.Listing{}, model.Page{}, err
	}
	return listing, view.Apply(listing.Coins, q, site), nil
}

// Refresh is the explicit user reload. Refreshes of one view (or of a
// site page without a view) within the cooldown collapse into the first.
// The others get ErrRefreshInProgress together with the newest view of the
// site, or their own view when nothing newer is stored yet, and no fetch
// happens for them. The refreshed view is left to expire on its own.
func (uc *ListingUseCase) Refresh(ctx context.Context, slug string, viewID uuid.UUID) (model.Listing, error) {
	if _, err := uc.Site(slug); err != nil {
		return model.Listing{}, err
	}

	ok, err := uc.gate.Acquire(ctx, refreshKey(slug, viewID), uc.cooldown)
	if err != nil {
		uc.logger.Warn("refresh gate unavailable, refreshing anyway", "site", slug, "view", viewID, "error", err)
	} else if !ok {
		return uc.current(slug, viewID), model.ErrRefreshInProgress
	}

	return uc.Load(ctx, slug)
}

func refreshKey(slug string, viewID uuid.UUID) string {
	if viewID == uuid.Nil {
		return slug + ":none"
	}
	return slug + ":" + viewID.String()
}

// current picks the view a coalesced refresh falls back to.
func (uc *ListingUseCase) current(slug string, viewID uuid.UUID) model.Listing {
	if listing, ok := uc.views.Newest(slug); ok {
		return listing
	}
	if viewID != uuid.Nil {
		if listing, err := uc.views.Get(slug, viewID); err == nil {
			return listing
		}
	}
	return model.Listing{}
}

func (uc *ListingUseCase) History(ctx context.Context, slug string, limit int) ([]model.LoadRecord, error) {
	if _, err := uc.Site(slug); err != nil {
		return nil, err
	}
	return uc.journal.Recent(ctx, slug, limit)
}
