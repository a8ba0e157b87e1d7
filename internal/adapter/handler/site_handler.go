package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"coinlisting/internal/application/service"
	"coinlisting/internal/application/usecase"
	"coinlisting/internal/domain/model"
	"coinlisting/internal/presentation/theme"
)

var notices = map[string]string{
	"refresh-pending": "A refresh was already running, so no new request was made. Showing the latest loaded data.",
	"view-expired":    "Your previous view expired, so the listing was loaded again.",
}

type SiteHandler struct {
	useCase  *usecase.ListingUseCase
	renderer *theme.Renderer
	modes    *service.ModeService
	logger   *slog.Logger
}

func NewSiteHandler(useCase *usecase.ListingUseCase, renderer *theme.Renderer, modes *service.ModeService, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		useCase:  useCase,
		renderer: renderer,
		modes:    modes,
		logger:   logger,
	}
}

func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	idx := theme.Index{Sites: h.useCase.Sites(), Mode: h.modes.GetCurrentMode()}
	if err := h.renderer.RenderIndex(&buf, idx); err != nil {
		h.logger.Error("failed to render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Show renders a site from its view, loading first when the request has
// no live view.
func (h *SiteHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("site")
	site, err := h.useCase.Site(slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	viewID, q, err := parseQuery(r)
	if err != nil {
		h.logger.Debug("ignoring bad query parameters", "site", slug, "error", err)
	}

	doc := theme.Document{
		Site:   site,
		Query:  q,
		Mode:   h.modes.GetCurrentMode(),
		Notice: notices[r.URL.Query().Get("notice")],
	}

	listing, page, err := h.useCase.Open(r.Context(), slug, viewID, q)
	if err != nil {
		doc.Err = theme.ErrorState(err)
		h.render(w, http.StatusBadGateway, doc)
		return
	}

	if viewID != uuid.Nil && listing.ID != viewID {
		doc.Notice = notices["view-expired"]
	}
	doc.ViewID = listing.ID
	doc.Mode = listing.Mode
	doc.FetchedAt = listing.FetchedAt
	doc.Page = page
	h.render(w, http.StatusOK, doc)
}

// Refresh handles the explicit reload button and redirects to the new
// view so a browser reload does not resubmit.
func (h *SiteHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("site")
	site, err := h.useCase.Site(slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	oldID, q, err := parseValues(r.PostForm)
	if err != nil {
		h.logger.Debug("ignoring bad refresh form values", "site", slug, "error", err)
	}
	q.Selected = 0

	listing, err := h.useCase.Refresh(r.Context(), slug, oldID)
	switch {
	case errors.Is(err, model.ErrRefreshInProgress):
		target := listing.ID
		if target == uuid.Nil {
			target = oldID
		}
		h.logger.Info("refresh coalesced", "site", slug, "view", oldID, "redirect_view", target)
		h.redirect(w, r, site, encodeQuery(target, q), "refresh-pending")
	case err != nil:
		h.render(w, http.StatusBadGateway, theme.Document{
			Site:   site,
			ViewID: oldID,
			Query:  q,
			Mode:   h.modes.GetCurrentMode(),
			Err:    theme.ErrorState(err),
		})
	default:
		h.redirect(w, r, site, encodeQuery(listing.ID, q), "")
	}
}

func (h *SiteHandler) redirect(w http.ResponseWriter, r *http.Request, site model.Site, v url.Values, notice string) {
	if notice != "" {
		v.Set("notice", notice)
	}
	target := "/sites/" + url.PathEscape(site.Slug)
	if enc := v.Encode(); enc != "" {
		target += "?" + enc
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// render buffers the page so a template failure never leaves a
// half-written response.
func (h *SiteHandler) render(w http.ResponseWriter, status int, doc theme.Document) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		h.logger.Error("failed to render site", "site", doc.Site.Slug, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
