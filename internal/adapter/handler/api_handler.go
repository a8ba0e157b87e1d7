package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"coinlisting/internal/application/usecase"
	"coinlisting/internal/domain/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type coinsResponse struct {
	View     uuid.UUID    `json:"view"`
	Mode     string       `json:"mode"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	Pages    int          `json:"pages"`
	PageSize int          `json:"page_size"`
	Coins    []model.Coin `json:"coins"`
	Selected *model.Coin  `json:"selected,omitempty"`
}

// APIHandler serves the same derivations as the HTML sites, as JSON.
type APIHandler struct {
	useCase *usecase.ListingUseCase
	logger  *slog.Logger
}

func NewAPIHandler(useCase *usecase.ListingUseCase, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		useCase: useCase,
		logger:  logger,
	}
}

func (h *APIHandler) Coins(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("site")
	if _, err := h.useCase.Site(slug); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	viewID, q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, page, err := h.useCase.Open(r.Context(), slug, viewID, q)
	if err != nil {
		h.writeLoadError(w, slug, err)
		return
	}

	coins := page.Coins
	if coins == nil {
		coins = []model.Coin{}
	}
	writeJSON(w, http.StatusOK, coinsResponse{
		View:     listing.ID,
		Mode:     listing.Mode.String(),
		Total:    page.Total,
		Page:     page.Page + 1,
		Pages:    page.Pages,
		PageSize: page.PageSize,
		Coins:    coins,
		Selected: page.Selected,
	})
}

func (h *APIHandler) Loads(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("site")

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.useCase.History(r.Context(), slug, limit)
	switch {
	case errors.Is(err, model.ErrUnknownSite):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to read load history", "site", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read load history")
		return
	}

	if records == nil {
		records = []model.LoadRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// writeLoadError reports both failure kinds as 502; the kind and upstream
// status tell them apart.
func (h *APIHandler) writeLoadError(w http.ResponseWriter, slug string, err error) {
	kind := "network"
	if errors.Is(err, model.ErrFormat) {
		kind = "format"
	}
	h.logger.Warn("api load failed", "site", slug, "kind", kind, "error", err)
	writeJSON(w, http.StatusBadGateway, errorResponse{
		Error:  err.Error(),
		Kind:   kind,
		Status: model.HTTPStatusOf(err),
	})
}
