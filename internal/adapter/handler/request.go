package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"coinlisting/internal/domain/model"
)

func parseQuery(r *http.Request) (uuid.UUID, model.Query, error) {
	return parseValues(r.URL.Query())
}

// parseValues reads view, q, sort, order, page (1-based) and coin. The
// returned query is usable even when err is set; bad values fall back to
// defaults.
func parseValues(values url.Values) (uuid.UUID, model.Query, error) {
	var errs []error

	viewID := uuid.Nil
	if s := values.Get("view"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid view: %w", err))
		} else {
			viewID = id
		}
	}

	sortKey, err := model.ParseSortKey(values.Get("sort"))
	if err != nil {
		errs = append(errs, err)
	}
	order, err := model.ParseOrder(values.Get("order"))
	if err != nil {
		errs = append(errs, err)
	}

	q := model.Query{
		Search: strings.TrimSpace(values.Get("q")),
		Sort:   sortKey,
		Order:  order,
	}

	if s := values.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("invalid page %q", s))
		} else {
			q.Page = n - 1
		}
	}

	if s := values.Get("coin"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid coin %q", s))
		} else {
			q.Selected = id
		}
	}

	return viewID, q, errors.Join(errs...)
}

// encodeQuery is the inverse of parseValues for the parts a redirect
// keeps: view, q, sort, order and page.
func encodeQuery(viewID uuid.UUID, q model.Query) url.Values {
	v := url.Values{}
	if viewID != uuid.Nil {
		v.Set("view", viewID.String())
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Sort != "" && q.Sort != model.SortOriginal {
		v.Set("sort", string(q.Sort))
		if q.Order != "" {
			v.Set("order", string(q.Order))
		}
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page+1))
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
