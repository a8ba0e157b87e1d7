package theme

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"coinlisting/internal/domain/model"
)

// Document is everything one site page renders.
type Document struct {
	Site      model.Site
	ViewID    uuid.UUID
	Query     model.Query
	Page      model.Page
	Mode      model.DataMode
	FetchedAt time.Time
	Err       *LoadError
	Notice    string
}

// LoadError is the terminal error state of a failed load.
type LoadError struct {
	Kind    string
	Status  int
	Message string
}

func ErrorState(err error) *LoadError {
	if err == nil {
		return nil
	}
	kind := "network"
	if errors.Is(err, model.ErrFormat) {
		kind = "format"
	}
	return &LoadError{
		Kind:    kind,
		Status:  model.HTTPStatusOf(err),
		Message: err.Error(),
	}
}

func (d Document) values() url.Values {
	v := url.Values{}
	if d.ViewID != uuid.Nil {
		v.Set("view", d.ViewID.String())
	}
	if d.Query.Search != "" {
		v.Set("q", d.Query.Search)
	}
	if d.Query.Sort != "" && d.Query.Sort != model.SortOriginal {
		v.Set("sort", string(d.Query.Sort))
		v.Set("order", string(d.order()))
	}
	if d.Page.Page > 0 {
		v.Set("page", strconv.Itoa(d.Page.Page+1))
	}
	if d.Query.Selected != 0 {
		v.Set("coin", strconv.FormatInt(d.Query.Selected, 10))
	}
	return v
}

func (d Document) order() model.Order {
	if d.Query.Order == "" {
		return model.Asc
	}
	return d.Query.Order
}

func (d Document) href(v url.Values) string {
	path := d.SiteURL()
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func (d Document) SiteURL() string { return "/sites/" + url.PathEscape(d.Site.Slug) }

func (d Document) RefreshURL() string { return d.SiteURL() + "/refresh" }

// PageURL links to page index n (0-based) of the current view.
func (d Document) PageURL(n int) string {
	v := d.values()
	v.Del("coin")
	if n > 0 {
		v.Set("page", strconv.Itoa(n+1))
	} else {
		v.Del("page")
	}
	return d.href(v)
}

// SortURL sorts by key, flipping the order when key is already active.
func (d Document) SortURL(key string) string {
	v := d.values()
	v.Del("page")
	v.Del("coin")
	order := model.Asc
	if model.SortKey(key) == d.Query.Sort && d.order() == model.Asc {
		order = model.Desc
	}
	if key == "" || model.SortKey(key) == model.SortOriginal {
		v.Del("sort")
		v.Del("order")
	} else {
		v.Set("sort", key)
		v.Set("order", string(order))
	}
	return d.href(v)
}

func (d Document) SortMark(key string) string {
	if model.SortKey(key) != d.Query.Sort {
		return ""
	}
	if d.order() == model.Desc {
		return "▼"
	}
	return "▲"
}

func (d Document) CoinURL(id int64) string {
	v := d.values()
	v.Set("coin", strconv.FormatInt(id, 10))
	return d.href(v)
}

// CloseURL drops the selection and keeps everything else.
func (d Document) CloseURL() string {
	v := d.values()
	v.Del("coin")
	return d.href(v)
}

// RefreshFields are the hidden inputs of the refresh form. A failed load
// has no page window, so the requested page is carried instead.
func (d Document) RefreshFields() url.Values {
	v := d.values()
	v.Del("coin")
	if d.Err != nil && d.Query.Page > 0 {
		v.Set("page", strconv.Itoa(d.Query.Page+1))
	}
	return v
}

func (d Document) PageNumbers() []int {
	out := make([]int, d.Page.Pages)
	for i := range out {
		out[i] = i
	}
	return out
}

func (d Document) HasView() bool { return d.ViewID != uuid.Nil }
