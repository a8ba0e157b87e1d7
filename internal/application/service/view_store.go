package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"coinlisting/internal/domain/model"
)

const (
	defaultViewTTL  = 15 * time.Minute
	defaultMaxViews = 1024
)

type viewEntry struct {
	listing model.Listing
	seq     uint64
	created time.Time
	expires time.Time
}

// ViewStore keeps the resolved listing of each page load in memory so that
// sorting, searching, paging and the detail overlay never refetch. A view
// lives until it is idle for ttl or pushed out by newer views.
type ViewStore struct {
	mu    sync.Mutex
	views map[uuid.UUID]*viewEntry
	seq   uint64
	ttl   time.Duration
	max   int
	now   func() time.Time

	logger *slog.Logger
}

func NewViewStore(ttl time.Duration, max int, logger *slog.Logger) *ViewStore {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	if max <= 0 {
		max = defaultMaxViews
	}
	return &ViewStore{
		views:  make(map[uuid.UUID]*viewEntry),
		ttl:    ttl,
		max:    max,
		now:    time.Now,
		logger: logger,
	}
}

// Put stores a freshly loaded listing under its ID.
func (s *ViewStore) Put(listing model.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	for len(s.views) >= s.max {
		s.evictOldestLocked()
	}

	s.seq++
	s.views[listing.ID] = &viewEntry{
		listing: listing,
		seq:     s.seq,
		created: now,
		expires: now.Add(s.ttl),
	}
}

// Get returns the listing of a view that belongs to site. Reading a view
// extends its lifetime.
func (s *ViewStore) Get(site string, id uuid.UUID) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.views[id]
	if !ok || e.listing.Site != site {
		return model.Listing{}, model.ErrViewNotFound
	}
	if !now.Before(e.expires) {
		delete(s.views, id)
		return model.Listing{}, model.ErrViewNotFound
	}

	e.expires = now.Add(s.ttl)
	return e.listing, nil
}

// Newest returns the most recently stored live view of site. It does not
// extend the view's lifetime.
func (s *ViewStore) Newest(site string) (model.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var newest *viewEntry
	for _, e := range s.views {
		if e.listing.Site != site || !now.Before(e.expires) {
			continue
		}
		if newest == nil || e.seq > newest.seq {
			newest = e
		}
	}
	if newest == nil {
		return model.Listing{}, false
	}
	return newest.listing, true
}

func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *ViewStore) sweepLocked(now time.Time) {
	for id, e := range s.views {
		if !now.Before(e.expires) {
			delete(s.views, id)
		}
	}
}

func (s *ViewStore) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, e := range s.views {
		if !found || e.created.Before(oldest) {
			oldestID, oldest, found = id, e.created, true
		}
	}
	if found {
		delete(s.views, oldestID)
		s.logger.Debug("view evicted", "view", oldestID)
	}
}
