// Package store owns the in-memory ordered list of discoveries for the
// current session. It is the only holder of list state; the presentation
// layer reads snapshots and forwards intents, the gateway does the I/O.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/lunarjournal/internal/gateway"
	"github.com/dmitrijs2005/lunarjournal/internal/logging"
	"github.com/dmitrijs2005/lunarjournal/internal/models"
)

// ErrStaleAfterCreate reports that the backend persisted the record but
// the follow-up reload failed, leaving the local list stale. Callers must
// not resubmit the draft; only a refresh is missing.
var ErrStaleAfterCreate = errors.New("discovery created, list reload failed")

// Store keeps the discovery list sorted by discovery date descending, as
// established by the load query. The list is never re-sorted locally.
//
// The generation counter scopes the list to one session: Reset bumps it,
// and a Load that started under an older generation discards its result
// instead of resurrecting data from a session that has since ended.
type Store struct {
	gw  gateway.Gateway
	log logging.Logger
	now func() time.Time

	mu   sync.Mutex
	gen  uint64
	list []models.Discovery
}

// New constructs an empty store bound to the given gateway.
func New(gw gateway.Gateway, log logging.Logger) *Store {
	return &Store{gw: gw, log: log, now: time.Now}
}

// Reset empties the list and invalidates any in-flight loads. Called on
// every session boundary (both into and out of the authenticated state).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.list = nil
}

// Load fetches the full list and replaces the local one wholesale. Safe to
// invoke repeatedly; a failed load leaves the previous list in place, and
// the next successful load fully replaces it, never merges.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	items, err := s.gw.ListDiscoveries(ctx)
	if err != nil {
		return fmt.Errorf("loading discoveries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// The session ended while the request was in flight.
		s.log.Debug(ctx, "discarding stale discovery list", "count", len(items))
		return nil
	}
	s.list = items
	return nil
}

// Create stamps the draft with the current time, submits it, and converges
// through a full reload so the server-assigned id, the expanded owner and
// the thumbnail come back authoritative and the ordering stays intact.
// On a create failure the list is untouched and the caller keeps the
// draft. A failure of the reload alone surfaces as ErrStaleAfterCreate:
// the record exists on the backend and resubmitting would duplicate it.
func (s *Store) Create(ctx context.Context, draft *models.DiscoveryDraft) error {
	draft.DiscoveryDate = s.now()

	created, err := s.gw.CreateDiscovery(ctx, draft)
	if err != nil {
		return fmt.Errorf("creating discovery: %w", err)
	}
	s.log.Info(ctx, "discovery created", "id", created.ID, "title", created.Title)

	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStaleAfterCreate, err)
	}
	return nil
}

// Delete forwards to the gateway and, on success, removes the record
// locally by identity match. A delete cannot change ordering or introduce
// derived fields, so no reload is needed. On failure the list is untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteDiscovery(ctx, id); err != nil {
		return fmt.Errorf("deleting discovery: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.list[:0:0]
	for _, d := range s.list {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	s.list = filtered
	return nil
}

// Discoveries returns a copy of the current list.
func (s *Store) Discoveries() []models.Discovery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Discovery, len(s.list))
	copy(out, s.list)
	return out
}

// Get looks up a discovery by id in the local list.
func (s *Store) Get(id string) (models.Discovery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.list {
		if d.ID == id {
			return d, true
		}
	}
	return models.Discovery{}, false
}

// Len reports the number of loaded discoveries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
