package notify

import (
	"sync"

	"github.com/google/uuid"

	"github.com/portosite/backend/internal/domain"
)

// Store is the session-local view of all known notifications. It is a cache
// over the server's list, never a source of truth: every successful poll
// replaces the list wholesale, so remote deletions and read-state changes
// from other sessions show up within one polling interval.
//
// The seen set is the dedup key for surfacing. An identifier surfaces at
// most once per session, whether it arrives by push, by poll, or both.
type Store struct {
	mu     sync.RWMutex
	items  []*domain.Notification
	seen   map[uuid.UUID]struct{}
	primed bool
}

func NewStore() *Store {
	return &Store{
		seen: make(map[uuid.UUID]struct{}),
	}
}

// Reconcile replaces the local list with a fresh fetch and returns the
// notifications that were not previously known. The very first reconcile
// primes the seen set and surfaces nothing, so a page load never replays
// history as new.
func (s *Store) Reconcile(fetched []*domain.Notification) []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := diff(s.seen, fetched)

	s.items = make([]*domain.Notification, len(fetched))
	copy(s.items, fetched)
	for _, n := range fetched {
		s.seen[n.ID] = struct{}{}
	}

	if !s.primed {
		s.primed = true
		return nil
	}
	return fresh
}

// diff returns the notifications in fetched whose IDs are absent from seen.
// Pure over its inputs; it mutates neither.
func diff(seen map[uuid.UUID]struct{}, fetched []*domain.Notification) []*domain.Notification {
	var fresh []*domain.Notification
	for _, n := range fetched {
		if _, ok := seen[n.ID]; !ok {
			fresh = append(fresh, n)
		}
	}
	return fresh
}

// ObservePush records a notification delivered over the push channel and
// reports whether it was previously unseen. A pushed duplicate of an item
// the poller already delivered (or vice versa) returns false.
func (s *Store) ObservePush(n *domain.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[n.ID]; ok {
		return false
	}
	s.seen[n.ID] = struct{}{}
	// The list is newest-first; a pushed event is by definition newest.
	s.items = append([]*domain.Notification{n}, s.items...)
	return true
}

// List returns a copy of the current notification list, newest first.
func (s *Store) List() []*domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadIDs returns the identifiers of all unread notifications.
func (s *Store) UnreadIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for _, n := range s.items {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// ApplyRead sets the local read flag after a confirmed server update.
func (s *Store) ApplyRead(id uuid.UUID, isRead bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID == id {
			updated := *n
			updated.IsRead = isRead
			s.items[i] = &updated
			return
		}
	}
}

// Remove drops a notification from the local list after a confirmed server
// delete. The ID stays in the seen set so the item cannot resurface.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
