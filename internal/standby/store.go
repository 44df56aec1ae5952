package standby

import (
	"sync"

	"github.com/lumenhost/standbyd/internal/domain"
)

// HistoryStore is the in-memory, mutex-guarded table of per-(user,
// package) records (C3, §3). It is the engine's only per-package
// mutable state; the policy, scanner, and event-mapping functions in
// this package are pure functions over a copy of a record. Callers
// always reach the store through the engine's single
// task-queue goroutine (§5), so the lock here guards against the
// checkpoint writer and the debug API reading concurrently — not
// against concurrent mutation, which never happens.
type HistoryStore struct {
	mu       sync.RWMutex
	records  map[domain.Key]domain.AppHistory
	onChange func(domain.Change)
}

// NewHistoryStore returns an empty store. onChange, if non-nil, is
// called synchronously whenever Update produces a bucket transition —
// never for writes that only touch other fields.
func NewHistoryStore(onChange func(domain.Change)) *HistoryStore {
	return &HistoryStore{
		records:  make(map[domain.Key]domain.AppHistory),
		onChange: onChange,
	}
}

// Get returns the record for key, creating and storing a fresh
// Never/Default record on first sight (§3: "a package that has never
// been seen starts at Never").
func (s *HistoryStore) Get(key domain.Key) domain.AppHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.records[key]
	if !ok {
		h = domain.NewHistory(key.User, key.Package)
		s.records[key] = h
	}
	return h
}

// Update loads the record for key, applies mutate, stores the result,
// and fires onChange if CurrentBucket changed. It returns the stored
// record and whether mutate actually changed anything.
func (s *HistoryStore) Update(key domain.Key, mutate func(domain.AppHistory) domain.AppHistory) (domain.AppHistory, bool) {
	s.mu.Lock()
	before, ok := s.records[key]
	if !ok {
		before = domain.NewHistory(key.User, key.Package)
	}
	after := mutate(before)
	changed := after != before
	s.records[key] = after
	s.mu.Unlock()

	if changed && after.CurrentBucket != before.CurrentBucket && s.onChange != nil {
		s.onChange(domain.Change{
			User:    after.User,
			Package: after.Package,
			Old:     before.CurrentBucket,
			New:     after.CurrentBucket,
			Reason:  after.CurrentReason,
		})
	}
	return after, changed
}

// IterUser calls fn for every record belonging to user. fn must not
// call back into the store — IterUser holds the read lock for its
// duration.
func (s *HistoryStore) IterUser(user int, fn func(domain.AppHistory)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, h := range s.records {
		if k.User == user {
			fn(h)
		}
	}
}

// Snapshot returns a copy of every record, for the checkpoint writer.
func (s *HistoryStore) Snapshot() []domain.AppHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AppHistory, 0, len(s.records))
	for _, h := range s.records {
		out = append(out, h.Clone())
	}
	return out
}

// Restore replaces the store's contents with records, e.g. loaded from
// a checkpoint at startup. It never fires onChange — restoring a
// snapshot is not a live transition.
func (s *HistoryStore) Restore(records []domain.AppHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[domain.Key]domain.AppHistory, len(records))
	for _, h := range records {
		s.records[h.KeyOf()] = h
	}
}
