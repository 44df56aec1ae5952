package standby

import (
	"testing"

	"github.com/lumenhost/standbyd/internal/domain"
)

func TestHistoryStore_GetCreatesDefaultRecordOnFirstSight(t *testing.T) {
	s := NewHistoryStore(nil)
	key := domain.Key{User: 0, Package: "pkg"}

	h := s.Get(key)
	if h.CurrentBucket != domain.Never || h.CurrentReason.Reason != domain.ReasonDefault {
		t.Errorf("Get() on an unseen key = %+v, want Never/Default", h)
	}

	h2 := s.Get(key)
	if h2 != h {
		t.Error("Get() should return the same stored record on a second call")
	}
}

func TestHistoryStore_UpdateFiresOnChangeOnlyOnBucketTransition(t *testing.T) {
	var changes []domain.Change
	s := NewHistoryStore(func(c domain.Change) { changes = append(changes, c) })
	key := domain.Key{User: 0, Package: "pkg"}

	// First update: touches a non-bucket field only.
	s.Update(key, func(h domain.AppHistory) domain.AppHistory {
		h.Used = true
		return h
	})
	if len(changes) != 0 {
		t.Fatalf("onChange fired %d times for a non-bucket mutation, want 0", len(changes))
	}

	// Second update: an actual bucket transition.
	s.Update(key, func(h domain.AppHistory) domain.AppHistory {
		h.CurrentBucket = domain.Active
		h.CurrentReason = domain.Tagged{Reason: domain.ReasonUsage}
		return h
	})
	if len(changes) != 1 {
		t.Fatalf("onChange fired %d times for a bucket transition, want 1", len(changes))
	}
	if changes[0].Old != domain.Never || changes[0].New != domain.Active {
		t.Errorf("Change = %+v, want Old=Never New=Active", changes[0])
	}
}

func TestHistoryStore_UpdateReportsUnchangedWhenMutateIsIdentity(t *testing.T) {
	s := NewHistoryStore(nil)
	key := domain.Key{User: 0, Package: "pkg"}

	_, changed := s.Update(key, func(h domain.AppHistory) domain.AppHistory { return h })
	if changed {
		t.Error("Update() reported changed=true for an identity mutation")
	}
}

func TestHistoryStore_IterUserOnlyVisitsMatchingUser(t *testing.T) {
	s := NewHistoryStore(nil)
	s.Get(domain.Key{User: 0, Package: "a"})
	s.Get(domain.Key{User: 1, Package: "b"})
	s.Get(domain.Key{User: 0, Package: "c"})

	var seen []string
	s.IterUser(0, func(h domain.AppHistory) { seen = append(seen, h.Package) })

	if len(seen) != 2 {
		t.Fatalf("IterUser(0) visited %d records, want 2", len(seen))
	}
}

func TestHistoryStore_SnapshotRestoreRoundTrip(t *testing.T) {
	s := NewHistoryStore(nil)
	key := domain.Key{User: 0, Package: "pkg"}
	s.Update(key, func(h domain.AppHistory) domain.AppHistory {
		h.CurrentBucket = domain.Frequent
		h.CurrentReason = domain.Tagged{Reason: domain.ReasonTimeout}
		return h
	})

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot() = %d records, want 1", len(snap))
	}

	s2 := NewHistoryStore(nil)
	s2.Restore(snap)
	got := s2.Get(key)
	if got.CurrentBucket != domain.Frequent {
		t.Errorf("restored record CurrentBucket = %v, want Frequent", got.CurrentBucket)
	}
}

func TestHistoryStore_RestoreNeverFiresOnChange(t *testing.T) {
	fired := false
	s := NewHistoryStore(func(domain.Change) { fired = true })
	s.Restore([]domain.AppHistory{
		{User: 0, Package: "pkg", CurrentBucket: domain.Active, CurrentReason: domain.Tagged{Reason: domain.ReasonUsage}},
	})
	if fired {
		t.Error("Restore() must never fire onChange")
	}
}
