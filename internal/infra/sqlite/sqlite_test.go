package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenhost/standbyd/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "standby.db")); os.IsNotExist(err) {
		t.Error("standby.db should exist")
	}
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

// ─── Snapshot round-trip ────────────────────────────────────────────────────

func TestSaveLoadSnapshot_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	predicted := domain.WorkingSet
	records := []domain.AppHistory{
		{
			User:               0,
			Package:            "com.example.one",
			CurrentBucket:      domain.Frequent,
			CurrentReason:      domain.Tagged{Reason: domain.ReasonTimeout},
			BucketSetAtElapsed: 1000,
			Used:               true,
			LastUsedElapsed:    500,
		},
		{
			User:                   0,
			Package:                "com.example.two",
			CurrentBucket:          domain.WorkingSet,
			CurrentReason:          domain.Tagged{Reason: domain.ReasonPredicted, Subtag: "cts"},
			BucketSetAtElapsed:     2000,
			LastPredictedBucket:    &predicted,
			LastPredictedAtElapsed: 2000,
			ForcedIdle:             false,
		},
	}

	if err := db.SaveSnapshot(records); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	byPkg := make(map[string]domain.AppHistory, len(got))
	for _, h := range got {
		byPkg[h.Package] = h
	}

	one := byPkg["com.example.one"]
	if one.CurrentBucket != domain.Frequent || one.CurrentReason.Reason != domain.ReasonTimeout {
		t.Errorf("com.example.one = %+v, want Frequent/Timeout", one)
	}
	if !one.Used || one.LastUsedElapsed != 500 {
		t.Errorf("com.example.one usage fields not preserved: %+v", one)
	}

	two := byPkg["com.example.two"]
	if two.CurrentReason.Subtag != "cts" {
		t.Errorf("com.example.two subtag = %q, want %q", two.CurrentReason.Subtag, "cts")
	}
	if two.LastPredictedBucket == nil || *two.LastPredictedBucket != domain.WorkingSet {
		t.Errorf("com.example.two LastPredictedBucket = %v, want WorkingSet", two.LastPredictedBucket)
	}
}

func TestSaveSnapshot_ReplacesPriorContents(t *testing.T) {
	db := newTestDB(t)

	if err := db.SaveSnapshot([]domain.AppHistory{
		{User: 0, Package: "stale", CurrentBucket: domain.Rare, CurrentReason: domain.Tagged{Reason: domain.ReasonTimeout}},
	}); err != nil {
		t.Fatalf("first SaveSnapshot() error: %v", err)
	}

	if err := db.SaveSnapshot([]domain.AppHistory{
		{User: 0, Package: "fresh", CurrentBucket: domain.Active, CurrentReason: domain.Tagged{Reason: domain.ReasonUsage}},
	}); err != nil {
		t.Fatalf("second SaveSnapshot() error: %v", err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if len(got) != 1 || got[0].Package != "fresh" {
		t.Errorf("LoadSnapshot() = %+v, want only [fresh]", got)
	}
}

func TestLoadSnapshot_Empty(t *testing.T) {
	db := newTestDB(t)

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
