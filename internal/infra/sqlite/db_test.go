package sqlite_test

import (
	"testing"
	"time"

	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	db.Close()

	// Reopen the same directory — migrations are idempotent, data survives.
	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	v, err := db2.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != "v" {
		t.Errorf("expected v, got %q", v)
	}
}

func TestState_GetSetRemove(t *testing.T) {
	db := testDB(t)

	// Absent key is nil, not an error
	v, err := db.Get("missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for missing key, got %q", v)
	}

	if err := db.Set("streak:p1", []byte(`{"current_streak":3}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Overwrite
	if err := db.Set("streak:p1", []byte(`{"current_streak":4}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _ = db.Get("streak:p1")
	if string(v) != `{"current_streak":4}` {
		t.Errorf("expected overwritten value, got %q", v)
	}

	if err := db.Remove("streak:p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	v, _ = db.Get("streak:p1")
	if v != nil {
		t.Error("expected nil after remove")
	}

	// Removing an absent key is not an error
	if err := db.Remove("streak:p1"); err != nil {
		t.Errorf("remove absent: %v", err)
	}
}

func TestLedger_AppendAndList(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	for i, amount := range []int64{50, 100, 5} {
		currency := domain.CurrencyGold
		if i == 2 {
			currency = domain.CurrencyGems
		}
		_, err := db.InsertLedgerEntry(domain.LedgerEntry{
			PlayerID:  "p1",
			Currency:  currency,
			Amount:    amount,
			Reason:    "test",
			Balance:   amount,
			CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	entries, err := db.LedgerEntries("p1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].Amount != 5 || entries[0].Currency != domain.CurrencyGems {
		t.Errorf("expected newest entry first, got %+v", entries[0])
	}

	// Other players see nothing
	other, _ := db.LedgerEntries("p2", 10)
	if len(other) != 0 {
		t.Errorf("expected 0 entries for p2, got %d", len(other))
	}
}

func TestOutbox_EnqueueDedupe(t *testing.T) {
	db := testDB(t)

	if _, err := db.EnqueueSync("ev-1", "p1", []byte(`{}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	// Replaying the same event id after a crash is harmless.
	if _, err := db.EnqueueSync("ev-1", "p1", []byte(`{}`)); err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}

	count, err := db.PendingSyncCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pending row, got %d", count)
	}
}

func TestOutbox_PendingRespectsBackoff(t *testing.T) {
	db := testDB(t)

	id, err := db.EnqueueSync("ev-1", "p1", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	now := time.Now()
	rows, err := db.PendingSync(now, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(rows) != 1 || rows[0].EventID != "ev-1" {
		t.Fatalf("expected ev-1 due immediately, got %+v", rows)
	}

	// Push failure schedules a retry in the future.
	if err := db.RecordSyncFailure(id, "connection refused", now.Add(time.Minute)); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	rows, _ = db.PendingSync(now, 10)
	if len(rows) != 0 {
		t.Errorf("backed-off row should not be due, got %d rows", len(rows))
	}

	// Due again after the backoff window.
	rows, _ = db.PendingSync(now.Add(2*time.Minute), 10)
	if len(rows) != 1 {
		t.Fatalf("expected 1 due row after backoff, got %d", len(rows))
	}
	if rows[0].Attempts != 1 {
		t.Errorf("expected 1 attempt recorded, got %d", rows[0].Attempts)
	}
}

func TestOutbox_CountPerPlayer(t *testing.T) {
	db := testDB(t)

	if _, err := db.EnqueueSync("ev-1", "p1", []byte(`{}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := db.EnqueueSync("ev-2", "p1", []byte(`{}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := db.EnqueueSync("ev-3", "p2", []byte(`{}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	n, err := db.PendingSyncCountForPlayer("p1")
	if err != nil {
		t.Fatalf("count p1: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pending for p1, got %d", n)
	}

	n, _ = db.PendingSyncCountForPlayer("p3")
	if n != 0 {
		t.Errorf("expected 0 pending for p3, got %d", n)
	}

	total, _ := db.PendingSyncCount()
	if total != 3 {
		t.Errorf("expected 3 total, got %d", total)
	}
}

func TestOutbox_MarkSynced(t *testing.T) {
	db := testDB(t)

	id, _ := db.EnqueueSync("ev-1", "p1", []byte(`{}`))
	if err := db.MarkSynced(id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	count, _ := db.PendingSyncCount()
	if count != 0 {
		t.Errorf("expected empty outbox, got %d", count)
	}
}

func TestOutbox_InsertionOrder(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"ev-1", "ev-2", "ev-3"} {
		if _, err := db.EnqueueSync(id, "p1", []byte(`{}`)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	rows, err := db.PendingSync(time.Now(), 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(rows))
	}
	if rows[0].EventID != "ev-1" || rows[1].EventID != "ev-2" {
		t.Errorf("expected insertion order, got %s, %s", rows[0].EventID, rows[1].EventID)
	}
}
