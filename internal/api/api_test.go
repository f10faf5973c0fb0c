package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wordkite/wordkite/internal/api"
	"github.com/wordkite/wordkite/internal/app/completion"
	"github.com/wordkite/wordkite/internal/app/wallet"
	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

// testServer wires a full API stack over a temporary database.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	today, _ := domain.ParseDate("2026-07-01")
	svc := completion.NewService(db, nil, domain.FixedClock{Date: today}, completion.DefaultConfig())

	srv := api.NewServer(svc, wallet.NewService(db))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	blob, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestVersion(t *testing.T) {
	ts := testServer(t)

	var body map[string]string
	getJSON(t, ts.URL+"/api/version", &body)
	if body["version"] == "" {
		t.Error("expected a version string")
	}
}

func TestCompleteActivity_Endpoint(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
		"activity_id":   "quiz:lesson-1:1",
		"activity_kind": "quiz",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result domain.CompletionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.FirstCompletion {
		t.Error("expected first completion")
	}
	if result.XPAwarded != 50 {
		t.Errorf("expected 50 XP for quiz, got %d", result.XPAwarded)
	}
	if result.NewStreakValue != 1 {
		t.Errorf("expected streak 1, got %d", result.NewStreakValue)
	}
}

func TestCompleteActivity_StructuredID(t *testing.T) {
	ts := testServer(t)

	// No activity_id: the handler builds it from kind/lesson/round.
	resp := postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
		"activity_kind": "matching",
		"lesson":        "animals",
		"round":         2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result domain.CompletionResult
	_ = json.NewDecoder(resp.Body).Decode(&result)
	if result.ActivityID != "matching:animals:2" {
		t.Errorf("expected built activity id, got %q", result.ActivityID)
	}
	if result.XPAwarded != 100 {
		t.Errorf("expected matching tier 100 XP, got %d", result.XPAwarded)
	}
}

func TestCompleteActivity_BadRequest(t *testing.T) {
	ts := testServer(t)

	// Missing activity entirely
	resp := postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
		"activity_kind": "quiz",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty activity, got %d", resp.StatusCode)
	}
}

func TestGrantFreezes_Endpoint(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/players/p1/freezes", map[string]int{"count": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var state domain.StreakState
	_ = json.NewDecoder(resp.Body).Decode(&state)
	if state.StreakFreezes != 2 {
		t.Errorf("expected 2 freezes, got %d", state.StreakFreezes)
	}

	// Non-positive count is rejected
	bad := postJSON(t, ts.URL+"/api/players/p1/freezes", map[string]int{"count": 0})
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for count 0, got %d", bad.StatusCode)
	}
}

func TestStreakAndProgression_Endpoints(t *testing.T) {
	ts := testServer(t)

	postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
		"activity_id":   "reading:page-1:1",
		"activity_kind": "reading",
	})

	var streak domain.StreakState
	getJSON(t, ts.URL+"/api/players/p1/streak", &streak)
	if streak.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", streak.CurrentStreak)
	}

	var prog domain.ProgressionState
	getJSON(t, ts.URL+"/api/players/p1/progression", &prog)
	if prog.Experience != 150 {
		t.Errorf("expected 150 XP, got %d", prog.Experience)
	}
	if prog.GoldBalance != 150 {
		t.Errorf("expected 150 gold, got %d", prog.GoldBalance)
	}
}

func TestWallet_Endpoint(t *testing.T) {
	ts := testServer(t)

	postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
		"activity_id":   "quiz:lesson-1:1",
		"activity_kind": "quiz",
	})

	var body struct {
		PlayerID string               `json:"player_id"`
		Entries  []domain.LedgerEntry `json:"entries"`
	}
	getJSON(t, ts.URL+"/api/players/p1/wallet", &body)
	if len(body.Entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(body.Entries))
	}
	if body.Entries[0].Amount != 50 {
		t.Errorf("expected 50 gold credit, got %d", body.Entries[0].Amount)
	}
}

func TestSummary_Endpoint(t *testing.T) {
	ts := testServer(t)

	for i := 0; i < 2; i++ {
		postJSON(t, ts.URL+"/api/players/p1/completions", map[string]interface{}{
			"activity_id":   fmt.Sprintf("quiz:lesson:%d", i),
			"activity_kind": "quiz",
		})
	}

	var summary completion.Summary
	getJSON(t, ts.URL+"/api/players/p1/summary", &summary)
	if !summary.CompletedToday {
		t.Error("expected completed today")
	}
	if summary.Progression.LifetimeCompletedCount != 2 {
		t.Errorf("expected 2 completions, got %d", summary.Progression.LifetimeCompletedCount)
	}
	if summary.Streak.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", summary.Streak.CurrentStreak)
	}
}
