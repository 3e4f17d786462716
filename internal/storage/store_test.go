package storage

import (
	"path/filepath"
	"testing"

	"coinsage/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(coin string) *models.Result {
	conf := 0.6
	return &models.Result{
		Coin:          coin,
		TradeDate:     "2025-06-01",
		FinalDecision: "Hold",
		TraderProfile: models.TraderNewBuyer,
		Horizon:       models.HorizonShortTerm,
		Confidence:    &conf,
		FinalReason:   "New entry not advised.",
		RiskNotes:     "New buyers advised to Hold.",
	}
}

func TestStoreSaveAndRecent(t *testing.T) {
	store := testStore(t)

	for _, coin := range []string{"bitcoin", "ethereum", "solana"} {
		if err := store.Save(sampleResult(coin)); err != nil {
			t.Fatalf("Save(%s): %v", coin, err)
		}
	}

	entries, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Coin != "solana" || entries[1].Coin != "ethereum" {
		t.Errorf("entries out of order: %s, %s", entries[0].Coin, entries[1].Coin)
	}
	if entries[0].Confidence == nil || *entries[0].Confidence != 0.6 {
		t.Errorf("confidence = %v", entries[0].Confidence)
	}
}

func TestStoreGetRoundTrips(t *testing.T) {
	store := testStore(t)

	if err := store.Save(sampleResult("bitcoin")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	result, err := store.Get(entries[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if result.Coin != "bitcoin" || result.FinalDecision != "Hold" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := testStore(t)
	if _, err := store.Get(99); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
