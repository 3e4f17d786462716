package dataflows

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir(), time.Hour, true)

	value := map[string]string{"coin": "bitcoin"}
	if err := cache.Set("coingecko", "fundamentals", "bitcoin", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got map[string]string
	if !cache.Get("coingecko", "fundamentals", "bitcoin", &got) {
		t.Fatal("expected cache hit")
	}
	if got["coin"] != "bitcoin" {
		t.Errorf("got %v, want coin=bitcoin", got)
	}
}

func TestCacheMissOnDifferentParams(t *testing.T) {
	cache := NewCache(t.TempDir(), time.Hour, true)

	if err := cache.Set("coingecko", "fundamentals", "bitcoin", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if cache.Get("coingecko", "fundamentals", "ethereum", &got) {
		t.Error("expected cache miss for different params")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(t.TempDir(), time.Nanosecond, true)

	if err := cache.Set("reddit", "search", "bitcoin", "posts"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if cache.Get("reddit", "search", "bitcoin", &got) {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCache(t.TempDir(), time.Hour, false)

	if err := cache.Set("coingecko", "fundamentals", "bitcoin", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if cache.Get("coingecko", "fundamentals", "bitcoin", &got) {
		t.Error("disabled cache must never hit")
	}
}
