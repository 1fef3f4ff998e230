package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()

	c.Set("k", "v", time.Minute)
	got, ok := c.Get("k")
	if !ok || got.(string) != "v" {
		t.Errorf("expected hit with v, got %v/%v", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := New()

	c.Set("k", "v", -time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to read as a miss")
	}
}

func TestCleanupRemovesExpired(t *testing.T) {
	c := New()

	c.Set("stale", 1, -time.Second)
	c.Set("fresh", 2, time.Minute)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("expected one entry after cleanup, got %d", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("cleanup must keep unexpired entries")
	}
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("article", "https://example.com/1")
	b := Key("article", "https://example.com/1")
	other := Key("article", "https://example.com/2")

	if a != b {
		t.Error("same parts must hash to the same key")
	}
	if a == other {
		t.Error("different parts must hash to different keys")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256 key, got %d chars", len(a))
	}
}

func TestOverwriteRefreshesTTL(t *testing.T) {
	c := New()

	c.Set("k", 1, -time.Second)
	c.Set("k", 2, time.Minute)

	got, ok := c.Get("k")
	if !ok || got.(int) != 2 {
		t.Errorf("expected refreshed entry 2, got %v/%v", got, ok)
	}
}
