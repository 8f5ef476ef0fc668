package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(c.Close)

	rc, ok := c.(*RistrettoCache)
	if !ok {
		t.Fatal("expected *RistrettoCache")
	}
	return rc
}

func TestRistrettoCache_SetGet(t *testing.T) {
	c := newTestCache(t)

	if !c.Set("market-1", "value-1", time.Minute) {
		t.Fatal("set failed")
	}
	c.Wait()

	value, found := c.Get("market-1")
	if !found {
		t.Fatal("expected cache hit")
	}
	if value != "value-1" {
		t.Errorf("expected value-1, got %v", value)
	}
}

func TestRistrettoCache_Miss(t *testing.T) {
	c := newTestCache(t)

	if _, found := c.Get("absent"); found {
		t.Error("expected miss for absent key")
	}
}

func TestRistrettoCache_Delete(t *testing.T) {
	c := newTestCache(t)

	c.Set("market-1", "value-1", time.Minute)
	c.Wait()
	c.Delete("market-1")
	c.Wait()

	if _, found := c.Get("market-1"); found {
		t.Error("expected miss after delete")
	}
}

func TestRistrettoCache_TTLExpiry(t *testing.T) {
	c := newTestCache(t)

	c.Set("short", "v", 20*time.Millisecond)
	c.Wait()
	time.Sleep(50 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("expected entry to expire")
	}
}
