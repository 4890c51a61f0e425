package rolemap

import (
	"testing"
	"time"
)

func TestProgramCacheRoundTrip(t *testing.T) {
	cache := NewProgramCache(time.Minute, time.Minute)

	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	cache.Set("expr", 42)
	value, ok := cache.Get("expr")
	if !ok || value != 42 {
		t.Fatalf("expected cached value, got %v %v", value, ok)
	}
}

func TestProgramCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewProgramCache(0, 0)
	cache.Set("expr", "program")

	value, ok := cache.Get("expr")
	if !ok || value != "program" {
		t.Fatalf("expected pinned value, got %v %v", value, ok)
	}
}
