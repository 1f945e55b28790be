package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey_HidesURL(t *testing.T) {
	url := "https://api.data.gov.in/resource/abc?api-key=secret&format=json"
	key := Key(url)

	if strings.Contains(key, "secret") {
		t.Error("cache key must not contain URL query values")
	}
	if !strings.HasPrefix(key, "fra-atlas:v1:") {
		t.Errorf("unexpected key prefix: %s", key)
	}
	if key != Key(url) {
		t.Error("key must be deterministic")
	}
	if key == Key(url+"&offset=1") {
		t.Error("different URLs must produce different keys")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("https://example.org/resource/1")
	if _, found := c.Get(key); found {
		t.Fatal("expected miss on empty cache")
	}

	payload := []byte(`{"records":[{"state":"Odisha"}]}`)
	if err := c.Set(key, payload, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: %s", got)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("https://example.org/resource/expired")
	if err := c.Set(key, []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("expired entry should miss")
	}

	// The expired file should have been removed on read.
	if _, found := c.Get(key); found {
		t.Error("expired entry resurfaced")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("https://example.org/resource/corrupt")
	if err := c.Set(key, []byte("ok"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Truncate the file behind the cache's back.
	path := filepath.Join(dir, key+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("corrupt entry should miss")
	}
}

func TestLayeredCache_PromotesDiskHit(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	key := Key("https://example.org/resource/layered")
	if err := layered.Set(key, []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Drop the memory layer only; the disk copy must satisfy the next read.
	if err := layered.memory.Clear(); err != nil {
		t.Fatalf("clear memory: %v", err)
	}

	got, found := layered.Get(key)
	if !found || string(got) != "value" {
		t.Fatalf("expected disk hit, found=%v got=%q", found, got)
	}

	// After promotion the memory layer answers directly.
	if _, found := layered.memory.Get(key); !found {
		t.Error("disk hit was not promoted to memory")
	}
}
