package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "layouts.db")

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v2" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening applies no new migrations and keeps the data.
	c, err = NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry lost after reopen")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry present after Delete")
	}
}

func TestSQLiteCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "layouts.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "short", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Hour)

	n, err := c.Cleanup(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Cleanup() = %d, %v, want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry hit")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}
