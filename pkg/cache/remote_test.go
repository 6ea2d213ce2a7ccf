package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Remote backends are exercised only when a server is available:
//
//	BUBBLEPACK_TEST_REDIS_URL=redis://localhost:6379/15 go test ./pkg/cache
//	BUBBLEPACK_TEST_MONGO_URL=mongodb://localhost:27017 go test ./pkg/cache

func TestRedisCache(t *testing.T) {
	url := os.Getenv("BUBBLEPACK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BUBBLEPACK_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	url := os.Getenv("BUBBLEPACK_TEST_MONGO_URL")
	if url == "" {
		t.Skip("BUBBLEPACK_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	c, err := NewMongoCache(ctx, url, "bubblepack_test", "layout_cache")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + t.Name()

	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry present after Delete")
	}
}
