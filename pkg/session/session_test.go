package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.WithCount(5), engine.WithGroups(1))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	sess := New(newEngine(t), time.Minute)

	if sess.ID != sess.Engine.ID() {
		t.Errorf("session ID %q differs from engine ID %q", sess.ID, sess.Engine.ID())
	}
	if err := s.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Engine != sess.Engine {
		t.Error("Get returned a different engine")
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after Delete error = %v, want SESSION_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Errorf("Delete of missing session error = %v", err)
	}
}

func TestMemoryStoreSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	sess := New(newEngine(t), 10*time.Minute)
	sess.ExpiresAt = now.Add(10 * time.Minute)
	if err := s.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	now = now.Add(8 * time.Minute)
	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}
	if want := now.Add(10 * time.Minute); !got.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want)
	}

	now = now.Add(8 * time.Minute)
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Errorf("Get after extension: %v", err)
	}

	now = now.Add(11 * time.Minute)
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after expiry error = %v, want SESSION_NOT_FOUND", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired session kept, Len = %d", s.Len())
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	e := newEngine(t)
	for i, ttl := range []time.Duration{time.Second, time.Hour, time.Second} {
		sess := &Session{ID: fmt.Sprintf("s%d", i), Engine: e, CreatedAt: now, ExpiresAt: now.Add(ttl)}
		if err := s.Set(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	now = now.Add(time.Minute)
	n, err := s.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || s.Len() != 1 {
		t.Errorf("Cleanup removed %d, %d left; want 2 removed, 1 left", n, s.Len())
	}
}

func TestMemoryStoreLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	e := newEngine(t)
	exp := time.Now().Add(time.Hour)
	for i := range MaxSessions {
		if err := s.Set(ctx, &Session{ID: fmt.Sprint(i), Engine: e, ExpiresAt: exp}); err != nil {
			t.Fatalf("Set %d: %v", i, err)
		}
	}
	err := s.Set(ctx, &Session{ID: "overflow", Engine: e, ExpiresAt: exp})
	if !errors.Is(err, errors.ErrCodeSessionLimit) {
		t.Errorf("Set past limit error = %v, want SESSION_LIMIT", err)
	}
	if err := s.Set(ctx, &Session{ID: "0", Engine: e, ExpiresAt: exp}); err != nil {
		t.Errorf("replacing an existing session at the limit: %v", err)
	}
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) Cleanup(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestRunCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countingCleaner{}
	swept := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, c, time.Millisecond, func(n int, err error) {
			select {
			case swept <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		if n != 1 {
			t.Errorf("onSweep removed = %d, want 1", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no sweep within 5s")
	}
	cancel()
	<-done
}
