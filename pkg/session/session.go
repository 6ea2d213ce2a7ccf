// Package session keeps live layout engines for API clients.
//
// An interactive client (a browser page, the watch TUI) creates a session,
// then drives its engine through mode changes, viewport updates and range
// edits across many requests. Engines hold unserialisable state, so sessions
// live in process memory and expire after a period without use.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	e, err := engine.New(opts...)
//	if err != nil {
//	    return err
//	}
//	sess := session.New(e, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeSessionNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/matzehuels/bubblepack/pkg/engine"
)

// Default durations.
const (
	// DefaultTTL is how long a session survives without being used.
	DefaultTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = time.Minute
)

// Session binds an engine to a client.
type Session struct {
	ID        string         `json:"id"`
	Engine    *engine.Engine `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// New creates a session for e. The session ID is the engine's ID.
func New(e *engine.Engine, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        e.ID(),
		Engine:    e,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.expiredAt(time.Now())
}

func (s *Session) expiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID and extends its expiry. Unknown and
	// expired sessions return a SESSION_NOT_FOUND error.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// Cleaner is a Store that can be swept. [RunCleanup] needs only this.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// RunCleanup sweeps expired sessions every interval until ctx is done.
// onSweep, if non-nil, is called after every sweep that removed sessions.
func RunCleanup(ctx context.Context, store Cleaner, interval time.Duration, onSweep func(removed int, err error)) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if onSweep != nil && (n > 0 || err != nil) {
				onSweep(n, err)
			}
		}
	}
}
