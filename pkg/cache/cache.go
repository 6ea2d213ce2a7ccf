// Package cache stores computed layouts so identical requests are served
// without re-running the solver.
//
// Layouts are deterministic for a given set of options and seed, so a layout
// can be cached under a key derived from its options alone. Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [SQLiteCache]: a single SQLite database, for a long-running local server
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [MongoCache]: document store with TTL index
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer]; wrap it with [NewScopedKeyer] to namespace
// keys per tenant or per deployment.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// LayoutTTL is how long a computed layout is kept.
	LayoutTTL = 7 * 24 * time.Hour
)

// Cache is the interface implemented by every storage backend.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout computed with opts.
	LayoutKey(opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the inputs that determine a layout.
type LayoutKeyOpts struct {
	Mode      string  `json:"mode"`
	Count     int     `json:"count"`
	Groups    int     `json:"groups"`
	Columns   int     `json:"columns"`
	MinRadius float64 `json:"min_radius"`
	MaxRadius float64 `json:"max_radius"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ScrollTop float64 `json:"scroll_top"`
	Seed      uint64  `json:"seed"`
}

// keyVersion is bumped whenever the solver's output changes for the same
// inputs, invalidating previously cached layouts.
const keyVersion = "v1"

// DefaultKeyer hashes the layout options into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, opts)
}
