package cache

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string `toml:"backend" yaml:"backend" json:"backend"`
	Dir        string `toml:"dir" yaml:"dir" json:"dir,omitempty"`                      // file and default sqlite location
	Path       string `toml:"path" yaml:"path" json:"path,omitempty"`                   // sqlite database file
	URL        string `toml:"url" yaml:"url" json:"url,omitempty"`                      // redis or mongo connection string
	Database   string `toml:"database" yaml:"database" json:"database,omitempty"`       // mongo
	Collection string `toml:"collection" yaml:"collection" json:"collection,omitempty"` // mongo
	Prefix     string `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`             // key namespace
}

// Open creates the configured backend and a matching keyer. An empty
// backend name selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, Keyer, error) {
	var keyer Keyer = NewDefaultKeyer()
	if opts.Prefix != "" {
		keyer = NewScopedKeyer(keyer, opts.Prefix)
	}

	c, err := open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return c, keyer, nil
}

func open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			if opts.Dir == "" {
				return nil, fmt.Errorf("sqlite cache requires a path or directory")
			}
			path = filepath.Join(opts.Dir, "layouts.db")
		}
		return NewSQLiteCache(path)
	case BackendRedis:
		return NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		return NewMongoCache(ctx, opts.URL, opts.Database, opts.Collection)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
