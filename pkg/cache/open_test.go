package cache

import (
	"context"
	"testing"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"default is file", Options{Dir: dir}, "*cache.FileCache", false},
		{"sqlite in dir", Options{Backend: BackendSQLite, Dir: dir}, "*cache.SQLiteCache", false},
		{"none", Options{Backend: BackendNone}, "*cache.NullCache", false},
		{"file without dir", Options{Backend: BackendFile}, "", true},
		{"unknown", Options{Backend: "memcached"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, k, err := Open(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Open() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open() backend = %s, want %s", got, tt.want)
			}
			if k == nil {
				t.Error("Open() returned nil keyer")
			}
		})
	}
}

func TestOpenPrefix(t *testing.T) {
	c, k, err := Open(context.Background(), Options{Backend: BackendNone, Prefix: "p:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := k.(*ScopedKeyer); !ok {
		t.Errorf("keyer = %T, want *ScopedKeyer", k)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *FileCache:
		return "*cache.FileCache"
	case *SQLiteCache:
		return "*cache.SQLiteCache"
	case *NullCache:
		return "*cache.NullCache"
	}
	return "unknown"
}
