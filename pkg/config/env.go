package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUBBLEPACK_"

// LoadDotenv loads .env files into the process environment without
// overriding variables that are already set. With no arguments it loads
// ./.env. Missing files are ignored.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", p)
		}
	}
	return nil
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings from BUBBLEPACK_* variables found by lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	e.setInt("COUNT", &c.Layout.Count)
	e.setInt("GROUPS", &c.Layout.Groups)
	e.setInt("COLUMNS", &c.Layout.Columns)
	e.setFloat("MIN_RADIUS", &c.Layout.Radius.Min)
	e.setFloat("MAX_RADIUS", &c.Layout.Radius.Max)
	e.setFloat("WIDTH", &c.Layout.Width)
	e.setFloat("HEIGHT", &c.Layout.Height)
	e.setUint("SEED", &c.Layout.Seed)
	e.setDuration("CONVERGE_TIMEOUT", &c.Layout.ConvergeTimeout)

	e.setString("CACHE_BACKEND", &c.Cache.Backend)
	e.setString("CACHE_DIR", &c.Cache.Dir)
	e.setString("CACHE_PATH", &c.Cache.Path)
	e.setString("CACHE_URL", &c.Cache.URL)
	e.setString("CACHE_DATABASE", &c.Cache.Database)
	e.setString("CACHE_COLLECTION", &c.Cache.Collection)
	e.setString("CACHE_PREFIX", &c.Cache.Prefix)

	e.setString("ADDR", &c.Server.Addr)
	e.setDuration("SESSION_TTL", &c.Server.SessionTTL)
	e.setString("LOG_FILE", &c.Server.LogFile)

	return e.err
}

// envReader records the first parse failure and skips later reads.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	return v, ok && v != ""
}

func (e *envReader) fail(name, v string, err error) {
	e.err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, name, v)
}

func (e *envReader) setString(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) setInt(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setUint(name string, dst *uint64) {
	if v, ok := e.get(name); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setFloat(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) setDuration(name string, dst *Duration) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		dst.Duration = d
	}
}
