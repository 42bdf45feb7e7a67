package diskcache

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bneijt/dqp/pkg/codec"
	"github.com/bneijt/dqp/pkg/log"
)

var (
	// ErrCacheWrite reports a cache file that could not be created or
	// written. Passes degrade to plain passthrough when this happens.
	ErrCacheWrite = errors.New("cache file not writable")

	// ErrCacheRead reports a corrupt cache file. The file is removed so
	// the next pass recomputes.
	ErrCacheRead = errors.New("cache file corrupt")
)

// Iter is a pull-driven sequence of values.
type Iter interface {
	// Next advances the sequence; it returns false at the end or on error.
	Next() bool
	// Value returns the value produced by the last successful Next.
	Value() any
	// Err returns the first error encountered, if any.
	Err() error
	// Close releases underlying resources. Closing a caching pass before
	// exhaustion discards the partial cache file.
	Close() error
}

// Producer returns a fresh pass over the underlying (expensive) sequence.
type Producer func() Iter

// Observer receives cache hit/miss notifications. The default is a no-op.
type Observer interface {
	CacheHit(key string)
	CacheMiss(key string)
}

type noopObserver struct{}

func (noopObserver) CacheHit(string)  {}
func (noopObserver) CacheMiss(string) {}

// Options configures a Cache.
type Options struct {
	// Dir holds the cache files. Defaults to the OS temp directory.
	Dir string

	// Logger receives degradation warnings. Defaults to a no-op logger.
	Logger log.Logger

	// Observer receives hit/miss notifications. Defaults to a no-op.
	Observer Observer
}

// Cache memoizes one producer's sequence under one key.
type Cache struct {
	dir      string
	key      string
	producer Producer
	log      log.Logger
	obs      Observer
}

// New returns a Cache for key backed by producer.
func New(key string, producer Producer, opts Options) *Cache {
	if opts.Dir == "" {
		opts.Dir = os.TempDir()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	return &Cache{
		dir:      opts.Dir,
		key:      key,
		producer: producer,
		log:      opts.Logger,
		obs:      opts.Observer,
	}
}

// Path returns the cache file backing this key.
func (c *Cache) Path() string {
	return filepath.Join(c.dir, c.key+".cache")
}

// Iter starts a pass: a replay of the complete cache file when one exists,
// otherwise a caching pass over the producer.
func (c *Cache) Iter() Iter {
	final := c.Path()
	f, err := os.Open(final)
	if err == nil {
		c.obs.CacheHit(c.key)
		return &replayIter{path: final, f: f, dec: codec.NewDecoder(bufio.NewReader(f))}
	}
	if !os.IsNotExist(err) {
		c.log.Warn("cache unreadable, recomputing", log.Str("key", c.key), log.Err(err))
	}
	c.obs.CacheMiss(c.key)

	src := c.producer()
	tmp := final + ".tmp"
	w, werr := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if werr != nil {
		c.log.Warn("cache pass degraded to passthrough",
			log.Str("key", c.key),
			log.Err(fmt.Errorf("%w: %w", ErrCacheWrite, werr)))
		return src
	}
	return &teeIter{
		log:   c.log,
		key:   c.key,
		src:   src,
		f:     w,
		enc:   codec.NewEncoder(w),
		tmp:   tmp,
		final: final,
	}
}

// Clear removes the cache file and any in-progress temp file for this key.
// Clearing a key with no cache file is a no-op.
func (c *Cache) Clear() error {
	return Remove(c.dir, c.key)
}

// Remove deletes the cache file and temp file for a key under dir.
func Remove(dir, key string) error {
	final := filepath.Join(dir, key+".cache")
	for _, path := range []string{final, final + ".tmp"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear cache %q: %w", key, err)
		}
	}
	return nil
}
