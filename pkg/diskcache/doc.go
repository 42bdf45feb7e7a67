// Package diskcache memoizes lazily produced sequences of values to disk.
//
// # Overview
//
// A Cache wraps a producer of values under a deterministic key. The first
// pass drains the producer, yielding each value to the caller while also
// appending it to <dir>/<key>.cache.tmp; only when the producer is cleanly
// exhausted is the file promoted to <dir>/<key>.cache by an atomic rename.
// Later passes replay the complete cache file instead of invoking the
// producer, each pass starting from the beginning.
//
// Caching is strictly an optimization: when the cache file cannot be
// created or written, the pass degrades to a plain passthrough of the
// producer, and a corrupt cache file is removed and recomputed on the next
// pass. An interrupted first pass (producer error or early Close) discards
// the partial temp file, so a truncated sequence is never replayed.
//
//	c := diskcache.New(diskcache.Key("report", "2024-05"), produce, diskcache.Options{Dir: dir})
//	it := c.Iter()
//	for it.Next() {
//		v := it.Value()
//		_ = v
//	}
//	if err := it.Err(); err != nil { ... }
//	_ = it.Close()
//
// A Cache is not safe for concurrent or reentrant use: only one pass may be
// in flight per key, and the first pass must finish (or be discarded)
// before the cache file can be trusted.
package diskcache
