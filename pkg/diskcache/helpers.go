package diskcache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bneijt/dqp/pkg/codec"
)

// Key derives a short stable cache key from the given parts. The same parts
// always produce the same key across processes and platforms.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'#'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// FromSlice returns an Iter over the given values, useful as a producer in
// tests and for small fixed sequences.
func FromSlice(values []any) Iter {
	return &sliceIter{values: values}
}

type sliceIter struct {
	values []any
	pos    int
	val    any
}

func (s *sliceIter) Next() bool {
	if s.pos >= len(s.values) {
		return false
	}
	s.val = s.values[s.pos]
	s.pos++
	return true
}

func (s *sliceIter) Value() any   { return s.val }
func (s *sliceIter) Err() error   { return nil }
func (s *sliceIter) Close() error { return nil }

// Drain consumes it completely, returning all values. The iterator is
// closed afterwards.
func Drain(it Iter) ([]any, error) {
	defer it.Close()
	var out []any
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}

// First returns the first value of it, with ok=false for an empty sequence.
// The iterator is closed afterwards.
func First(it Iter) (any, bool, error) {
	defer it.Close()
	if it.Next() {
		return it.Value(), true, nil
	}
	return nil, false, it.Err()
}

// Count consumes it and returns the number of values. As this drains the
// iterator it is mostly useful on cached passes.
func Count(it Iter) (int, error) {
	defer it.Close()
	n := 0
	for it.Next() {
		n++
	}
	return n, it.Err()
}

// Save stores a single value at path, overwriting any previous content.
func Save(path string, v any) error {
	b, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	return nil
}

// Load reads back a single value stored at path. ok is false when the file
// does not exist.
func Load(path string) (any, bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCacheRead, err)
	}
	defer f.Close()
	v, err := codec.NewDecoder(bufio.NewReader(f)).Next()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCacheRead, err)
	}
	return v, true, nil
}
