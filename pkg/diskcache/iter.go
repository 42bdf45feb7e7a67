package diskcache

import (
	"fmt"
	"io"
	"os"

	"github.com/bneijt/dqp/pkg/codec"
	"github.com/bneijt/dqp/pkg/log"
)

// replayIter reads a complete cache file back, one value per Next.
type replayIter struct {
	path string
	f    *os.File
	dec  *codec.Decoder
	val  any
	err  error
	done bool
}

func (r *replayIter) Next() bool {
	if r.done {
		return false
	}
	v, err := r.dec.Next()
	if err == io.EOF {
		r.done = true
		return false
	}
	if err != nil {
		r.done = true
		r.err = fmt.Errorf("%w: %w", ErrCacheRead, err)
		// remove the corrupt file so the next pass recomputes
		r.f.Close()
		r.f = nil
		os.Remove(r.path)
		return false
	}
	r.val = v
	return true
}

func (r *replayIter) Value() any { return r.val }
func (r *replayIter) Err() error { return r.err }

func (r *replayIter) Close() error {
	r.done = true
	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	return f.Close()
}

// teeIter drains the producer, yielding each value while appending it to
// the temp cache file. The file is promoted on clean exhaustion only.
type teeIter struct {
	log   log.Logger
	key   string
	src   Iter
	f     *os.File
	enc   *codec.Encoder
	tmp   string
	final string
	val   any
	err   error
	done  bool
}

func (t *teeIter) Next() bool {
	if t.done {
		return false
	}
	if t.src.Next() {
		t.val = t.src.Value()
		if t.f != nil {
			if err := t.enc.Encode(t.val); err != nil {
				t.discard()
				t.log.Warn("cache pass degraded to passthrough",
					log.Str("key", t.key),
					log.Err(fmt.Errorf("%w: %w", ErrCacheWrite, err)))
			}
		}
		return true
	}
	t.done = true
	if err := t.src.Err(); err != nil {
		t.err = err
		t.discard()
		return false
	}
	t.promote()
	return false
}

func (t *teeIter) Value() any { return t.val }

func (t *teeIter) Err() error {
	if t.err != nil {
		return t.err
	}
	return t.src.Err()
}

// Close before exhaustion abandons the pass: the partial temp file must
// never become a complete cache file.
func (t *teeIter) Close() error {
	if !t.done {
		t.done = true
		t.discard()
	}
	return t.src.Close()
}

func (t *teeIter) discard() {
	if t.f == nil {
		return
	}
	t.f.Close()
	os.Remove(t.tmp)
	t.f = nil
}

func (t *teeIter) promote() {
	if t.f == nil {
		return
	}
	f := t.f
	t.f = nil
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(t.tmp)
		t.log.Warn("cache not promoted", log.Str("key", t.key), log.Err(err))
		return
	}
	if err := f.Close(); err != nil {
		os.Remove(t.tmp)
		t.log.Warn("cache not promoted", log.Str("key", t.key), log.Err(err))
		return
	}
	if err := os.Rename(t.tmp, t.final); err != nil {
		os.Remove(t.tmp)
		t.log.Warn("cache not promoted", log.Str("key", t.key), log.Err(err))
	}
}
