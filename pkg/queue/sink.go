package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bneijt/dqp/pkg/codec"
	"github.com/bneijt/dqp/pkg/log"
)

// Sink is the append-only writer for one queue. The segment file is opened
// lazily on the first write and rotated whenever the wall clock crosses a
// rotation boundary; the boundary is re-checked on every write. Writes to a
// closed Sink fail with ErrSinkClosed.
//
// Sinks are not safe for concurrent use.
type Sink struct {
	dir      string
	queue    string
	every    time.Duration
	syncEach bool
	clock    func() time.Time
	obs      Observer
	log      log.Logger

	file     *os.File
	enc      *codec.Encoder
	segment  string
	boundary time.Time
	closed   bool
}

// WriteDict encodes record and appends it to the current segment, rotating
// to a new segment first if the rotation boundary has been crossed.
func (s *Sink) WriteDict(record map[string]any) error {
	if s.closed {
		return ErrSinkClosed
	}
	b := boundaryFor(s.clock(), s.every)
	if s.file == nil || !b.Equal(s.boundary) {
		if err := s.rotate(b); err != nil {
			return err
		}
	}
	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("append to %s: %w", s.segment, err)
	}
	if s.syncEach {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", s.segment, err)
		}
	}
	s.obs.RecordWritten(s.queue)
	return nil
}

// Segment returns the filename of the currently open segment, or "" when no
// write has happened since the last rotation or close.
func (s *Sink) Segment() string {
	return s.segment
}

// Close flushes and releases the current segment. Closing twice is a no-op.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeSegment()
}

func (s *Sink) rotate(boundary time.Time) error {
	if err := s.closeSegment(); err != nil {
		return err
	}
	name := segmentName(s.queue, boundary)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open segment %s: %w", name, err)
	}
	s.file = f
	s.enc = codec.NewEncoder(f)
	s.segment = name
	s.boundary = boundary
	s.obs.SegmentRotated(s.queue, name)
	s.log.Debug("opened segment", log.Str("queue", s.queue), log.Str("segment", name))
	return nil
}

// closeSegment syncs and closes the open segment, dropping it when it ended
// up empty so readers never see zero-record segments.
func (s *Sink) closeSegment() error {
	if s.file == nil {
		return nil
	}
	f, segment := s.file, s.segment
	s.file = nil
	s.enc = nil
	s.segment = ""

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", segment, err)
	}
	info, statErr := f.Stat()
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", segment, err)
	}
	if statErr == nil && info.Size() == 0 {
		if err := os.Remove(filepath.Join(s.dir, segment)); err != nil {
			return fmt.Errorf("drop empty segment %s: %w", segment, err)
		}
		s.log.Debug("dropped empty segment", log.Str("queue", s.queue), log.Str("segment", segment))
	}
	return nil
}
