package queue

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bneijt/dqp/pkg/codec"
	"github.com/bneijt/dqp/pkg/log"
)

// Entry is one record yielded by a Source, together with the segment it was
// read from and its index within that segment.
type Entry struct {
	Segment string
	Index   int64
	Record  map[string]any
}

// Source reads a queue's segments in write order. It follows the scanner
// idiom:
//
//	for src.Next() {
//		e := src.Entry()
//	}
//	if err := src.Err(); err != nil { ... }
//
// The segment list is captured on the first call to Next; segments written
// after that are not picked up until Reset. An exhausted Source keeps
// returning false from Next and never re-yields records.
//
// Sources are not safe for concurrent use.
type Source struct {
	dir   string
	queue string
	start *Position // first record to yield, nil means the very beginning
	obs   Observer
	log   log.Logger

	segments []string
	pos      int
	file     *os.File
	dec      *codec.Decoder
	segment  string
	next     int64
	skip     int64
	entry    Entry
	last     *Position
	err      error
	done     bool
	started  bool
}

// Next advances to the next record. It returns false when the pass is
// exhausted or an error occurred; distinguish via Err.
func (s *Source) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if !s.started {
		if err := s.list(); err != nil {
			s.err = err
			return false
		}
		s.started = true
	}
	for {
		if s.file == nil {
			if s.pos >= len(s.segments) {
				s.done = true
				return false
			}
			name := s.segments[s.pos]
			f, err := os.Open(filepath.Join(s.dir, name))
			if err != nil {
				s.err = fmt.Errorf("open segment %s: %w", name, err)
				return false
			}
			s.file = f
			s.dec = codec.NewDecoder(bufio.NewReader(f))
			s.segment = name
			s.next = 0
		}
		record, err := s.dec.NextDict()
		if err == io.EOF {
			s.file.Close()
			s.file = nil
			s.pos++
			// A resume index can point past the end of the checkpointed
			// segment; it never carries over into the next one.
			s.skip = 0
			continue
		}
		if err != nil {
			s.err = fmt.Errorf("decode %s: %w", s.segment, err)
			return false
		}
		idx := s.next
		s.next++
		if s.skip > 0 {
			s.skip--
			continue
		}
		s.entry = Entry{Segment: s.segment, Index: idx, Record: record}
		s.last = &Position{Segment: s.segment, Index: idx}
		s.obs.RecordRead(s.queue)
		return true
	}
}

// Entry returns the record yielded by the last successful Next.
func (s *Source) Entry() Entry {
	return s.entry
}

// Err returns the first error encountered during iteration, if any.
func (s *Source) Err() error {
	return s.err
}

// Position returns the position of the most recently yielded record.
// ok is false when nothing has been yielded yet.
func (s *Source) Position() (Position, bool) {
	if s.last == nil {
		return Position{}, false
	}
	return *s.last, true
}

// Reset discards all pass state and restarts from the configured start
// position, re-listing segments on the next call to Next.
func (s *Source) Reset() {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.dec = nil
	s.segments = nil
	s.pos = 0
	s.segment = ""
	s.next = 0
	s.skip = 0
	s.last = nil
	s.err = nil
	s.done = false
	s.started = false
}

// Close releases the open segment file, if any. The Source yields nothing
// afterwards.
func (s *Source) Close() error {
	s.done = true
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Close()
}

// UnlinkTo deletes fully consumed segments: every segment that sorts before
// the first one matching the given name or name prefix. The matching
// segment itself is kept, so a partially consumed segment is never removed.
func (s *Source) UnlinkTo(upTo string) error {
	names, err := Segments(s.dir, s.queue)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCleanup, err)
	}
	found := false
	for _, n := range names {
		if strings.HasPrefix(n, upTo) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: segment %q not found in queue %q", ErrCleanup, upTo, s.queue)
	}
	for _, n := range names {
		if strings.HasPrefix(n, upTo) {
			break
		}
		if err := os.Remove(filepath.Join(s.dir, n)); err != nil {
			return fmt.Errorf("%w: unlink %s: %w", ErrCleanup, n, err)
		}
		s.log.Debug("unlinked segment", log.Str("queue", s.queue), log.Str("segment", n))
	}
	return nil
}

// UnlinkConsumed deletes every segment before the one holding the most
// recently yielded record. It fails when nothing has been yielded yet.
func (s *Source) UnlinkConsumed() error {
	if s.last == nil {
		return fmt.Errorf("%w: no records read yet from queue %q", ErrCleanup, s.queue)
	}
	return s.UnlinkTo(s.last.Segment)
}

// list captures the segment files for this pass and positions the pass at
// the configured start. When the checkpointed segment no longer exists
// (cleaned up), the pass resumes from the earliest remaining segment.
func (s *Source) list() error {
	names, err := Segments(s.dir, s.queue)
	if err != nil {
		return err
	}
	if s.start != nil {
		for len(names) > 0 && names[0] < s.start.Segment {
			names = names[1:]
		}
		if len(names) > 0 && names[0] == s.start.Segment {
			s.skip = s.start.Index
		}
	}
	s.segments = names
	return nil
}
