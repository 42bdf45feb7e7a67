package queue

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestProject(t *testing.T, clock *fakeClock) *Project {
	t.Helper()
	opts := Options{Dir: t.TempDir(), RotateEvery: time.Minute}
	if clock != nil {
		opts.Clock = clock.Now
	}
	p, err := Open(opts)
	if err != nil {
		t.Fatalf("open project: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestWritesWithinBoundaryShareASegment(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 10, 0, time.UTC)}
	p := newTestProject(t, clock)
	sink, err := p.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	if err := sink.WriteDict(map[string]any{"n": int64(1)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	first := sink.Segment()
	clock.now = clock.now.Add(40 * time.Second) // still inside the minute
	if err := sink.WriteDict(map[string]any{"n": int64(2)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if sink.Segment() != first {
		t.Fatalf("rotation inside one boundary: %q -> %q", first, sink.Segment())
	}

	names, err := Segments(p.Dir(), "orders")
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("want one segment, got %v", names)
	}
}

func TestWritesStraddlingBoundaryRotate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 55, 0, time.UTC)}
	p := newTestProject(t, clock)
	sink, err := p.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	if err := sink.WriteDict(map[string]any{"n": int64(1)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	first := sink.Segment()
	clock.now = clock.now.Add(10 * time.Second) // crosses into the next minute
	if err := sink.WriteDict(map[string]any{"n": int64(2)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := sink.Segment()
	if first == second {
		t.Fatalf("expected rotation across the boundary")
	}
	if !(first < second) {
		t.Fatalf("segment names must sort in write order: %q then %q", first, second)
	}
}

func TestRestartWithinBoundaryAppendsToSameSegment(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 10, 0, time.UTC)}

	open := func() *Project {
		p, err := Open(Options{Dir: dir, RotateEvery: time.Minute, Clock: clock.Now})
		if err != nil {
			t.Fatalf("open project: %v", err)
		}
		return p
	}

	p1 := open()
	sink1, err := p1.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	if err := sink1.WriteDict(map[string]any{"n": int64(1)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := p1.Close(); err != nil {
		t.Fatalf("close project: %v", err)
	}

	// simulated restart inside the same rotation boundary
	clock.now = clock.now.Add(5 * time.Second)
	p2 := open()
	defer p2.Close()
	sink2, err := p2.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	if err := sink2.WriteDict(map[string]any{"n": int64(2)}); err != nil {
		t.Fatalf("write: %v", err)
	}

	names, err := Segments(dir, "orders")
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("restart must append to the same segment, got %v", names)
	}

	src, err := p2.OpenSource("orders")
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	var got []int64
	for src.Next() {
		got = append(got, src.Entry().Record["n"].(int64))
	}
	if err := src.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("want [1 2], got %v", got)
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	p := newTestProject(t, nil)
	sink, err := p.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	if err := sink.WriteDict(map[string]any{"n": int64(1)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
	if err := sink.WriteDict(map[string]any{"n": int64(2)}); !errors.Is(err, ErrSinkClosed) {
		t.Fatalf("want ErrSinkClosed, got %v", err)
	}
}

func TestEmptySegmentIsDroppedOnClose(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	p := newTestProject(t, clock)
	sink, err := p.OpenSink("orders")
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	// no writes at all: nothing to create, nothing to drop
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	names, err := Segments(p.Dir(), "orders")
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no segments, got %v", names)
	}
}
