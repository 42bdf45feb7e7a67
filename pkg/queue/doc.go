// Package queue implements dqp's durable, file-backed queues.
//
// # Overview
//
// A Project scopes a set of named queues to one directory. Each queue is a
// family of append-only segment files named
//
//	<dir>/<queue>.<YYYYMMDDTHHMMSS>
//
// where the timestamp is the start of the rotation boundary the segment
// belongs to. Timestamps are UTC and fixed-width, so lexical order of
// segment names equals write order. A Sink re-derives the same segment name
// for the same boundary across restarts and opens it in append mode, so a
// restart never overwrites a segment. Records are msgpack dictionaries
// concatenated back-to-back.
//
// Read positions are durable: a Source tracks the last (segment, index) it
// yielded and Project.Close persists it to <dir>/.<queue>.checkpoint via an
// atomic temp-file rename. ContinueSource resumes from the record after the
// checkpoint.
//
// API surface
//
//	p, _ := queue.Open(queue.Options{Dir: dir, RotateEvery: 10 * time.Minute})
//	defer p.Close()
//
//	sink, _ := p.OpenSink("orders")
//	_ = sink.WriteDict(map[string]any{"id": 7})
//
//	src, _ := p.ContinueSource("orders")
//	for src.Next() {
//		e := src.Entry()
//		_ = e.Segment // segment filename
//		_ = e.Index   // record index within the segment
//		_ = e.Record
//	}
//	_ = src.Err()
//
//	// Drop fully consumed segments older than the last read position.
//	_ = src.UnlinkConsumed()
//
// Queues assume a single writer per name within a single process; there is
// no cross-process locking. A Source captures the segment list once per
// pass and does not tail segments written after the pass began.
package queue
