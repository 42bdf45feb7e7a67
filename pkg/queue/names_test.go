package queue

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestSegmentNamesSortInWriteOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var names []string
	for i := 0; i < 5; i++ {
		names = append(names, segmentName("orders", base.Add(time.Duration(i)*time.Minute)))
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("segment names not sorted in write order: %v", names)
	}
}

func TestBoundaryForTruncatesToInterval(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 7, 42, 123, time.UTC)
	b := boundaryFor(now, 5*time.Minute)
	want := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)
	if !b.Equal(want) {
		t.Fatalf("boundaryFor = %v, want %v", b, want)
	}
	// same boundary for any instant inside the interval
	if !b.Equal(boundaryFor(now.Add(2*time.Minute), 5*time.Minute)) {
		t.Fatalf("instants within one interval must share a boundary")
	}
}

func TestIsSegmentIgnoresForeignFiles(t *testing.T) {
	seg := segmentName("orders", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	if !isSegment(seg, "orders") {
		t.Fatalf("expected %q to be a segment of orders", seg)
	}
	for _, name := range []string{
		".orders.checkpoint",
		".orders.checkpoint.tmp",
		"orders.notatimestamp",
		"orders_backup.20240501T100000",
		seg + ".tmp",
	} {
		if isSegment(name, "orders") {
			t.Fatalf("%q must not be treated as a segment of orders", name)
		}
	}
	// a segment of a different queue with a shared prefix
	if isSegment(segmentName("orders-eu", time.Now()), "orders") {
		t.Fatalf("segments of orders-eu must not match orders")
	}
}

func TestSegmentsListsOnlyOwnQueueSorted(t *testing.T) {
	dir := t.TempDir()
	ts := []time.Time{
		time.Date(2024, 5, 1, 10, 2, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC),
	}
	for _, b := range ts {
		touch(t, filepath.Join(dir, segmentName("orders", b)))
	}
	touch(t, filepath.Join(dir, segmentName("other", ts[0])))
	touch(t, filepath.Join(dir, ".orders.checkpoint"))

	names, err := Segments(dir, "orders")
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("want 3 segments, got %v", names)
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("segments not sorted: %v", names)
	}
}

func TestSegmentsRejectsBadName(t *testing.T) {
	if _, err := Segments(t.TempDir(), "No Spaces Allowed"); err == nil {
		t.Fatalf("expected ErrBadName")
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}
