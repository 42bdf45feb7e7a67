package queue

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// segmentTimeLayout renders boundary timestamps fixed-width in UTC so that
// lexical order of segment names equals chronological order.
const segmentTimeLayout = "20060102T150405"

var queueNameRe = regexp.MustCompile(`^[a-z0-9-_]{1,64}$`)

func validateName(name string) error {
	if !queueNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// boundaryFor truncates now to the start of its rotation interval.
func boundaryFor(now time.Time, every time.Duration) time.Time {
	return now.UTC().Truncate(every)
}

// segmentName derives the segment filename for a queue and boundary. The
// same boundary always yields the same name, which makes appends after a
// restart land in the existing segment instead of a new one.
func segmentName(queue string, boundary time.Time) string {
	return queue + "." + boundary.UTC().Format(segmentTimeLayout)
}

// isSegment reports whether filename is a segment of the given queue.
// Checkpoint files (dot-prefixed) and in-progress temp files never match.
func isSegment(filename, queue string) bool {
	rest, ok := strings.CutPrefix(filename, queue+".")
	if !ok {
		return false
	}
	_, err := time.Parse(segmentTimeLayout, rest)
	return err == nil
}

// Segments lists the segment filenames of a queue in write order.
func Segments(dir, queue string) ([]string, error) {
	if err := validateName(queue); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list segments for %q: %w", queue, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isSegment(e.Name(), queue) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
