package queue

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bneijt/dqp/pkg/codec"
)

// Position identifies a single record within a queue: the segment filename
// and the record's index within that segment.
type Position struct {
	Segment string `msgpack:"segment"`
	Index   int64  `msgpack:"index"`
}

// CheckpointStore persists last-read positions, one checkpoint file per
// queue inside the project directory. Saves are atomic: the new checkpoint
// is written to a temp file, synced, then renamed over the old one, so a
// crash mid-save never leaves a truncated checkpoint behind.
type CheckpointStore struct {
	dir string
}

// NewCheckpointStore returns a store writing checkpoints under dir.
func NewCheckpointStore(dir string) *CheckpointStore {
	return &CheckpointStore{dir: dir}
}

func (c *CheckpointStore) path(queue string) string {
	return filepath.Join(c.dir, "."+queue+".checkpoint")
}

// Load returns the stored position for a queue, or ok=false when no
// checkpoint has been saved yet.
func (c *CheckpointStore) Load(queue string) (Position, bool, error) {
	b, err := os.ReadFile(c.path(queue))
	if os.IsNotExist(err) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, fmt.Errorf("read checkpoint for %q: %w", queue, err)
	}
	var pos Position
	if err := codec.Unmarshal(b, &pos); err != nil {
		return Position{}, false, fmt.Errorf("decode checkpoint for %q: %w", queue, err)
	}
	return pos, true, nil
}

// Save overwrites the checkpoint for a queue.
func (c *CheckpointStore) Save(queue string, pos Position) error {
	b, err := codec.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode checkpoint for %q: %w", queue, err)
	}
	final := c.path(queue)
	tmp := final + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write checkpoint for %q: %w", queue, err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write checkpoint for %q: %w", queue, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync checkpoint for %q: %w", queue, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close checkpoint for %q: %w", queue, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename checkpoint for %q: %w", queue, err)
	}
	return nil
}
