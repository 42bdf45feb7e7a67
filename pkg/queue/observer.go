package queue

// Observer receives notifications about queue activity. The default
// implementation is a no-op; metrics collectors can set Options.Observer
// to count writes, rotations, reads and checkpoint saves.
type Observer interface {
	RecordWritten(queue string)
	SegmentRotated(queue, segment string)
	RecordRead(queue string)
	CheckpointSaved(queue string)
}

type noopObserver struct{}

func (noopObserver) RecordWritten(string)          {}
func (noopObserver) SegmentRotated(string, string) {}
func (noopObserver) RecordRead(string)             {}
func (noopObserver) CheckpointSaved(string)        {}
