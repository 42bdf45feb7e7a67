package queue

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bneijt/dqp/pkg/log"
)

// DefaultRotateEvery is the rotation interval used when Options.RotateEvery
// is zero.
const DefaultRotateEvery = 10 * time.Minute

// Options configures a Project. Dir is required; everything else has a
// default.
type Options struct {
	// Dir is the project directory. Created if absent.
	Dir string

	// RotateEvery is the rotation boundary interval for sinks.
	RotateEvery time.Duration

	// SyncEveryWrite fsyncs the segment after every record instead of only
	// on rotate and close.
	SyncEveryWrite bool

	// Clock overrides the wall clock, used by rotation tests.
	Clock func() time.Time

	// Logger receives debug/warn output. Defaults to a no-op logger.
	Logger log.Logger

	// Observer receives activity notifications. Defaults to a no-op.
	Observer Observer
}

// Project scopes named queues and their checkpoints to one directory. It is
// a scoped resource: Close persists the read position of every source it
// handed out and flushes every open sink, so the next process run can pick
// up exactly where this one left off.
type Project struct {
	dir         string
	opts        Options
	checkpoints *CheckpointStore
	log         log.Logger
	obs         Observer

	sinks   []*Sink
	sources []trackedSource
	closed  bool
}

type trackedSource struct {
	queue string
	src   *Source
}

// Open creates the project directory if needed and returns a Project.
func Open(opts Options) (*Project, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDirectory)
	}
	if opts.RotateEvery <= 0 {
		opts.RotateEvery = DefaultRotateEvery
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	return &Project{
		dir:         opts.Dir,
		opts:        opts,
		checkpoints: NewCheckpointStore(opts.Dir),
		log:         opts.Logger,
		obs:         opts.Observer,
	}, nil
}

// Dir returns the project directory.
func (p *Project) Dir() string {
	return p.dir
}

// OpenSink returns an append-only writer for the named queue. Opening a
// sink for an existing queue appends to it.
func (p *Project) OpenSink(name string) (*Sink, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	s := &Sink{
		dir:      p.dir,
		queue:    name,
		every:    p.opts.RotateEvery,
		syncEach: p.opts.SyncEveryWrite,
		clock:    p.opts.Clock,
		obs:      p.obs,
		log:      p.log,
	}
	p.sinks = append(p.sinks, s)
	return s, nil
}

// OpenSource returns a reader positioned at the very first record of the
// named queue, ignoring any checkpoint.
func (p *Project) OpenSource(name string) (*Source, error) {
	return p.source(name, nil)
}

// ContinueSource returns a reader resuming right after the queue's saved
// checkpoint. Without a checkpoint it behaves like OpenSource.
func (p *Project) ContinueSource(name string) (*Source, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	pos, ok, err := p.checkpoints.Load(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return p.source(name, nil)
	}
	return p.source(name, &Position{Segment: pos.Segment, Index: pos.Index + 1})
}

func (p *Project) source(name string, start *Position) (*Source, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	src := &Source{
		dir:   p.dir,
		queue: name,
		start: start,
		obs:   p.obs,
		log:   p.log,
	}
	p.sources = append(p.sources, trackedSource{queue: name, src: src})
	return src, nil
}

// Checkpoints exposes the project's checkpoint store.
func (p *Project) Checkpoints() *CheckpointStore {
	return p.checkpoints
}

// Close saves the current position of every source that yielded records,
// then closes all sources and sinks. Checkpoint save failures propagate: a
// silently lost checkpoint would cause silent reprocessing on the next run.
// Close runs every step even when earlier ones fail and returns the joined
// errors. Closing twice is a no-op.
func (p *Project) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, t := range p.sources {
		if pos, ok := t.src.Position(); ok {
			if err := p.checkpoints.Save(t.queue, pos); err != nil {
				errs = append(errs, err)
			} else {
				p.obs.CheckpointSaved(t.queue)
				p.log.Debug("checkpoint saved",
					log.Str("queue", t.queue),
					log.Str("segment", pos.Segment),
					log.Int64("index", pos.Index))
			}
		}
		if err := t.src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
