// Package metrics exposes dqp activity as Prometheus metrics.
//
// Collector implements both queue.Observer and diskcache.Observer; wiring
// it into the respective Options is all that is needed to count writes,
// rotations, reads, checkpoint saves and cache hits/misses.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the dqp metric families.
type Collector struct {
	recordsWritten   *prometheus.CounterVec
	segmentRotations *prometheus.CounterVec
	recordsRead      *prometheus.CounterVec
	checkpointSaves  *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_records_written_total",
			Help: "Records appended per queue.",
		}, []string{"queue"}),
		segmentRotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_segment_rotations_total",
			Help: "Segment files opened per queue.",
		}, []string{"queue"}),
		recordsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_records_read_total",
			Help: "Records yielded by sources per queue.",
		}, []string{"queue"}),
		checkpointSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_checkpoint_saves_total",
			Help: "Checkpoints persisted per queue.",
		}, []string{"queue"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_cache_hits_total",
			Help: "Cache passes served from a complete cache file.",
		}, []string{"key"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dqp_cache_misses_total",
			Help: "Cache passes that invoked the producer.",
		}, []string{"key"}),
	}
	reg.MustRegister(
		c.recordsWritten,
		c.segmentRotations,
		c.recordsRead,
		c.checkpointSaves,
		c.cacheHits,
		c.cacheMisses,
	)
	return c
}

// RecordWritten implements queue.Observer.
func (c *Collector) RecordWritten(queue string) {
	c.recordsWritten.WithLabelValues(queue).Inc()
}

// SegmentRotated implements queue.Observer.
func (c *Collector) SegmentRotated(queue, segment string) {
	c.segmentRotations.WithLabelValues(queue).Inc()
}

// RecordRead implements queue.Observer.
func (c *Collector) RecordRead(queue string) {
	c.recordsRead.WithLabelValues(queue).Inc()
}

// CheckpointSaved implements queue.Observer.
func (c *Collector) CheckpointSaved(queue string) {
	c.checkpointSaves.WithLabelValues(queue).Inc()
}

// CacheHit implements diskcache.Observer.
func (c *Collector) CacheHit(key string) {
	c.cacheHits.WithLabelValues(key).Inc()
}

// CacheMiss implements diskcache.Observer.
func (c *Collector) CacheMiss(key string) {
	c.cacheMisses.WithLabelValues(key).Inc()
}
