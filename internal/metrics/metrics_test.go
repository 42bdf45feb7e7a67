package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bneijt/dqp/pkg/diskcache"
	"github.com/bneijt/dqp/pkg/queue"
)

func TestCollectorImplementsObservers(t *testing.T) {
	var _ queue.Observer = (*Collector)(nil)
	var _ diskcache.Observer = (*Collector)(nil)
}

func TestQueueActivityIsCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	p, err := queue.Open(queue.Options{
		Dir:         t.TempDir(),
		RotateEvery: time.Minute,
		Observer:    c,
	})
	require.NoError(t, err)

	sink, err := p.OpenSink("orders")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, sink.WriteDict(map[string]any{"i": int64(i)}))
	}
	src, err := p.ContinueSource("orders")
	require.NoError(t, err)
	for src.Next() {
	}
	require.NoError(t, src.Err())
	require.NoError(t, p.Close())

	assert.Equal(t, 3.0, testutil.ToFloat64(c.recordsWritten.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.segmentRotations.WithLabelValues("orders")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.recordsRead.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.checkpointSaves.WithLabelValues("orders")))
}

func TestCacheActivityIsCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	cache := diskcache.New("k1", func() diskcache.Iter {
		return diskcache.FromSlice([]any{int64(1)})
	}, diskcache.Options{Dir: t.TempDir(), Observer: c})

	_, err := diskcache.Drain(cache.Iter())
	require.NoError(t, err)
	_, err = diskcache.Drain(cache.Iter())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheMisses.WithLabelValues("k1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("k1")))
}
