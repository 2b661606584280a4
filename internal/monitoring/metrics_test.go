package monitoring

import (
	"errors"
	"testing"

	"asynclog/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ logger.Observer = (*Metrics)(nil)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

type fixedDepth int

func (d fixedDepth) Pending() int { return int(d) }

func TestMetricsObserveLogger(t *testing.T) {
	m := NewMetrics()
	l := logger.New(logger.Sinks{Console: brokenWriter{}}, logger.WithObserver(m))
	m.TrackQueue(l)

	w := l.Start()
	l.Push("one\n")
	l.Push("two\n")
	l.Stop(w)

	snap, err := m.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, 2.0, snap["asynclog_messages_pushed_total"])
	assert.Equal(t, 2.0, snap[`asynclog_messages_written_total{sink="file"}`])
	assert.Equal(t, 2.0, snap[`asynclog_write_failures_total{sink="console"}`])
	assert.Equal(t, 1.0, snap["asynclog_worker_stops_total"])
	assert.Equal(t, 0.0, snap["asynclog_queue_depth"])
}

func TestQueueDepthGauge(t *testing.T) {
	m := NewMetrics()
	m.TrackQueue(fixedDepth(7))

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 7.0, snap["asynclog_queue_depth"])
}

func TestSeparateRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.MessagePushed()

	snapA, err := a.Snapshot()
	require.NoError(t, err)
	snapB, err := b.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, 1.0, snapA["asynclog_messages_pushed_total"])
	assert.Equal(t, 0.0, snapB["asynclog_messages_pushed_total"])
	assert.NotSame(t, a.Registry(), b.Registry())
}
