package monitoring

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of one logger.
type Metrics struct {
	registry *prometheus.Registry

	MessagesPushed  prometheus.Counter
	MessagesWritten *prometheus.CounterVec
	WriteFailures   *prometheus.CounterVec
	WorkerStops     prometheus.Counter
}

// QueueSource reports how many messages are waiting for the worker.
type QueueSource interface {
	Pending() int
}

// NewMetrics creates a metrics collector on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesPushed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "asynclog_messages_pushed_total",
				Help: "Total number of messages handed to the logger",
			},
		),
		MessagesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asynclog_messages_written_total",
				Help: "Total number of messages written, per sink",
			},
			[]string{"sink"},
		),
		WriteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asynclog_write_failures_total",
				Help: "Total number of failed sink writes, per sink",
			},
			[]string{"sink"},
		),
		WorkerStops: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "asynclog_worker_stops_total",
				Help: "Number of times a worker drained and exited",
			},
		),
	}
}

// TrackQueue registers a gauge reading the current queue depth from src.
func (m *Metrics) TrackQueue(src QueueSource) {
	promauto.With(m.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "asynclog_queue_depth",
			Help: "Messages waiting for the worker",
		},
		func() float64 { return float64(src.Pending()) },
	)
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MessagePushed implements logger.Observer.
func (m *Metrics) MessagePushed() {
	m.MessagesPushed.Inc()
}

// MessageWritten implements logger.Observer.
func (m *Metrics) MessageWritten(sink string) {
	m.MessagesWritten.WithLabelValues(sink).Inc()
}

// WriteFailed implements logger.Observer.
func (m *Metrics) WriteFailed(sink string) {
	m.WriteFailures.WithLabelValues(sink).Inc()
}

// WorkerStopped implements logger.Observer.
func (m *Metrics) WorkerStopped() {
	m.WorkerStops.Inc()
}

// Snapshot gathers current values keyed by metric name with labels, e.g.
// `asynclog_messages_written_total{sink="file"}`.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetName()+`="`+lp.GetValue()+`"`)
			}
			key := mf.GetName()
			if len(labels) > 0 {
				sort.Strings(labels)
				key += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			case metric.GetUntyped() != nil:
				out[key] = metric.GetUntyped().GetValue()
			}
		}
	}
	return out, nil
}
